// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
)

// LLMConfigRepository LLM 配置仓储实现
type LLMConfigRepository struct {
	client *Client
}

// NewLLMConfigRepository 创建 LLM 配置仓储
func NewLLMConfigRepository(client *Client) *LLMConfigRepository {
	return &LLMConfigRepository{client: client}
}

// Create 创建配置
func (r *LLMConfigRepository) Create(ctx context.Context, cfg *entity.LLMConfig) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(cfg).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm config: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取配置
func (r *LLMConfigRepository) GetByID(ctx context.Context, id string) (*entity.LLMConfig, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var cfg entity.LLMConfig
	if err := db.First(&cfg, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get llm config: %w", err)
	}
	return &cfg, nil
}

// GetDefault 获取默认活跃配置（最近更新优先）
func (r *LLMConfigRepository) GetDefault(ctx context.Context) (*entity.LLMConfig, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.GetDefault")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var cfg entity.LLMConfig
	err := db.Where("active = ?", true).Order("updated_at DESC").First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get default llm config: %w", err)
	}
	return &cfg, nil
}

// Update 更新配置
func (r *LLMConfigRepository) Update(ctx context.Context, cfg *entity.LLMConfig) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(cfg).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update llm config: %w", err)
	}
	return nil
}

// Deactivate 软停用配置
func (r *LLMConfigRepository) Deactivate(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.Deactivate")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Model(&entity.LLMConfig{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to deactivate llm config: %w", err)
	}
	return nil
}

// AddTokensUsed 累加当日 token 用量
func (r *LLMConfigRepository) AddTokensUsed(ctx context.Context, id string, tokens int) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.AddTokensUsed")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Model(&entity.LLMConfig{}).
		Where("id = ?", id).
		Update("tokens_used_today", gorm.Expr("tokens_used_today + ?", tokens)).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to add tokens used: %w", err)
	}
	return nil
}

// ListActive 获取活跃配置列表
func (r *LLMConfigRepository) ListActive(ctx context.Context) ([]*entity.LLMConfig, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMConfigRepository.ListActive")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var configs []*entity.LLMConfig
	if err := db.Where("active = ?", true).Order("name ASC").Find(&configs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list llm configs: %w", err)
	}
	return configs, nil
}
