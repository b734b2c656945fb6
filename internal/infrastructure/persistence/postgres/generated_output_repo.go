// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
)

// GeneratedOutputRepository 生成结果仓储实现
type GeneratedOutputRepository struct {
	client *Client
}

// NewGeneratedOutputRepository 创建生成结果仓储
func NewGeneratedOutputRepository(client *Client) *GeneratedOutputRepository {
	return &GeneratedOutputRepository{client: client}
}

// Create 创建生成结果
func (r *GeneratedOutputRepository) Create(ctx context.Context, output *entity.GeneratedOutput) error {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(output).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generated output: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取生成结果
func (r *GeneratedOutputRepository) GetByID(ctx context.Context, id string) (*entity.GeneratedOutput, error) {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var output entity.GeneratedOutput
	if err := db.First(&output, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generated output: %w", err)
	}
	return &output, nil
}

// GetByArticleAndChannel 查找 (文章, 渠道) 对应的既有记录
func (r *GeneratedOutputRepository) GetByArticleAndChannel(ctx context.Context, articleID, channelID string) (*entity.GeneratedOutput, error) {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.GetByArticleAndChannel")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var output entity.GeneratedOutput
	err := db.Where("article_id = ? AND channel_id = ?", articleID, channelID).
		First(&output).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generated output by pair: %w", err)
	}
	return &output, nil
}

// Update 更新生成结果（重新生成路径原地更新）
func (r *GeneratedOutputRepository) Update(ctx context.Context, output *entity.GeneratedOutput) error {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(output).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update generated output: %w", err)
	}
	return nil
}

// Delete 删除生成结果
func (r *GeneratedOutputRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.GeneratedOutput{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete generated output: %w", err)
	}
	return nil
}

// ListByArticle 获取文章的全部生成结果
func (r *GeneratedOutputRepository) ListByArticle(ctx context.Context, articleID string) ([]*entity.GeneratedOutput, error) {
	ctx, span := tracer.Start(ctx, "postgres.GeneratedOutputRepository.ListByArticle")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var outputs []*entity.GeneratedOutput
	if err := db.Where("article_id = ?", articleID).
		Order("generated_at DESC").
		Find(&outputs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generated outputs: %w", err)
	}
	return outputs, nil
}
