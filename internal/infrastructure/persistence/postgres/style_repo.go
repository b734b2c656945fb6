// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// StyleRepository 风格仓储实现
type StyleRepository struct {
	client *Client
}

// NewStyleRepository 创建风格仓储
func NewStyleRepository(client *Client) *StyleRepository {
	return &StyleRepository{client: client}
}

// Create 创建风格（级联创建片段）
func (r *StyleRepository) Create(ctx context.Context, style *entity.Style) error {
	ctx, span := tracer.Start(ctx, "postgres.StyleRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(style).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create style: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取风格，片段按序预加载
func (r *StyleRepository) GetByID(ctx context.Context, id string) (*entity.Style, error) {
	ctx, span := tracer.Start(ctx, "postgres.StyleRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var style entity.Style
	err := db.Preload("Fragments", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&style, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get style: %w", err)
	}
	return &style, nil
}

// Update 更新风格
func (r *StyleRepository) Update(ctx context.Context, style *entity.Style) error {
	ctx, span := tracer.Start(ctx, "postgres.StyleRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(style).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update style: %w", err)
	}
	return nil
}

// List 获取风格列表
func (r *StyleRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Style], error) {
	ctx, span := tracer.Start(ctx, "postgres.StyleRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Style{}).Where("active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count styles: %w", err)
	}

	var styles []*entity.Style
	if err := query.Order("name ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&styles).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list styles: %w", err)
	}

	return repository.NewPagedResult(styles, total, pagination), nil
}
