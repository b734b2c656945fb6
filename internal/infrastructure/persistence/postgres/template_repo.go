// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// TemplateRepository 模板仓储实现
type TemplateRepository struct {
	client *Client
}

// NewTemplateRepository 创建模板仓储
func NewTemplateRepository(client *Client) *TemplateRepository {
	return &TemplateRepository{client: client}
}

// Create 创建模板（级联创建片段）
func (r *TemplateRepository) Create(ctx context.Context, template *entity.Template) error {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(template).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取模板，片段按序预加载
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*entity.Template, error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var template entity.Template
	err := db.Preload("Fragments", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&template, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// Update 更新模板
func (r *TemplateRepository) Update(ctx context.Context, template *entity.Template) error {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(template).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// List 获取模板列表
func (r *TemplateRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Template], error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Template{}).Where("active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	var templates []*entity.Template
	if err := query.Order("name ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&templates).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return repository.NewPagedResult(templates, total, pagination), nil
}
