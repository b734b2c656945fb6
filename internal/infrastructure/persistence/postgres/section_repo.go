// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// SectionRepository 栏目仓储实现
type SectionRepository struct {
	client *Client
}

// NewSectionRepository 创建栏目仓储
func NewSectionRepository(client *Client) *SectionRepository {
	return &SectionRepository{client: client}
}

// Create 创建栏目
func (r *SectionRepository) Create(ctx context.Context, section *entity.Section) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(section).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取栏目，预加载模板与风格及其片段
func (r *SectionRepository) GetByID(ctx context.Context, id string) (*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var section entity.Section
	err := db.
		Preload("Template").
		Preload("Template.Fragments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Style").
		Preload("Style.Fragments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&section, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &section, nil
}

// Update 更新栏目
func (r *SectionRepository) Update(ctx context.Context, section *entity.Section) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(section).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update section: %w", err)
	}
	return nil
}

// List 获取栏目列表
func (r *SectionRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Section], error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Section{}).Where("active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count sections: %w", err)
	}

	var sections []*entity.Section
	if err := query.Order("name ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&sections).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	return repository.NewPagedResult(sections, total, pagination), nil
}
