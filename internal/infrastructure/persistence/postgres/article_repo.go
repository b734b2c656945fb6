// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// ArticleRepository 文章仓储实现
type ArticleRepository struct {
	client *Client
}

// NewArticleRepository 创建文章仓储
func NewArticleRepository(client *Client) *ArticleRepository {
	return &ArticleRepository{client: client}
}

// Create 创建文章
func (r *ArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(article).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取文章，预加载栏目及其模板/风格片段
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var article entity.Article
	err := db.
		Preload("Section").
		Preload("Section.Template").
		Preload("Section.Template.Fragments").
		Preload("Section.Style").
		Preload("Section.Style.Fragments").
		First(&article, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// Update 更新文章
func (r *ArticleRepository) Update(ctx context.Context, article *entity.Article) error {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(article).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update article: %w", err)
	}
	return nil
}

// Delete 删除文章（状态置为 deleted）
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Model(&entity.Article{}).
		Where("id = ?", id).
		Update("status", entity.ArticleStatusDeleted).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

// List 获取文章列表
func (r *ArticleRepository) List(ctx context.Context, filter *repository.ArticleFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Article], error) {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Article{})

	if filter != nil {
		if filter.SectionID != "" {
			query = query.Where("section_id = ?", filter.SectionID)
		}
		if filter.ProjectID != "" {
			query = query.Where("project_id = ?", filter.ProjectID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		} else {
			query = query.Where("status <> ?", entity.ArticleStatusDeleted)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	var articles []*entity.Article
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&articles).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return repository.NewPagedResult(articles, total, pagination), nil
}
