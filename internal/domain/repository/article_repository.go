// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"newsroom-ai-api/internal/domain/entity"
)

// ArticleFilter 文章列表过滤条件
type ArticleFilter struct {
	SectionID string
	ProjectID string
	Status    entity.ArticleStatus
}

// ArticleRepository 文章仓储接口
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	// GetByID 根据 ID 获取文章，预加载所属栏目及其模板/风格
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *ArticleFilter, pagination Pagination) (*PagedResult[*entity.Article], error)
}
