// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"newsroom-ai-api/internal/domain/entity"
)

// TemplateRepository 模板仓储接口
type TemplateRepository interface {
	Create(ctx context.Context, template *entity.Template) error
	// GetByID 根据 ID 获取模板，预加载有序片段
	GetByID(ctx context.Context, id string) (*entity.Template, error)
	Update(ctx context.Context, template *entity.Template) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Template], error)
}

// StyleRepository 风格仓储接口
type StyleRepository interface {
	Create(ctx context.Context, style *entity.Style) error
	// GetByID 根据 ID 获取风格，预加载有序片段
	GetByID(ctx context.Context, id string) (*entity.Style, error)
	Update(ctx context.Context, style *entity.Style) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Style], error)
}

// SectionRepository 栏目仓储接口
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id string) (*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Section], error)
}
