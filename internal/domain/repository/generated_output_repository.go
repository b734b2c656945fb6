// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"newsroom-ai-api/internal/domain/entity"
)

// GeneratedOutputRepository 生成结果仓储接口
// (文章, 渠道) 唯一性通过先查后写加原地更新保证，重新生成路径是一次 upsert
type GeneratedOutputRepository interface {
	Create(ctx context.Context, output *entity.GeneratedOutput) error
	GetByID(ctx context.Context, id string) (*entity.GeneratedOutput, error)
	// GetByArticleAndChannel 查找 (文章, 渠道) 对应的既有记录，不存在时返回 nil
	GetByArticleAndChannel(ctx context.Context, articleID, channelID string) (*entity.GeneratedOutput, error)
	Update(ctx context.Context, output *entity.GeneratedOutput) error
	Delete(ctx context.Context, id string) error
	ListByArticle(ctx context.Context, articleID string) ([]*entity.GeneratedOutput, error)
}
