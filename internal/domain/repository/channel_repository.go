// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"newsroom-ai-api/internal/domain/entity"
)

// ChannelRepository 输出渠道仓储接口
type ChannelRepository interface {
	Create(ctx context.Context, channel *entity.OutputChannel) error
	GetByID(ctx context.Context, id string) (*entity.OutputChannel, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.OutputChannel, error)
	Update(ctx context.Context, channel *entity.OutputChannel) error
	ListActive(ctx context.Context) ([]*entity.OutputChannel, error)
}
