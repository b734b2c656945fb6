// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
)

// ChannelRepository 输出渠道仓储实现
type ChannelRepository struct {
	client *Client
}

// NewChannelRepository 创建输出渠道仓储
func NewChannelRepository(client *Client) *ChannelRepository {
	return &ChannelRepository{client: client}
}

// Create 创建渠道
func (r *ChannelRepository) Create(ctx context.Context, channel *entity.OutputChannel) error {
	ctx, span := tracer.Start(ctx, "postgres.ChannelRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(channel).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取渠道
func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*entity.OutputChannel, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChannelRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var channel entity.OutputChannel
	if err := db.First(&channel, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return &channel, nil
}

// GetByIDs 批量获取渠道，保持入参顺序
func (r *ChannelRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.OutputChannel, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChannelRepository.GetByIDs")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var channels []*entity.OutputChannel
	if err := db.Where("id IN ?", ids).Find(&channels).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get channels: %w", err)
	}

	byID := make(map[string]*entity.OutputChannel, len(channels))
	for _, ch := range channels {
		byID[ch.ID] = ch
	}
	ordered := make([]*entity.OutputChannel, 0, len(ids))
	for _, id := range ids {
		if ch, ok := byID[id]; ok {
			ordered = append(ordered, ch)
		}
	}
	return ordered, nil
}

// Update 更新渠道
func (r *ChannelRepository) Update(ctx context.Context, channel *entity.OutputChannel) error {
	ctx, span := tracer.Start(ctx, "postgres.ChannelRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(channel).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

// ListActive 获取活跃渠道列表
func (r *ChannelRepository) ListActive(ctx context.Context) ([]*entity.OutputChannel, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChannelRepository.ListActive")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var channels []*entity.OutputChannel
	if err := db.Where("active = ?", true).Order("name ASC").Find(&channels).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}
