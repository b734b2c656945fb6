// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// ValueMetricRepository 价值指标仓储实现
type ValueMetricRepository struct {
	client *Client
}

// NewValueMetricRepository 创建价值指标仓储
func NewValueMetricRepository(client *Client) *ValueMetricRepository {
	return &ValueMetricRepository{client: client}
}

// Create 创建指标
func (r *ValueMetricRepository) Create(ctx context.Context, metric *entity.ValueMetric) error {
	ctx, span := tracer.Start(ctx, "postgres.ValueMetricRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(metric).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create value metric: %w", err)
	}
	return nil
}

// Update 更新指标（去重路径原地更新）
func (r *ValueMetricRepository) Update(ctx context.Context, metric *entity.ValueMetric) error {
	ctx, span := tracer.Start(ctx, "postgres.ValueMetricRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(metric).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update value metric: %w", err)
	}
	return nil
}

// GetRecentByArticle 查找同一文章在 since 之后创建的最近一条指标
func (r *ValueMetricRepository) GetRecentByArticle(ctx context.Context, articleID string, since time.Time) (*entity.ValueMetric, error) {
	ctx, span := tracer.Start(ctx, "postgres.ValueMetricRepository.GetRecentByArticle")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var metric entity.ValueMetric
	err := db.Where("article_id = ? AND created_at >= ?", articleID, since).
		Order("created_at DESC").
		First(&metric).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get recent value metric: %w", err)
	}
	return &metric, nil
}

// ListByArticle 获取文章的全部指标
func (r *ValueMetricRepository) ListByArticle(ctx context.Context, articleID string) ([]*entity.ValueMetric, error) {
	ctx, span := tracer.Start(ctx, "postgres.ValueMetricRepository.ListByArticle")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var metrics []*entity.ValueMetric
	if err := db.Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&metrics).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list value metrics: %w", err)
	}
	return metrics, nil
}

// Summary 计算全局指标汇总
func (r *ValueMetricRepository) Summary(ctx context.Context) (*repository.ValueMetricSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.ValueMetricRepository.Summary")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summary repository.ValueMetricSummary
	err := db.Model(&entity.ValueMetric{}).
		Select(`COUNT(*) AS total_runs,
			COALESCE(SUM(saved_minutes), 0) AS total_saved_minutes,
			COALESCE(SUM(saved_cost), 0) AS total_saved_cost,
			COALESCE(SUM(generation_cost), 0) AS total_generation_cost,
			COALESCE(AVG(roi_percent), 0) AS average_roi_percent`).
		Scan(&summary).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to summarize value metrics: %w", err)
	}
	return &summary, nil
}
