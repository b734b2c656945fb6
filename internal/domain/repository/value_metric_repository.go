// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"newsroom-ai-api/internal/domain/entity"
)

// ValueMetricSummary 价值指标汇总
type ValueMetricSummary struct {
	TotalRuns           int64   `json:"total_runs"`
	TotalSavedMinutes   float64 `json:"total_saved_minutes"`
	TotalSavedCost      float64 `json:"total_saved_cost"`
	TotalGenerationCost float64 `json:"total_generation_cost"`
	AverageROIPercent   float64 `json:"average_roi_percent"`
}

// ValueMetricRepository 价值指标仓储接口
type ValueMetricRepository interface {
	Create(ctx context.Context, metric *entity.ValueMetric) error
	Update(ctx context.Context, metric *entity.ValueMetric) error
	// GetRecentByArticle 查找同一文章在 since 之后创建的最近一条指标，用于去重
	GetRecentByArticle(ctx context.Context, articleID string, since time.Time) (*entity.ValueMetric, error)
	ListByArticle(ctx context.Context, articleID string) ([]*entity.ValueMetric, error)
	Summary(ctx context.Context) (*ValueMetricSummary, error)
}
