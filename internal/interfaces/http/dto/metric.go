package dto

import (
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// MetricResponse 价值指标响应
type MetricResponse struct {
	ID                string  `json:"id"`
	ArticleID         *string `json:"article_id,omitempty"`
	SessionID         *string `json:"session_id,omitempty"`
	GenerationSeconds float64 `json:"generation_seconds"`
	ManualMinutes     float64 `json:"manual_minutes"`
	SavedMinutes      float64 `json:"saved_minutes"`
	TokensTotal       int     `json:"tokens_total"`
	GenerationCost    float64 `json:"generation_cost"`
	ManualCost        float64 `json:"manual_cost"`
	SavedCost         float64 `json:"saved_cost"`
	ChannelCount      int     `json:"channel_count"`
	WordsPerSecond    float64 `json:"words_per_second"`
	ModelUsed         string  `json:"model_used"`
	ArticleType       string  `json:"article_type"`
	Complexity        string  `json:"complexity"`
	ROIPercent        float64 `json:"roi_percent"`
}

// MetricSummaryResponse 指标汇总响应
type MetricSummaryResponse struct {
	TotalRuns           int64   `json:"total_runs"`
	TotalSavedMinutes   float64 `json:"total_saved_minutes"`
	TotalSavedCost      float64 `json:"total_saved_cost"`
	TotalGenerationCost float64 `json:"total_generation_cost"`
	AverageROIPercent   float64 `json:"average_roi_percent"`
}

// FromMetric 由实体构造响应
func FromMetric(m *entity.ValueMetric) *MetricResponse {
	if m == nil {
		return nil
	}
	return &MetricResponse{
		ID:                m.ID,
		ArticleID:         m.ArticleID,
		SessionID:         m.SessionID,
		GenerationSeconds: m.GenerationSeconds,
		ManualMinutes:     m.ManualMinutes,
		SavedMinutes:      m.SavedMinutes,
		TokensTotal:       m.TokensTotal,
		GenerationCost:    m.GenerationCost,
		ManualCost:        m.ManualCost,
		SavedCost:         m.SavedCost,
		ChannelCount:      m.ChannelCount,
		WordsPerSecond:    m.WordsPerSecond,
		ModelUsed:         m.ModelUsed,
		ArticleType:       string(m.ArticleType),
		Complexity:        string(m.Complexity),
		ROIPercent:        m.ROIPercent,
	}
}

// FromMetrics 批量转换
func FromMetrics(items []*entity.ValueMetric) []*MetricResponse {
	out := make([]*MetricResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMetric(m))
	}
	return out
}

// FromMetricSummary 由仓储汇总构造响应
func FromMetricSummary(s *repository.ValueMetricSummary) *MetricSummaryResponse {
	return &MetricSummaryResponse{
		TotalRuns:           s.TotalRuns,
		TotalSavedMinutes:   s.TotalSavedMinutes,
		TotalSavedCost:      s.TotalSavedCost,
		TotalGenerationCost: s.TotalGenerationCost,
		AverageROIPercent:   s.AverageROIPercent,
	}
}
