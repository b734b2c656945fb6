package handler

import (
	"github.com/gin-gonic/gin"

	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/internal/interfaces/http/dto"
)

// MetricHandler 价值指标处理器
type MetricHandler struct {
	metrics repository.ValueMetricRepository
}

// NewMetricHandler 创建指标处理器
func NewMetricHandler(metrics repository.ValueMetricRepository) *MetricHandler {
	return &MetricHandler{metrics: metrics}
}

// ListByArticle 列出文章的价值指标
// @Summary 列出文章价值指标
// @Tags Metrics
// @Produce json
// @Param aid path string true "文章 ID"
// @Success 200 {object} dto.Response[[]dto.MetricResponse]
// @Router /v1/metrics/articles/{aid} [get]
func (h *MetricHandler) ListByArticle(c *gin.Context) {
	items, err := h.metrics.ListByArticle(c.Request.Context(), c.Param("aid"))
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	dto.Success(c, dto.FromMetrics(items))
}

// Summary 全局指标汇总
// @Summary 价值指标汇总
// @Tags Metrics
// @Produce json
// @Success 200 {object} dto.Response[dto.MetricSummaryResponse]
// @Router /v1/metrics/summary [get]
func (h *MetricHandler) Summary(c *gin.Context) {
	summary, err := h.metrics.Summary(c.Request.Context())
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	dto.Success(c, dto.FromMetricSummary(summary))
}
