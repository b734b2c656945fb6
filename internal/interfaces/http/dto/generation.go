// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"newsroom-ai-api/internal/application/generation"
	"newsroom-ai-api/internal/domain/entity"
)

// GenerateChannelRequest 单渠道生成请求
type GenerateChannelRequest struct {
	ArticleID   string `json:"article_id" binding:"required,uuid"`
	ChannelID   string `json:"channel_id" binding:"required,uuid"`
	LLMConfigID string `json:"llm_config_id,omitempty" binding:"omitempty,uuid"`
	TemplateID  string `json:"template_id,omitempty" binding:"omitempty,uuid"`
	StyleID     string `json:"style_id,omitempty" binding:"omitempty,uuid"`
	Regenerate  bool   `json:"regenerate,omitempty"`
}

// GenerateChannelsRequest 批量生成请求
type GenerateChannelsRequest struct {
	ArticleID   string   `json:"article_id" binding:"required,uuid"`
	ChannelIDs  []string `json:"channel_ids" binding:"required,min=1,dive,uuid"`
	LLMConfigID string   `json:"llm_config_id,omitempty" binding:"omitempty,uuid"`
	Regenerate  bool     `json:"regenerate,omitempty"`
}

// DraftArticle 预览生成使用的未持久化草稿
type DraftArticle struct {
	Title     string `json:"title" binding:"required,max=500"`
	Body      string `json:"body" binding:"required"`
	Author    string `json:"author,omitempty" binding:"max=200"`
	SectionID string `json:"section_id" binding:"required,uuid"`
}

// GeneratePreviewRequest 预览生成请求
type GeneratePreviewRequest struct {
	Draft       DraftArticle `json:"draft" binding:"required"`
	ChannelIDs  []string     `json:"channel_ids" binding:"required,min=1,dive,uuid"`
	LLMConfigID string       `json:"llm_config_id,omitempty" binding:"omitempty,uuid"`
}

// OutputResponse 生成结果响应
type OutputResponse struct {
	ID          string `json:"id"`
	ArticleID   string `json:"article_id"`
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	TokensUsed  int    `json:"tokens_used"`
	LatencyMs   int64  `json:"latency_ms"`
	Simulated   bool   `json:"simulated"`
	GeneratedAt string `json:"generated_at"`
}

// BatchGenerationResponse 批量生成响应
type BatchGenerationResponse struct {
	Results     []OutputResponse          `json:"results"`
	Errors      []generation.ChannelError `json:"errors"`
	TotalTokens int                       `json:"total_tokens"`
	TotalTimeMs int64                     `json:"total_time_ms"`
}

// PreviewGenerationResponse 预览生成响应
type PreviewGenerationResponse struct {
	Results     []generation.PreviewResult `json:"results"`
	Errors      []generation.ChannelError  `json:"errors"`
	ValueMetric *MetricResponse            `json:"value_metric,omitempty"`
}

// FromOutput 由实体构造响应
func FromOutput(output *entity.GeneratedOutput) OutputResponse {
	return OutputResponse{
		ID:          output.ID,
		ArticleID:   output.ArticleID,
		ChannelID:   output.ChannelID,
		Title:       output.Title,
		Content:     output.Content,
		TokensUsed:  output.TokensUsed,
		LatencyMs:   output.LatencyMs,
		Simulated:   output.Simulated,
		GeneratedAt: output.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromOutputs 批量转换
func FromOutputs(outputs []*entity.GeneratedOutput) []OutputResponse {
	out := make([]OutputResponse, 0, len(outputs))
	for _, o := range outputs {
		out = append(out, FromOutput(o))
	}
	return out
}
