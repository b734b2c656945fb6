// Package valuemetric 计算并持久化生成运行的时间/成本/ROI 估算
package valuemetric

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/pkg/logger"
	"newsroom-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("application.valuemetric")

// promptTokenShare 总 token 中按输入侧计价的比例，其余为输出侧
const promptTokenShare = 0.7

// completionRateMultiplier 输出 token 相对费率表的计价倍数
const completionRateMultiplier = 2.0

// manualMinutesTable 人工撰写耗时查找表（分钟/渠道），按文章类型 × 复杂度
var manualMinutesTable = map[entity.ArticleType]map[entity.Complexity]float64{
	entity.ArticleTypeBreaking: {entity.ComplexityLow: 30, entity.ComplexityMedium: 45, entity.ComplexityHigh: 60},
	entity.ArticleTypeStandard: {entity.ComplexityLow: 45, entity.ComplexityMedium: 60, entity.ComplexityHigh: 90},
	entity.ArticleTypeFeature:  {entity.ComplexityLow: 90, entity.ComplexityMedium: 120, entity.ComplexityHigh: 180},
	entity.ArticleTypeAnalysis: {entity.ComplexityLow: 120, entity.ComplexityMedium: 180, entity.ComplexityHigh: 240},
}

// Run 一次生成运行的原始观测值
type Run struct {
	// ArticleID 已持久化文章的 ID，预览运行时为空
	ArticleID *string
	// SessionID 预览运行的会话标识
	SessionID *string
	Duration  time.Duration
	// TokensTotal 本次运行消耗的总 token 数
	TokensTotal int
	// ChannelCount 本次运行覆盖的渠道数
	ChannelCount int
	// CombinedText 所有渠道生成文本的拼接，用于字速统计
	CombinedText string
	ModelUsed    string
	// SourceWords 源文正文词数，用于复杂度分类
	SourceWords int
	// ArticleType 为空时按 standard 处理
	ArticleType entity.ArticleType
}

// Engine 价值指标引擎
// 同一文章在去重窗口内的重复运行原地更新既有行
type Engine struct {
	repo repository.ValueMetricRepository
	cfg  *config.GenerationConfig
}

// NewEngine 创建指标引擎
func NewEngine(repo repository.ValueMetricRepository, cfg *config.GenerationConfig) *Engine {
	return &Engine{repo: repo, cfg: cfg}
}

// Record 计算并持久化一次运行的价值指标
// 计算或持久化失败只记日志，不影响生成结果本身
func (e *Engine) Record(ctx context.Context, run Run) *entity.ValueMetric {
	ctx, span := tracer.Start(ctx, "valuemetric.Engine.Record")
	defer span.End()

	metric := e.compute(run)
	span.SetAttributes(
		attribute.Float64("valuemetric.roi_percent", metric.ROIPercent),
		attribute.Int("valuemetric.tokens_total", metric.TokensTotal),
	)

	if e.repo == nil {
		return metric
	}

	mode := "insert"
	if run.ArticleID != nil {
		since := time.Now().Add(-e.cfg.MetricDedupWindow)
		recent, err := e.repo.GetRecentByArticle(ctx, *run.ArticleID, since)
		if err != nil {
			logger.Warn(ctx, "value metric dedup lookup failed", "article_id", *run.ArticleID, "error", err.Error())
		}
		if recent != nil {
			applyTo(recent, metric)
			if err := e.repo.Update(ctx, recent); err != nil {
				logger.Warn(ctx, "value metric update failed", "metric_id", recent.ID, "error", err.Error())
				return metric
			}
			metrics.ValueMetricRecorded.WithLabelValues("update").Inc()
			return recent
		}
	} else if run.SessionID != nil {
		mode = "preview"
	}

	if err := e.repo.Create(ctx, metric); err != nil {
		logger.Warn(ctx, "value metric insert failed", "error", err.Error())
		return metric
	}
	metrics.ValueMetricRecorded.WithLabelValues(mode).Inc()
	return metric
}

// compute 由原始观测值推导指标行
func (e *Engine) compute(run Run) *entity.ValueMetric {
	articleType := run.ArticleType
	if articleType == "" {
		articleType = entity.ArticleTypeStandard
	}
	complexity := classifyComplexity(run.SourceWords)

	channelCount := run.ChannelCount
	if channelCount < 1 {
		channelCount = 1
	}

	manualMinutes := manualMinutesTable[articleType][complexity] * float64(channelCount)
	manualCost := manualMinutes / 60 * e.cfg.HourlyRateUSD

	rate, ok := e.cfg.ModelRates[run.ModelUsed]
	if !ok {
		rate = e.cfg.DefaultTokenRatePer1K
	}
	promptTokens := float64(run.TokensTotal) * promptTokenShare
	completionTokens := float64(run.TokensTotal) * (1 - promptTokenShare)
	generationCost := promptTokens/1000*rate + completionTokens/1000*rate*completionRateMultiplier

	seconds := run.Duration.Seconds()
	wordsPerSecond := 0.0
	if seconds > 0 {
		wordsPerSecond = float64(len(strings.Fields(run.CombinedText))) / seconds
	}

	roi := e.cfg.ROICapPercent
	if generationCost > 0 {
		roi = (manualCost - generationCost) / generationCost * 100
		if roi > e.cfg.ROICapPercent {
			roi = e.cfg.ROICapPercent
		}
	}

	return &entity.ValueMetric{
		ArticleID:         run.ArticleID,
		SessionID:         run.SessionID,
		GenerationSeconds: seconds,
		ManualMinutes:     manualMinutes,
		SavedMinutes:      manualMinutes - seconds/60,
		TokensTotal:       run.TokensTotal,
		GenerationCost:    generationCost,
		ManualCost:        manualCost,
		SavedCost:         manualCost - generationCost,
		ChannelCount:      channelCount,
		WordsPerSecond:    wordsPerSecond,
		ModelUsed:         run.ModelUsed,
		ArticleType:       articleType,
		Complexity:        complexity,
		ROIPercent:        roi,
	}
}

// classifyComplexity 按源文词数划分复杂度
func classifyComplexity(words int) entity.Complexity {
	switch {
	case words < 300:
		return entity.ComplexityLow
	case words < 800:
		return entity.ComplexityMedium
	default:
		return entity.ComplexityHigh
	}
}

// applyTo 将新计算的指标覆写到既有行上
func applyTo(existing *entity.ValueMetric, computed *entity.ValueMetric) {
	existing.GenerationSeconds = computed.GenerationSeconds
	existing.ManualMinutes = computed.ManualMinutes
	existing.SavedMinutes = computed.SavedMinutes
	existing.TokensTotal = computed.TokensTotal
	existing.GenerationCost = computed.GenerationCost
	existing.ManualCost = computed.ManualCost
	existing.SavedCost = computed.SavedCost
	existing.ChannelCount = computed.ChannelCount
	existing.WordsPerSecond = computed.WordsPerSecond
	existing.ModelUsed = computed.ModelUsed
	existing.ArticleType = computed.ArticleType
	existing.Complexity = computed.Complexity
	existing.ROIPercent = computed.ROIPercent
	existing.UpdatedAt = time.Now()
}
