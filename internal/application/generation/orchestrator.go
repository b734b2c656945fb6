package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"newsroom-ai-api/internal/application/valuemetric"
	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/internal/infrastructure/llm"
	"newsroom-ai-api/pkg/logger"
	"newsroom-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("application.generation")

// placeholderContent 修复无可用内容的历史行时写入的占位正文
const placeholderContent = "Automatic placeholder: the previous generation result was unusable and should be regenerated."

// channelTokenBudget 各渠道类型的生成 token 预算
var channelTokenBudget = map[entity.ChannelKind]int{
	entity.ChannelKindPrint:   2000,
	entity.ChannelKindDigital: 1500,
	entity.ChannelKindSocial:  500,
	entity.ChannelKindEmail:   1000,
	entity.ChannelKindPodcast: 2500,
}

const defaultTokenBudget = 1500

// channelInstructions 各渠道类型的系统提示补充
var channelInstructions = map[entity.ChannelKind]string{
	entity.ChannelKindPrint:   "Write in a formal register suitable for a printed newspaper. Use full paragraphs and avoid web-specific phrasing.",
	entity.ChannelKindDigital: "Write for online reading: short paragraphs, descriptive subheadings where natural, front-load the key facts.",
	entity.ChannelKindSocial:  "Write a short, punchy post that fits social media. Lead with the hook and keep it self-contained.",
	entity.ChannelKindEmail:   "Write as a newsletter item: a warm, direct tone addressed to a subscriber, with a clear takeaway.",
	entity.ChannelKindPodcast: "Write a spoken-word script: conversational sentences meant to be read aloud, no visual formatting.",
}

// LLMGateway 生成调用网关
type LLMGateway interface {
	Generate(ctx context.Context, cfg *entity.LLMConfig, req *llm.Request) (*llm.Result, error)
}

// MetricRecorder 价值指标记录器
type MetricRecorder interface {
	Record(ctx context.Context, run valuemetric.Run) *entity.ValueMetric
}

// OutputCacheInvalidator 文章相关缓存失效
type OutputCacheInvalidator interface {
	InvalidateArticle(ctx context.Context, articleID string) error
}

// GenerateOptions 单渠道生成的可选参数
type GenerateOptions struct {
	// Template 显式指定模板，否则继承自文章所属栏目
	Template *entity.Template
	// Style 显式指定风格，否则继承自文章所属栏目
	Style *entity.Style
	// Regenerate 为 true 时重跑完整流程并原地更新既有行
	Regenerate bool
}

// ChannelError 批量生成中单个渠道的失败记录
type ChannelError struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name,omitempty"`
	Error       string `json:"error"`
}

// BatchResult 批量生成结果，部分成功是预期形态
type BatchResult struct {
	Results     []*entity.GeneratedOutput `json:"results"`
	Errors      []ChannelError            `json:"errors"`
	TotalTokens int                       `json:"total_tokens"`
	TotalTimeMs int64                     `json:"total_time_ms"`
}

// PreviewResult 预览生成结果，与持久化结果同形但永不落库
type PreviewResult struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	TokensUsed  int    `json:"tokens_used"`
	LatencyMs   int64  `json:"latency_ms"`
	Simulated   bool   `json:"simulated"`
	Temporary   bool   `json:"temporary"`
}

// PreviewOutcome 预览生成的整体结果
type PreviewOutcome struct {
	Results     []PreviewResult     `json:"results"`
	Errors      []ChannelError      `json:"errors"`
	ValueMetric *entity.ValueMetric `json:"value_metric,omitempty"`
}

// Orchestrator 按 (文章, 渠道) 协调完整生成流程
// 持久化路径保证每个组合至多一行未删除记录
type Orchestrator struct {
	outputs  repository.GeneratedOutputRepository
	gateway  LLMGateway
	recorder MetricRecorder
	cache    OutputCacheInvalidator

	resolver *TemplateResolver
	applier  *StyleApplier
	merger   *ConfigMerger
	post     *PostProcessor
	parser   *ResponseParser

	cfg *config.GenerationConfig
}

// NewOrchestrator 创建生成协调器
func NewOrchestrator(
	outputs repository.GeneratedOutputRepository,
	gateway LLMGateway,
	recorder MetricRecorder,
	cache OutputCacheInvalidator,
	settings *config.RuntimeSettings,
	cfg *config.GenerationConfig,
) *Orchestrator {
	return &Orchestrator{
		outputs:  outputs,
		gateway:  gateway,
		recorder: recorder,
		cache:    cache,
		resolver: NewTemplateResolver(settings),
		applier:  NewStyleApplier(settings),
		merger:   NewConfigMerger(),
		post:     NewPostProcessor(),
		parser:   NewResponseParser(),
		cfg:      cfg,
	}
}

// GenerateForChannel 为单个渠道生成并持久化一条输出
// regenerate=false 且已有可用行时直接返回既有行
func (o *Orchestrator) GenerateForChannel(ctx context.Context, article *entity.Article, channel *entity.OutputChannel, llmCfg *entity.LLMConfig, opts GenerateOptions) (*entity.GeneratedOutput, error) {
	ctx, span := tracer.Start(ctx, "generation.Orchestrator.GenerateForChannel")
	span.SetAttributes(
		attribute.String("article.id", article.ID),
		attribute.String("channel.id", channel.ID),
		attribute.Bool("generation.regenerate", opts.Regenerate),
	)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.ArticleIDKey, article.ID)
	ctx = logger.WithContext(ctx, logger.ChannelIDKey, channel.ID)

	start := time.Now()
	output, err := o.generateOne(ctx, article, channel, llmCfg, opts.Template, opts.Style, opts.Regenerate, true)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	o.recordRunMetric(ctx, &article.ID, nil, time.Since(start), output.TokensUsed, 1, output.Content, llmCfg.ModelID, article)
	return output, nil
}

// GenerateMany 为多个渠道顺序生成
// 单渠道失败进入错误列表，不中断其余渠道
func (o *Orchestrator) GenerateMany(ctx context.Context, article *entity.Article, channels []*entity.OutputChannel, llmCfg *entity.LLMConfig, regenerate bool) (*BatchResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Orchestrator.GenerateMany")
	span.SetAttributes(
		attribute.String("article.id", article.ID),
		attribute.Int("generation.channel_count", len(channels)),
	)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.ArticleIDKey, article.ID)

	start := time.Now()
	batch := &BatchResult{
		Results: make([]*entity.GeneratedOutput, 0, len(channels)),
		Errors:  make([]ChannelError, 0),
	}

	totalTokens := 0
	var combined strings.Builder
	for _, channel := range channels {
		output, err := o.generateOne(ctx, article, channel, llmCfg, nil, nil, regenerate, true)
		if err != nil {
			logger.Warn(ctx, "channel generation failed", "channel_id", channel.ID, "error", err.Error())
			batch.Errors = append(batch.Errors, ChannelError{ChannelID: channel.ID, ChannelName: channel.Name, Error: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, output)
		totalTokens += output.TokensUsed
		combined.WriteString(output.Content)
		combined.WriteString("\n")
	}

	batch.TotalTokens = totalTokens
	batch.TotalTimeMs = time.Since(start).Milliseconds()

	if len(batch.Results) > 0 {
		o.recordRunMetric(ctx, &article.ID, nil, time.Since(start), totalTokens, len(batch.Results), combined.String(), llmCfg.ModelID, article)
	}
	return batch, nil
}

// GeneratePreview 为未持久化的草稿生成，永不写入输出行
// 栏目缺少风格是硬失败，仅有模板不足以预览
func (o *Orchestrator) GeneratePreview(ctx context.Context, draft *entity.Article, channels []*entity.OutputChannel, llmCfg *entity.LLMConfig) (*PreviewOutcome, error) {
	ctx, span := tracer.Start(ctx, "generation.Orchestrator.GeneratePreview")
	span.SetAttributes(attribute.Int("generation.channel_count", len(channels)))
	defer span.End()

	style := sectionStyle(draft)
	if style == nil {
		span.RecordError(ErrNoStyle)
		return nil, ErrNoStyle
	}
	tpl := sectionTemplate(draft)
	if tpl == nil {
		span.RecordError(ErrNoTemplate)
		return nil, ErrNoTemplate
	}

	start := time.Now()
	outcome := &PreviewOutcome{
		Results: make([]PreviewResult, 0, len(channels)),
		Errors:  make([]ChannelError, 0),
	}

	totalTokens := 0
	var combined strings.Builder
	for _, channel := range channels {
		output, err := o.generateOne(ctx, draft, channel, llmCfg, tpl, style, false, false)
		if err != nil {
			metrics.PreviewGenerationTotal.WithLabelValues("error").Inc()
			outcome.Errors = append(outcome.Errors, ChannelError{ChannelID: channel.ID, ChannelName: channel.Name, Error: err.Error()})
			continue
		}
		metrics.PreviewGenerationTotal.WithLabelValues("success").Inc()
		outcome.Results = append(outcome.Results, PreviewResult{
			ChannelID:   channel.ID,
			ChannelName: channel.Name,
			Title:       output.Title,
			Content:     output.Content,
			TokensUsed:  output.TokensUsed,
			LatencyMs:   output.LatencyMs,
			Simulated:   output.Simulated,
			Temporary:   true,
		})
		totalTokens += output.TokensUsed
		combined.WriteString(output.Content)
		combined.WriteString("\n")
	}

	if len(outcome.Results) > 0 {
		sessionID := uuid.NewString()
		outcome.ValueMetric = o.recordRunMetric(ctx, nil, &sessionID, time.Since(start), totalTokens, len(outcome.Results), combined.String(), llmCfg.ModelID, draft)
	}
	return outcome, nil
}

// generateOne 单渠道生成的完整流程
// persist=false 时跳过既有行查找与落库（预览路径）
func (o *Orchestrator) generateOne(ctx context.Context, article *entity.Article, channel *entity.OutputChannel, llmCfg *entity.LLMConfig, tpl *entity.Template, style *entity.Style, regenerate, persist bool) (*entity.GeneratedOutput, error) {
	start := time.Now()
	kind := string(channel.Kind)

	if persist && !regenerate {
		existing, err := o.outputs.GetByArticleAndChannel(ctx, article.ID, channel.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.HasUsableContent(o.cfg.MinContentChars) {
				metrics.GenerationTotal.WithLabelValues(kind, "cached").Inc()
				return existing, nil
			}
			// 既有行内容不可用，替换为占位内容以维持可用性约束
			existing.SetResult(article.Title, placeholderContent, existing.TokensUsed, existing.LatencyMs, existing.Simulated)
			if err := o.outputs.Update(ctx, existing); err != nil {
				return nil, err
			}
			metrics.GenerationTotal.WithLabelValues(kind, "repaired").Inc()
			return existing, nil
		}
	}

	if tpl == nil {
		tpl = sectionTemplate(article)
	}
	if tpl == nil {
		return nil, ErrNoTemplate
	}
	if style == nil {
		style = sectionStyle(article)
	}

	prompt, err := o.resolver.Resolve(tpl, buildVariables(article, channel))
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, err
	}
	prompt = o.applier.Apply(prompt, style)

	var directives map[string]any
	if style != nil {
		directives = style.Directives
	}
	merged := o.merger.Merge(directives, channel.Configuration)

	result, err := o.gateway.Generate(ctx, llmCfg, &llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: systemInstruction(channel.Kind)},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   tokenBudget(channel.Kind),
		Temperature: o.cfg.DefaultTemperature,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(kind, "error").Inc()
		return nil, err
	}

	parsed := o.parser.Parse(result.Content)
	content := o.post.Process(parsed.Content, merged.Merged)

	output := &entity.GeneratedOutput{ArticleID: article.ID, ChannelID: channel.ID}
	if persist {
		// 先查后写：重新生成路径是一次原地 upsert，绝不产生第二行
		existing, err := o.outputs.GetByArticleAndChannel(ctx, article.ID, channel.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			output = existing
		}
	}
	output.SetResult(parsed.Title, content, result.TokensUsed, result.LatencyMs, result.Simulated)

	if persist {
		if output.ID != "" {
			if err := o.outputs.Update(ctx, output); err != nil {
				return nil, err
			}
		} else {
			if err := o.outputs.Create(ctx, output); err != nil {
				return nil, err
			}
		}
		if o.cache != nil {
			if err := o.cache.InvalidateArticle(ctx, article.ID); err != nil {
				logger.Warn(ctx, "output cache invalidation failed", "error", err.Error())
			}
		}
	}

	metrics.GenerationTotal.WithLabelValues(kind, "success").Inc()
	metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.GenerationContentLength.WithLabelValues(kind).Observe(float64(len([]rune(content))))

	logger.Info(ctx, "channel generation completed",
		"channel_kind", kind,
		"tokens_used", output.TokensUsed,
		"simulated", output.Simulated,
		"content_chars", len([]rune(content)),
	)
	return output, nil
}

// recordRunMetric 记录一次运行的价值指标，失败由引擎内部消化
func (o *Orchestrator) recordRunMetric(ctx context.Context, articleID, sessionID *string, duration time.Duration, tokens, channelCount int, combinedText, model string, article *entity.Article) *entity.ValueMetric {
	if o.recorder == nil {
		return nil
	}
	return o.recorder.Record(ctx, valuemetric.Run{
		ArticleID:    articleID,
		SessionID:    sessionID,
		Duration:     duration,
		TokensTotal:  tokens,
		ChannelCount: channelCount,
		CombinedText: combinedText,
		ModelUsed:    model,
		SourceWords:  len(strings.Fields(article.Body)),
	})
}

// sectionTemplate 从文章所属栏目继承模板
func sectionTemplate(article *entity.Article) *entity.Template {
	if article.Section != nil {
		return article.Section.Template
	}
	return nil
}

// sectionStyle 从文章所属栏目继承风格
func sectionStyle(article *entity.Article) *entity.Style {
	if article.Section != nil {
		return article.Section.Style
	}
	return nil
}

// buildVariables 构造模板变量映射
// 渠道配置中的标量项以 channel_<key> 形式暴露给模板
func buildVariables(article *entity.Article, channel *entity.OutputChannel) map[string]string {
	topic := article.SectionName()
	if topic == "" {
		topic = article.Title
	}

	vars := map[string]string{
		"title":        article.Title,
		"body":         article.Body,
		"author":       article.Author,
		"section":      article.SectionName(),
		"channel_kind": string(channel.Kind),
		"channel_name": channel.Name,
		"date":         time.Now().Format("02/01/2006"),
		"topic":        topic,
	}
	for key, value := range channel.Configuration {
		switch value.(type) {
		case map[string]any, []any:
			continue
		}
		vars["channel_"+key] = fmt.Sprintf("%v", value)
	}
	return vars
}

// systemInstruction 渠道类型对应的系统提示
func systemInstruction(kind entity.ChannelKind) string {
	base := "You are an experienced newsroom editor adapting articles for specific output channels."
	if extra, ok := channelInstructions[kind]; ok {
		base += " " + extra
	}
	return base + "\nRespond in exactly this format:\nTITLE: <headline>\nCONTENT: <adapted article>"
}

// tokenBudget 渠道类型对应的 token 预算
func tokenBudget(kind entity.ChannelKind) int {
	if budget, ok := channelTokenBudget[kind]; ok {
		return budget
	}
	return defaultTokenBudget
}
