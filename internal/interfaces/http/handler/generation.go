package handler

import (
	"github.com/gin-gonic/gin"

	"newsroom-ai-api/internal/application/generation"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/internal/interfaces/http/dto"
)

// GenerationHandler 多渠道生成处理器
type GenerationHandler struct {
	orchestrator *generation.Orchestrator
	articles     repository.ArticleRepository
	channels     repository.ChannelRepository
	sections     repository.SectionRepository
	templates    repository.TemplateRepository
	styles       repository.StyleRepository
	llmConfigs   repository.LLMConfigRepository
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(
	orchestrator *generation.Orchestrator,
	articles repository.ArticleRepository,
	channels repository.ChannelRepository,
	sections repository.SectionRepository,
	templates repository.TemplateRepository,
	styles repository.StyleRepository,
	llmConfigs repository.LLMConfigRepository,
) *GenerationHandler {
	return &GenerationHandler{
		orchestrator: orchestrator,
		articles:     articles,
		channels:     channels,
		sections:     sections,
		templates:    templates,
		styles:       styles,
		llmConfigs:   llmConfigs,
	}
}

// GenerateChannel 单渠道生成
// @Summary 为指定渠道生成文章变体
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateChannelRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.OutputResponse]
// @Router /v1/generate/channel [post]
func (h *GenerationHandler) GenerateChannel(c *gin.Context) {
	var req dto.GenerateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	article, err := h.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if article == nil {
		dto.NotFound(c, "article not found")
		return
	}

	channel, err := h.channels.GetByID(ctx, req.ChannelID)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if channel == nil {
		dto.NotFound(c, "output channel not found")
		return
	}

	opts := generation.GenerateOptions{Regenerate: req.Regenerate}
	if req.TemplateID != "" {
		tpl, err := h.templates.GetByID(ctx, req.TemplateID)
		if err != nil {
			dto.InternalError(c, err.Error())
			return
		}
		if tpl == nil {
			dto.NotFound(c, "template not found")
			return
		}
		opts.Template = tpl
	}
	if req.StyleID != "" {
		style, err := h.styles.GetByID(ctx, req.StyleID)
		if err != nil {
			dto.InternalError(c, err.Error())
			return
		}
		if style == nil {
			dto.NotFound(c, "style not found")
			return
		}
		opts.Style = style
	}

	llmCfg, err := resolveLLMConfig(ctx, h.llmConfigs, req.LLMConfigID, article)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	output, err := h.orchestrator.GenerateForChannel(ctx, article, channel, llmCfg, opts)
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	dto.Success(c, dto.FromOutput(output))
}

// GenerateChannels 批量生成
// @Summary 为多个渠道顺序生成，部分失败不影响其余渠道
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateChannelsRequest true "批量生成请求"
// @Success 200 {object} dto.Response[dto.BatchGenerationResponse]
// @Router /v1/generate/channels [post]
func (h *GenerationHandler) GenerateChannels(c *gin.Context) {
	var req dto.GenerateChannelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	article, err := h.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if article == nil {
		dto.NotFound(c, "article not found")
		return
	}

	channels, err := h.channels.GetByIDs(ctx, req.ChannelIDs)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if len(channels) != len(req.ChannelIDs) {
		dto.NotFound(c, "one or more output channels not found")
		return
	}

	llmCfg, err := resolveLLMConfig(ctx, h.llmConfigs, req.LLMConfigID, article)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	batch, err := h.orchestrator.GenerateMany(ctx, article, channels, llmCfg, req.Regenerate)
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	dto.Success(c, dto.BatchGenerationResponse{
		Results:     dto.FromOutputs(batch.Results),
		Errors:      batch.Errors,
		TotalTokens: batch.TotalTokens,
		TotalTimeMs: batch.TotalTimeMs,
	})
}

// GeneratePreview 预览生成，不落库
// @Summary 为未持久化的草稿生成预览
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GeneratePreviewRequest true "预览生成请求"
// @Success 200 {object} dto.Response[dto.PreviewGenerationResponse]
// @Router /v1/generate/preview [post]
func (h *GenerationHandler) GeneratePreview(c *gin.Context) {
	var req dto.GeneratePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	section, err := h.sections.GetByID(ctx, req.Draft.SectionID)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if section == nil {
		dto.NotFound(c, "section not found")
		return
	}

	channels, err := h.channels.GetByIDs(ctx, req.ChannelIDs)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if len(channels) != len(req.ChannelIDs) {
		dto.NotFound(c, "one or more output channels not found")
		return
	}

	draft := &entity.Article{
		Title:     req.Draft.Title,
		Body:      req.Draft.Body,
		Author:    req.Draft.Author,
		SectionID: &req.Draft.SectionID,
		Section:   section,
	}

	llmCfg, err := resolveLLMConfig(ctx, h.llmConfigs, req.LLMConfigID, nil)
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	outcome, err := h.orchestrator.GeneratePreview(ctx, draft, channels, llmCfg)
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	dto.Success(c, dto.PreviewGenerationResponse{
		Results:     outcome.Results,
		Errors:      outcome.Errors,
		ValueMetric: dto.FromMetric(outcome.ValueMetric),
	})
}
