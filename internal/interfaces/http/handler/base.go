// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"newsroom-ai-api/internal/application/generation"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/internal/infrastructure/llm"
	"newsroom-ai-api/internal/interfaces/http/dto"
	"newsroom-ai-api/pkg/errors"
)

// respondGenerationError 将生成流程的错误族映射为 HTTP 响应
func respondGenerationError(c *gin.Context, err error) {
	var missing *generation.MissingVariableError
	if stderrors.As(err, &missing) {
		dto.ErrorWithDetail(c, 400, "template variables not substituted", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeMissingVariable),
			Details:   missing.Error(),
		})
		return
	}

	switch {
	case stderrors.Is(err, generation.ErrNoTemplate):
		dto.UnprocessableEntity(c, "no template available for generation", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeNoTemplate),
		})
		return
	case stderrors.Is(err, generation.ErrNoStyle):
		dto.UnprocessableEntity(c, "no style available for generation", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeNoStyle),
		})
		return
	case stderrors.Is(err, generation.ErrEmptyTemplate):
		dto.ErrorWithDetail(c, 500, "template text too short", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeEmptyTemplate),
		})
		return
	case stderrors.Is(err, llm.ErrEmptyResponse):
		dto.ErrorWithDetail(c, 500, "generated content too short", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeEmptyResponse),
		})
		return
	}

	var unsupported *llm.UnsupportedProviderError
	if stderrors.As(err, &unsupported) {
		dto.UnprocessableEntity(c, unsupported.Error(), &dto.ErrorDetail{
			ErrorCode: string(errors.CodeUnsupportedProvider),
		})
		return
	}

	var provider *llm.ProviderError
	if stderrors.As(err, &provider) {
		dto.ErrorWithDetail(c, 502, "LLM provider call failed", &dto.ErrorDetail{
			ErrorCode: string(errors.CodeLLMProviderError),
			Details:   provider.Error(),
		})
		return
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	dto.InternalError(c, "generation failed")
}

// resolveLLMConfig 解析本次生成使用的 LLM 配置
// 显式指定的配置优先，其次为文章引用的配置，最后回退到默认配置
func resolveLLMConfig(ctx context.Context, repo repository.LLMConfigRepository, explicitID string, article *entity.Article) (*entity.LLMConfig, error) {
	if explicitID != "" {
		cfg, err := repo.GetByID(ctx, explicitID)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, errors.ErrLLMConfigNotFound
		}
		return cfg, nil
	}

	if article != nil && article.LLMConfigID != nil && *article.LLMConfigID != "" {
		cfg, err := repo.GetByID(ctx, *article.LLMConfigID)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return cfg, nil
		}
	}

	cfg, err := repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.ErrLLMConfigNotFound
	}
	return cfg, nil
}
