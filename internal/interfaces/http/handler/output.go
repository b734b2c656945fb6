package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/internal/infrastructure/persistence/redis"
	"newsroom-ai-api/internal/interfaces/http/dto"
	"newsroom-ai-api/pkg/logger"
)

// outputListCacheTTL 文章输出列表的缓存时长
const outputListCacheTTL = 5 * time.Minute

// OutputHandler 生成结果处理器
type OutputHandler struct {
	outputs repository.GeneratedOutputRepository
	tx      repository.Transactor
	cache   *redis.Cache
}

// NewOutputHandler 创建生成结果处理器
func NewOutputHandler(outputs repository.GeneratedOutputRepository, tx repository.Transactor, cache *redis.Cache) *OutputHandler {
	return &OutputHandler{outputs: outputs, tx: tx, cache: cache}
}

// outputListCacheKey 与文章失效模式 output:<id>:* 对齐
func outputListCacheKey(articleID string) string {
	return fmt.Sprintf("output:%s:list", articleID)
}

// ListByArticle 列出文章的全部渠道生成结果
// @Summary 列出文章生成结果
// @Tags Outputs
// @Produce json
// @Param aid path string true "文章 ID"
// @Success 200 {object} dto.Response[[]dto.OutputResponse]
// @Router /v1/articles/{aid}/outputs [get]
func (h *OutputHandler) ListByArticle(c *gin.Context) {
	articleID := c.Param("aid")
	ctx := c.Request.Context()

	if h.cache != nil {
		raw, err := h.cache.GetOrLoadSafe(ctx, outputListCacheKey(articleID), outputListCacheTTL, func() (interface{}, error) {
			outputs, err := h.outputs.ListByArticle(ctx, articleID)
			if err != nil {
				return nil, err
			}
			return dto.FromOutputs(outputs), nil
		})
		if err == nil {
			var items []dto.OutputResponse
			if err := json.Unmarshal(raw, &items); err == nil {
				dto.Success(c, items)
				return
			}
		}
		logger.Warn(ctx, "output list cache read failed, falling back to store", "article_id", articleID)
	}

	outputs, err := h.outputs.ListByArticle(ctx, articleID)
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	dto.Success(c, dto.FromOutputs(outputs))
}

// Update 人工修订一条生成结果
// @Summary 更新生成结果
// @Tags Outputs
// @Accept json
// @Produce json
// @Param oid path string true "输出 ID"
// @Param request body dto.UpdateOutputRequest true "修订内容"
// @Success 200 {object} dto.Response[dto.OutputResponse]
// @Router /v1/outputs/{oid} [put]
func (h *OutputHandler) Update(c *gin.Context) {
	var req dto.UpdateOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	var output *entity.GeneratedOutput
	err := h.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		output, txErr = h.outputs.GetByID(txCtx, c.Param("oid"))
		if txErr != nil {
			return txErr
		}
		if output == nil {
			return nil
		}
		if req.Title != nil {
			output.Title = *req.Title
		}
		if req.Content != nil {
			output.Content = *req.Content
		}
		return h.outputs.Update(txCtx, output)
	})
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if output == nil {
		dto.NotFound(c, "generated output not found")
		return
	}
	h.invalidate(c, output.ArticleID)
	dto.Success(c, dto.FromOutput(output))
}

// Delete 删除一条生成结果
// @Summary 删除生成结果
// @Tags Outputs
// @Produce json
// @Param oid path string true "输出 ID"
// @Success 204
// @Router /v1/outputs/{oid} [delete]
func (h *OutputHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.outputs.GetByID(ctx, c.Param("oid"))
	if err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	if output == nil {
		dto.NotFound(c, "generated output not found")
		return
	}

	if err := h.outputs.Delete(ctx, output.ID); err != nil {
		dto.InternalError(c, err.Error())
		return
	}
	h.invalidate(c, output.ArticleID)
	dto.NoContent(c)
}

// invalidate 使文章相关缓存失效，失败仅记日志
func (h *OutputHandler) invalidate(c *gin.Context, articleID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateArticle(c.Request.Context(), articleID); err != nil {
		logger.Warn(c.Request.Context(), "article cache invalidation failed", "article_id", articleID, "error", err.Error())
	}
}
