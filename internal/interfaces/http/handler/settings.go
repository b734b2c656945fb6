package handler

import (
	"github.com/gin-gonic/gin"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/interfaces/http/dto"
)

// SettingsHandler 进程级运行时配置处理器
type SettingsHandler struct {
	settings *config.RuntimeSettings
}

// NewSettingsHandler 创建运行时配置处理器
func NewSettingsHandler(settings *config.RuntimeSettings) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetPromptLimit 查询当前生效的提示词长度上限
// @Summary 查询提示词长度上限
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.Response[dto.PromptLimitResponse]
// @Router /v1/admin/settings/prompt-limit [get]
func (h *SettingsHandler) GetPromptLimit(c *gin.Context) {
	dto.Success(c, dto.PromptLimitResponse{
		Limit:      h.settings.MaxPromptChars(),
		Overridden: h.settings.IsOverridden(),
	})
}

// SetPromptLimit 设置提示词长度上限覆盖值
// @Summary 设置提示词长度上限
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.SetPromptLimitRequest true "上限值"
// @Success 200 {object} dto.Response[dto.PromptLimitResponse]
// @Router /v1/admin/settings/prompt-limit [put]
func (h *SettingsHandler) SetPromptLimit(c *gin.Context) {
	var req dto.SetPromptLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	h.settings.SetMaxPromptChars(req.Limit)
	dto.Success(c, dto.PromptLimitResponse{
		Limit:      h.settings.MaxPromptChars(),
		Overridden: h.settings.IsOverridden(),
	})
}

// ResetPromptLimit 清除覆盖值，恢复配置默认
// @Summary 重置提示词长度上限
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.Response[dto.PromptLimitResponse]
// @Router /v1/admin/settings/prompt-limit [delete]
func (h *SettingsHandler) ResetPromptLimit(c *gin.Context) {
	h.settings.ResetMaxPromptChars()
	dto.Success(c, dto.PromptLimitResponse{
		Limit:      h.settings.MaxPromptChars(),
		Overridden: h.settings.IsOverridden(),
	})
}
