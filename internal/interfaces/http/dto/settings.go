package dto

// PromptLimitResponse 提示词长度上限
type PromptLimitResponse struct {
	Limit      int  `json:"limit"`
	Overridden bool `json:"overridden"`
}

// SetPromptLimitRequest 设置提示词长度上限
type SetPromptLimitRequest struct {
	Limit int `json:"limit" binding:"required,gt=0"`
}
