package dto

// UpdateOutputRequest 人工修订生成结果
type UpdateOutputRequest struct {
	Title   *string `json:"title,omitempty" binding:"omitempty,max=500"`
	Content *string `json:"content,omitempty"`
}
