// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"newsroom-ai-api/internal/domain/entity"
)

// LLMConfigRepository LLM 配置仓储接口
type LLMConfigRepository interface {
	Create(ctx context.Context, cfg *entity.LLMConfig) error
	GetByID(ctx context.Context, id string) (*entity.LLMConfig, error)
	// GetDefault 获取默认的活跃配置（最近更新优先）
	GetDefault(ctx context.Context) (*entity.LLMConfig, error)
	Update(ctx context.Context, cfg *entity.LLMConfig) error
	// Deactivate 软停用，配置被历史输出引用时不物理删除
	Deactivate(ctx context.Context, id string) error
	// AddTokensUsed 累加当日 token 用量计数
	AddTokensUsed(ctx context.Context, id string, tokens int) error
	ListActive(ctx context.Context) ([]*entity.LLMConfig, error)
}
