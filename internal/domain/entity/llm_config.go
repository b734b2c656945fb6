// Package entity 定义领域实体
package entity

import (
	"time"
)

// ProviderName 支持的 LLM 提供商
type ProviderName string

const (
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOpenAI    ProviderName = "openai"
	ProviderGoogle    ProviderName = "google"
)

// LLMConfig LLM 提供商配置实体
// 被历史生成记录引用时不允许删除，仅允许停用
type LLMConfig struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string         `json:"name" gorm:"type:varchar(100);not null"`
	Provider        ProviderName   `json:"provider" gorm:"type:varchar(50);not null"`
	ModelID         string         `json:"model_id" gorm:"type:varchar(100);not null"`
	APIKey          string         `json:"-" gorm:"type:varchar(500)"`
	BaseURL         string         `json:"base_url,omitempty" gorm:"type:varchar(500)"`
	ExtraParams     map[string]any `json:"extra_params,omitempty" gorm:"type:jsonb;serializer:json"`
	DailyTokenLimit int            `json:"daily_token_limit" gorm:"default:0"`
	TokensUsedToday int            `json:"tokens_used_today" gorm:"default:0"`
	Active          bool           `json:"active" gorm:"default:true"`
	KeyExpiresAt    *time.Time     `json:"key_expires_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (LLMConfig) TableName() string {
	return "llm_configs"
}

// HasCredential 是否配置了有效凭证
func (c *LLMConfig) HasCredential() bool {
	return c.APIKey != ""
}

// QuotaRemaining 当日剩余 token 配额，0 表示不限额
func (c *LLMConfig) QuotaRemaining() int {
	if c.DailyTokenLimit <= 0 {
		return 0
	}
	remaining := c.DailyTokenLimit - c.TokensUsedToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Deactivate 软停用
func (c *LLMConfig) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
