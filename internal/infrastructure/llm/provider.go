// Package llm 提供多提供商 LLM 调用实现
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsroom-ai-api/internal/domain/entity"
)

// Message 角色标注的对话消息
type Message struct {
	Role    string `json:"role"` // system / user / assistant
	Content string `json:"content"`
}

// Request 统一的生成请求
type Request struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature float64
}

// RawResponse 提供商原始响应的统一形态
type RawResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	// TokensEstimated 提供商未返回用量时由词数估算
	TokensEstimated bool
}

// TotalTokens 总 token 数
func (r *RawResponse) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// Provider 单一 LLM 提供商的调用能力
type Provider interface {
	Generate(ctx context.Context, req *Request) (*RawResponse, error)
}

// AuthError 认证类错误（凭证缺失/无效），网关捕获后降级为模拟响应
type AuthError struct {
	Provider entity.ProviderName
	Reason   string
}

// Error 实现 error 接口
func (e *AuthError) Error() string {
	return fmt.Sprintf("llm auth failure (%s): %s", e.Provider, e.Reason)
}

// IsAuthError 检查是否为认证类错误
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ProviderError 非认证类的提供商硬失败，向上层传播
type ProviderError struct {
	Provider entity.ProviderName
	Err      error
}

// Error 实现 error 接口
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s call failed: %v", e.Provider, e.Err)
}

// Unwrap 返回底层错误
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UnsupportedProviderError 不支持的提供商
type UnsupportedProviderError struct {
	Provider string
}

// Error 实现 error 接口
func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported llm provider: %s", e.Provider)
}

// constructor 提供商客户端构造函数
type constructor func(cfg *entity.LLMConfig, timeout time.Duration) (Provider, error)

// providerConstructors 构造期查表选择实现，调用路径不做分支分发
var providerConstructors = map[entity.ProviderName]constructor{
	entity.ProviderOpenAI:    newOpenAIProvider,
	entity.ProviderAnthropic: newAnthropicProvider,
	entity.ProviderGoogle:    newGoogleProvider,
}

// newProvider 根据配置构造提供商客户端
func newProvider(cfg *entity.LLMConfig, timeout time.Duration) (Provider, error) {
	ctor, ok := providerConstructors[cfg.Provider]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: string(cfg.Provider)}
	}
	return ctor(cfg, timeout)
}

// estimateTokens 跨提供商 token 估算：按词数乘经验系数
func estimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(float64(words) * 1.3)
}

// estimateRequestTokens 估算请求侧 token 数
func estimateRequestTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += estimateTokens(m.Content)
	}
	return total
}

// authErrorIndicators 提供商错误文本中的认证失败特征
var authErrorIndicators = []string{
	"401",
	"403",
	"unauthorized",
	"forbidden",
	"invalid api key",
	"invalid x-api-key",
	"authentication",
	"api key not valid",
	"permission denied",
}

// looksLikeAuthError 根据错误文本判断是否为认证类失败
func looksLikeAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range authErrorIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
