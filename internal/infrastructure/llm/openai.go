package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"newsroom-ai-api/internal/domain/entity"
)

// openAIProvider 基于 Eino OpenAI 适配器的提供商实现
type openAIProvider struct {
	chatModel model.BaseChatModel
	modelID   string
}

// newOpenAIProvider 创建 OpenAI 提供商客户端
func newOpenAIProvider(cfg *entity.LLMConfig, timeout time.Duration) (Provider, error) {
	if !cfg.HasCredential() {
		return nil, &AuthError{Provider: entity.ProviderOpenAI, Reason: "api key is empty"}
	}

	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ModelID,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}

	return &openAIProvider{
		chatModel: chatModel,
		modelID:   cfg.ModelID,
	}, nil
}

// Generate 调用 OpenAI 生成内容
func (p *openAIProvider) Generate(ctx context.Context, req *Request) (*RawResponse, error) {
	msgs := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, schema.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}

	opts := buildModelOptions(req, p.modelID)

	outMsg, err := p.chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		if looksLikeAuthError(err) {
			return nil, &AuthError{Provider: entity.ProviderOpenAI, Reason: err.Error()}
		}
		return nil, fmt.Errorf("openai generate failed: %w", err)
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	resp := &RawResponse{
		Content: strings.TrimSpace(outMsg.Content),
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		resp.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		resp.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	} else {
		resp.PromptTokens = estimateRequestTokens(req.Messages)
		resp.CompletionTokens = estimateTokens(resp.Content)
		resp.TokensEstimated = true
	}
	return resp, nil
}

// buildModelOptions 构造 Eino 调用选项
func buildModelOptions(req *Request, modelID string) []model.Option {
	opts := make([]model.Option, 0, 3)
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if m := strings.TrimSpace(req.Model); m != "" && m != modelID {
		opts = append(opts, model.WithModel(m))
	}
	return opts
}
