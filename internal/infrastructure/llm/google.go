package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsroom-ai-api/internal/domain/entity"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// googleProvider Gemini generateContent API 客户端
type googleProvider struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
}

// newGoogleProvider 创建 Google 提供商客户端
func newGoogleProvider(cfg *entity.LLMConfig, timeout time.Duration) (Provider, error) {
	if !cfg.HasCredential() {
		return nil, &AuthError{Provider: entity.ProviderGoogle, Reason: "api key is empty"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}

	return &googleProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		modelID: cfg.ModelID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// geminiRequest generateContent 请求体
type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenConfig  `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

// geminiResponse generateContent 响应体
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate 调用 Gemini 生成内容
func (p *googleProvider) Generate(ctx context.Context, req *Request) (*RawResponse, error) {
	model := req.Model
	if model == "" {
		model = p.modelID
	}

	body := geminiRequest{
		GenerationConfig: &geminiGenConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	for _, m := range req.Messages {
		if m.Role == "system" {
			if body.SystemInstruction == nil {
				body.SystemInstruction = &geminiContent{}
			}
			body.SystemInstruction.Parts = append(body.SystemInstruction.Parts, geminiPart{Text: m.Content})
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		body.Contents = append(body.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Provider: entity.ProviderGoogle, Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("gemini error (%s): %s", parsed.Error.Status, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var content strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	out := &RawResponse{
		Content:          strings.TrimSpace(content.String()),
		PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
		CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
	}
	if out.PromptTokens == 0 && out.CompletionTokens == 0 {
		out.PromptTokens = estimateRequestTokens(req.Messages)
		out.CompletionTokens = estimateTokens(out.Content)
		out.TokensEstimated = true
	}
	return out, nil
}
