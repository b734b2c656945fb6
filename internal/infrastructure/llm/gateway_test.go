package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-ai-api/internal/domain/entity"
)

// stubProvider 固定返回预设响应的提供商
type stubProvider struct {
	resp  *RawResponse
	err   error
	calls int
}

func (s *stubProvider) Generate(_ context.Context, _ *Request) (*RawResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// fakeConfigRepo 仅记录用量累加的仓储桩
type fakeConfigRepo struct {
	addedTokens int
	addedID     string
	addErr      error
}

func (f *fakeConfigRepo) Create(_ context.Context, _ *entity.LLMConfig) error  { return nil }
func (f *fakeConfigRepo) GetByID(_ context.Context, _ string) (*entity.LLMConfig, error) {
	return nil, nil
}
func (f *fakeConfigRepo) GetDefault(_ context.Context) (*entity.LLMConfig, error) { return nil, nil }
func (f *fakeConfigRepo) Update(_ context.Context, _ *entity.LLMConfig) error     { return nil }
func (f *fakeConfigRepo) Deactivate(_ context.Context, _ string) error            { return nil }
func (f *fakeConfigRepo) ListActive(_ context.Context) ([]*entity.LLMConfig, error) {
	return nil, nil
}
func (f *fakeConfigRepo) AddTokensUsed(_ context.Context, id string, tokens int) error {
	f.addedID = id
	f.addedTokens = tokens
	return f.addErr
}

func testConfig() *entity.LLMConfig {
	return &entity.LLMConfig{
		ID:       "cfg-1",
		Provider: entity.ProviderOpenAI,
		ModelID:  "gpt-4o-mini",
		APIKey:   "sk-test",
	}
}

func TestGatewayGenerateSuccess(t *testing.T) {
	repo := &fakeConfigRepo{}
	gw := NewGateway(repo, 30*time.Second)

	stub := &stubProvider{resp: &RawResponse{
		Content:          "TITLE: Quarterly Results\nCONTENT: Revenue grew strongly this quarter.",
		PromptTokens:     120,
		CompletionTokens: 80,
	}}
	gw.clients["cfg-1"] = stub

	result, err := gw.Generate(context.Background(), testConfig(), &Request{
		Messages: []Message{{Role: "user", Content: "write the article"}},
	})
	require.NoError(t, err)

	assert.False(t, result.Simulated)
	assert.Equal(t, 200, result.TokensUsed)
	assert.Contains(t, result.Content, "Quarterly Results")
	assert.Equal(t, "cfg-1", repo.addedID)
	assert.Equal(t, 200, repo.addedTokens)
}

func TestGatewayAuthFailureFallsBackToSimulated(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)
	gw.clients["cfg-1"] = &stubProvider{err: &AuthError{Provider: entity.ProviderOpenAI, Reason: "invalid api key"}}

	result, err := gw.Generate(context.Background(), testConfig(), &Request{
		Messages: []Message{{Role: "user", Content: "Title: Budget Vote\nBody: The council approved the budget."}},
	})
	require.NoError(t, err)

	assert.True(t, result.Simulated)
	assert.True(t, result.TokensEstimated)
	assert.Contains(t, result.Content, "[SIMULATED]")
	assert.Contains(t, result.Content, "Budget Vote")
}

func TestGatewayMissingCredentialFallsBackToSimulated(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)

	cfg := testConfig()
	cfg.ID = "" // 不进缓存，直接走构造
	cfg.APIKey = ""
	cfg.Provider = entity.ProviderAnthropic

	result, err := gw.Generate(context.Background(), cfg, &Request{
		Messages: []Message{{Role: "user", Content: "Title: Local Festival"}},
	})
	require.NoError(t, err)

	assert.True(t, result.Simulated)
	assert.Contains(t, result.Content, "TITLE:")
}

func TestGatewayUnsupportedProvider(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)

	cfg := testConfig()
	cfg.ID = ""
	cfg.Provider = entity.ProviderName("cohere")

	_, err := gw.Generate(context.Background(), cfg, &Request{})
	require.Error(t, err)

	var unsupported *UnsupportedProviderError
	assert.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "cohere", unsupported.Provider)
}

func TestGatewayProviderErrorIsHardFailure(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)
	gw.clients["cfg-1"] = &stubProvider{err: errors.New("rate limit exceeded")}

	_, err := gw.Generate(context.Background(), testConfig(), &Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGatewayShortContentIsEmptyResponse(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)
	gw.clients["cfg-1"] = &stubProvider{resp: &RawResponse{Content: "ok"}}

	_, err := gw.Generate(context.Background(), testConfig(), &Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGatewayClientCacheReuse(t *testing.T) {
	gw := NewGateway(&fakeConfigRepo{}, 30*time.Second)

	stub := &stubProvider{resp: &RawResponse{
		Content:      "TITLE: Cached\nCONTENT: Same client serves repeated calls.",
		PromptTokens: 10, CompletionTokens: 10,
	}}
	gw.clients["cfg-1"] = stub

	for i := 0; i < 3; i++ {
		_, err := gw.Generate(context.Background(), testConfig(), &Request{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, stub.calls)
	assert.Len(t, gw.clients, 1)
}

func TestSimulatedResponseIsDeterministic(t *testing.T) {
	req := &Request{Messages: []Message{
		{Role: "system", Content: "You are a newsroom assistant."},
		{Role: "user", Content: "Title: Transit Strike Ends\nBody: Service resumed citywide after a week."},
	}}

	first := buildSimulatedResponse(req)
	second := buildSimulatedResponse(req)

	assert.Equal(t, first.Content, second.Content)
	assert.Contains(t, first.Content, "TITLE: Transit Strike Ends")
	assert.Contains(t, first.Content, "Service resumed citywide")
	assert.True(t, first.TokensEstimated)
}
