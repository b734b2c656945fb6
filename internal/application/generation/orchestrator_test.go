package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-ai-api/internal/application/valuemetric"
	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/infrastructure/llm"
)

// fakeOutputRepo 内存版生成结果仓储
type fakeOutputRepo struct {
	rows map[string]*entity.GeneratedOutput // key: articleID|channelID
}

func newFakeOutputRepo() *fakeOutputRepo {
	return &fakeOutputRepo{rows: make(map[string]*entity.GeneratedOutput)}
}

func outputKey(articleID, channelID string) string {
	return articleID + "|" + channelID
}

func (f *fakeOutputRepo) Create(_ context.Context, output *entity.GeneratedOutput) error {
	output.ID = uuid.NewString()
	f.rows[outputKey(output.ArticleID, output.ChannelID)] = output
	return nil
}

func (f *fakeOutputRepo) GetByID(_ context.Context, id string) (*entity.GeneratedOutput, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeOutputRepo) GetByArticleAndChannel(_ context.Context, articleID, channelID string) (*entity.GeneratedOutput, error) {
	return f.rows[outputKey(articleID, channelID)], nil
}

func (f *fakeOutputRepo) Update(_ context.Context, output *entity.GeneratedOutput) error {
	f.rows[outputKey(output.ArticleID, output.ChannelID)] = output
	return nil
}

func (f *fakeOutputRepo) Delete(_ context.Context, id string) error {
	for key, row := range f.rows {
		if row.ID == id {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeOutputRepo) ListByArticle(_ context.Context, articleID string) ([]*entity.GeneratedOutput, error) {
	out := make([]*entity.GeneratedOutput, 0)
	for _, row := range f.rows {
		if row.ArticleID == articleID {
			out = append(out, row)
		}
	}
	return out, nil
}

// stubGateway 可编程的网关桩：按调用序号返回预设结果或错误
type stubGateway struct {
	calls     int
	responses []gatewayReply
	requests  []*llm.Request
}

type gatewayReply struct {
	result *llm.Result
	err    error
}

func (s *stubGateway) Generate(_ context.Context, _ *entity.LLMConfig, req *llm.Request) (*llm.Result, error) {
	s.requests = append(s.requests, req)
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	reply := s.responses[idx]
	return reply.result, reply.err
}

func okReply(content string, tokens int) gatewayReply {
	return gatewayReply{result: &llm.Result{Content: content, TokensUsed: tokens, LatencyMs: 42}}
}

// fakeRecorder 记录指标调用
type fakeRecorder struct {
	runs []valuemetric.Run
}

func (f *fakeRecorder) Record(_ context.Context, run valuemetric.Run) *entity.ValueMetric {
	f.runs = append(f.runs, run)
	return &entity.ValueMetric{ArticleID: run.ArticleID, SessionID: run.SessionID, TokensTotal: run.TokensTotal}
}

func testOrchestrator(repo *fakeOutputRepo, gw *stubGateway, rec *fakeRecorder) *Orchestrator {
	cfg := &config.GenerationConfig{
		MaxPromptChars:     50000,
		MinContentChars:    10,
		DefaultTemperature: 0.7,
	}
	return NewOrchestrator(repo, gw, rec, nil, config.NewRuntimeSettings(cfg), cfg)
}

func testArticle() *entity.Article {
	return &entity.Article{
		ID:     "article-1",
		Title:  "City Council Approves New Budget",
		Body:   "The council voted 7-2 in favor of the proposal on Tuesday evening after a long public hearing.",
		Author: "Jordan Reyes",
		Section: &entity.Section{
			Name: "Local Politics",
			Template: &entity.Template{Fragments: []entity.TemplateFragment{
				{Content: "Rewrite: {title}", SortOrder: 0},
				{Content: "Topic: {topic}", SortOrder: 1},
			}},
			Style: &entity.Style{Directives: map[string]any{"tone": "formal"}},
		},
	}
}

func testChannel(id string, kind entity.ChannelKind, cfg map[string]any) *entity.OutputChannel {
	return &entity.OutputChannel{ID: id, Name: id, Kind: kind, Configuration: cfg}
}

func testLLMConfig() *entity.LLMConfig {
	return &entity.LLMConfig{ID: "cfg-1", Provider: entity.ProviderOpenAI, ModelID: "gpt-4o-mini", APIKey: "sk-test"}
}

const longReply = "TITLE: Budget Approved In Marathon Session\nCONTENT: The city council approved the annual budget after nearly six hours of debate, with members citing pressure from rising infrastructure costs across every district."

func TestGenerateForChannelTruncatesToChannelLimit(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{okReply(longReply, 150)}}
	orch := testOrchestrator(repo, gw, &fakeRecorder{})

	channel := testChannel("ch-1", entity.ChannelKindSocial, map[string]any{"max_characters": 50})

	output, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)

	assert.LessOrEqual(t, len([]rune(output.Content)), 50)
	assert.NotEmpty(t, output.ID)
	assert.Equal(t, 150, output.TokensUsed)

	// 提示词包含模板与风格内容
	require.Len(t, gw.requests, 1)
	prompt := gw.requests[0].Messages[1].Content
	assert.Contains(t, prompt, "Rewrite: City Council Approves New Budget")
	assert.Contains(t, prompt, "Topic: Local Politics")
	assert.Contains(t, prompt, "formal")
}

func TestGenerateForChannelIsIdempotentWithoutRegenerate(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{okReply(longReply, 150)}}
	orch := testOrchestrator(repo, gw, &fakeRecorder{})

	channel := testChannel("ch-1", entity.ChannelKindDigital, nil)

	first, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)
	second, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gw.calls)
	assert.Len(t, repo.rows, 1)
}

func TestGenerateForChannelRegenerateUpdatesInPlace(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{
		okReply(longReply, 150),
		okReply("TITLE: A Fresh Angle On The Budget Vote\nCONTENT: A completely regenerated body that differs from the first run and is long enough to be usable.", 90),
	}}
	orch := testOrchestrator(repo, gw, &fakeRecorder{})

	channel := testChannel("ch-1", entity.ChannelKindDigital, nil)

	first, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)
	second, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{Regenerate: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.rows, 1)
	assert.Contains(t, second.Content, "completely regenerated")
	assert.Equal(t, 2, gw.calls)
}

func TestGenerateForChannelRepairsUnusableRow(t *testing.T) {
	repo := newFakeOutputRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.GeneratedOutput{
		ArticleID: "article-1",
		ChannelID: "ch-1",
		Content:   "x",
	}))

	gw := &stubGateway{responses: []gatewayReply{okReply(longReply, 150)}}
	orch := testOrchestrator(repo, gw, &fakeRecorder{})

	channel := testChannel("ch-1", entity.ChannelKindDigital, nil)
	output, err := orch.GenerateForChannel(context.Background(), testArticle(), channel, testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, placeholderContent, output.Content)
	assert.Equal(t, 0, gw.calls)
	assert.Len(t, repo.rows, 1)
}

func TestGenerateForChannelFailsWithoutTemplate(t *testing.T) {
	repo := newFakeOutputRepo()
	orch := testOrchestrator(repo, &stubGateway{responses: []gatewayReply{okReply(longReply, 1)}}, &fakeRecorder{})

	article := testArticle()
	article.Section.Template = nil

	_, err := orch.GenerateForChannel(context.Background(), article, testChannel("ch-1", entity.ChannelKindDigital, nil), testLLMConfig(), GenerateOptions{})
	assert.ErrorIs(t, err, ErrNoTemplate)
	assert.Empty(t, repo.rows)
}

func TestGenerateForChannelPropagatesSimulatedFlag(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{{result: &llm.Result{
		Content:    longReply,
		TokensUsed: 60,
		LatencyMs:  5,
		Simulated:  true,
	}}}}
	orch := testOrchestrator(repo, gw, &fakeRecorder{})

	output, err := orch.GenerateForChannel(context.Background(), testArticle(), testChannel("ch-1", entity.ChannelKindDigital, nil), testLLMConfig(), GenerateOptions{})
	require.NoError(t, err)
	assert.True(t, output.Simulated)
}

func TestGenerateManyContinuesPastChannelFailure(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{
		okReply(longReply, 100),
		{err: errors.New("provider unavailable")},
		okReply(longReply, 100),
	}}
	rec := &fakeRecorder{}
	orch := testOrchestrator(repo, gw, rec)

	channels := []*entity.OutputChannel{
		testChannel("ch-1", entity.ChannelKindPrint, nil),
		testChannel("ch-2", entity.ChannelKindSocial, nil),
		testChannel("ch-3", entity.ChannelKindEmail, nil),
	}

	batch, err := orch.GenerateMany(context.Background(), testArticle(), channels, testLLMConfig(), false)
	require.NoError(t, err)

	assert.Len(t, batch.Results, 2)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "ch-2", batch.Errors[0].ChannelID)
	assert.Contains(t, batch.Errors[0].Error, "provider unavailable")
	assert.Equal(t, 200, batch.TotalTokens)
	assert.GreaterOrEqual(t, batch.TotalTimeMs, int64(0))
	assert.Equal(t, 3, gw.calls)

	// 整次运行记一条指标，渠道数为成功数
	require.Len(t, rec.runs, 1)
	assert.Equal(t, 2, rec.runs[0].ChannelCount)
	assert.Equal(t, 200, rec.runs[0].TokensTotal)
}

func TestGeneratePreviewRequiresStyle(t *testing.T) {
	repo := newFakeOutputRepo()
	orch := testOrchestrator(repo, &stubGateway{responses: []gatewayReply{okReply(longReply, 1)}}, &fakeRecorder{})

	draft := testArticle()
	draft.ID = ""
	draft.Section.Style = nil

	_, err := orch.GeneratePreview(context.Background(), draft, []*entity.OutputChannel{
		testChannel("ch-1", entity.ChannelKindDigital, nil),
	}, testLLMConfig())

	assert.ErrorIs(t, err, ErrNoStyle)
	assert.Empty(t, repo.rows)
}

func TestGeneratePreviewNeverPersists(t *testing.T) {
	repo := newFakeOutputRepo()
	gw := &stubGateway{responses: []gatewayReply{okReply(longReply, 80)}}
	rec := &fakeRecorder{}
	orch := testOrchestrator(repo, gw, rec)

	draft := testArticle()
	draft.ID = ""

	outcome, err := orch.GeneratePreview(context.Background(), draft, []*entity.OutputChannel{
		testChannel("ch-1", entity.ChannelKindDigital, nil),
		testChannel("ch-2", entity.ChannelKindSocial, nil),
	}, testLLMConfig())
	require.NoError(t, err)

	assert.Empty(t, repo.rows)
	require.Len(t, outcome.Results, 2)
	for _, res := range outcome.Results {
		assert.True(t, res.Temporary)
		assert.NotEmpty(t, res.Content)
	}

	// 预览指标挂在会话上而非文章上
	require.NotNil(t, outcome.ValueMetric)
	require.Len(t, rec.runs, 1)
	assert.Nil(t, rec.runs[0].ArticleID)
	assert.NotNil(t, rec.runs[0].SessionID)
}

func TestBuildVariablesExposesChannelScalars(t *testing.T) {
	channel := testChannel("ch-1", entity.ChannelKindSocial, map[string]any{
		"hashtag_limit": 3,
		"allow_emojis":  true,
		"nested":        map[string]any{"skip": "me"},
	})

	vars := buildVariables(testArticle(), channel)

	assert.Equal(t, "3", vars["channel_hashtag_limit"])
	assert.Equal(t, "true", vars["channel_allow_emojis"])
	assert.NotContains(t, vars, "channel_nested")
	assert.Equal(t, "Local Politics", vars["topic"])
	assert.Regexp(t, `^\d{2}/\d{2}/\d{4}$`, vars["date"])
}

func TestTokenBudgetPerChannelKind(t *testing.T) {
	cases := map[entity.ChannelKind]int{
		entity.ChannelKindPrint:   2000,
		entity.ChannelKindDigital: 1500,
		entity.ChannelKindSocial:  500,
		entity.ChannelKindEmail:   1000,
		entity.ChannelKindPodcast: 2500,
		entity.ChannelKind("web"): defaultTokenBudget,
	}
	for kind, want := range cases {
		assert.Equal(t, want, tokenBudget(kind), fmt.Sprintf("kind %s", kind))
	}
}
