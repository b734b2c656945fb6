package valuemetric

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
)

// fakeMetricRepo 内存版指标仓储
type fakeMetricRepo struct {
	rows    []*entity.ValueMetric
	updates int
}

func (f *fakeMetricRepo) Create(_ context.Context, metric *entity.ValueMetric) error {
	metric.ID = "metric-" + time.Now().Format("150405.000000000")
	metric.CreatedAt = time.Now()
	f.rows = append(f.rows, metric)
	return nil
}

func (f *fakeMetricRepo) Update(_ context.Context, _ *entity.ValueMetric) error {
	f.updates++
	return nil
}

func (f *fakeMetricRepo) GetRecentByArticle(_ context.Context, articleID string, since time.Time) (*entity.ValueMetric, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := f.rows[i]
		if row.ArticleID != nil && *row.ArticleID == articleID && row.CreatedAt.After(since) {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeMetricRepo) ListByArticle(_ context.Context, articleID string) ([]*entity.ValueMetric, error) {
	out := make([]*entity.ValueMetric, 0)
	for _, row := range f.rows {
		if row.ArticleID != nil && *row.ArticleID == articleID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeMetricRepo) Summary(_ context.Context) (*repository.ValueMetricSummary, error) {
	return &repository.ValueMetricSummary{TotalRuns: int64(len(f.rows))}, nil
}

func testEngineConfig() *config.GenerationConfig {
	return &config.GenerationConfig{
		HourlyRateUSD:         50.0,
		ROICapPercent:         10000.0,
		DefaultTokenRatePer1K: 0.002,
		ModelRates:            map[string]float64{"gpt-4o-mini": 0.001},
		MetricDedupWindow:     5 * time.Minute,
	}
}

func articleID(id string) *string { return &id }

func TestRecordComputesCostsAndROI(t *testing.T) {
	repo := &fakeMetricRepo{}
	engine := NewEngine(repo, testEngineConfig())

	metric := engine.Record(context.Background(), Run{
		ArticleID:    articleID("article-1"),
		Duration:     30 * time.Second,
		TokensTotal:  10000,
		ChannelCount: 2,
		CombinedText: "sixty words of generated copy repeated a few times over here",
		ModelUsed:    "gpt-4o-mini",
		SourceWords:  500,
	})
	require.NotNil(t, metric)

	// standard × medium = 60 分钟/渠道，两个渠道
	assert.InDelta(t, 120.0, metric.ManualMinutes, 0.001)
	assert.InDelta(t, 100.0, metric.ManualCost, 0.001)

	// 10000 token 按 70/30 拆分，完成侧按倍率计价
	wantGenCost := 7.0*0.001 + 3.0*0.001*completionRateMultiplier
	assert.InDelta(t, wantGenCost, metric.GenerationCost, 0.0001)

	assert.Equal(t, entity.ComplexityMedium, metric.Complexity)
	assert.Equal(t, entity.ArticleTypeStandard, metric.ArticleType)
	assert.Greater(t, metric.ROIPercent, 0.0)
	assert.LessOrEqual(t, metric.ROIPercent, 10000.0)
	assert.Len(t, repo.rows, 1)
}

func TestRecordClampsROIAtConfiguredCap(t *testing.T) {
	engine := NewEngine(&fakeMetricRepo{}, testEngineConfig())

	// 极少 token，生成成本趋近零
	metric := engine.Record(context.Background(), Run{
		ArticleID:    articleID("article-1"),
		Duration:     time.Second,
		TokensTotal:  1,
		ChannelCount: 1,
		SourceWords:  100,
	})

	assert.Equal(t, 10000.0, metric.ROIPercent)
}

func TestRecordZeroTokensUsesCapDirectly(t *testing.T) {
	engine := NewEngine(&fakeMetricRepo{}, testEngineConfig())

	metric := engine.Record(context.Background(), Run{
		ArticleID:    articleID("article-1"),
		Duration:     time.Second,
		TokensTotal:  0,
		ChannelCount: 1,
	})

	assert.Equal(t, 10000.0, metric.ROIPercent)
	assert.Equal(t, 0.0, metric.GenerationCost)
}

func TestRecordUnknownModelUsesDefaultRate(t *testing.T) {
	engine := NewEngine(&fakeMetricRepo{}, testEngineConfig())

	metric := engine.Record(context.Background(), Run{
		ArticleID:   articleID("article-1"),
		Duration:    time.Second,
		TokensTotal: 1000,
		ModelUsed:   "some-unknown-model",
		SourceWords: 100,
	})

	wantGenCost := 0.7*0.002 + 0.3*0.002*completionRateMultiplier
	assert.InDelta(t, wantGenCost, metric.GenerationCost, 0.0001)
}

func TestRecordDeduplicatesWithinWindow(t *testing.T) {
	repo := &fakeMetricRepo{}
	engine := NewEngine(repo, testEngineConfig())

	run := Run{
		ArticleID:    articleID("article-1"),
		Duration:     10 * time.Second,
		TokensTotal:  5000,
		ChannelCount: 1,
		SourceWords:  200,
	}

	first := engine.Record(context.Background(), run)
	run.TokensTotal = 8000
	second := engine.Record(context.Background(), run)

	assert.Len(t, repo.rows, 1)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8000, second.TokensTotal)
}

func TestRecordPreviewRunsAlwaysInsert(t *testing.T) {
	repo := &fakeMetricRepo{}
	engine := NewEngine(repo, testEngineConfig())

	session := "session-1"
	run := Run{
		SessionID:    &session,
		Duration:     10 * time.Second,
		TokensTotal:  5000,
		ChannelCount: 2,
		SourceWords:  200,
	}

	engine.Record(context.Background(), run)
	engine.Record(context.Background(), run)

	assert.Len(t, repo.rows, 2)
	assert.Equal(t, 0, repo.updates)
}

func TestClassifyComplexityBoundaries(t *testing.T) {
	assert.Equal(t, entity.ComplexityLow, classifyComplexity(0))
	assert.Equal(t, entity.ComplexityLow, classifyComplexity(299))
	assert.Equal(t, entity.ComplexityMedium, classifyComplexity(300))
	assert.Equal(t, entity.ComplexityMedium, classifyComplexity(799))
	assert.Equal(t, entity.ComplexityHigh, classifyComplexity(800))
}

func TestRecordWordsPerSecond(t *testing.T) {
	engine := NewEngine(&fakeMetricRepo{}, testEngineConfig())

	metric := engine.Record(context.Background(), Run{
		ArticleID:    articleID("article-1"),
		Duration:     10 * time.Second,
		TokensTotal:  100,
		CombinedText: "one two three four five six seven eight nine ten",
		SourceWords:  100,
	})

	assert.InDelta(t, 1.0, metric.WordsPerSecond, 0.001)
}
