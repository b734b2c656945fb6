package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"newsroom-ai-api/internal/domain/entity"
	"newsroom-ai-api/internal/domain/repository"
	"newsroom-ai-api/pkg/logger"
	"newsroom-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("infrastructure.llm")

// minResponseChars 生成内容的最小可用长度
const minResponseChars = 10

// ErrEmptyResponse 生成内容过短
var ErrEmptyResponse = errors.New("llm response content too short")

// Result 网关归一化后的生成结果
type Result struct {
	Content    string
	TokensUsed int
	LatencyMs  int64
	// Simulated 认证失败降级产生的模拟响应
	Simulated bool
	// TokensEstimated 用量为估算值
	TokensEstimated bool
}

// Gateway 多提供商调用网关
// 按配置 ID 缓存客户端，进程生命周期内不失效
type Gateway struct {
	mu         sync.RWMutex
	clients    map[string]Provider
	timeout    time.Duration
	configRepo repository.LLMConfigRepository
}

// NewGateway 创建网关
func NewGateway(configRepo repository.LLMConfigRepository, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Gateway{
		clients:    make(map[string]Provider),
		timeout:    timeout,
		configRepo: configRepo,
	}
}

// Generate 执行一次生成调用
// 凭证缺失或认证类失败不向上传播，降级为模拟响应并在结果上显式标记；
// 其余提供商错误为硬失败
func (g *Gateway) Generate(ctx context.Context, cfg *entity.LLMConfig, req *Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "llm.Gateway.Generate")
	span.SetAttributes(
		attribute.String("llm.provider", string(cfg.Provider)),
		attribute.String("llm.model", cfg.ModelID),
	)
	defer span.End()

	start := time.Now()

	provider, err := g.clientFor(cfg)
	if err != nil {
		if IsAuthError(err) {
			return g.simulate(ctx, cfg, req, start, err), nil
		}
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(string(cfg.Provider), cfg.ModelID, "error").Inc()
		return nil, err
	}

	raw, err := provider.Generate(ctx, req)
	if err != nil {
		if IsAuthError(err) {
			return g.simulate(ctx, cfg, req, start, err), nil
		}
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(string(cfg.Provider), cfg.ModelID, "error").Inc()
		return nil, &ProviderError{Provider: cfg.Provider, Err: err}
	}

	latency := time.Since(start)
	if len(raw.Content) < minResponseChars {
		metrics.LLMCallTotal.WithLabelValues(string(cfg.Provider), cfg.ModelID, "empty").Inc()
		return nil, ErrEmptyResponse
	}

	metrics.LLMCallTotal.WithLabelValues(string(cfg.Provider), cfg.ModelID, "success").Inc()
	metrics.LLMCallDuration.WithLabelValues(string(cfg.Provider), cfg.ModelID).Observe(latency.Seconds())
	metrics.LLMTokensUsed.WithLabelValues(string(cfg.Provider), cfg.ModelID, "prompt").Add(float64(raw.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(string(cfg.Provider), cfg.ModelID, "completion").Add(float64(raw.CompletionTokens))

	g.recordTokenUsage(ctx, cfg, raw.TotalTokens())

	return &Result{
		Content:         raw.Content,
		TokensUsed:      raw.TotalTokens(),
		LatencyMs:       latency.Milliseconds(),
		TokensEstimated: raw.TokensEstimated,
	}, nil
}

// clientFor 获取或构造配置对应的客户端
func (g *Gateway) clientFor(cfg *entity.LLMConfig) (Provider, error) {
	// 未持久化的配置（预览场景）不进缓存
	if cfg.ID == "" {
		return newProvider(cfg, g.timeout)
	}

	g.mu.RLock()
	p, ok := g.clients[cfg.ID]
	g.mu.RUnlock()
	if ok {
		return p, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.clients[cfg.ID]; ok {
		return p, nil
	}

	p, err := newProvider(cfg, g.timeout)
	if err != nil {
		return nil, err
	}
	g.clients[cfg.ID] = p
	return p, nil
}

// simulate 认证失败降级路径
func (g *Gateway) simulate(ctx context.Context, cfg *entity.LLMConfig, req *Request, start time.Time, cause error) *Result {
	logger.Warn(ctx, "llm auth failure, falling back to simulated response",
		"provider", string(cfg.Provider),
		"model", cfg.ModelID,
		"error", cause.Error(),
	)
	metrics.LLMSimulatedFallbackTotal.WithLabelValues(string(cfg.Provider)).Inc()
	metrics.LLMCallTotal.WithLabelValues(string(cfg.Provider), cfg.ModelID, "simulated").Inc()

	raw := buildSimulatedResponse(req)
	return &Result{
		Content:         raw.Content,
		TokensUsed:      raw.TotalTokens(),
		LatencyMs:       time.Since(start).Milliseconds(),
		Simulated:       true,
		TokensEstimated: true,
	}
}

// recordTokenUsage 持久化当日 token 用量，失败仅记日志
func (g *Gateway) recordTokenUsage(ctx context.Context, cfg *entity.LLMConfig, tokens int) {
	if g.configRepo == nil || cfg.ID == "" || tokens <= 0 {
		return
	}
	if err := g.configRepo.AddTokensUsed(ctx, cfg.ID, tokens); err != nil {
		logger.Warn(ctx, "failed to persist token usage",
			"config_id", cfg.ID,
			"tokens", tokens,
			"error", err.Error(),
		)
	}
}
