// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"time"

	"newsroom-ai-api/internal/application/generation"
	"newsroom-ai-api/internal/application/valuemetric"
	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/infrastructure/llm"
	"newsroom-ai-api/internal/infrastructure/persistence/postgres"
	"newsroom-ai-api/internal/infrastructure/persistence/redis"
	"newsroom-ai-api/internal/interfaces/http/handler"
	"newsroom-ai-api/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
)

// App 组装完成的应用
type App struct {
	router *router.Router

	// 数据层句柄，供健康检查与测试使用
	PgClient    *postgres.Client
	RedisClient *redis.Client
	Settings    *config.RuntimeSettings
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 初始化整个应用，返回清理函数
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, func() { _ = pgClient.Close() })

	// Redis
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, func() { _ = redisClient.Close() })

	cache := redis.NewCache(redisClient)
	rateLimiter := redis.NewRateLimiter(redisClient)

	// 仓储层
	articleRepo := postgres.NewArticleRepository(pgClient)
	sectionRepo := postgres.NewSectionRepository(pgClient)
	channelRepo := postgres.NewChannelRepository(pgClient)
	templateRepo := postgres.NewTemplateRepository(pgClient)
	styleRepo := postgres.NewStyleRepository(pgClient)
	llmConfigRepo := postgres.NewLLMConfigRepository(pgClient)
	outputRepo := postgres.NewGeneratedOutputRepository(pgClient)
	metricRepo := postgres.NewValueMetricRepository(pgClient)
	txManager := postgres.NewTxManager(pgClient)

	// 应用层
	settings := config.NewRuntimeSettings(&cfg.Generation)
	gateway := llm.NewGateway(llmConfigRepo, providerTimeout(cfg))
	engine := valuemetric.NewEngine(metricRepo, &cfg.Generation)
	orchestrator := generation.NewOrchestrator(outputRepo, gateway, engine, cache, settings, &cfg.Generation)

	// HTTP 层
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(pgClient, redisClient),
		Generation: handler.NewGenerationHandler(orchestrator, articleRepo, channelRepo, sectionRepo, templateRepo, styleRepo, llmConfigRepo),
		Output:     handler.NewOutputHandler(outputRepo, txManager, cache),
		Metric:     handler.NewMetricHandler(metricRepo),
		Settings:   handler.NewSettingsHandler(settings),
	}

	app := &App{
		router:      router.New(cfg, handlers, rateLimiter),
		PgClient:    pgClient,
		RedisClient: redisClient,
		Settings:    settings,
	}
	return app, cleanup, nil
}

// providerTimeout 取默认提供商的调用超时，未配置时由网关兜底
func providerTimeout(cfg *config.Config) (timeout time.Duration) {
	if p, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; ok {
		timeout = p.Timeout
	}
	return timeout
}
