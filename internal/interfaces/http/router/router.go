// Package router 提供 HTTP 路由配置
package router

import (
	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/interfaces/http/handler"
	"newsroom-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由所需的全部处理器
type Handlers struct {
	Health     *handler.HealthHandler
	Generation *handler.GenerationHandler
	Output     *handler.OutputHandler
	Metric     *handler.MetricHandler
	Settings   *handler.SettingsHandler
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine: engine,
		cfg:    cfg,
	}

	r.setupMiddleware(limiter)
	r.setupRoutes(handlers)

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware(limiter middleware.RateLimiter) {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	// 限流中间件
	if r.cfg.Security.RateLimit.Enabled {
		r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
			KeyPrefix:         "ratelimit",
		}, limiter))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes(h Handlers) {
	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API v1 路由组
	v1 := r.engine.Group("/v1")
	{
		// 生成路由
		generate := v1.Group("/generate")
		{
			generate.POST("/channel", h.Generation.GenerateChannel)
			generate.POST("/channels", h.Generation.GenerateChannels)
			generate.POST("/preview", h.Generation.GeneratePreview)
		}

		// 生成结果路由
		v1.GET("/articles/:aid/outputs", h.Output.ListByArticle)
		outputs := v1.Group("/outputs")
		{
			outputs.PUT("/:oid", h.Output.Update)
			outputs.DELETE("/:oid", h.Output.Delete)
		}

		// 价值指标路由
		metrics := v1.Group("/metrics")
		{
			metrics.GET("/articles/:aid", h.Metric.ListByArticle)
			metrics.GET("/summary", h.Metric.Summary)
		}

		// 管理路由
		admin := v1.Group("/admin")
		{
			admin.GET("/settings/prompt-limit", h.Settings.GetPromptLimit)
			admin.PUT("/settings/prompt-limit", h.Settings.SetPromptLimit)
			admin.DELETE("/settings/prompt-limit", h.Settings.ResetPromptLimit)
		}
	}
}
