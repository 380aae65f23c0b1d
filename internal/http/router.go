package http

import (
	"github.com/gin-gonic/gin"

	"github.com/messenger-cosmos-public/relay/internal/config"
	"github.com/messenger-cosmos-public/relay/internal/http/middleware"
	"github.com/messenger-cosmos-public/relay/internal/metrics"
)

type RouterDeps struct {
	Handler *Handler
	Metrics *metrics.Metrics
	Config  config.Config
}

// NewRouter wires Gin with the relay middleware and handlers.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Handler.log

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(deps.Config.CORSAllowCredentials))
	if deps.Config.MaintenanceFlag != "" {
		r.Use(middleware.Maintenance(log, deps.Config.MaintenanceFlag, "/", "/health", "/metrics"))
	}

	r.GET("/", deps.Handler.Root)
	r.GET("/health", deps.Handler.Health)
	if deps.Config.MetricsEnabled && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	registerMessageRoutes(r.Group("/messages"), deps)
	r.GET("/stream", deps.Handler.Stream)

	return r
}

func registerMessageRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListMessages)
	r.POST("", deps.Handler.CreateMessage)
}
