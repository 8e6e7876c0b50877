package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sgheritage/video-gateway/internal/gateway/handler"
	"github.com/sgheritage/video-gateway/internal/telemetry"
)

// Setup configures and returns the Gin router with all routes
func Setup(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	h := handler.NewPromptHandler(deps)

	// Liveness probe
	r.GET("/", h.Ping)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	prompt := r.Group("/prompt")
	{
		// POST /prompt - synchronous single-shot render
		prompt.POST("", h.Generate)

		// POST /prompt/start - enqueue a generation job
		prompt.POST("/start", h.Start)

		// GET /prompt/status/:job_id - poll job status
		prompt.GET("/status/:job_id", h.Status)

		// GET /prompt/text/:job_id - SSE stream of context text
		prompt.GET("/text/:job_id", h.TextStream)
	}

	return r
}
