package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"exoterior-booking/internal/handler/api"
	"exoterior-booking/internal/handler/middleware"
	"exoterior-booking/internal/infra/ratelimit"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Appointment *api.AppointmentHandler
	Calendar    *api.CalendarHandler
	Keepalive   *api.KeepaliveHandler
}

// Limiter may be nil, which disables rate limiting.
func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, m *metrics.Metrics, limiter ratelimit.Limiter) {
	setupMiddleware(engine, cfg, m)
	setupRoutes(engine, cfg, h, m, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, m *metrics.Metrics, limiter ratelimit.Limiter) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	addRoutes(apiGroup, []route{
		{Method: http.MethodGet, Path: "/slots", Handler: h.Appointment.TakenSlots},
		{
			Method:  http.MethodPost,
			Path:    "/appointments",
			Handler: h.Appointment.Submit,
			Mw:      []gin.HandlerFunc{middleware.RateLimit(limiter, m)},
		},
		{Method: http.MethodGet, Path: "/calendar", Handler: h.Calendar.Calendar},
		{Method: http.MethodGet, Path: "/services", Handler: h.Calendar.Services},
		{
			Method:  http.MethodGet,
			Path:    "/keepalive",
			Handler: h.Keepalive.Keepalive,
			Mw:      []gin.HandlerFunc{middleware.RequireCronSecret(cfg.Keepalive.Secret)},
		},
	})
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
