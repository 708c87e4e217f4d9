package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meddesk/clinic-api/internal/config"
	"github.com/meddesk/clinic-api/internal/handler"
	apptHandler "github.com/meddesk/clinic-api/internal/handler/appointment"
	authHandler "github.com/meddesk/clinic-api/internal/handler/auth"
	clinicHandler "github.com/meddesk/clinic-api/internal/handler/clinic"
	whHandler "github.com/meddesk/clinic-api/internal/handler/workinghours"
	"github.com/meddesk/clinic-api/internal/middleware"
	"github.com/meddesk/clinic-api/pkg/auth"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

type Handlers struct {
	Auth         *authHandler.Handler
	Clinic       *clinicHandler.Handler
	WorkingHours *whHandler.Handler
	Appointment  *apptHandler.Handler
}

// New builds the gin engine: public health, metrics and login endpoints,
// everything else behind JWT auth under /api/v1.
func New(cfg *config.Config, log *logger.Logger, db *sqlx.DB, jwtService *auth.JWTService, m *metrics.Metrics, h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	health := handler.NewHealthHandler(db)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	h.Clinic.RegisterRoutes(protected)
	h.WorkingHours.RegisterRoutes(protected)
	h.Appointment.RegisterRoutes(protected)

	return r
}
