package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/clinicdesk/admin-console/internal/capability"
	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/handler/auth"
	"github.com/clinicdesk/admin-console/internal/middleware"
)

// Handler is anything that can hang its routes off a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitEnabled  bool
	RequestsPerSecond float64
	Burst             int
	PrometheusEnabled bool
	MetricsPrefix     string
}

// Router wires the middleware chain and hangs every page handler behind the
// capability its route requires.
type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *auth.Handler
	dashboardH   Handler
	profileH     Handler
	doctorH      Handler
	patientH     Handler
	appointmentH Handler
	totalH       Handler
	rejectedH    Handler
	healthH      *handler.Health
	metrics      *routerMetrics
	serveMetrics bool
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	authMW *middleware.AuthMiddleware,
	authH *auth.Handler,
	dashboardH Handler,
	profileH Handler,
	doctorH Handler,
	patientH Handler,
	appointmentH Handler,
	totalH Handler,
	rejectedH Handler,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         authMW,
		authH:        authH,
		dashboardH:   dashboardH,
		profileH:     profileH,
		doctorH:      doctorH,
		patientH:     patientH,
		appointmentH: appointmentH,
		totalH:       totalH,
		rejectedH:    rejectedH,
		healthH:      handler.NewHealth(),
		metrics:      initRouterMetrics(cfg.MetricsPrefix),
		serveMetrics: cfg.PrometheusEnabled,
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.RequestID(),
		r.metricsMiddleware(),
		middleware.Cache(middleware.DefaultCacheConfig()),
	)

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RequestsPerSecond),
			Burst: cfg.Burst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func requires(c capability.Capability) *capability.Capability {
	return &c
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine.Group("/health"))
	if r.serveMetrics {
		r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	root := r.engine.Group("")
	root.Use(r.auth.Resolve())

	// Auth pages bounce already-signed-in users to the landing page; logout
	// and the session probe need the session itself, so they sit outside the
	// public-only guard.
	public := root.Group("/auth", r.auth.PublicOnly())
	r.authH.RegisterRoutes(public)
	r.authH.RegisterSessionRoutes(root.Group("/auth"))

	landing := root.Group("", r.auth.RequireAuth())
	r.dashboardH.RegisterRoutes(landing)

	r.profileH.RegisterRoutes(root.Group("/profile",
		r.auth.RequireCapability(requires(capability.ViewProfile))))
	r.doctorH.RegisterRoutes(root.Group("/doctors",
		r.auth.RequireCapability(requires(capability.ViewDoctors))))
	r.patientH.RegisterRoutes(root.Group("/patients",
		r.auth.RequireCapability(requires(capability.ViewPatients))))
	r.appointmentH.RegisterRoutes(root.Group("/appointments",
		r.auth.RequireCapability(requires(capability.ViewAppointments))))
	r.totalH.RegisterRoutes(root.Group("/total-appointments",
		r.auth.RequireCapability(requires(capability.ViewTotalAppointments))))
	r.rejectedH.RegisterRoutes(root.Group("/rejected-appointments",
		r.auth.RequireCapability(requires(capability.ViewRejectedAppointments))))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
