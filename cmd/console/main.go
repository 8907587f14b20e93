package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicdesk/admin-console/internal/config"
	appointmentHandler "github.com/clinicdesk/admin-console/internal/handler/appointment"
	authHandler "github.com/clinicdesk/admin-console/internal/handler/auth"
	dashboardHandler "github.com/clinicdesk/admin-console/internal/handler/dashboard"
	doctorHandler "github.com/clinicdesk/admin-console/internal/handler/doctor"
	patientHandler "github.com/clinicdesk/admin-console/internal/handler/patient"
	profileHandler "github.com/clinicdesk/admin-console/internal/handler/profile"
	rejectedHandler "github.com/clinicdesk/admin-console/internal/handler/rejected"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/router"
	appointmentService "github.com/clinicdesk/admin-console/internal/service/appointment"
	availabilityService "github.com/clinicdesk/admin-console/internal/service/availability"
	dashboardService "github.com/clinicdesk/admin-console/internal/service/dashboard"
	doctorService "github.com/clinicdesk/admin-console/internal/service/doctor"
	patientService "github.com/clinicdesk/admin-console/internal/service/patient"
	permissionService "github.com/clinicdesk/admin-console/internal/service/permission"
	rejectedService "github.com/clinicdesk/admin-console/internal/service/rejected"
	"github.com/clinicdesk/admin-console/internal/session"
	"github.com/clinicdesk/admin-console/internal/state"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Pretty: os.Getenv("CONSOLE_PRETTY_LOG") != "",
	})

	client := upstream.NewClient(cfg.Upstream, log)

	var store session.Store
	if cfg.Session.RedisURL != "" {
		store, err = session.NewRedisStore(cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			log.Fatal(err, "failed to connect session store")
		}
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL)
	}
	sessions := session.NewManager(store, client, log)
	defer func() {
		if err := sessions.Teardown(); err != nil {
			log.Error(err, "failed to close session store")
		}
	}()

	pages := state.NewRegistry(cfg.Session.TTL)

	doctorSvc := doctorService.NewService(client, cfg.List.DefaultLimit)
	patientSvc := patientService.NewService(client, cfg.List.DefaultLimit, cfg.List.StatsTTL)
	appointmentSvc := appointmentService.NewService(client, cfg.List.DefaultLimit, cfg.List.StatsTTL)
	rejectedSvc := rejectedService.NewService(client, cfg.List.DefaultLimit)
	availabilitySvc := availabilityService.NewService(client)
	dashboardSvc := dashboardService.NewService(client, cfg.List.StatsTTL)
	permissionSvc := permissionService.NewService(client, cfg.List.StatsTTL)

	authMW := middleware.NewAuthMiddleware(sessions, cfg.Session.CookieName)

	debounce := cfg.List.SearchDebounce
	limit := cfg.List.DefaultLimit

	r := router.NewRouter(
		authMW,
		authHandler.NewHandler(sessions, pages, cfg.Session.CookieName, cfg.Session.TTL, log),
		dashboardHandler.NewHandler(dashboardSvc),
		profileHandler.NewHandler(sessions, client),
		doctorHandler.NewHandler(doctorSvc, availabilitySvc, permissionSvc, pages, debounce, limit),
		patientHandler.NewHandler(patientSvc, pages, debounce, limit),
		appointmentHandler.NewHandler(appointmentSvc, pages, "appointments", debounce, limit),
		appointmentHandler.NewHandler(appointmentSvc, pages, "total-appointments", debounce, limit),
		rejectedHandler.NewHandler(rejectedSvc, pages, debounce, limit),
		router.Config{
			RateLimitEnabled:  cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			PrometheusEnabled: cfg.Monitoring.PrometheusEnabled,
			MetricsPrefix:     cfg.Monitoring.MetricsPrefix,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("console listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}
	log.Info("server exited")
}
