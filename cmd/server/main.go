// @title Conference Central API
// @version 1.0
// @description Conferences, sessions, registrations, wishlists and reviews.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/tasks"
	httpdelivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/migrations"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("connected to database")

	c, cacheHealth, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	queue := tasks.New(tasks.Config{
		Workers:     cfg.TaskWorkers,
		MaxAttempts: cfg.TaskMaxAttempts,
		QueueSize:   cfg.TaskQueueSize,
		Backoff:     cfg.TaskBackoff,
	}, m, logger)

	stores := postgres.NewStores(db)
	tx := postgres.NewTxRunner(db, cfg.TxMaxRetries, logger)

	announcementSvc := services.NewAnnouncementService(stores, c, m, logger)
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	services.RegisterTaskHandlers(queue, emailSvc, announcementSvc)

	routes := httpdelivery.Routes{
		Conferences: controllers.NewConferenceController(logger,
			services.NewConferenceService(stores, tx, queue, logger),
			services.NewRegistrationService(tx, m)),
		Sessions: controllers.NewSessionController(logger,
			services.NewSessionService(stores, queue, logger), cfg.SessionEndpointVariant),
		Profiles: controllers.NewProfileController(logger,
			services.NewProfileService(stores, tx),
			services.NewWishlistService(stores, tx)),
		Reviews:       controllers.NewReviewController(logger, services.NewReviewService(stores)),
		Announcements: controllers.NewAnnouncementController(logger, announcementSvc, cfg.CronToken),
		Health: controllers.NewHealthController(logger, map[string]controllers.Pinger{
			"postgres": db,
			"cache":    controllers.PingerFunc(cacheHealth),
		}),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	mux := httpdelivery.NewRouter(routes, verifier, logger)

	handler := middleware.LoggingMiddleware(logger, m, mux)
	handler = http.TimeoutHandler(handler, cfg.RequestTimeout, `{"data":null,"error":{"code":"unavailable","message":"request timed out"}}`)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		if err := queue.Run(workCtx); err != nil {
			logger.Error("task queue stopped", "err", err)
		}
	}()
	go refreshAnnouncements(workCtx, announcementSvc, cfg.AnnouncementRefreshInterval, logger)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "session_variant", string(cfg.SessionEndpointVariant))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	cancelWork()
	<-workersDone
	return nil
}

// newCache returns the Redis cache when REDIS_URL is set and the in-process cache otherwise.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Cache, func(context.Context) error, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-process cache")
		mc := cache.NewMemoryCache()
		return mc, mc.Health, func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("redis: %w", err)
	}
	rc := cache.NewRedisCache(client, cfg.RedisPrefix)
	return rc, rc.Health, func() { _ = client.Close() }, nil
}

// refreshAnnouncements recomputes the announcement every interval until ctx ends.
func refreshAnnouncements(ctx context.Context, svc domain.AnnouncementService, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	refresh := func() {
		if _, err := svc.RefreshAnnouncement(ctx); err != nil && ctx.Err() == nil {
			logger.WarnContext(ctx, "announcement refresh failed", "err", err)
		}
	}
	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
