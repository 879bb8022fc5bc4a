package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/api/middleware"
	"github.com/linskybing/formbuilder-go/internal/api/routes"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/cron"
	"github.com/linskybing/formbuilder-go/internal/database"
	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/metrics"
	"github.com/linskybing/formbuilder-go/internal/notify"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func runServer(ctx context.Context) error {
	middleware.Init(cfg.JwtSecret, cfg.Issuer)

	db, err := database.OpenAndMigrate(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	var store storage.ObjectStore
	if cfg.ExportEnabled {
		ms, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			return err
		}
		store = ms
	}

	m := metrics.New()
	dispatcher := notify.NewDispatcher(log,
		notify.LogSender{Log: log},
		notify.WebhookSender{Client: notify.NewWebhookClient(cfg.NotifyTimeout)},
		cfg.NotifyTimeout, cfg.NotifyMaxInFlight)

	repos := repository.NewRepositories(db)
	svc := application.New(repos, application.Options{
		Store:          store,
		Hub:            feed.NewHub(),
		Notifier:       dispatcher,
		Metrics:        m,
		AdminUsername:  cfg.AdminUsername,
		TokenTTL:       cfg.TokenTTL,
		SecureCookies:  cfg.IsProduction(),
		AllowedOrigins: cfg.CORSOrigins,
	})
	if err := ensureAdmin(ctx, svc.User); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(m.Middleware())
	routes.RegisterRoutes(router, repos, svc, m)

	retentionDone := cron.StartAuditRetention(ctx, log, svc.Audit, cfg.AuditRetention, 24*time.Hour)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}
	<-retentionDone
	dispatcher.Wait()
	svc.Audit.Wait()
	log.Info("server stopped")
	return nil
}
