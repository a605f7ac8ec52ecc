package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/config"
	dbpkg "github.com/BruksfildServices01/fieldops/internal/db"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	infraRepo "github.com/BruksfildServices01/fieldops/internal/infra/repository"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/payments"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/routes"
	"github.com/BruksfildServices01/fieldops/internal/scheduler"
	"github.com/BruksfildServices01/fieldops/internal/storage"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	httperr.ExposeDetails = !cfg.IsProduction()

	// ======================================================
	// ERROR TRACKING
	// ======================================================
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			AttachStacktrace: true,
		}); err != nil {
			slog.Warn("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// ======================================================
	// STORE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	// ======================================================
	// REALTIME
	// ======================================================
	var broker realtime.Broker = realtime.NewHub()
	if cfg.Redis.URL != "" {
		rb, err := realtime.NewRedisBroker(cfg.Redis.URL, cfg.Redis.Channel)
		if err != nil {
			return err
		}
		defer rb.Close()
		broker = rb
		slog.Info("realtime via redis", "channel_prefix", cfg.Redis.Channel)
	}

	// ======================================================
	// ACTIVITY LOG + NOTIFICATIONS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	pushRepo := infraRepo.NewPushSubscriptionGormRepository(db)
	email := notify.NewEmailSender(cfg.SMTP)
	twilio := notify.NewTwilioSender(cfg.Twilio)
	push := notify.NewPushSender(cfg.Push, pushRepo)

	notifier := notify.NewDispatcher(
		infraRepo.NewAutomationGormRepository(db),
		auditDispatcher,
		broker,
		4,
		notify.WithSender(notify.ChannelEmail, email),
		notify.WithSender(notify.ChannelSMS, twilio),
		notify.WithSender(notify.ChannelWhatsApp, twilio),
		notify.WithSender(notify.ChannelPush, push),
	)

	// Closed on shutdown so open realtime streams end instead of holding
	// the server open.
	streamsDone := make(chan struct{})

	deps := routes.Deps{
		DB:          db,
		Config:      cfg,
		Audit:       auditDispatcher,
		Notify:      notifier,
		Broker:      broker,
		StreamsDone: streamsDone,
	}
	if cfg.SMTP.Enabled() {
		deps.Mailer = notify.NewInvoiceMailer(email, cfg.Business)
	}
	if cfg.S3.Enabled() {
		deps.Store = storage.NewS3Store(cfg.S3)
	} else {
		slog.Warn("S3_BUCKET not set, photo uploads disabled")
	}
	if cfg.Payments.Enabled() {
		mp, err := payments.NewMercadoPago(cfg.Payments, cfg.PublicBaseURL)
		if err != nil {
			return err
		}
		deps.Payments = mp
	}

	// ======================================================
	// SCHEDULER
	// ======================================================
	sched := scheduler.New(
		infraRepo.NewSchedulerGormRepository(db),
		notifier,
		cfg.Schedules,
		cfg.Timezone,
	)
	deps.Scheduler = sched
	if cfg.SchedulerEnabled {
		if err := sched.Start(); err != nil {
			return err
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)
	r.NoRoute(httperr.NotFound)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(func() { close(streamsDone) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "env", cfg.AppEnv)
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
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	sched.Stop(shutdownCtx)
	notifier.Close()
	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
