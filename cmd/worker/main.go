package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/raisehub/raisehub-backend/config"
	"github.com/raisehub/raisehub-backend/internal/bootstrap"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	projrepo "github.com/raisehub/raisehub-backend/internal/projects/repository"
	statsservice "github.com/raisehub/raisehub-backend/internal/stats/service"
	userrepo "github.com/raisehub/raisehub-backend/internal/users/repository"
	"github.com/raisehub/raisehub-backend/pkg/logger"
)

// The worker drains the notification queue and keeps the dashboard stats
// cache warm.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.App.LogLevel})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	var sender notifications.Sender
	if cfg.SMTP.Enabled() {
		sender = notifications.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		zapLogger.Info("SMTP not configured, logging notifications instead")
		sender = notifications.NewLogSender(zapLogger)
	}

	queue := notifications.NewQueue(rdb)
	worker := notifications.NewWorker(queue, sender, zapLogger)

	stats := statsservice.NewStatsService(
		projrepo.NewPostgresRepository(pool),
		userrepo.NewPostgresRepository(pool),
		rdb,
		time.Duration(cfg.Admin.StatsCacheTTL)*time.Second,
		zapLogger,
	)

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		if _, err := stats.Recompute(ctx); err != nil {
			zapLogger.Error("stats refresh failed", zap.Error(err))
		}
	}); err != nil {
		zapLogger.Fatal("cron setup failed", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	worker.Run(ctx)
}
