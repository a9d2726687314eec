package main

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/careconnect/careconnect-api/cmd/mainconfig"
	"github.com/careconnect/careconnect-api/internal/appointments"
	appconfig "github.com/careconnect/careconnect-api/internal/config"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/internal/reminders"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Standalone reminder sweep for cron-style deployments: runs one sweep and
// exits. The Redis lock keeps overlapping schedules from double-sending.
func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	directoryService := directory.NewService(directory.NewPostgresRepository(pool), logger)
	if err := directoryService.Sync(ctx); err != nil {
		logger.Error("failed to load doctor directory", "error", err)
		os.Exit(1)
	}

	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		emailSender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			os.Exit(1)
		}
		emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifyService := notify.NewService(emailSender, nil, cfg.NotifyTimeout, logger)

	var lock reminders.RunLock = reminders.NoopLock{}
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		lock = reminders.NewRedisLock(redis.NewClient(redisOpts), cfg.ReminderLockTTL, logger)
	}

	sweeper := reminders.NewSweeper(appointments.NewPostgresRepository(pool), directoryService,
		notifyService, lock, nil, time.Local, logger)

	summary, err := sweeper.Run(ctx)
	if err != nil {
		logger.Error("reminder sweep failed", "error", err)
		os.Exit(1)
	}
	logger.Info("reminder sweep done",
		"considered", summary.Considered,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)
}
