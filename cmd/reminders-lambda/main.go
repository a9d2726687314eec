package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/careconnect/careconnect-api/cmd/mainconfig"
	"github.com/careconnect/careconnect-api/internal/appointments"
	appconfig "github.com/careconnect/careconnect-api/internal/config"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/internal/reminders"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Scheduled Lambda entrypoint for the reminder sweep. Wire an EventBridge
// rule (cron) at the trigger; every invocation runs one sweep.
func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	lambda.Start(func(ctx context.Context, _ events.CloudWatchEvent) error {
		sweeper, cleanup, err := buildSweeper(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to build sweeper", "error", err)
			return err
		}
		defer cleanup()

		summary, err := sweeper.Run(ctx)
		if err != nil {
			logger.Error("reminder sweep failed", "error", err)
			return err
		}
		logger.Info("reminder sweep done",
			"considered", summary.Considered,
			"sent", summary.Sent,
			"failed", summary.Failed,
			"skipped", summary.Skipped,
		)
		return nil
	})
}

func buildSweeper(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*reminders.Sweeper, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	directoryService := directory.NewService(directory.NewPostgresRepository(pool), logger)
	if err := directoryService.Sync(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("load doctor directory: %w", err)
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
			pool.Close()
			return nil, nil, fmt.Errorf("load AWS config: %w", err)
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
	return sweeper, pool.Close, nil
}
