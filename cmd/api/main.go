package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/careconnect/careconnect-api/cmd/mainconfig"
	"github.com/careconnect/careconnect-api/internal/api/router"
	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/assistant"
	appconfig "github.com/careconnect/careconnect-api/internal/config"
	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/internal/reminders"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting careconnect API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	var (
		directoryRepo   directory.Repository
		appointmentRepo appointments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		directoryRepo = directory.NewPostgresRepository(pool)
		appointmentRepo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres storage")
	} else {
		directoryRepo = directory.NewInMemoryRepository()
		appointmentRepo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Doctor directory
	directoryService := directory.NewService(directoryRepo, logger)
	if err := directoryService.Sync(ctx); err != nil {
		logger.Error("failed to load doctor directory", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// AWS clients are only dialed when a component needs them.
	awsCfg, awsErr := mainconfig.LoadAWSConfig(ctx, cfg)

	// Email provider
	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		emailSender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		if awsErr != nil {
			logger.Error("failed to load AWS config for SES", "error", awsErr)
			os.Exit(1)
		}
		emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifyService := notify.NewService(emailSender, bookingMetrics, cfg.NotifyTimeout, logger)

	// Notification queue + dispatcher
	var publisher *notify.Publisher
	var dispatcher *notify.Dispatcher
	if cfg.UseMemoryQueue || cfg.NotificationQueueURL == "" {
		memQueue := notify.NewMemoryQueue(256)
		publisher = notify.NewPublisher(memQueue, logger)
		dispatcher = notify.NewDispatcher(memQueue, notifyService, logger,
			notify.WithWorkerCount(cfg.WorkerCount))
	} else {
		if awsErr != nil {
			logger.Error("failed to load AWS config for SQS", "error", awsErr)
			os.Exit(1)
		}
		sqsQueue := notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotificationQueueURL)
		publisher = notify.NewPublisher(sqsQueue, logger)
		dispatcher = notify.NewDispatcher(sqsQueue, notifyService, logger,
			notify.WithWorkerCount(cfg.WorkerCount))
	}
	dispatcher.Start(ctx)

	// Appointments
	appointmentService := appointments.NewService(appointmentRepo, directoryService, publisher, logger)
	appointmentsHandler := appointments.NewHandler(appointmentService, bookingMetrics, logger)
	directoryHandler := directory.NewHandler(directoryService, logger)

	// Assistant (optional; requires a Gemini key)
	var assistantHandler *assistant.Handler
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()

		var llm assistant.LLMClient = gemini
		if cfg.BedrockModelID != "" && awsErr == nil {
			bedrock, err := assistant.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
			if err != nil {
				logger.Error("failed to create bedrock client", "error", err)
				os.Exit(1)
			}
			llm = assistant.NewFallbackClient(gemini, bedrock, logger)
		}

		var finder assistant.VideoFinder
		if cfg.YouTubeAPIKey != "" {
			yt, err := assistant.NewYouTubeFinder(ctx, cfg.YouTubeAPIKey)
			if err != nil {
				logger.Error("failed to create youtube client", "error", err)
				os.Exit(1)
			}
			finder = yt
		}

		assistantService := assistant.NewService(llm, finder, cfg.AssistantTimeout, logger)
		assistantHandler = assistant.NewHandler(assistantService, bookingMetrics, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant endpoints disabled")
	}

	// Daily reminder sweeps run inside the API process when Redis is
	// configured; the standalone reminders binary covers cron/Lambda setups.
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		lock := reminders.NewRedisLock(redisClient, cfg.ReminderLockTTL, logger)
		sweeper := reminders.NewSweeper(appointmentRepo, directoryService, notifyService,
			lock, bookingMetrics, time.Local, logger)
		go runDailySweeps(ctx, sweeper, logger)
	}

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		DirectoryHandler:    directoryHandler,
		AppointmentsHandler: appointmentsHandler,
		AssistantHandler:    assistantHandler,
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		AssistantRateLimit:  cfg.AssistantRateLimit,
		AssistantBurst:      cfg.AssistantRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	dispatcher.Wait()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// runDailySweeps fires one sweep shortly after startup, then once a day.
func runDailySweeps(ctx context.Context, sweeper *reminders.Sweeper, logger *logging.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if _, err := sweeper.Run(ctx); err != nil {
			logger.Error("reminder sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
