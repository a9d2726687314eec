package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("GEMINI_MODEL_ID", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected default email provider stub, got %s", cfg.EmailProvider)
	}
	if cfg.GeminiModelID != "gemini-1.5-flash" {
		t.Fatalf("expected default gemini model, got %s", cfg.GeminiModelID)
	}
	if !cfg.UseMemoryQueue {
		t.Fatalf("expected memory queue by default")
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Fatalf("expected default notify timeout, got %s", cfg.NotifyTimeout)
	}
	if cfg.ReminderLockTTL != 15*time.Minute {
		t.Fatalf("expected default reminder lock ttl, got %s", cfg.ReminderLockTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("USE_MEMORY_QUEUE", "false")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://careconnect.example, https://staging.careconnect.example")
	t.Setenv("ASSISTANT_RATE_LIMIT", "0.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected email provider lowercased, got %s", cfg.EmailProvider)
	}
	if cfg.UseMemoryQueue {
		t.Fatalf("expected memory queue disabled")
	}
	if cfg.NotifyTimeout != 3*time.Second {
		t.Fatalf("expected notify timeout override, got %s", cfg.NotifyTimeout)
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected worker count override, got %d", cfg.WorkerCount)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.careconnect.example" {
		t.Fatalf("expected trimmed cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.AssistantRateLimit != 0.5 {
		t.Fatalf("expected rate limit override, got %f", cfg.AssistantRateLimit)
	}
}
