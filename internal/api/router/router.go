package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careconnect/careconnect-api/internal/appointments"
	"github.com/careconnect/careconnect-api/internal/assistant"
	"github.com/careconnect/careconnect-api/internal/directory"
	httpmiddleware "github.com/careconnect/careconnect-api/internal/http/middleware"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	DirectoryHandler    *directory.Handler
	AppointmentsHandler *appointments.Handler
	AssistantHandler    *assistant.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Rate limiting for the assistant endpoints; disabled when zero.
	AssistantRateLimit float64
	AssistantBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.DirectoryHandler != nil {
			api.Route("/doctors", func(r chi.Router) {
				r.Get("/", cfg.DirectoryHandler.List)
				r.Get("/{id}", cfg.DirectoryHandler.Get)
			})
		}

		if cfg.AppointmentsHandler != nil {
			api.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.AppointmentsHandler.Create)
				r.Get("/doctor/{doctorId}", cfg.AppointmentsHandler.ListByDoctor)
				r.Get("/patient/{email}", cfg.AppointmentsHandler.ListByPatient)
				r.Patch("/{appointmentId}/status", cfg.AppointmentsHandler.UpdateStatus)
			})
		}

		if cfg.AssistantHandler != nil {
			api.Group(func(ai chi.Router) {
				if cfg.AssistantRateLimit > 0 {
					ai.Use(httpmiddleware.RateLimit(cfg.AssistantRateLimit, cfg.AssistantBurst))
				}
				ai.Post("/chat", cfg.AssistantHandler.Chat)
				ai.Post("/nutrition", cfg.AssistantHandler.NutritionPlan)
				ai.Post("/video-recommendation", cfg.AssistantHandler.RecommendVideos)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
