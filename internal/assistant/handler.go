package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for the health assistant
type Handler struct {
	service *Service
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewHandler creates a new assistant handler. metrics may be nil.
func NewHandler(service *Service, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, metrics: m, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/chat requests
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		h.metrics.ObserveAssistant("chat", "invalid")
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		h.metrics.ObserveAssistant("chat", "error")
		writeError(w, http.StatusInternalServerError, "Failed to fetch response from Gemini API")
		return
	}

	h.metrics.ObserveAssistant("chat", "ok")
	writeBody(w, http.StatusOK, map[string]string{"reply": reply})
}

// NutritionPlan handles POST /api/nutrition requests
func (h *Handler) NutritionPlan(w http.ResponseWriter, r *http.Request) {
	var req NutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveAssistant("nutrition", "invalid")
		writeError(w, http.StatusBadRequest, "Invalid age. Must be between 0 and 120.")
		return
	}
	if msg, ok := validateNutrition(req); !ok {
		h.metrics.ObserveAssistant("nutrition", "invalid")
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	plan, err := h.service.NutritionPlan(r.Context(), req)
	if err != nil {
		h.metrics.ObserveAssistant("nutrition", "error")
		writeError(w, http.StatusInternalServerError, "Failed to generate nutrition plan")
		return
	}

	h.metrics.ObserveAssistant("nutrition", "ok")
	writeBody(w, http.StatusOK, map[string]string{"plan": plan})
}

type videoRequest struct {
	Prompt string `json:"prompt"`
}

// RecommendVideos handles POST /api/video-recommendation requests
func (h *Handler) RecommendVideos(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Prompt)) < 3 {
		h.metrics.ObserveAssistant("video", "invalid")
		writeError(w, http.StatusBadRequest, "Invalid prompt. Must be at least 3 characters long.")
		return
	}

	videos, err := h.service.RecommendVideos(r.Context(), strings.TrimSpace(req.Prompt))
	if err != nil {
		h.metrics.ObserveAssistant("video", "error")
		writeError(w, http.StatusInternalServerError, "Failed to fetch video recommendations")
		return
	}

	h.metrics.ObserveAssistant("video", "ok")
	writeBody(w, http.StatusOK, map[string][]Video{"videos": videos})
}

func validateNutrition(req NutritionRequest) (string, bool) {
	if req.Age <= 0 || req.Age > 120 {
		return "Invalid age. Must be between 0 and 120.", false
	}
	if req.Height < 50 || req.Height > 250 {
		return "Invalid height. Must be between 50 and 250 cm.", false
	}
	if req.Weight < 20 || req.Weight > 300 {
		return "Invalid weight. Must be between 20 and 300 kg.", false
	}
	if req.Gender != "male" && req.Gender != "female" {
		return `Invalid gender. Must be either "male" or "female".`, false
	}
	return "", true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeBody(w, status, map[string]string{"error": msg})
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
