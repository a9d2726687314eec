package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careconnect/careconnect-api/internal/directory"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler. metrics may be nil.
func NewHandler(service *Service, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, metrics: m, logger: logger}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Create handles POST /api/appointments requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Please provide all required fields"})
		return
	}

	appt, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.metrics.ObserveBooking(outcomeLabel(err))
		switch {
		case errors.Is(err, ErrMissingFields):
			writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Please provide all required fields"})
		case errors.Is(err, directory.ErrDoctorNotFound):
			writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Message: "Doctor not found"})
		case errors.Is(err, ErrSlotTaken):
			writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "This time slot is already booked"})
		default:
			h.logger.Error("failed to create appointment", "error", err)
			writeEnvelope(w, http.StatusInternalServerError, envelope{Success: false, Message: "Error creating appointment"})
		}
		return
	}

	h.metrics.ObserveBooking("created")
	writeEnvelope(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Appointment booked successfully",
		Data:    appt,
	})
}

// ListByDoctor handles GET /api/appointments/doctor/{doctorId} requests
func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.Atoi(chi.URLParam(r, "doctorId"))
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Message: "Doctor not found"})
		return
	}

	appts, err := h.service.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Message: "Doctor not found"})
			return
		}
		h.logger.Error("failed to list doctor appointments", "error", err, "doctor_id", doctorID)
		writeEnvelope(w, http.StatusInternalServerError, envelope{Success: false, Message: "Error fetching appointments"})
		return
	}

	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: nonNil(appts)})
}

// ListByPatient handles GET /api/appointments/patient/{email} requests
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	appts, err := h.service.ListByPatient(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to list patient appointments", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, envelope{Success: false, Message: "Error fetching appointments"})
		return
	}

	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: nonNil(appts)})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/appointments/{appointmentId}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid status"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "appointmentId"))
	if err != nil {
		// Still reject a bogus status before reporting the unknown id.
		if !Status(req.Status).Valid() {
			writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid status"})
			return
		}
		writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Message: "Appointment not found"})
		return
	}

	appt, err := h.service.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid status"})
		case errors.Is(err, ErrInvalidTransition):
			writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid status transition"})
		case errors.Is(err, ErrAppointmentNotFound):
			writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Message: "Appointment not found"})
		default:
			h.logger.Error("failed to update appointment status", "error", err, "appointment_id", id)
			writeEnvelope(w, http.StatusInternalServerError, envelope{Success: false, Message: "Error updating appointment status"})
		}
		return
	}

	writeEnvelope(w, http.StatusOK, envelope{
		Success: true,
		Message: "Appointment status updated successfully",
		Data:    appt,
	})
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "validation_error"
	case errors.Is(err, directory.ErrDoctorNotFound):
		return "doctor_not_found"
	case errors.Is(err, ErrSlotTaken):
		return "slot_conflict"
	default:
		return "error"
	}
}

func nonNil(appts []Appointment) []Appointment {
	if appts == nil {
		return []Appointment{}
	}
	return appts
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
