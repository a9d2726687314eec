package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for the doctor directory
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new directory handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ListResponse is the body for GET /api/doctors.
type ListResponse struct {
	Message string         `json:"message"`
	Total   int            `json:"total,omitempty"`
	Doctors []ListedDoctor `json:"doctors"`
}

// List handles GET /api/doctors requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Search:         q.Get("search"),
		Specialization: q.Get("specialization"),
		Location:       q.Get("location"),
	}

	if latStr, lngStr := q.Get("lat"), q.Get("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			filter.Lat = &lat
			filter.Lng = &lng
		}
	}

	doctors := h.service.List(r.Context(), filter)
	if len(doctors) == 0 {
		writeJSON(w, http.StatusNotFound, ListResponse{
			Message: "No doctors found matching your criteria",
			Doctors: []ListedDoctor{},
		})
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Message: fmt.Sprintf("Found %d doctors", len(doctors)),
		Total:   len(doctors),
		Doctors: doctors,
	})
}

// Get handles GET /api/doctors/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Doctor not found"})
		return
	}

	doctor, err := h.service.FindByHumanID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Doctor not found"})
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
