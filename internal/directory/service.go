package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Sentinel values the frontend sends when a dropdown filter is unset.
const (
	allSpecializations = "All Specializations"
	allLocations       = "All Locations"
)

// Service is the single source of truth for doctor records. The directory is
// seeded once at startup and served from a read-only in-process snapshot.
type Service struct {
	repo     Repository
	logger   *logging.Logger
	snapshot atomic.Pointer[[]Doctor]
}

// NewService constructs a directory service.
func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("directory: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Sync upserts the embedded seed records into storage and refreshes the
// in-process snapshot. Call once at startup.
func (s *Service) Sync(ctx context.Context) error {
	seed, err := SeedDoctors()
	if err != nil {
		return err
	}
	if err := s.repo.UpsertSeed(ctx, seed); err != nil {
		return fmt.Errorf("directory: seed upsert: %w", err)
	}

	doctors, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	s.snapshot.Store(&doctors)
	s.logger.Info("doctor directory loaded", "count", len(doctors))
	return nil
}

// FindByHumanID resolves the human-facing numeric id to a directory record.
func (s *Service) FindByHumanID(ctx context.Context, publicID int) (*Doctor, error) {
	for _, d := range s.all() {
		if d.PublicID == publicID {
			doc := d
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// FindByID resolves a storage identity to a directory record.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	for _, d := range s.all() {
		if d.ID == id {
			doc := d
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// List filters the directory. When caller coordinates are present, every
// result is annotated with its haversine distance and the list is sorted by
// ascending distance; otherwise seed order (public id) is kept.
func (s *Service) List(ctx context.Context, filter ListFilter) []ListedDoctor {
	var out []ListedDoctor
	for _, d := range s.all() {
		if !matches(d, filter) {
			continue
		}
		out = append(out, ListedDoctor{Doctor: d})
	}

	if filter.Lat != nil && filter.Lng != nil {
		for i := range out {
			dist := Haversine(*filter.Lat, *filter.Lng, out[i].Coordinates.Lat, out[i].Coordinates.Lng)
			out[i].Distance = &dist
		}
		sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	}
	return out
}

func (s *Service) all() []Doctor {
	if p := s.snapshot.Load(); p != nil {
		return *p
	}
	return nil
}

func matches(d Doctor, f ListFilter) bool {
	if f.Specialization != "" && f.Specialization != allSpecializations && d.Specialization != f.Specialization {
		return false
	}
	if f.Location != "" && f.Location != allLocations && d.Location != f.Location {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Specialization), term) &&
			!strings.Contains(strings.ToLower(d.Location), term) {
			return false
		}
	}
	return true
}
