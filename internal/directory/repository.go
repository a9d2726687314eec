package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage
type Repository interface {
	// UpsertSeed inserts or refreshes seed records keyed by public id,
	// preserving the storage identity of existing rows.
	UpsertSeed(ctx context.Context, doctors []Doctor) error
	// ListAll returns every doctor ordered by public id.
	ListAll(ctx context.Context) ([]Doctor, error)
}

// InMemoryRepository is a Repository backed by a process-local map, used in
// tests and as a storage-free fallback.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[int]Doctor
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{doctors: make(map[int]Doctor)}
}

// UpsertSeed stores the seed records, keeping the storage id of any doctor
// already present under the same public id.
func (r *InMemoryRepository) UpsertSeed(ctx context.Context, doctors []Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, d := range doctors {
		if existing, ok := r.doctors[d.PublicID]; ok {
			d.ID = existing.ID
			d.CreatedAt = existing.CreatedAt
		} else {
			d.ID = uuid.New()
			d.CreatedAt = now
		}
		d.UpdatedAt = now
		r.doctors[d.PublicID] = d
	}
	return nil
}

// ListAll returns all doctors ordered by public id.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	return out, nil
}
