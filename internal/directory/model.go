package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDoctorNotFound is returned when no doctor matches the requested id.
var ErrDoctorNotFound = errors.New("doctor not found")

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Doctor is a directory entry. PublicID is the small integer identifier used
// in URLs and forms; ID is the storage identity appointments reference.
type Doctor struct {
	ID             uuid.UUID   `json:"-"`
	PublicID       int         `json:"id"`
	Name           string      `json:"name"`
	Specialization string      `json:"specialization"`
	Experience     string      `json:"experience"`
	Rating         float64     `json:"rating"`
	Location       string      `json:"location"`
	Coordinates    Coordinates `json:"coordinates"`
	Image          string      `json:"image"`
	Availability   string      `json:"availability"`
	Contact        string      `json:"contact"`
	Description    string      `json:"description"`
	CreatedAt      time.Time   `json:"-"`
	UpdatedAt      time.Time   `json:"-"`
}

// ListFilter narrows a directory listing. The "All Specializations" and
// "All Locations" sentinels disable the corresponding equality filter.
type ListFilter struct {
	Search         string
	Specialization string
	Location       string
	Lat            *float64
	Lng            *float64
}

// ListedDoctor is a Doctor optionally annotated with the distance (km) from
// the caller's coordinates.
type ListedDoctor struct {
	Doctor
	Distance *float64 `json:"distance,omitempty"`
}
