package directory

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed seed/doctors.json
var seedFS embed.FS

type seedFile struct {
	Doctors []seedDoctor `json:"doctors"`
}

type seedDoctor struct {
	ID             int         `json:"id"`
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
}

// SeedDoctors parses the embedded directory seed file.
func SeedDoctors() ([]Doctor, error) {
	raw, err := seedFS.ReadFile("seed/doctors.json")
	if err != nil {
		return nil, fmt.Errorf("directory: read seed file: %w", err)
	}

	var file seedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("directory: parse seed file: %w", err)
	}

	doctors := make([]Doctor, 0, len(file.Doctors))
	for _, d := range file.Doctors {
		doctors = append(doctors, Doctor{
			PublicID:       d.ID,
			Name:           d.Name,
			Specialization: d.Specialization,
			Experience:     d.Experience,
			Rating:         d.Rating,
			Location:       d.Location,
			Coordinates:    d.Coordinates,
			Image:          d.Image,
			Availability:   d.Availability,
			Contact:        d.Contact,
			Description:    d.Description,
		})
	}
	return doctors, nil
}
