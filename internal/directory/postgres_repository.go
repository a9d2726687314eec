package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// UpsertSeed inserts seed rows, refreshing mutable fields on conflict while
// keeping the storage id stable.
func (r *PostgresRepository) UpsertSeed(ctx context.Context, doctors []Doctor) error {
	query := `
		INSERT INTO doctors (id, public_id, name, specialization, experience, rating,
			location, lat, lng, image, availability, contact, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (public_id) DO UPDATE SET
			name = EXCLUDED.name,
			specialization = EXCLUDED.specialization,
			experience = EXCLUDED.experience,
			rating = EXCLUDED.rating,
			location = EXCLUDED.location,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			image = EXCLUDED.image,
			availability = EXCLUDED.availability,
			contact = EXCLUDED.contact,
			description = EXCLUDED.description,
			updated_at = now()
	`
	for _, d := range doctors {
		id := d.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := r.pool.Exec(ctx, query,
			id,
			d.PublicID,
			d.Name,
			d.Specialization,
			d.Experience,
			d.Rating,
			d.Location,
			d.Coordinates.Lat,
			d.Coordinates.Lng,
			d.Image,
			d.Availability,
			d.Contact,
			d.Description,
		); err != nil {
			return fmt.Errorf("directory: upsert doctor %d: %w", d.PublicID, err)
		}
	}
	return nil
}

// ListAll returns every doctor ordered by public id.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Doctor, error) {
	query := `
		SELECT id, public_id, name, specialization, experience, rating,
			location, lat, lng, image, availability, contact, description,
			created_at, updated_at
		FROM doctors
		ORDER BY public_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("directory: list doctors: %w", err)
	}
	defer rows.Close()

	return scanDoctors(rows)
}

func scanDoctors(rows pgx.Rows) ([]Doctor, error) {
	var doctors []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(
			&d.ID,
			&d.PublicID,
			&d.Name,
			&d.Specialization,
			&d.Experience,
			&d.Rating,
			&d.Location,
			&d.Coordinates.Lat,
			&d.Coordinates.Lng,
			&d.Image,
			&d.Availability,
			&d.Contact,
			&d.Description,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("directory: scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterate doctors: %w", err)
	}
	return doctors, nil
}
