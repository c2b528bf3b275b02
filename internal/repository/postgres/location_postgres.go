package postgres

import (
	"context"
	"database/sql"

	"github.com/kavirajan452/poel-step-registeration-form/internal/repository"
)

// LocationPostgres serves the hierarchical country/state/city lookup tables.
// Unknown names simply match no rows and come back as empty slices.
type LocationPostgres struct {
	db *sql.DB
}

// NewLocationPostgres creates a new LocationPostgres repository.
func NewLocationPostgres(db *sql.DB) *LocationPostgres {
	return &LocationPostgres{db: db}
}

var _ repository.LocationRepository = (*LocationPostgres)(nil)

func (r *LocationPostgres) Countries(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM countries ORDER BY name ASC`
	return r.names(ctx, q)
}

func (r *LocationPostgres) StatesByCountry(ctx context.Context, country string) ([]string, error) {
	const q = `
		SELECT s.name
		FROM states s
		JOIN countries c ON c.id = s.country_id
		WHERE c.name = $1
		ORDER BY s.name ASC
	`
	return r.names(ctx, q, country)
}

func (r *LocationPostgres) CitiesByState(ctx context.Context, state string) ([]string, error) {
	const q = `
		SELECT ci.name
		FROM cities ci
		JOIN states s ON s.id = ci.state_id
		WHERE s.name = $1
		ORDER BY ci.name ASC
	`
	return r.names(ctx, q, state)
}

func (r *LocationPostgres) names(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
