package repository

import (
	"context"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

// RegistrationRepository defines data access for registration records using
// SQL queries only. No business logic here, strictly persistence operations.
type RegistrationRepository interface {
	// Create inserts a new registration record. The caller provides ID and
	// CreatedAt; the stored record is returned.
	Create(ctx context.Context, reg *model.Registration) (*model.Registration, error)

	// SetMeta upserts one key/value metadata pair on a registration.
	SetMeta(ctx context.Context, registrationID, key, value string) error

	// AddFile attaches a stored-file reference to a registration.
	AddFile(ctx context.Context, registrationID string, f *model.StoredFile) error

	// FindByID returns a registration with its metadata and file references.
	FindByID(ctx context.Context, id string) (*model.Registration, error)

	// List returns a paginated list of registrations (without metadata or
	// files) and the total row count for the given filter.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Registration], error)
}

// LocationRepository is the hierarchical country → state → city lookup
// store. Unknown names yield empty slices, never errors.
type LocationRepository interface {
	Countries(ctx context.Context) ([]string, error)
	StatesByCountry(ctx context.Context, country string) ([]string, error)
	CitiesByState(ctx context.Context, state string) ([]string, error)
}
