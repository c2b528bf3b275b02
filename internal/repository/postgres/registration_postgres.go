package postgres

import (
	"context"
	"database/sql"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/repository"
)

// RegistrationPostgres is a PostgreSQL implementation of
// repository.RegistrationRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type RegistrationPostgres struct {
	db *sql.DB
}

// NewRegistrationPostgres creates a new RegistrationPostgres repository.
func NewRegistrationPostgres(db *sql.DB) *RegistrationPostgres {
	return &RegistrationPostgres{db: db}
}

var _ repository.RegistrationRepository = (*RegistrationPostgres)(nil)

// Create inserts a new registration row and returns the stored record.
func (r *RegistrationPostgres) Create(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	const q = `
		INSERT INTO registrations (id, form_type, title, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, form_type, title, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		reg.ID,
		string(reg.FormType),
		reg.Title,
		reg.CreatedAt,
	)
	var out model.Registration
	if err := row.Scan(
		&out.ID,
		&out.FormType,
		&out.Title,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMeta upserts one metadata pair keyed by (registration_id, key).
func (r *RegistrationPostgres) SetMeta(ctx context.Context, registrationID, key, value string) error {
	const q = `
		INSERT INTO registration_meta (registration_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (registration_id, key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := r.db.ExecContext(ctx, q, registrationID, key, value)
	return err
}

// AddFile attaches a stored-file reference row to a registration.
func (r *RegistrationPostgres) AddFile(ctx context.Context, registrationID string, f *model.StoredFile) error {
	const q = `
		INSERT INTO registration_files (registration_id, field, storage_key, original_filename, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		registrationID,
		f.Field,
		f.Key,
		f.OriginalFilename,
		f.ContentType,
		f.Size,
	)
	return err
}

// FindByID fetches a registration along with its metadata and files.
func (r *RegistrationPostgres) FindByID(ctx context.Context, id string) (*model.Registration, error) {
	const q = `
		SELECT id, form_type, title, created_at
		FROM registrations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var reg model.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.FormType,
		&reg.Title,
		&reg.CreatedAt,
	); err != nil {
		return nil, err
	}

	const qMeta = `SELECT key, value FROM registration_meta WHERE registration_id = $1`
	rows, err := r.db.QueryContext(ctx, qMeta, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reg.Meta = make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		reg.Meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qFiles = `
		SELECT field, storage_key, original_filename, content_type, size
		FROM registration_files
		WHERE registration_id = $1
		ORDER BY field
	`
	frows, err := r.db.QueryContext(ctx, qFiles, id)
	if err != nil {
		return nil, err
	}
	defer frows.Close()

	for frows.Next() {
		var f model.StoredFile
		if err := frows.Scan(&f.Field, &f.Key, &f.OriginalFilename, &f.ContentType, &f.Size); err != nil {
			return nil, err
		}
		reg.Files = append(reg.Files, f)
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}

	return &reg, nil
}

// List returns registrations using LIMIT/OFFSET pagination, a total count,
// and an optional form_type filter.
func (r *RegistrationPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Registration], error) {
	const qCount = `SELECT COUNT(*) FROM registrations WHERE ($1 = '' OR form_type = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, pq.FormType).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, form_type, title, created_at
		FROM registrations
		WHERE ($1 = '' OR form_type = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.FormType, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.FormType,
			&reg.Title,
			&reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Registration]{
		Items: items,
		Total: total,
	}, nil
}
