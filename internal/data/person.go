package data

import (
	"context"
	"database/sql"
	"time"
)

// Person is a stable enrolled identity. ExternalID is unique and externally
// meaningful (e.g. a student/employee number); ID is assigned by the store.
type Person struct {
	ID           int64
	ExternalID   string
	FirstName    string
	LastName     string
	Group        string // optional, empty means ungrouped
	CreatedAt    time.Time
}

type PersonRepository interface {
	Create(ctx context.Context, p *Person) error
	GetByExternalID(ctx context.Context, externalID string) (*Person, error)
	GetByID(ctx context.Context, id int64) (*Person, error)
	List(ctx context.Context, skip, limit int) ([]*Person, error)
	// Delete removes the person row. Callers are responsible for cascading
	// into reference embeddings, index slots, presence entries and
	// attendance rows (see enroll.Coordinator.DeletePerson) — this method
	// only guarantees the person row and its reference_embeddings/
	// attendance_records are gone via FK ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) error
}

type PostgresPersonRepo struct {
	DB DBTX
}

func NewPostgresPersonRepo(db DBTX) *PostgresPersonRepo {
	return &PostgresPersonRepo{DB: db}
}

func (r *PostgresPersonRepo) Create(ctx context.Context, p *Person) error {
	query := `
		INSERT INTO persons (external_id, first_name, last_name, "group")
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, p.ExternalID, p.FirstName, p.LastName, p.Group).
		Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	return err
}

func (r *PostgresPersonRepo) GetByExternalID(ctx context.Context, externalID string) (*Person, error) {
	query := `
		SELECT id, external_id, first_name, last_name, "group", created_at
		FROM persons WHERE external_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, externalID))
}

func (r *PostgresPersonRepo) GetByID(ctx context.Context, id int64) (*Person, error) {
	query := `
		SELECT id, external_id, first_name, last_name, "group", created_at
		FROM persons WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PostgresPersonRepo) scanOne(row *sql.Row) (*Person, error) {
	var p Person
	err := row.Scan(&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.Group, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPersonRepo) List(ctx context.Context, skip, limit int) ([]*Person, error) {
	query := `
		SELECT id, external_id, first_name, last_name, "group", created_at
		FROM persons ORDER BY id ASC OFFSET $1 LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.Group, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PostgresPersonRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	return err
}
