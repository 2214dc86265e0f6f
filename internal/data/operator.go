package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Operator is the single authentication identity this rebuild needs: there
// is no tenant or role-grant table, just an account that can sign in and a
// role string carried straight into the bearer token (SPEC_FULL.md §2.3).
type Operator struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    time.Time
}

type OperatorRepository interface {
	Create(ctx context.Context, o *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Operator, error)
}

type PostgresOperatorRepo struct{ DB DBTX }

func NewPostgresOperatorRepo(db DBTX) *PostgresOperatorRepo { return &PostgresOperatorRepo{DB: db} }

func (r *PostgresOperatorRepo) Create(ctx context.Context, o *Operator) error {
	query := `
		INSERT INTO operators (email, display_name, password_hash, role, is_disabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, o.Email, o.DisplayName, o.PasswordHash, o.Role, o.IsDisabled).
		Scan(&o.ID, &o.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	return err
}

func (r *PostgresOperatorRepo) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	query := `
		SELECT id, email, display_name, password_hash, role, is_disabled, created_at
		FROM operators WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PostgresOperatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*Operator, error) {
	query := `
		SELECT id, email, display_name, password_hash, role, is_disabled, created_at
		FROM operators WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PostgresOperatorRepo) scanOne(row *sql.Row) (*Operator, error) {
	var o Operator
	err := row.Scan(&o.ID, &o.Email, &o.DisplayName, &o.PasswordHash, &o.Role, &o.IsDisabled, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
