package data

import (
	"context"
	"errors"
	"math"
	"time"
)

// EmbeddingDimension is D in the spec: the fixed length of every embedding
// vector, for both reference embeddings and similarity-index slots.
const EmbeddingDimension = 512

// ReferenceEmbedding is a single enrolled face sample. The invariant that
// every row here has exactly one corresponding index slot is maintained by
// internal/enroll, which writes both sides inside one logical unit of work.
type ReferenceEmbedding struct {
	ID        int64
	PersonID  int64
	ImagePath string
	Embedding []float32
	CreatedAt time.Time
}

type ReferenceEmbeddingRepository interface {
	Create(ctx context.Context, r *ReferenceEmbedding) error
	Delete(ctx context.Context, id int64) error
	CountByPerson(ctx context.Context, personID int64) (int, error)
	ListByPerson(ctx context.Context, personID int64) ([]*ReferenceEmbedding, error)
}

type PostgresReferenceEmbeddingRepo struct {
	DB DBTX
}

func NewPostgresReferenceEmbeddingRepo(db DBTX) *PostgresReferenceEmbeddingRepo {
	return &PostgresReferenceEmbeddingRepo{DB: db}
}

func (r *PostgresReferenceEmbeddingRepo) Create(ctx context.Context, e *ReferenceEmbedding) error {
	query := `
		INSERT INTO reference_embeddings (person_id, image_path, embedding)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.DB.QueryRowContext(ctx, query, e.PersonID, e.ImagePath, encodeVector(e.Embedding)).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *PostgresReferenceEmbeddingRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM reference_embeddings WHERE id = $1`, id)
	return err
}

func (r *PostgresReferenceEmbeddingRepo) CountByPerson(ctx context.Context, personID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM reference_embeddings WHERE person_id = $1`, personID).Scan(&n)
	return n, err
}

func (r *PostgresReferenceEmbeddingRepo) ListByPerson(ctx context.Context, personID int64) ([]*ReferenceEmbedding, error) {
	query := `
		SELECT id, person_id, image_path, embedding, created_at
		FROM reference_embeddings WHERE person_id = $1 ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ReferenceEmbedding
	for rows.Next() {
		var e ReferenceEmbedding
		var raw []byte
		if err := rows.Scan(&e.ID, &e.PersonID, &e.ImagePath, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Embedding, err = decodeVector(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// encodeVector/decodeVector store the embedding as a raw little-endian
// float32 blob (bytea column) rather than a pgvector extension, so the
// store has no dependency beyond plain Postgres — the similarity index
// itself (not the DB) is what does the nearest-neighbor work.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		bits := math.Float32bits(f)
		buf[4*i+0] = byte(bits)
		buf[4*i+1] = byte(bits >> 8)
		buf[4*i+2] = byte(bits >> 16)
		buf[4*i+3] = byte(bits >> 24)
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, errors.New("data: embedding blob length is not a multiple of 4")
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}
