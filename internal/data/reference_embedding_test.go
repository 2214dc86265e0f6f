package data_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/data"
)

func newRefMock(t *testing.T) (*data.PostgresReferenceEmbeddingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return data.NewPostgresReferenceEmbeddingRepo(db), mock
}

func TestReferenceEmbeddingRepo_Create_AssignsID(t *testing.T) {
	repo, mock := newRefMock(t)
	created := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reference_embeddings`)).
		WithArgs(int64(7), "data/images/7/ref.jpg", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), created))

	e := &data.ReferenceEmbedding{PersonID: 7, ImagePath: "data/images/7/ref.jpg", Embedding: []float32{0.1, 0.2, 0.3}}
	require.NoError(t, repo.Create(t.Context(), e))
	require.Equal(t, int64(3), e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceEmbeddingRepo_ListByPerson_DecodesVectorBlob(t *testing.T) {
	repo, mock := newRefMock(t)
	created := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)

	// The little-endian float32 layout Create persists.
	blob := []byte{
		0x00, 0x00, 0x80, 0x3e, // 0.25
		0x00, 0x00, 0x00, 0xbf, // -0.5
		0x00, 0x00, 0x80, 0x3f, // 1
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM reference_embeddings WHERE person_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "image_path", "embedding", "created_at"}).
			AddRow(int64(1), int64(7), "p", blob, created))

	out, err := repo.ListByPerson(t.Context(), 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, []float32{0.25, -0.5, 1}, out[0].Embedding)
}

func TestReferenceEmbeddingRepo_ListByPerson_RejectsTruncatedBlob(t *testing.T) {
	repo, mock := newRefMock(t)
	created := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM reference_embeddings WHERE person_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "image_path", "embedding", "created_at"}).
			AddRow(int64(1), int64(7), "p", []byte{0x01, 0x02, 0x03}, created))

	_, err := repo.ListByPerson(t.Context(), 7)
	require.Error(t, err)
}

func TestReferenceEmbeddingRepo_CountByPerson(t *testing.T) {
	repo, mock := newRefMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM reference_embeddings WHERE person_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	n, err := repo.CountByPerson(t.Context(), 7)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}
