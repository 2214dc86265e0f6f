package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func unitVector(t *testing.T, seed float32) []float32 {
	t.Helper()
	v := make([]float32, Dimension)
	v[0] = seed
	v[1] = 1
	return v
}

func TestAdd_RejectsWrongDimension(t *testing.T) {
	idx := New()
	_, err := idx.Add(1, make([]float32, Dimension-1))
	require.ErrorIs(t, err, ErrInvalidDimension)
}

func TestAddSearch_RoundTrip(t *testing.T) {
	idx := New()
	v := unitVector(t, 3)
	slot, err := idx.Add(42, v)
	require.NoError(t, err)
	require.Equal(t, int64(0), slot)

	results, err := idx.Search(v, 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(42), results[0].PersonID)
	require.InDelta(t, 1.0, results[0].Score, 1e-5)
}

func TestSearch_TieBreakByPersonThenSlot(t *testing.T) {
	idx := New()
	v := unitVector(t, 5)
	// Two different people with identical vectors tie on score; person 2
	// must sort before person 7.
	_, err := idx.Add(7, v)
	require.NoError(t, err)
	_, err = idx.Add(2, v)
	require.NoError(t, err)

	results, err := idx.Search(v, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, int64(2), results[0].PersonID)
	require.Equal(t, int64(7), results[1].PersonID)
}

func TestSearch_OnePerPersonBestScoreWins(t *testing.T) {
	idx := New()
	a := unitVector(t, 1)
	b := append([]float32(nil), a...)
	b[2] = 0.01 // slightly off, lower score against the query

	_, err := idx.Add(9, b)
	require.NoError(t, err)
	_, err = idx.Add(9, a)
	require.NoError(t, err)

	results, err := idx.Search(a, 5, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.InDelta(t, 1.0, results[0].Score, 1e-5)
}

func TestRemoveByPerson_CompactsAndNeverReusesSlots(t *testing.T) {
	idx := New()
	v1 := unitVector(t, 1)
	v2 := unitVector(t, 2)
	v3 := unitVector(t, 3)

	s1, _ := idx.Add(1, v1)
	s2, _ := idx.Add(2, v2)
	s3, _ := idx.Add(1, v3)
	require.Equal(t, []int64{0, 1, 2}, []int64{s1, s2, s3})

	removed := idx.RemoveByPerson(1)
	require.Equal(t, 2, removed)
	require.Equal(t, 1, idx.Size())

	// A subsequent Add must allocate a fresh slot id, never 0 or 2 again.
	s4, err := idx.Add(3, v1)
	require.NoError(t, err)
	require.Equal(t, int64(3), s4)
}

func TestRemoveByPerson_NeverFailsForUnknownPerson(t *testing.T) {
	idx := New()
	require.Equal(t, 0, idx.RemoveByPerson(999))
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "vectors.bin")
	slotPath := filepath.Join(dir, "slots.bin")

	idx := New()
	v := unitVector(t, 7)
	_, err := idx.Add(100, v)
	require.NoError(t, err)
	_, err = idx.Add(200, unitVector(t, 8))
	require.NoError(t, err)
	idx.RemoveByPerson(200) // exercise slot compaction before snapshotting

	require.NoError(t, idx.Persist(vecPath, slotPath))

	fresh := New()
	require.NoError(t, fresh.Load(vecPath, slotPath))
	require.Equal(t, 1, fresh.Size())

	results, err := fresh.Search(v, 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(100), results[0].PersonID)
	require.GreaterOrEqual(t, results[0].Score, float32(1-1e-6))
}

func TestLoad_CorruptSnapshotLeavesIndexEmpty(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "vectors.bin")
	slotPath := filepath.Join(dir, "slots.bin")

	idx := New()
	_, err := idx.Add(1, unitVector(t, 1))
	require.NoError(t, err)
	require.NoError(t, idx.Persist(vecPath, slotPath))

	// Corrupt the slot file by truncating it.
	require.NoError(t, os.Truncate(slotPath, 4))

	fresh := New()
	err = fresh.Load(vecPath, slotPath)
	require.ErrorIs(t, err, ErrCorruptIndex)
	require.Equal(t, 0, fresh.Size())
}

func TestAutoPersist_SnapshotsEveryStructuralChange(t *testing.T) {
	dir := t.TempDir()
	vectors := filepath.Join(dir, "vectors.bin")
	slots := filepath.Join(dir, "slots.bin")

	idx := New()
	idx.AutoPersist(vectors, slots)

	_, err := idx.Add(1, unitVector(t, 1))
	require.NoError(t, err)
	_, err = idx.Add(2, unitVector(t, 2))
	require.NoError(t, err)

	// The snapshot on disk already reflects both adds, with no explicit
	// Persist call: a crash here would lose nothing.
	fresh := New()
	require.NoError(t, fresh.Load(vectors, slots))
	require.Equal(t, 2, fresh.Size())

	idx.RemoveByPerson(1)

	fresh = New()
	require.NoError(t, fresh.Load(vectors, slots))
	require.Equal(t, 1, fresh.Size())
	results, err := fresh.Search(unitVector(t, 2), 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(2), results[0].PersonID)
}
