package data_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/data"
)

func newAttendanceMock(t *testing.T) (*data.PostgresAttendanceRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return data.NewPostgresAttendanceRepo(db), mock
}

func TestAttendanceRepo_Insert_AssignsID(t *testing.T) {
	repo, mock := newAttendanceMock(t)
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	at := day.Add(9 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs(int64(7), day, at, 0.91, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	rec := &data.AttendanceRecord{PersonID: 7, CalendarDay: day, CheckInTime: at, Confidence: 0.91}
	require.NoError(t, repo.Insert(t.Context(), rec))
	require.Equal(t, int64(42), rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepo_Insert_TranslatesUniqueViolation(t *testing.T) {
	repo, mock := newAttendanceMock(t)
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs(int64(7), day, sqlmock.AnyArg(), 0.91, "").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(t.Context(), &data.AttendanceRecord{PersonID: 7, CalendarDay: day, CheckInTime: day, Confidence: 0.91})
	require.ErrorIs(t, err, data.ErrUniqueViolation)
}

func TestAttendanceRepo_Statistics_ScansAggregates(t *testing.T) {
	repo, mock := newAttendanceMock(t)
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*), count(DISTINCT person_id), COALESCE(AVG(confidence), 0)`)).
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"count", "distinct", "avg"}).AddRow(5, 4, 0.83))

	stats, err := repo.Statistics(t.Context(), day)
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalToday)
	require.Equal(t, 4, stats.UniquePeople)
	require.InDelta(t, 0.83, stats.AverageConfidence, 1e-9)
}

func TestAttendanceRepo_ForPerson_ReturnsRowsInRange(t *testing.T) {
	repo, mock := newAttendanceMock(t)
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE person_id = $1 AND calendar_day BETWEEN $2 AND $3`)).
		WithArgs(int64(7), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "calendar_day", "check_in_time", "confidence", "snapshot_path"}).
			AddRow(int64(1), int64(7), from, from.Add(9*time.Hour), 0.9, "").
			AddRow(int64(2), int64(7), to, to.Add(8*time.Hour), 0.8, "snap.jpg"))

	out, err := repo.ForPerson(t.Context(), 7, from, to)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "snap.jpg", out[1].SnapshotPath)
}
