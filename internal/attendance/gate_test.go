package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/data"
)

func cfg() attendance.Config {
	return attendance.Config{AttendanceMin: 0.6, Location: time.UTC}
}

func TestRecord_Suppressed_BelowThreshold(t *testing.T) {
	repo := data.NewPostgresAttendanceRepo(nil)
	g := attendance.NewGate(repo, cfg())

	res, err := g.Record(context.Background(), 1, 0.4, time.Now(), nil)
	require.NoError(t, err)
	require.Equal(t, attendance.Suppressed, res.Outcome)
}

func TestRecord_Created_OnFirstInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO attendance_records").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := data.NewPostgresAttendanceRepo(db)
	g := attendance.NewGate(repo, cfg())

	now := time.Date(2026, 7, 30, 9, 15, 0, 0, time.UTC)
	res, err := g.Record(context.Background(), 1, 0.9, now, nil)
	require.NoError(t, err)
	require.Equal(t, attendance.Created, res.Outcome)
	require.Equal(t, int64(42), res.RecordID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestRecord_Already_OnConcurrentDuplicate exercises the losing side of
// testable property 3: when the insert hits the DB's unique constraint
// (a concurrent recognition already created today's row), Record reports
// already with the existing row's id, relying on that constraint rather
// than an in-process lock.
func TestRecord_Already_OnConcurrentDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 7, 30, 9, 15, 0, 0, time.UTC)
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO attendance_records").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectQuery("SELECT id, person_id, calendar_day, check_in_time, confidence").
		WithArgs(int64(1), day, day).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "calendar_day", "check_in_time", "confidence", "snapshot_path"}).
			AddRow(7, 1, day, now.Add(-time.Minute), 0.95, ""))

	repo := data.NewPostgresAttendanceRepo(db)
	g := attendance.NewGate(repo, cfg())

	res, err := g.Record(context.Background(), 1, 0.9, now, nil)
	require.NoError(t, err)
	require.Equal(t, attendance.Already, res.Outcome)
	require.Equal(t, int64(7), res.RecordID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarDay_UsesConfiguredZone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 23:45 UTC on July 29 is already July 30 in IST (+5:30).
	now := time.Date(2026, 7, 29, 23, 45, 0, 0, time.UTC)
	wantDay := time.Date(2026, 7, 30, 0, 0, 0, 0, ist)

	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(int64(1), wantDay, now, 0.9, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	repo := data.NewPostgresAttendanceRepo(db)
	g := attendance.NewGate(repo, attendance.Config{AttendanceMin: 0.6, Location: ist})

	res, err := g.Record(context.Background(), 1, 0.9, now, nil)
	require.NoError(t, err)
	require.Equal(t, attendance.Created, res.Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}
