package data

import (
	"context"
	"database/sql"
	"time"
)

// AttendanceRecord is a single daily check-in. (person_id, calendar_day) is
// enforced unique at the DB level (see migrations/0003_attendance.up.sql) —
// internal/attendance relies on that constraint instead of an in-process
// lock so it stays correct across crash/restart and multiple server
// instances.
type AttendanceRecord struct {
	ID             int64
	PersonID       int64
	CalendarDay    time.Time // truncated to a date in the configured zone
	CheckInTime    time.Time
	Confidence     float64
	SnapshotPath   string // optional, empty if none
}

type AttendanceRepository interface {
	// Insert attempts the unique (person_id, calendar_day) insert. It
	// returns ErrUniqueViolation, not a generic error, when the day is
	// already taken — callers translate that into the "already" outcome.
	Insert(ctx context.Context, r *AttendanceRecord) error
	Today(ctx context.Context, day time.Time) ([]*AttendanceRecord, error)
	ForPerson(ctx context.Context, personID int64, from, to time.Time) ([]*AttendanceRecord, error)
	Statistics(ctx context.Context, day time.Time) (AttendanceStats, error)
}

type AttendanceStats struct {
	TotalToday      int
	UniquePeople    int
	AverageConfidence float64
}

type PostgresAttendanceRepo struct {
	DB DBTX
}

func NewPostgresAttendanceRepo(db DBTX) *PostgresAttendanceRepo {
	return &PostgresAttendanceRepo{DB: db}
}

func (r *PostgresAttendanceRepo) Insert(ctx context.Context, rec *AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (person_id, calendar_day, check_in_time, confidence, snapshot_path)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		rec.PersonID, rec.CalendarDay, rec.CheckInTime, rec.Confidence, rec.SnapshotPath,
	).Scan(&rec.ID)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	return err
}

func (r *PostgresAttendanceRepo) Today(ctx context.Context, day time.Time) ([]*AttendanceRecord, error) {
	return r.query(ctx, `
		SELECT id, person_id, calendar_day, check_in_time, confidence, COALESCE(snapshot_path, '')
		FROM attendance_records WHERE calendar_day = $1 ORDER BY check_in_time ASC`, day)
}

func (r *PostgresAttendanceRepo) ForPerson(ctx context.Context, personID int64, from, to time.Time) ([]*AttendanceRecord, error) {
	return r.query(ctx, `
		SELECT id, person_id, calendar_day, check_in_time, confidence, COALESCE(snapshot_path, '')
		FROM attendance_records
		WHERE person_id = $1 AND calendar_day BETWEEN $2 AND $3
		ORDER BY calendar_day ASC`, personID, from, to)
}

func (r *PostgresAttendanceRepo) query(ctx context.Context, query string, args ...any) ([]*AttendanceRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AttendanceRecord
	for rows.Next() {
		var rec AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.CalendarDay, &rec.CheckInTime, &rec.Confidence, &rec.SnapshotPath); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresAttendanceRepo) Statistics(ctx context.Context, day time.Time) (AttendanceStats, error) {
	query := `
		SELECT count(*), count(DISTINCT person_id), COALESCE(AVG(confidence), 0)
		FROM attendance_records WHERE calendar_day = $1`
	var s AttendanceStats
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, query, day).Scan(&s.TotalToday, &s.UniquePeople, &avg)
	if err != nil {
		return s, err
	}
	s.AverageConfidence = avg.Float64
	return s, nil
}
