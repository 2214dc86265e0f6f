// Package attendance implements the attendance gate (C6): per
// (person, calendar-day), at most one attendance record. Correctness comes
// from the DB's unique constraint, not an in-process lock, so two
// concurrent successful recognitions for the same person on the same day
// race safely even across multiple server instances or after a crash.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/facewatch/attendance/internal/data"
)

// Outcome is one of the three results record() can produce.
type Outcome string

const (
	Created    Outcome = "created"
	Already    Outcome = "already"
	Suppressed Outcome = "suppressed"
)

// Config holds the attendance tunables from spec.md §6.
type Config struct {
	AttendanceMin float64
	Location      *time.Location // open question in spec.md §9: explicit, never guessed
	SnapshotRoot  string
}

type Gate struct {
	repo data.AttendanceRepository
	cfg  Config
}

func NewGate(repo data.AttendanceRepository, cfg Config) *Gate {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Gate{repo: repo, cfg: cfg}
}

// Result is what Record returns to its caller.
type Result struct {
	Outcome     Outcome
	RecordID    int64
	CheckInTime time.Time
}

// Record implements spec.md §4.4. snapshot, if non-empty, is written to
// SnapshotRoot only after a successful insert (never before — see
// spec.md §9's open question on snapshot-before-insert leaks) via an
// atomic temp-then-rename, keyed by person id and the check-in time.
func (g *Gate) Record(ctx context.Context, personID int64, confidence float64, now time.Time, snapshot []byte) (Result, error) {
	if confidence < g.cfg.AttendanceMin {
		return Result{Outcome: Suppressed}, nil
	}

	day := calendarDay(now, g.cfg.Location)
	rec := &data.AttendanceRecord{
		PersonID:    personID,
		CalendarDay: day,
		CheckInTime: now,
		Confidence:  confidence,
	}

	err := g.repo.Insert(ctx, rec)
	switch {
	case err == nil:
		// Snapshot only after the row is durable (spec.md §9): a failed
		// write here never rolls back an already-recorded attendance.
		g.writeSnapshot(personID, now, snapshot)
		return Result{Outcome: Created, RecordID: rec.ID, CheckInTime: rec.CheckInTime}, nil
	case errors.Is(err, data.ErrUniqueViolation):
		existing, ferr := g.findExisting(ctx, personID, day)
		if ferr != nil {
			return Result{}, ferr
		}
		return Result{Outcome: Already, RecordID: existing.ID, CheckInTime: existing.CheckInTime}, nil
	default:
		return Result{}, fmt.Errorf("attendance: insert failed: %w", err)
	}
}

func (g *Gate) findExisting(ctx context.Context, personID int64, day time.Time) (*data.AttendanceRecord, error) {
	recs, err := g.repo.ForPerson(ctx, personID, day, day)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("attendance: unique violation but no existing row found for person %d on %s", personID, day)
	}
	return recs[0], nil
}

// calendarDay truncates now to a date boundary in loc. No DST special
// casing is applied beyond what time.Time already does when converting
// zones — see SPEC_FULL.md §9 for why that is the documented decision
// rather than a silent guess.
func calendarDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func (g *Gate) writeSnapshot(personID int64, now time.Time, payload []byte) (string, error) {
	if len(payload) == 0 || g.cfg.SnapshotRoot == "" {
		return "", nil
	}
	dir := filepath.Join(g.cfg.SnapshotRoot, fmt.Sprint(personID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	final := filepath.Join(dir, now.Format("20060102T150405.000Z0700")+".jpg")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return final, nil
}
