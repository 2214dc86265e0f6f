package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/recognize"
)

// AttendanceHandler exposes C6 manual check-in plus the read side of the
// attendance ledger: today's roll, a student's history, and daily stats.
type AttendanceHandler struct {
	Persons data.PersonRepository
	Records data.AttendanceRepository
	Engine  *recognize.Engine
	Gate    *attendance.Gate
	Now     func() time.Time
}

func NewAttendanceHandler(persons data.PersonRepository, records data.AttendanceRepository, engine *recognize.Engine, gate *attendance.Gate) *AttendanceHandler {
	return &AttendanceHandler{Persons: persons, Records: records, Engine: engine, Gate: gate, Now: time.Now}
}

type checkInRequest struct {
	Image string `json:"image"` // base64-encoded JPEG
}

// POST /attendance/check-in
//
// Accepts a single base64-encoded still frame, runs it through the
// recognition engine and the attendance gate directly, bypassing any
// camera worker — the manual kiosk path alongside the continuous
// per-camera one. The status field is always one of success,
// already_attended, no_match, no_face, or error.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "image (base64 JPEG) is required"})
		return
	}
	frame, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "image is not valid base64"})
		return
	}

	analysis, err := h.Engine.Analyze(r.Context(), frame)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "error": err.Error()})
		return
	}
	if analysis.FacesDetected == 0 {
		respondJSON(w, http.StatusOK, map[string]any{"status": "no_face"})
		return
	}
	if len(analysis.Matches) == 0 {
		respondJSON(w, http.StatusOK, map[string]any{"status": "no_match"})
		return
	}

	best := analysis.Matches[0]
	for _, m := range analysis.Matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}

	result, err := h.Gate.Record(r.Context(), best.PersonID, float64(best.Confidence), h.Now(), frame)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "error": err.Error()})
		return
	}

	// A match above the recognition threshold but below the attendance
	// minimum is reported as no_match: the caller's five statuses have no
	// separate suppressed state.
	if result.Outcome == attendance.Suppressed {
		respondJSON(w, http.StatusOK, map[string]any{"status": "no_match", "confidence": best.Confidence})
		return
	}

	status := "success"
	if result.Outcome == attendance.Already {
		status = "already_attended"
	}

	person := ""
	if p, perr := h.Persons.GetByID(r.Context(), best.PersonID); perr == nil {
		person = p.ExternalID
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":        status,
		"person":        person,
		"confidence":    best.Confidence,
		"check_in_time": result.CheckInTime,
		"attendance_id": result.RecordID,
	})
}

// GET /attendance/today
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	records, err := h.Records.Today(r.Context(), h.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GET /attendance/student/{external_id}?date_from=&date_to=
func (h *AttendanceHandler) ForStudent(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	student, err := h.Persons.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	from, to, err := parseDateRange(r, h.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.Records.ForPerson(r.Context(), student.ID, from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GET /attendance/statistics?date=
func (h *AttendanceHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	day := h.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	stats, err := h.Records.Statistics(r.Context(), day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func parseDateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("date_from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errBadDate("date_from")
		}
		from = parsed
	}
	if v := r.URL.Query().Get("date_to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errBadDate("date_to")
		}
		to = parsed
	}
	return from, to, nil
}

func errBadDate(field string) error {
	return &badDateError{field: field}
}

type badDateError struct{ field string }

func (e *badDateError) Error() string { return e.field + " must be formatted as YYYY-MM-DD" }
