package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/api"
	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/embedding"
	"github.com/facewatch/attendance/internal/index"
	"github.com/facewatch/attendance/internal/recognize"
)

type fakeProvider struct {
	faces []embedding.Face
}

func (p *fakeProvider) Detect(ctx context.Context, imageData []byte) ([]embedding.Face, error) {
	return p.faces, nil
}

type fakeSearcher struct {
	results []index.Result
}

func (s *fakeSearcher) Search(query []float32, k int, minScore float32) ([]index.Result, error) {
	return s.results, nil
}

type fakeAttendanceRepo struct {
	records map[int64]*data.AttendanceRecord
	nextID  int64
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[int64]*data.AttendanceRecord)}
}

func (f *fakeAttendanceRepo) Insert(ctx context.Context, r *data.AttendanceRecord) error {
	for _, existing := range f.records {
		if existing.PersonID == r.PersonID && existing.CalendarDay.Equal(r.CalendarDay) {
			return data.ErrUniqueViolation
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.records[r.ID] = r
	return nil
}

func (f *fakeAttendanceRepo) Today(ctx context.Context, day time.Time) ([]*data.AttendanceRecord, error) {
	var out []*data.AttendanceRecord
	for _, r := range f.records {
		if r.CalendarDay.Equal(day) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ForPerson(ctx context.Context, personID int64, from, to time.Time) ([]*data.AttendanceRecord, error) {
	var out []*data.AttendanceRecord
	for _, r := range f.records {
		if r.PersonID == personID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Statistics(ctx context.Context, day time.Time) (data.AttendanceStats, error) {
	return data.AttendanceStats{TotalToday: len(f.records)}, nil
}

func checkInRequestJSON(t *testing.T, frame []byte) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]string{"image": base64.StdEncoding.EncodeToString(frame)})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/attendance/check-in", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAttendanceHandler_CheckIn_SuccessOnMatch(t *testing.T) {
	provider := &fakeProvider{faces: []embedding.Face{{Quality: 0.9, Embedding: []float32{0.1, 0.2}}}}
	searcher := &fakeSearcher{results: []index.Result{{PersonID: 7, Score: 0.95}}}
	engine := recognize.NewEngine(provider, searcher, recognize.Config{QMinRecognize: 0.5, ConfidenceThreshold: 0.5})

	repo := newFakeAttendanceRepo()
	gate := attendance.NewGate(repo, attendance.Config{AttendanceMin: 0.5})

	h := api.NewAttendanceHandler(newFakePersons(), repo, engine, gate)
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	h.Now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	h.CheckIn(rec, checkInRequestJSON(t, []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp["status"])
	require.Equal(t, float64(1), resp["attendance_id"])

	// A second identical check-in the same day reports already_attended
	// with the original check-in time.
	rec2 := httptest.NewRecorder()
	h.CheckIn(rec2, checkInRequestJSON(t, []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rec2.Code)
	var resp2 map[string]any
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))
	require.Equal(t, "already_attended", resp2["status"])
	require.Equal(t, resp["check_in_time"], resp2["check_in_time"])
}

func TestAttendanceHandler_CheckIn_NoFace(t *testing.T) {
	provider := &fakeProvider{faces: nil}
	searcher := &fakeSearcher{}
	engine := recognize.NewEngine(provider, searcher, recognize.Config{})
	repo := newFakeAttendanceRepo()
	gate := attendance.NewGate(repo, attendance.Config{})

	h := api.NewAttendanceHandler(newFakePersons(), repo, engine, gate)

	rec := httptest.NewRecorder()
	h.CheckIn(rec, checkInRequestJSON(t, []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "no_face", resp["status"])
}

func TestAttendanceHandler_CheckIn_NoMatch(t *testing.T) {
	provider := &fakeProvider{faces: []embedding.Face{{Quality: 0.9, Embedding: []float32{0.1, 0.2}}}}
	searcher := &fakeSearcher{} // face found, nobody enrolled
	engine := recognize.NewEngine(provider, searcher, recognize.Config{QMinRecognize: 0.5, ConfidenceThreshold: 0.5})
	repo := newFakeAttendanceRepo()
	gate := attendance.NewGate(repo, attendance.Config{})

	h := api.NewAttendanceHandler(newFakePersons(), repo, engine, gate)

	rec := httptest.NewRecorder()
	h.CheckIn(rec, checkInRequestJSON(t, []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "no_match", resp["status"])
}

func TestAttendanceHandler_Today_ReturnsTodaysRecords(t *testing.T) {
	repo := newFakeAttendanceRepo()
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(t.Context(), &data.AttendanceRecord{PersonID: 1, CalendarDay: now, CheckInTime: now}))

	h := api.NewAttendanceHandler(newFakePersons(), repo, nil, nil)
	h.Now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/attendance/today", nil)
	rec := httptest.NewRecorder()
	h.Today(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*data.AttendanceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
}
