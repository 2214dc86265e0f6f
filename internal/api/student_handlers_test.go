package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/api"
	"github.com/facewatch/attendance/internal/data"
)

// fakePersons is an in-memory data.PersonRepository, standing in for the
// teacher's sqlmock-backed tests: these handlers never issue SQL
// themselves, so a fake at the repository seam is the narrower unit.
type fakePersons struct {
	byExternalID map[string]*data.Person
	nextID       int64
}

func newFakePersons() *fakePersons {
	return &fakePersons{byExternalID: make(map[string]*data.Person)}
}

func (f *fakePersons) Create(ctx context.Context, p *data.Person) error {
	if _, ok := f.byExternalID[p.ExternalID]; ok {
		return data.ErrUniqueViolation
	}
	f.nextID++
	p.ID = f.nextID
	f.byExternalID[p.ExternalID] = p
	return nil
}

func (f *fakePersons) GetByExternalID(ctx context.Context, externalID string) (*data.Person, error) {
	p, ok := f.byExternalID[externalID]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePersons) GetByID(ctx context.Context, id int64) (*data.Person, error) {
	for _, p := range f.byExternalID {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (f *fakePersons) List(ctx context.Context, skip, limit int) ([]*data.Person, error) {
	var out []*data.Person
	for _, p := range f.byExternalID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePersons) Delete(ctx context.Context, id int64) error {
	for ext, p := range f.byExternalID {
		if p.ID == id {
			delete(f.byExternalID, ext)
			return nil
		}
	}
	return nil
}

func TestStudentHandler_Register_CreatesStudent(t *testing.T) {
	persons := newFakePersons()
	h := api.NewStudentHandler(persons, nil)

	body := strings.NewReader(`{"external_id":"S-001","first_name":"Ada","last_name":"Lovelace","group":"10A"}`)
	req := httptest.NewRequest(http.MethodPost, "/students/register", body)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got data.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "S-001", got.ExternalID)
	require.Equal(t, int64(1), got.ID)
}

func TestStudentHandler_Register_DuplicateExternalID(t *testing.T) {
	persons := newFakePersons()
	h := api.NewStudentHandler(persons, nil)

	register := func() *httptest.ResponseRecorder {
		body := strings.NewReader(`{"external_id":"S-001","first_name":"Ada","last_name":"Lovelace"}`)
		req := httptest.NewRequest(http.MethodPost, "/students/register", body)
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, register().Code)
	require.Equal(t, http.StatusConflict, register().Code)
}

func TestStudentHandler_Get_NotFound(t *testing.T) {
	persons := newFakePersons()
	h := api.NewStudentHandler(persons, nil)

	router := chi.NewRouter()
	router.Get("/students/{external_id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/students/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentHandler_List_ReturnsRegisteredStudents(t *testing.T) {
	persons := newFakePersons()
	h := api.NewStudentHandler(persons, nil)
	require.NoError(t, persons.Create(t.Context(), &data.Person{ExternalID: "S-100"}))

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*data.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
}
