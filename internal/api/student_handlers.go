package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/enroll"
)

// StudentHandler exposes C2/C4: creating enrolled identities and feeding
// their reference images through the enrollment coordinator.
type StudentHandler struct {
	Persons     data.PersonRepository
	Coordinator *enroll.Coordinator
}

func NewStudentHandler(persons data.PersonRepository, coord *enroll.Coordinator) *StudentHandler {
	return &StudentHandler{Persons: persons, Coordinator: coord}
}

type registerStudentRequest struct {
	ExternalID string `json:"external_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Group      string `json:"group"`
}

// POST /students/register
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ExternalID == "" {
		respondError(w, http.StatusBadRequest, "external_id is required")
		return
	}

	p := &data.Person{
		ExternalID: req.ExternalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Group:      req.Group,
	}
	if err := h.Persons.Create(r.Context(), p); err != nil {
		if errors.Is(err, data.ErrUniqueViolation) {
			respondError(w, http.StatusConflict, "external_id already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// POST /students/{external_id}/upload-images
func (h *StudentHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	person, err := h.Persons.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "at least one image file is required")
		return
	}

	raw := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "could not open uploaded file")
			return
		}
		imgBytes, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		raw = append(raw, imgBytes)
	}

	result, err := h.Coordinator.Enroll(r.Context(), person.ID, raw)
	if err != nil {
		if errors.Is(err, enroll.ErrTooManyImages) {
			respondError(w, http.StatusBadRequest, "image count exceeds the configured cap")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /students?skip=&limit=
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 50)

	students, err := h.Persons.List(r.Context(), skip, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, students)
}

// GET /students/{external_id}
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, student)
}

// DELETE /students/{external_id}
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Coordinator.DeletePerson(r.Context(), student.ID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
