package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/presence"
)

// PresenceHandler exposes C8's read side: per-room occupancy, the
// whole-building view, and where a given student currently is.
type PresenceHandler struct {
	Persons data.PersonRepository
	Tracker *presence.Tracker
	Now     func() time.Time
}

func NewPresenceHandler(persons data.PersonRepository, tracker *presence.Tracker) *PresenceHandler {
	return &PresenceHandler{Persons: persons, Tracker: tracker, Now: time.Now}
}

// GET /rooms/{id}/presence
func (h *PresenceHandler) Room(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	entries := h.Tracker.Snapshot(roomID, h.Now())
	respondJSON(w, http.StatusOK, entries)
}

// GET /rooms/presence/all
func (h *PresenceHandler) All(w http.ResponseWriter, r *http.Request) {
	rooms, uniquePeople := h.Tracker.SnapshotAll(h.Now())
	respondJSON(w, http.StatusOK, map[string]any{
		"rooms":         rooms,
		"unique_people": uniquePeople,
	})
}

// GET /rooms/presence/student/{external_id}
func (h *PresenceHandler) Student(w http.ResponseWriter, r *http.Request) {
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

	roomID, ok := h.Tracker.Locate(student.ID, h.Now())
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"present": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"present": true, "room_id": roomID})
}

// GET /rooms/presence/stats
func (h *PresenceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rooms, uniquePeople := h.Tracker.SnapshotAll(h.Now())
	occupancy := make(map[string]int, len(rooms))
	for _, room := range rooms {
		occupancy[room.RoomID] = len(room.Entries)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"rooms":         occupancy,
		"unique_people": uniquePeople,
	})
}
