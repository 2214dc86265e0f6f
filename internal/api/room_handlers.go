package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/camsource"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/hub"
	"github.com/facewatch/attendance/internal/presence"
	"github.com/facewatch/attendance/internal/recognize"
	"github.com/facewatch/attendance/internal/worker"
)

// RoomHandler exposes room/camera CRUD plus the start/stop control surface
// for C7 workers, following the teacher's camera_handlers.go shape: one
// struct holding every dependency a resource's handlers need, with
// chi.URLParam in place of r.PathValue for path parameters.
type RoomHandler struct {
	Rooms   data.RoomRepository
	Cameras data.CameraRepository
	Workers *worker.Registry
	Hub     *hub.Hub
	Tracker *presence.Tracker
	Engine  *recognize.Engine
	Gate    *attendance.Gate
	Live    *worker.Liveness

	RecognitionHz         float64
	StreamMaxHz           float64
	EventCooldown         time.Duration
	ConnectTimeout        time.Duration
	ShutdownGrace         time.Duration
	PersistenceFailWindow time.Duration
}

type createRoomRequest struct {
	Name string `json:"name"`
}

// POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	room := &data.Room{ID: uuid.NewString(), Name: req.Name, IsActive: true}
	if err := h.Rooms.Create(r.Context(), room); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

// GET /rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// GET /rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, err := h.Rooms.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepoErr(w, err, "room not found")
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// DELETE /rooms/{id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Workers.StopRoom(id)
	if err := h.Rooms.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createCameraRequest struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
}

// POST /rooms/{id}/cameras
func (h *RoomHandler) CreateCamera(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if _, err := h.Rooms.GetByID(r.Context(), roomID); err != nil {
		h.respondRepoErr(w, err, "room not found")
		return
	}

	var req createCameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.SourceURL == "" {
		respondError(w, http.StatusBadRequest, "name and source_url are required")
		return
	}

	cam := &data.Camera{ID: uuid.NewString(), RoomID: roomID, Name: req.Name, SourceURL: req.SourceURL, IsActive: true}
	if err := h.Cameras.Create(r.Context(), cam); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, cam)
}

// GET /rooms/{id}/cameras
func (h *RoomHandler) ListCameras(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	cams, err := h.Cameras.ListByRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type cameraStatus struct {
		*data.Camera
		State string `json:"state"`
	}
	out := make([]cameraStatus, 0, len(cams))
	for _, c := range cams {
		state := string(worker.StateOffline)
		if s, ok := h.Workers.Running(c.ID); ok {
			state = string(s)
		} else if s, ok, err := h.Live.Get(r.Context(), c.ID); err == nil && ok {
			// Another process may be running this camera's worker; the
			// Redis liveness registry is the shared view of its state.
			state = string(s)
		}
		out = append(out, cameraStatus{Camera: c, State: state})
	}
	respondJSON(w, http.StatusOK, out)
}

// DELETE /rooms/{id}/cameras/{cid}
func (h *RoomHandler) DeleteCamera(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	h.Workers.Stop(cid)
	if err := h.Cameras.Delete(r.Context(), cid); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /rooms/{id}/cameras/{cid}/start
func (h *RoomHandler) StartCamera(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	cam, err := h.Cameras.GetByID(r.Context(), cid)
	if err != nil {
		h.respondRepoErr(w, err, "camera not found")
		return
	}

	if _, running := h.Workers.Get(cam.ID); running {
		respondJSON(w, http.StatusOK, map[string]string{"status": "already running"})
		return
	}

	w2, err := worker.NewWorker(h.workerConfig(cam),
		camsource.NewHTTPSource(cam.SourceURL, h.ConnectTimeout),
		h.Engine, h.Gate, h.Tracker, h.Hub, h.Live,
	)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Workers.Start(context.Background(), w2)
	respondJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (h *RoomHandler) workerConfig(cam *data.Camera) worker.Config {
	return worker.Config{
		CameraID:              cam.ID,
		RoomID:                cam.RoomID,
		RecognitionHz:         h.RecognitionHz,
		StreamMaxHz:           h.StreamMaxHz,
		EventCooldown:         h.EventCooldown,
		ConnectTimeout:        h.ConnectTimeout,
		ShutdownGrace:         h.ShutdownGrace,
		PersistenceFailWindow: h.PersistenceFailWindow,
	}
}

// POST /rooms/{id}/cameras/{cid}/stop
func (h *RoomHandler) StopCamera(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	if !h.Workers.Stop(cid) {
		respondError(w, http.StatusNotFound, "camera is not running")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// POST /rooms/{id}/start-all
func (h *RoomHandler) StartAll(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	cams, err := h.Cameras.ListByRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	started := 0
	for _, cam := range cams {
		if !cam.IsActive {
			continue
		}
		if _, running := h.Workers.Get(cam.ID); running {
			continue
		}
		w2, err := worker.NewWorker(h.workerConfig(cam),
			camsource.NewHTTPSource(cam.SourceURL, h.ConnectTimeout),
			h.Engine, h.Gate, h.Tracker, h.Hub, h.Live,
		)
		if err != nil {
			continue
		}
		h.Workers.Start(context.Background(), w2)
		started++
	}
	respondJSON(w, http.StatusOK, map[string]int{"started": started})
}

// POST /rooms/{id}/stop-all
func (h *RoomHandler) StopAll(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	stopped := h.Workers.StopRoom(roomID)
	respondJSON(w, http.StatusOK, map[string]int{"stopped": stopped})
}

func (h *RoomHandler) respondRepoErr(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, data.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
