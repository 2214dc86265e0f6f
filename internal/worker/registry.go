package worker

import (
	"context"
	"sync"

	"github.com/facewatch/attendance/internal/metrics"
)

// Registry tracks the set of currently-running camera workers, keyed by
// camera ID. It is the handle the HTTP edge uses to start/stop individual
// cameras or an entire room, following the keyed-by-ID shape the teacher
// uses for its NVR status caches (internal/nvr/monitor.go), but as a
// mutex-guarded map rather than a sync.Map.
type Registry struct {
	mu      sync.Mutex
	workers map[string]*entry
}

type entry struct {
	worker *Worker
	cancel context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{workers: make(map[string]*entry)}
}

// Start launches a worker for the given camera and tracks it. It is a
// no-op (the already-running worker is kept and w is not started) if the
// camera is already running.
func (reg *Registry) Start(ctx context.Context, w *Worker) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.workers[w.CameraID()]; ok {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	reg.workers[w.CameraID()] = &entry{worker: w, cancel: cancel}
	metrics.ActiveCameras.Set(float64(len(reg.workers)))
	go w.Run(runCtx)
}

// Stop cancels and removes the worker for cameraID, blocking until it
// reports itself stopped (bounded by its own ShutdownGrace). Returns
// false if no such worker is running.
func (reg *Registry) Stop(cameraID string) bool {
	reg.mu.Lock()
	e, ok := reg.workers[cameraID]
	if ok {
		delete(reg.workers, cameraID)
		metrics.ActiveCameras.Set(float64(len(reg.workers)))
	}
	reg.mu.Unlock()
	if !ok {
		return false
	}
	e.worker.Stop()
	e.cancel()
	return true
}

// StopRoom stops every running worker whose camera belongs to roomID.
func (reg *Registry) StopRoom(roomID string) int {
	reg.mu.Lock()
	var ids []string
	for id, e := range reg.workers {
		if e.worker.RoomID() == roomID {
			ids = append(ids, id)
		}
	}
	reg.mu.Unlock()

	for _, id := range ids {
		reg.Stop(id)
	}
	return len(ids)
}

// Get returns the running worker for cameraID, if any.
func (reg *Registry) Get(cameraID string) (*Worker, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	e, ok := reg.workers[cameraID]
	if !ok {
		return nil, false
	}
	return e.worker, true
}

// List returns every currently-running worker.
func (reg *Registry) List() []*Worker {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*Worker, 0, len(reg.workers))
	for _, e := range reg.workers {
		out = append(out, e.worker)
	}
	return out
}

// Running reports whether cameraID currently has an active worker, and
// its state if so. It only knows this process's workers; handlers that
// need a status for a camera this process isn't running fall back to the
// liveness registry themselves.
func (reg *Registry) Running(cameraID string) (State, bool) {
	w, ok := reg.Get(cameraID)
	if !ok {
		return "", false
	}
	return w.State(), true
}
