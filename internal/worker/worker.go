// Package worker implements the camera worker (C7): one independent,
// cancellable state machine per active camera. It owns its cooldown map
// and its connection to a frame source; everything else it touches
// (recognition, attendance, presence, the subscription hub) is shared and
// already safe for concurrent use.
package worker

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/hub"
	"github.com/facewatch/attendance/internal/metrics"
	"github.com/facewatch/attendance/internal/presence"
	"github.com/facewatch/attendance/internal/recognize"
)

// State is one node of the state machine in spec.md §4.5.
type State string

const (
	StateOffline    State = "offline"
	StateConnecting State = "connecting"
	StateStreaming  State = "streaming"
	StateFailed     State = "failed"
	StateStopped    State = "stopped"
)

// FrameSource yields the newest available frame, discarding any backlog
// itself (freshness over completeness). A concrete implementation (RTSP
// pull, ONVIF snapshot, test fixture) is supplied by the caller.
type FrameSource interface {
	NextFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Config holds the per-camera tunables from spec.md §6.
type Config struct {
	CameraID       string
	RoomID         string
	RecognitionHz  float64
	StreamMaxHz    float64
	EventCooldown  time.Duration
	ConnectTimeout time.Duration
	ShutdownGrace  time.Duration
	BackoffInitial time.Duration
	BackoffFactor  float64
	BackoffCap     time.Duration
	StatusInterval time.Duration

	// PersistenceFailWindow bounds how long attendance writes may keep
	// failing before the worker gives up its stream and goes through the
	// failed/backoff path instead of hammering a dead store.
	PersistenceFailWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.BackoffInitial == 0 {
		c.BackoffInitial = time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2
	}
	if c.BackoffCap == 0 {
		c.BackoffCap = 30 * time.Second
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = 5 * time.Second
	}
	if c.PersistenceFailWindow == 0 {
		c.PersistenceFailWindow = 30 * time.Second
	}
	return c
}

// EventItem is one recognition result in a camera control event.
type EventItem struct {
	PersonID    int64      `json:"person"`
	Confidence  float32    `json:"confidence"`
	Status      string     `json:"status"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
}

// CameraEvent is published on the camera:<id> topic as a structured event
// whenever at least one recognition in a frame passed the cooldown.
type CameraEvent struct {
	Type       string      `json:"type"` // always "recognition"
	Recognized []EventItem `json:"recognized"`
	Timestamp  time.Time   `json:"timestamp"`
}

// StatusEvent is interleaved on the camera:<id> topic at StatusInterval so
// stream subscribers can tell a stalled camera from a quiet one.
type StatusEvent struct {
	Type       string  `json:"type"` // always "status"
	Connected  bool    `json:"connected"`
	Running    bool    `json:"running"`
	FPS        float64 `json:"fps"`
	FrameCount uint64  `json:"frame_count"`
}

// Worker is C7.
type Worker struct {
	cfg     Config
	source  FrameSource
	engine  *recognize.Engine
	gate    *attendance.Gate
	tracker *presence.Tracker
	hub     *hub.Hub
	live    *Liveness

	cooldown   *lru.Cache[string, time.Time]
	frameCount uint64

	// persistFailingSince is zero while attendance writes succeed; set on
	// the first consecutive failure. Only touched from the frame loop.
	persistFailingSince time.Time

	stateMu sync.Mutex
	state   State

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewWorker(cfg Config, source FrameSource, engine *recognize.Engine, gate *attendance.Gate, tracker *presence.Tracker, h *hub.Hub, live *Liveness) (*Worker, error) {
	cooldown, err := lru.New[string, time.Time](4096)
	if err != nil {
		return nil, fmt.Errorf("worker: create cooldown cache: %w", err)
	}
	return &Worker{
		cfg:      cfg.withDefaults(),
		source:   source,
		engine:   engine,
		gate:     gate,
		tracker:  tracker,
		hub:      h,
		live:     live,
		cooldown: cooldown,
		state:    StateOffline,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (w *Worker) State() State {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.state
}

// transition updates the in-process state and best-effort publishes it to
// the liveness registry on a context of its own — a caller-supplied ctx
// may already be cancelled (e.g. this transition is itself a reaction to
// shutdown), and that must never suppress the final state update.
func (w *Worker) transition(s State) {
	w.stateMu.Lock()
	w.state = s
	w.stateMu.Unlock()
	if w.live != nil {
		liveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := w.live.Set(liveCtx, w.cfg.CameraID, s); err != nil {
			log.Printf("worker: camera=%s liveness update failed: %v", w.cfg.CameraID, err)
		}
	}
}

// Run drives the state machine until ctx is cancelled or Stop is called.
// It accepts stop from any state, per spec.md §4.5. Internally it derives
// a context that is cancelled the instant Stop fires, so any in-flight
// source.NextFrame call is woken up rather than left blocking — that is
// what keeps the shutdown bound real rather than just bounding the
// caller's wait inside Stop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.doneCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	backoff := w.cfg.BackoffInitial

	for {
		if w.shouldStop(runCtx) {
			w.transition(StateStopped)
			w.source.Close()
			return
		}

		switch w.State() {
		case StateOffline, StateFailed:
			w.transition(StateConnecting)

		case StateConnecting:
			connectCtx, ccancel := context.WithTimeout(runCtx, w.cfg.ConnectTimeout)
			_, err := w.source.NextFrame(connectCtx)
			ccancel()
			if err != nil {
				w.transition(StateFailed)
				if w.waitBackoff(runCtx, backoff) {
					w.transition(StateStopped)
					w.source.Close()
					return
				}
				backoff = nextBackoff(backoff, w.cfg.BackoffFactor, w.cfg.BackoffCap)
				continue
			}
			backoff = w.cfg.BackoffInitial
			w.transition(StateStreaming)

		case StateStreaming:
			w.streamLoop(runCtx)

		case StateStopped:
			return
		}
	}
}

// Stop requests shutdown and blocks until the worker's task is observably
// finished or ShutdownGrace elapses, whichever comes first.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	select {
	case <-w.doneCh:
	case <-time.After(w.cfg.ShutdownGrace):
		log.Printf("worker: camera=%s did not stop within shutdown grace, forcing termination", w.cfg.CameraID)
	}
}

func (w *Worker) shouldStop(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// waitBackoff waits out the backoff duration, returning true if a stop
// request arrived first.
func (w *Worker) waitBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.stopCh:
		return true
	case <-time.After(d):
		return false
	}
}

func nextBackoff(cur time.Duration, factor float64, cap time.Duration) time.Duration {
	next := time.Duration(float64(cur) * factor)
	if next > cap {
		return cap
	}
	return next
}

// streamLoop implements the frame loop of spec.md §4.5 while in the
// streaming state. It returns (to the connecting/failed transition in Run)
// as soon as the source errors, or immediately if a stop is requested.
func (w *Worker) streamLoop(ctx context.Context) {
	recInterval := hzToInterval(w.cfg.RecognitionHz)
	streamInterval := hzToInterval(w.cfg.StreamMaxHz)
	var lastRecognition, lastPublish time.Time

	statusStart := time.Now()
	var statusFrames uint64
	lastStatus := statusStart

	for {
		if w.shouldStop(ctx) {
			return
		}

		frame, err := w.source.NextFrame(ctx)
		if err != nil {
			w.transition(StateFailed)
			return
		}
		w.frameCount++
		statusFrames++

		now := time.Now()
		if now.Sub(lastPublish) >= streamInterval {
			w.hub.Publish(cameraTopic(w.cfg.CameraID), hub.KindFrame, frame, nil)
			lastPublish = now
		}

		if now.Sub(lastRecognition) >= recInterval {
			lastRecognition = now
			w.processFrame(ctx, frame, now)
			if !w.persistFailingSince.IsZero() && now.Sub(w.persistFailingSince) > w.cfg.PersistenceFailWindow {
				log.Printf("worker: camera=%s persistence failing for over %s, entering failed state", w.cfg.CameraID, w.cfg.PersistenceFailWindow)
				w.transition(StateFailed)
				return
			}
		}

		if elapsed := now.Sub(lastStatus); elapsed >= w.cfg.StatusInterval {
			fps := float64(statusFrames) / elapsed.Seconds()
			w.hub.Publish(cameraTopic(w.cfg.CameraID), hub.KindEvent, nil, StatusEvent{
				Type:       "status",
				Connected:  true,
				Running:    true,
				FPS:        fps,
				FrameCount: w.frameCount,
			})
			statusFrames = 0
			lastStatus = now
		}
	}
}

func hzToInterval(hz float64) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / hz)
}

func cameraTopic(cameraID string) string { return "camera:" + cameraID }
func roomTopic(roomID string) string     { return "room:" + roomID }

// CameraTopic and RoomTopic are the public names of the hub topics a
// worker publishes on, so internal/api can subscribe without depending on
// package-internal naming.
func CameraTopic(cameraID string) string { return cameraTopic(cameraID) }
func RoomTopic(roomID string) string     { return roomTopic(roomID) }

// CameraID returns the camera this worker drives, for handlers that hold
// only a *Worker (e.g. from a registry) and need to report its identity.
func (w *Worker) CameraID() string { return w.cfg.CameraID }

// RoomID returns the room this worker's camera belongs to.
func (w *Worker) RoomID() string { return w.cfg.RoomID }

// processFrame runs recognition on one selected frame and, for each match,
// applies the cooldown/attendance/presence/publish sequence from
// spec.md §4.5 step 3.
func (w *Worker) processFrame(ctx context.Context, frame []byte, now time.Time) {
	start := time.Now()
	matches, err := w.engine.Recognize(ctx, frame)
	metrics.RecognitionLatency.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		log.Printf("worker: camera=%s recognize failed: %v", w.cfg.CameraID, err)
		return
	}

	var emitted []EventItem
	for _, m := range matches {
		key := strconv.FormatInt(m.PersonID, 10)

		withinCooldown := false
		if lastEmit, ok := w.cooldown.Get(key); ok {
			withinCooldown = now.Sub(lastEmit) < w.cfg.EventCooldown
		}

		if withinCooldown {
			metrics.CooldownSuppressionsTotal.Inc()
		} else {
			res, err := w.gate.Record(ctx, m.PersonID, float64(m.Confidence), now, frame)
			if err != nil {
				if w.persistFailingSince.IsZero() {
					w.persistFailingSince = now
				}
				log.Printf("worker: camera=%s attendance record failed for person=%d: %v", w.cfg.CameraID, m.PersonID, err)
			} else {
				w.persistFailingSince = time.Time{}
				metrics.AttendanceOutcomesTotal.WithLabelValues(string(res.Outcome)).Inc()
				w.cooldown.Add(key, now)
				item := EventItem{PersonID: m.PersonID, Confidence: m.Confidence, Status: string(res.Outcome)}
				if res.Outcome == attendance.Created {
					ts := res.CheckInTime
					item.CheckInTime = &ts
				}
				emitted = append(emitted, item)
			}
		}

		w.tracker.Touch(w.cfg.RoomID, m.PersonID, w.cfg.CameraID, now, m.Confidence)
	}

	if len(emitted) > 0 {
		w.hub.Publish(cameraTopic(w.cfg.CameraID), hub.KindEvent, nil, CameraEvent{Type: "recognition", Recognized: emitted, Timestamp: now})
	}
}
