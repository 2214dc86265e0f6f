package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/facewatch/attendance/internal/auth"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/hub"
	"github.com/facewatch/attendance/internal/middleware"
	"github.com/facewatch/attendance/internal/presence"
	"github.com/facewatch/attendance/internal/worker"
)

// StreamHandler bridges hub subscriptions onto WebSocket connections:
// /ws/cameras/{id}/stream carries one camera's frames and events,
// /ws/rooms/all/presence carries the cross-room presence.Aggregator feed.
// Grounded on the teacher's internal/api/sfu_ws_handlers.go upgrade/pump
// shape, with the SFU/WebRTC signaling stripped down to a plain relay.
//
// Browsers cannot set an Authorization header on a WebSocket upgrade
// request, so these routes sit outside the bearer-header JWTAuth group
// and instead validate a "token" query-string parameter against the same
// TokenValidator/blacklist the header-based middleware uses.
type StreamHandler struct {
	Hub           *hub.Hub
	Tokens        middleware.TokenValidator
	Blacklist     auth.TokenBlacklist
	Tracker       *presence.Tracker
	Rooms         data.RoomRepository
	RefreshPeriod time.Duration
	Now           func() time.Time
	upgrader      websocket.Upgrader
}

func NewStreamHandler(h *hub.Hub, tokens middleware.TokenValidator, blacklist auth.TokenBlacklist, tracker *presence.Tracker, rooms data.RoomRepository, refreshPeriod time.Duration) *StreamHandler {
	return &StreamHandler{
		Hub:           h,
		Tokens:        tokens,
		Blacklist:     blacklist,
		Tracker:       tracker,
		Rooms:         rooms,
		RefreshPeriod: refreshPeriod,
		Now:           time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) CameraStream(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	cameraID := chi.URLParam(r, "camera_id")
	h.pump(w, r, worker.CameraTopic(cameraID), hub.ModeBoth)
}

// occupantJSON is one presence entry as the WS surface exposes it.
type occupantJSON struct {
	PersonID   int64     `json:"person_id"`
	CameraID   string    `json:"camera_id"`
	LastSeen   time.Time `json:"last_seen"`
	Confidence float32   `json:"confidence"`
}

type roomPresenceJSON struct {
	RoomID     string         `json:"room_id"`
	RoomName   string         `json:"room_name"`
	Occupants  []occupantJSON `json:"occupants"`
	TotalCount int            `json:"total_count"`
}

func (h *StreamHandler) RoomsAllPresence(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := h.Hub.Subscribe(presence.AllRoomsTopic, hub.ModeEvents)
	defer sub.Unsubscribe()

	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	roomNames := make(map[string]string)

	rooms, total := h.allPresence(r, roomNames)
	if err := conn.WriteJSON(map[string]any{
		"type":         "initial_all_presence",
		"rooms":        rooms,
		"total_people": total,
	}); err != nil {
		return
	}

	refresh := time.NewTicker(h.RefreshPeriod)
	defer refresh.Stop()
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			change, ok := msg.Event.(presence.RoomChange)
			if !ok {
				continue
			}
			update := h.roomPresence(r, change.RoomID, roomNames)
			if err := conn.WriteJSON(map[string]any{
				"type":        "presence_update",
				"room_id":     update.RoomID,
				"room_name":   update.RoomName,
				"occupants":   update.Occupants,
				"total_count": update.TotalCount,
			}); err != nil {
				return
			}
		case <-refresh.C:
			rooms, total := h.allPresence(r, roomNames)
			if err := conn.WriteJSON(map[string]any{
				"type":         "all_presence_refresh",
				"rooms":        rooms,
				"total_people": total,
			}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (h *StreamHandler) roomName(r *http.Request, roomID string, cache map[string]string) string {
	if name, ok := cache[roomID]; ok {
		return name
	}
	name := roomID
	if room, err := h.Rooms.GetByID(r.Context(), roomID); err == nil {
		name = room.Name
	}
	cache[roomID] = name
	return name
}

func (h *StreamHandler) roomPresence(r *http.Request, roomID string, cache map[string]string) roomPresenceJSON {
	entries := h.Tracker.Snapshot(roomID, h.Now())
	occupants := make([]occupantJSON, 0, len(entries))
	for _, e := range entries {
		occupants = append(occupants, occupantJSON{PersonID: e.PersonID, CameraID: e.CameraID, LastSeen: e.LastSeen, Confidence: e.Confidence})
	}
	return roomPresenceJSON{
		RoomID:     roomID,
		RoomName:   h.roomName(r, roomID, cache),
		Occupants:  occupants,
		TotalCount: len(occupants),
	}
}

func (h *StreamHandler) allPresence(r *http.Request, cache map[string]string) ([]roomPresenceJSON, int) {
	snapshots, total := h.Tracker.SnapshotAll(h.Now())
	rooms := make([]roomPresenceJSON, 0, len(snapshots))
	for _, snap := range snapshots {
		occupants := make([]occupantJSON, 0, len(snap.Entries))
		for _, e := range snap.Entries {
			occupants = append(occupants, occupantJSON{PersonID: e.PersonID, CameraID: e.CameraID, LastSeen: e.LastSeen, Confidence: e.Confidence})
		}
		rooms = append(rooms, roomPresenceJSON{
			RoomID:     snap.RoomID,
			RoomName:   h.roomName(r, snap.RoomID, cache),
			Occupants:  occupants,
			TotalCount: len(occupants),
		})
	}
	return rooms, total
}

// authorize validates the "token" query parameter before the protocol
// upgrade, since a 401 response after Upgrade has already hijacked the
// connection is too late to deliver cleanly.
func (h *StreamHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return false
	}
	claims, err := h.Tokens.ValidateToken(tok)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return false
	}
	if h.Blacklist != nil {
		revoked, err := h.Blacklist.IsBlacklisted(r.Context(), claims.ID)
		if err != nil || revoked {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return false
		}
	}
	return true
}

func (h *StreamHandler) pump(w http.ResponseWriter, r *http.Request, topic string, mode hub.Mode) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := h.Hub.Subscribe(topic, mode)
	defer sub.Unsubscribe()

	// Drain any client-initiated control frames (pings, close) on their own
	// goroutine so a silent client doesn't block message delivery.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if err := h.writeMessage(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (h *StreamHandler) writeMessage(conn *websocket.Conn, msg hub.Message) error {
	if msg.Kind == hub.KindFrame {
		return conn.WriteMessage(websocket.BinaryMessage, msg.Frame)
	}
	return conn.WriteJSON(msg.Event)
}
