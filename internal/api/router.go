package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facewatch/attendance/internal/metrics"
	"github.com/facewatch/attendance/internal/middleware"
)

// Router is the set of resource handlers the HTTP edge needs. Grounded on
// the teacher's cmd/server/main.go route registration, rebuilt on
// chi.Mux: the teacher's raw http.ServeMux plus its hand-rolled "Protect"
// wrapper is replaced by chi's native per-route middleware and path
// parameters.
type Router struct {
	Auth     *AuthHandler
	Students *StudentHandler
	Attend   *AttendanceHandler
	Rooms    *RoomHandler
	Presence *PresenceHandler
	Streams  *StreamHandler
	JWTAuth  *middleware.JWTAuth
}

// NewMux assembles the full route tree. rateLimiter may be nil to disable
// request throttling (e.g. in tests).
func NewMux(rt Router, rateLimiter interface {
	Limit(http.Handler) http.Handler
}) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Limit)
		}
		r.Post("/login", rt.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.JWTAuth.Middleware)

		r.Post("/auth/logout", rt.Auth.Logout)

		r.Route("/students", func(r chi.Router) {
			r.Post("/register", rt.Students.Register)
			r.Get("/", rt.Students.List)
			r.Post("/{external_id}/upload-images", rt.Students.UploadImages)
			r.Get("/{external_id}", rt.Students.Get)
			r.Delete("/{external_id}", rt.Students.Delete)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", rt.Attend.CheckIn)
			r.Get("/today", rt.Attend.Today)
			r.Get("/student/{external_id}", rt.Attend.ForStudent)
			r.Get("/statistics", rt.Attend.Statistics)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", rt.Rooms.CreateRoom)
			r.Get("/", rt.Rooms.ListRooms)
			r.Get("/presence/all", rt.Presence.All)
			r.Get("/presence/stats", rt.Presence.Stats)
			r.Get("/presence/student/{external_id}", rt.Presence.Student)
			r.Get("/{id}", rt.Rooms.GetRoom)
			r.Delete("/{id}", rt.Rooms.DeleteRoom)
			r.Get("/{id}/presence", rt.Presence.Room)
			r.Post("/{id}/start-all", rt.Rooms.StartAll)
			r.Post("/{id}/stop-all", rt.Rooms.StopAll)
			r.Post("/{id}/cameras", rt.Rooms.CreateCamera)
			r.Get("/{id}/cameras", rt.Rooms.ListCameras)
			r.Delete("/{id}/cameras/{cid}", rt.Rooms.DeleteCamera)
			r.Post("/{id}/cameras/{cid}/start", rt.Rooms.StartCamera)
			r.Post("/{id}/cameras/{cid}/stop", rt.Rooms.StopCamera)
		})
	})

	// WebSocket streams authenticate via a query-string token (browsers
	// cannot set an Authorization header on the upgrade request), so they
	// sit outside the bearer-header JWTAuth group.
	r.Get("/ws/cameras/{camera_id}/stream", rt.Streams.CameraStream)
	r.Get("/ws/rooms/all/presence", rt.Streams.RoomsAllPresence)

	return r
}
