// Package api implements the HTTP and WebSocket edge: student/attendance/
// room/camera CRUD, the recognition-driven endpoints, and the live
// streams, per spec.md §6. Grounded on the teacher's internal/api package
// shape (one handler struct per resource, a shared respondJSON/
// respondError pair) with chi.Mux replacing the raw http.ServeMux the
// teacher used, since every route here needs path parameters chi already
// carries in the module's dependency set.
package api

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
