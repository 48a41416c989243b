package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP routes. ws handles websocket upgrades on /ws.
func NewRouter(h *Handler, ws http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if ws != nil {
		r.Get("/ws", ws)
	}
	r.Get("/health", h.Health)
	r.Get("/assets/{file}", h.Asset)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(CORS)
		r.Get("/history", h.History)
		r.Get("/leaderboard", h.Leaderboard)
		// Preflight requests are answered by CORS.
		r.Options("/history", preflight)
		r.Options("/leaderboard", preflight)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONStatus(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return r
}

func preflight(w http.ResponseWriter, r *http.Request) {}
