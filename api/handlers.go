package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"card-memory/assets"
	"card-memory/auth"
	"card-memory/config"
	"card-memory/storage"
)

// GameCounter reports how many games are running.
type GameCounter interface {
	Active() int
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Config *config.Config
	Store  storage.ResultStore // nil when no database is configured
	Auth   *auth.Validator
	Assets *assets.Catalog
	Games  GameCounter
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, store storage.ResultStore, validator *auth.Validator, catalog *assets.Catalog, games GameCounter) *Handler {
	return &Handler{
		Config: cfg,
		Store:  store,
		Auth:   validator,
		Assets: catalog,
		Games:  games,
	}
}

// CORS sets CORS headers and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return ""
	}
	claims, err := h.Auth.Validate(token)
	if err != nil {
		slog.Debug("rejected bearer token", "tag", "api", "err", err)
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response failed", "tag", "api", "err", err)
	}
}

// Health reports liveness and the number of running games.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	games := 0
	if h.Games != nil {
		games = h.Games.Active()
	}
	writeJSON(w, map[string]any{"ok": true, "games": games})
}

// History returns the game history for the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list := []storage.GameResult{}
	if h.Store != nil {
		var err error
		list, err = h.Store.ListByUserID(r.Context(), userID)
		if err != nil {
			slog.Error("ListByUserID failed", "tag", "api", "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, list)
}

// LeaderboardResponse is the JSON structure for /api/leaderboard.
type LeaderboardResponse struct {
	Entries []storage.LeaderboardEntry `json:"entries"`
}

// Leaderboard returns the fastest won games. Entries of the authenticated user are flagged.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries := []storage.LeaderboardEntry{}
	if h.Store != nil {
		var err error
		entries, err = h.Store.ListLeaderboard(r.Context(), limit, offset)
		if err != nil {
			slog.Error("ListLeaderboard failed", "tag", "api", "err", err)
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
	}

	if userID := h.extractUserID(r); userID != "" {
		for i := range entries {
			if entries[i].UserID == userID {
				entries[i].IsCurrentUser = true
			}
		}
	}
	writeJSON(w, LeaderboardResponse{Entries: entries})
}

// Asset serves a card image by file name, e.g. /assets/QH.png or /assets/back.png.
func (h *Handler) Asset(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	code, ok := strings.CutSuffix(file, ".png")
	if !ok || h.Assets == nil {
		http.NotFound(w, r)
		return
	}
	data, ok := h.Assets.Raw(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
