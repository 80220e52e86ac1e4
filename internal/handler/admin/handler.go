package admin

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mr-dj06/Bandhu-AI/internal/auth"
	"github.com/mr-dj06/Bandhu-AI/internal/model/chat"
	"github.com/mr-dj06/Bandhu-AI/internal/store"
	"github.com/mr-dj06/Bandhu-AI/pkg/utils"
)

// Handler serves the admin console API: login plus authorized reads over
// the conversation log.
type Handler struct {
	authSvc *auth.Service
	store   store.Store
}

// New creates the admin API handler.
func New(authSvc *auth.Service, st store.Store) *Handler {
	return &Handler{authSvc: authSvc, store: st}
}

// RegisterRoutes mounts the admin endpoints. Everything except login sits
// behind the bearer-token guard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.authSvc.Middleware)
		r.Get("/sessions", h.handleSessions)
		r.Get("/sessions/stats", h.handleSessionStats)
		r.Get("/chats/{sessionID}", h.handleTranscript)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authSvc.Login(payload.Username, payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	log.Printf("[admin] login successful user=%s", payload.Username)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.SessionIDs(r.Context())
	if err != nil {
		log.Printf("[admin] listing sessions failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ids)
}

// handleSessionStats loads every session's transcript per call. O(total
// messages), acceptable at admin-console volumes.
func (h *Handler) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.SessionIDs(r.Context())
	if err != nil {
		log.Printf("[admin] listing sessions failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch session statistics")
		return
	}

	stats := make([]chat.SessionStats, 0, len(ids))
	for _, id := range ids {
		transcript, err := h.store.Transcript(r.Context(), id)
		if err != nil {
			log.Printf("[admin] loading transcript failed session=%s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "failed to fetch session statistics")
			return
		}

		entry := chat.SessionStats{SessionID: id, MessageCount: len(transcript)}
		if len(transcript) > 0 {
			first := transcript[0].Timestamp
			last := transcript[len(transcript)-1].Timestamp
			entry.FirstMessage = &first
			entry.LastMessage = &last
		}
		stats = append(stats, entry)
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.store.Transcript(r.Context(), sessionID)
	if err != nil {
		log.Printf("[admin] loading transcript failed session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to fetch transcript")
		return
	}

	utils.RespondJSON(w, http.StatusOK, transcript)
}
