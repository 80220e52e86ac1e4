package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mr-dj06/Bandhu-AI/internal/auth"
	adminHandler "github.com/mr-dj06/Bandhu-AI/internal/handler/admin"
	wsHandler "github.com/mr-dj06/Bandhu-AI/internal/handler/ws"
	middlewarePkg "github.com/mr-dj06/Bandhu-AI/internal/middleware"
	chatService "github.com/mr-dj06/Bandhu-AI/internal/service/chat"
	"github.com/mr-dj06/Bandhu-AI/internal/store"
	"github.com/mr-dj06/Bandhu-AI/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(st store.Store, chatSvc *chatService.Service, authSvc *auth.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	ws := wsHandler.New(chatSvc)
	r.Get("/ws", ws.HandleConnection)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handleHealth)

		adminHandler.New(authSvc, st).RegisterRoutes(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
