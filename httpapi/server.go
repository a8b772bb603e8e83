package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires the HTTP surface. The CORS policy is deliberately
// permissive, mirroring the open realtime channel.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", h.LoginPage)
	r.Post("/", h.Login)
	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireIdentity)
		r.Get("/chat", h.ChatPage)
		r.Get("/logout", h.Logout)
		r.Get("/ws", h.WebSocket)
		r.Get("/search", h.Search)
	})

	return r
}
