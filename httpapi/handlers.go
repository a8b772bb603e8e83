// Package httpapi is the thin web surface: login, the chat page, the
// websocket upgrade, and message search. All realtime semantics live
// in the realtime and services packages.
package httpapi

import (
	"context"
	"embed"
	goerrors "errors"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"story-chat/domain"
	"story-chat/errors"
	"story-chat/realtime"
	"story-chat/search"
	"story-chat/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SessionCookie carries the signed session token.
const SessionCookie = "session"

const searchLimit = 20

type contextKey string

const identityKey contextKey = "identity"

type Handler struct {
	log        *slog.Logger
	auth       services.IAuthService
	hub        *realtime.Hub
	index      *search.Index
	sessionTTL time.Duration
	templates  *template.Template
}

func NewHandler(log *slog.Logger, auth services.IAuthService, hub *realtime.Hub, index *search.Index, sessionTTL time.Duration) *Handler {
	return &Handler{
		log:        log,
		auth:       auth,
		hub:        hub,
		index:      index,
		sessionTTL: sessionTTL,
		templates:  template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

// IdentityFromContext returns the identity bound by RequireIdentity,
// or the anonymous identity when none is bound.
func IdentityFromContext(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

// RequireIdentity resolves the session cookie to an identity and
// injects it into the request context. Unauthenticated requests are
// redirected to the login entry point.
func (h *Handler) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		identity, err := h.auth.Identify(cookie.Value)
		if err != nil {
			h.clearSession(w)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) LoginPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "auth.html", nil)
}

// Login establishes a session, auto-registering unknown usernames.
// Validation failures re-render the form; anything else is a server
// error.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	token, identity, err := h.auth.Login(r.FormValue("username"), r.FormValue("password"))
	if goerrors.Is(err, errors.ErrInvalidLogin) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, "auth.html", map[string]any{"Error": "username and password are required"})
		return
	}
	if err != nil {
		h.log.Error("login failed", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    string(token),
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("session established", "user", identity.Username)
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	h.render(w, "chat.html", map[string]any{"Username": identity.Username})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, IdentityFromContext(r.Context()))
}

// Search queries the message index. Results use the wire message shape.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	hits, err := h.index.Search(r.Context(), terms, searchLimit)
	if err != nil {
		h.log.Error("search failed", "terms", terms, "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"results": hits})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("story-chat is running"))
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("rendering template failed", "template", name, "error", err)
	}
}
