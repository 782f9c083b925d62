// Package web is the server-rendered presentation of a reading: an htmx page
// plus a small JSON API, both driving per-visitor sessions from a registry.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/arcanaland/unfoldfate/internal/reading"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie carries the visitor's registry id.
const SessionCookie = "unfoldfate_session"

// Server is the driving HTTP adapter that routes requests to reading sessions.
type Server struct {
	registry  *reading.Registry
	deckName  string
	imageDir  string
	templates *template.Template
}

// New creates a Server over registry, serving images from imageDir.
func New(registry *reading.Registry, deckName, imageDir string) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		registry:  registry,
		deckName:  deckName,
		imageDir:  imageDir,
		templates: tmpl,
	}, nil
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /reading", s.handleAPIReading)
	api.HandleFunc("POST /reading/select/{index}", s.handleAPISelect)
	api.HandleFunc("POST /reading/reset", s.handleAPIReset)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	root.HandleFunc("GET /{$}", s.handleIndex)
	root.HandleFunc("POST /new-reading", s.handleNewReading)
	root.HandleFunc("POST /select_card", s.handleSelectCard)
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET "+deck.ImageURLPrefix, http.StripPrefix(deck.ImageURLPrefix, http.FileServer(fileOnlyFS{http.Dir(s.imageDir)})))

	return loggingMiddleware(withNoCache(root))
}

// withSession runs fn against the visitor's session and keeps the cookie in
// step with the id the registry settled on.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*reading.Session) error) error {
	var current string
	if c, err := r.Cookie(SessionCookie); err == nil {
		current = c.Value
	}

	id, err := s.registry.Do(current, fn)
	if id != "" && id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return err
}
