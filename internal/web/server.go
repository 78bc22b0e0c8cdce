// Package web provides the HTTP server and handlers for the grid editor.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/avdw/planagrid/internal/core"
	mw "github.com/avdw/planagrid/internal/web/middleware"
	"github.com/avdw/planagrid/internal/web/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the server's editing behavior.
type Options struct {
	// KeyRegistry is the table holding primary-key declarations.
	KeyRegistry core.TableName

	// ClearOnSave forwards to the reconciliation engine.
	ClearOnSave bool

	// RequestTimeout bounds each request. Zero disables the timeout
	// middleware.
	RequestTimeout time.Duration

	// Title is the page heading.
	Title string
}

// Server is the HTTP server for the grid editor.
type Server struct {
	loader   core.Loader
	engine   *core.Engine
	sessions *core.SessionRegistry
	router   *chi.Mux
	server   *http.Server
	title    string
}

// NewServer wires the core engine over the given store and sets up routing.
func NewServer(st core.Store, opts Options) *Server {
	keys := core.KeyResolver{Store: st, Registry: opts.KeyRegistry}
	title := opts.Title
	if title == "" {
		title = "Table Planning"
	}
	s := &Server{
		loader:   core.Loader{Store: st, Keys: keys},
		engine:   &core.Engine{Store: st, Keys: keys, ClearOnSave: opts.ClearOnSave},
		sessions: core.NewSessionRegistry(),
		router:   chi.NewRouter(),
		title:    title,
	}
	s.setupMiddleware(opts.RequestTimeout)
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware(requestTimeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if requestTimeout > 0 {
		s.router.Use(middleware.Timeout(requestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", templ.Handler(views.Page(s.title)).ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/sessions/{sessionID}/edits", s.handleEdits)
		r.Post("/sessions/{sessionID}/save", s.handleSave)
		r.Post("/sessions/{sessionID}/reset", s.handleResetSession)
		r.Delete("/sessions/{sessionID}", s.handleDropSession)
	})
}

// securityHeaders sets a conservative set of response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string, readTimeout, writeTimeout, idleTimeout time.Duration) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }
