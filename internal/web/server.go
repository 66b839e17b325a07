package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/plantapi/internal/config"
	"github.com/saltyorg/plantapi/internal/database"
	"github.com/saltyorg/plantapi/internal/web/handlers"
	"github.com/saltyorg/plantapi/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server backed by store
func NewServer(cfg *config.Config, store database.Opener) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: handlers.New(store),
	}

	s.setupRoutes()

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router
	h := s.handlers

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(s.cfg.Timeouts.Request))

	r.Get("/ping", h.Ping)
	r.Get("/producao", h.ListProduction)
	r.Get("/expedicao_anual", h.ListAnnualShipments)
	r.Post("/registro_expedicao", h.CreateAnnualShipment)
	r.Get("/initdb", h.InitDB)

	// Front-end document
	r.Get("/*", staticHandler(s.cfg.StaticDir))
}

// staticHandler serves files below dir. "/" maps to index.html; missing
// files and directories answer 404.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name == "/" {
			name = "/index.html"
		}

		full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, full)
	}
}

// Start starts the web server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Addr()

	server := &http.Server{
		Addr:    addr,
		Handler: s.router,
		// ReadTimeout is for reading request body
		ReadTimeout: 15 * time.Second,
		// Requests are bounded by the chi Timeout middleware; leave headroom for the write
		WriteTimeout: s.cfg.Timeouts.Request + 5*time.Second,
		// IdleTimeout for keep-alive connections between requests
		IdleTimeout: 120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeouts.Shutdown)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
