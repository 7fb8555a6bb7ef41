// Package server exposes the refiner over HTTP: a JSON API and a small
// single-page form that calls it.
package server

import (
	"context"
	"embed"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

//go:embed static/index.html
var staticFS embed.FS

// ConfigSource supplies the current configuration. *config.ConfigManager
// implements it and keeps it fresh when hot reload is on.
type ConfigSource interface {
	GetConfig() *config.GlobalConfig
}

// Server is the HTTP front-end.
type Server struct {
	serverConfig config.ServerConfig
	configs      ConfigSource
	logger       zerolog.Logger
	router       *chi.Mux
}

// NewServer builds the router. Server settings are read once; refiner
// defaults are read from configs on every request.
func NewServer(serverConfig config.ServerConfig, configs ConfigSource, logger zerolog.Logger) *Server {
	s := &Server{
		serverConfig: serverConfig,
		configs:      configs,
		logger:       logger.With().Str("component", "HTTPServer").Logger(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/api/process", s.handleProcess)
	return r
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.serverConfig.Address)
	if err != nil {
		return errorwrapper.WrapErrorf(err, "failed to listen on %s", s.serverConfig.Address)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.serverConfig.ReadTimeout(),
		ReadTimeout:       s.serverConfig.ReadTimeout(),
		WriteTimeout:      s.serverConfig.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server listening")
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errorwrapper.WrapError(err, "HTTP server failed")
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.serverConfig.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errorwrapper.WrapError(err, "HTTP server shutdown failed")
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errorwrapper.WrapError(err, "HTTP server failed")
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
