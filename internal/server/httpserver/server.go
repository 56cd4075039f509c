package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Server wraps http.Server with lifecycle management.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server for the given address and handler.
//
// WriteTimeout is deliberately left at zero: download responses stream
// files of arbitrary size and must not be cut off mid-transfer. Slow
// clients are bounded by ReadHeaderTimeout and IdleTimeout instead.
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe starts serving plain HTTP. It blocks until the server
// stops and returns http.ErrServerClosed after a clean Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts serving HTTPS with the given certificate
// pair.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	s.logger.Info("https server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully stops the server, waiting for in-flight
// requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
