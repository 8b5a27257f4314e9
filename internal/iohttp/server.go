package iohttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mganno/mganno/pkg/config"
)

// Server wraps the HTTP daemon with graceful shutdown.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// NewServer builds the daemon around the registered handler.
// WriteTimeout stays zero: annotation responses are unbounded streams
// and must not be cut off by the server.
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	log *slog.Logger,
) *Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	return &Server{
		srv: &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Port),
			Handler:     mux,
			ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		},
		log: log,
	}
}

// ListenAndServe runs the daemon until ctx is canceled, then shuts
// down gracefully so in-flight streams can finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("annotation daemon listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("shutting down annotation daemon")
	return s.srv.Shutdown(shutdownCtx)
}
