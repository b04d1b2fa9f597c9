// Package server exposes the filter engine and saved filters over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// shutdownTimeout bounds graceful shutdown once the context is canceled.
const shutdownTimeout = 10 * time.Second

// Controller registers its endpoints on the router.
type Controller interface {
	Register(e *echo.Echo)
}

// Server is the HTTP front of the filter engine.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	addr   string
}

// New builds a Server listening on addr with the given controllers mounted.
func New(addr string, logger *zap.Logger, controllers ...Controller) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(Recover(logger), RequestLogger(logger))

	for _, controller := range controllers {
		controller.Register(e)
	}

	return &Server{echo: e, logger: logger, addr: addr}
}

// Handler returns the underlying HTTP handler, used by in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	s.logger.Info("server listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
