package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-payment-method/pkg/logger"
)

// Server is the echo HTTP gateway
type Server struct {
	echo        *echo.Echo
	logger      *zap.Logger
	addr        string
	serviceName string
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithAddress sets the listen address, e.g. "[::1]:8081"
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServiceName sets the name reported by /health
func WithServiceName(name string) ServerOption {
	return func(s *Server) {
		s.serviceName = name
	}
}

// NewServer creates the gateway with recovery, request logging and /health.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		echo:        echo.New(),
		logger:      zap.NewNop(),
		addr:        "[::1]:8081",
		serviceName: "payment-method",
	}

	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.JSONSerializer = numberJSONSerializer{}
	logger.WithEchoLogger(e, s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(logger.NewEchoRequestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.serviceName,
		})
	})

	return s
}

// RegisterRoutes runs registerFunc against the echo instance
func (s *Server) RegisterRoutes(registerFunc func(e *echo.Echo)) {
	registerFunc(s.echo)
}

// Start listens and serves until Shutdown
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.addr))

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// GetEcho returns the underlying echo instance
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}
