// Package server exposes the small HTTP surface of the bot: a ping endpoint
// and a health endpoint backed by the runtime checks.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mintforgehq/mintforge/internal/handlers"
)

type Server struct {
	echo *echo.Echo
	addr string
}

func NewServer(addr string, pingHandler *handlers.PingHandler, healthHandler *handlers.HealthHandler) *Server {
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	if pingHandler != nil {
		pingHandler.Register(e)
	}
	if healthHandler != nil {
		healthHandler.Register(e)
	}

	return &Server{
		echo: e,
		addr: addr,
	}
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
