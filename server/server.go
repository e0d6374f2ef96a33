package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	orchestratorx "github.com/aryansharma/shopassistant/agent/agents/orchestrator"
)

// ChatRunner is the conversational backend the HTTP layer fronts.
type ChatRunner interface {
	HandleMessage(ctx context.Context, text string) (orchestratorx.TurnResult, error)
}

type Config struct {
	Port         int    `split_words:"true" default:"8000"`
	TemplatesDir string `split_words:"true" default:"templates"`
}

type Server struct {
	echo   *echo.Echo
	config Config
}

func New(runner ChatRunner, cfg Config) *Server {
	if cfg.Port <= 0 {
		cfg.Port = 8000
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "templates"
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := &handler{runner: runner, templatesDir: cfg.TemplatesDir}
	h.registerRoutes(e)

	return &Server{echo: e, config: cfg}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
