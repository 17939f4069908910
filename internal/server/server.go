// Package server exposes the batch evaluator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ZelongGuo/dislocation/internal/config"
	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// Server is the HTTP front end of the evaluator
type Server struct {
	cfg     *config.Config
	log     zerolog.Logger
	eval    *disloc.Evaluator
	metrics *Metrics
	echo    *echo.Echo
}

type requestValidator struct {
	v *validator.Validate
}

func (rv requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// New builds the server and its routes. Metrics are registered with reg,
// and served from gather when metrics are enabled.
func New(cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer, gather prometheus.Gatherer) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		eval:    disloc.NewEvaluator(disloc.WithWorkers(cfg.Evaluator.Workers), disloc.WithLogger(log)),
		metrics: NewMetrics(reg),
		echo:    echo.New(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{v: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(s.requestLog)

	e.GET("/healthz", s.health)
	v1 := e.Group("/v1")
	v1.POST("/evaluate", s.evaluate)
	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(gather, promhttp.HandlerOpts{})))
	}
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.StartServer(srv)
	}()
	s.log.Info().Str("addr", s.cfg.Server.Addr).Msg("http server started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		ev := s.log.Debug()
		if status >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("method", c.Request().Method).
			Str("route", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
