// Package server exposes the analysis over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WyckoffTape/internal/analysis/semantic"
	"github.com/Alias1177/WyckoffTape/internal/api/binance"
	"github.com/Alias1177/WyckoffTape/internal/report"
	"github.com/Alias1177/WyckoffTape/internal/service"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

// Runner runs one analysis.
type Runner interface {
	Run(ctx context.Context, req service.Request) (*service.Report, error)
}

// Metrics is the part of the metrics recorder used by the server.
type Metrics interface {
	RecordRequest(route, method, status string)
	Handler() http.Handler
}

// Options configures Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Defaults pre-fills every request before the query string is bound.
	Defaults AnalysisQuery
}

// Server wraps Echo HTTP server.
type Server struct {
	echo     *echo.Echo
	runner   Runner
	defaults AnalysisQuery
	opts     Options
	logger   zerolog.Logger
}

// AnalysisResponse is the report plus its human reading.
type AnalysisResponse struct {
	*service.Report
	Lang       report.Lang `json:"lang"`
	Reading    []string    `json:"reading"`
	PeriodText string      `json:"period_text"`
}

func New(runner Runner, metrics Metrics, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		echo:     echo.New(),
		runner:   runner,
		defaults: opts.Defaults,
		opts:     opts,
		logger:   log.With().Str("component", "http_server").Logger(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(s.requestLogging(metrics))

	e.GET("/healthz", s.health)
	e.GET("/api/analysis", s.analysis)
	e.GET("/api/tape", s.tape)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	return s
}

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("HTTP server listening")
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) requestLogging(metrics Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Msg("Request handled")

			if metrics != nil {
				metrics.RecordRequest(c.Path(), req.Method, strconv.Itoa(res.Status))
			}
			return nil
		}
	}
}

func (s *Server) health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

func (s *Server) bindQuery(c echo.Context) (AnalysisQuery, []ValidationError) {
	q := s.defaults
	if errs := bindAnalysisQuery(c, &q); errs != nil {
		return q, errs
	}
	q.Symbol = strings.ToUpper(q.Symbol)
	return q, nil
}

func (s *Server) runQuery(c echo.Context, q AnalysisQuery) (*service.Report, error) {
	return s.runner.Run(c.Request().Context(), service.Request{
		Symbol:     q.Symbol,
		Interval:   q.Interval,
		Limit:      q.Limit,
		Mode:       window.Mode(q.Mode),
		WindowSize: q.Window,
	})
}

func (s *Server) analysis(c echo.Context) error {
	q, errs := s.bindQuery(c)
	if errs != nil {
		return BadRequestResponse(c, errs)
	}

	rep, err := s.runQuery(c, q)
	if err != nil {
		return s.analysisError(c, err)
	}

	lang := report.Lang(q.Lang)
	return SuccessResponse(c, AnalysisResponse{
		Report:     rep,
		Lang:       lang,
		Reading:    report.Describe(rep.Translation, lang),
		PeriodText: report.PeriodText(rep.Period, lang),
	})
}

func (s *Server) tape(c echo.Context) error {
	q, errs := s.bindQuery(c)
	if errs != nil {
		return BadRequestResponse(c, errs)
	}

	rep, err := s.runQuery(c, q)
	if err != nil {
		return s.analysisError(c, err)
	}
	return c.String(http.StatusOK, rep.Tape)
}

func (s *Server) analysisError(c echo.Context, err error) error {
	var apiErr *binance.APIError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return ErrorResponse(c, http.StatusBadRequest, err)
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests:
		return ErrorResponse(c, http.StatusBadRequest, err)
	case errors.Is(err, semantic.ErrInsufficientData), errors.Is(err, semantic.ErrEmptyInput):
		return ErrorResponse(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, service.ErrFetch):
		return ErrorResponse(c, http.StatusBadGateway, err)
	default:
		s.logger.Error().Err(err).Msg("Analysis failed")
		return DataResponse(c, http.StatusInternalServerError, "Something went wrong")
	}
}
