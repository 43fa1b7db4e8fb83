// Package api exposes listing, duplicate detection, mutations and the run
// archive over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/soyunomas/folderly/internal/report"
	"github.com/soyunomas/folderly/internal/roots"
)

const tracerName = "github.com/soyunomas/folderly/internal/api"

type Config struct {
	Roots roots.Roots
	// Detect holds defaults for detection; query parameters override the
	// per-request fields.
	Detect engine.Options
	// Mutate configures mutations; the confirmer is replaced per request.
	Mutate mutator.Options
	// Archive is optional. Report routes answer 404 without it.
	Archive *report.Archive
	Logger  *slog.Logger
}

type Handler struct {
	roots   roots.Roots
	detect  engine.Options
	mutate  mutator.Options
	archive *report.Archive
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Detect.Logger = logger
	cfg.Mutate.Logger = logger
	return &Handler{
		roots:   cfg.Roots,
		detect:  cfg.Detect,
		mutate:  cfg.Mutate,
		archive: cfg.Archive,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/roots", h.ListRoots)
	e.GET("/api/files", h.ListFiles)
	e.GET("/api/duplicates", h.ListDuplicates)
	e.POST("/api/mutations", h.Mutate)
	e.GET("/api/reports", h.ListReports)
	e.GET("/api/reports/:id", h.GetReport)
}

// NewServer returns an echo instance with middleware and routes in place.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelWarn
			}
			h.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(sameOrigin)

	h.Register(e)
	return e
}

// sameOrigin refuses requests a browser sent on behalf of another site.
// Clients without an Origin header (curl, scripts) pass through.
func sameOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			return echo.NewHTTPError(http.StatusForbidden, "cross-origin requests are not allowed")
		}
		origin := r.Header.Get(echo.HeaderOrigin)
		if origin == "" {
			return next(c)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host != r.Host {
			return echo.NewHTTPError(http.StatusForbidden, "cross-origin requests are not allowed")
		}
		return next(c)
	}
}

// startSpan opens a span for the handler and threads it through the request.
func (h *Handler) startSpan(c echo.Context, name string) (context.Context, trace.Span) {
	ctx, span := h.tracer.Start(c.Request().Context(), name)
	c.SetRequest(c.Request().WithContext(ctx))
	return ctx, span
}

// fail records err on the span and converts it to an HTTP error.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	return httpError(err)
}

// httpError maps domain errors onto status codes. Errors that are already
// HTTP errors pass through.
func httpError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var verr *entities.ValidationError
	switch {
	case errors.Is(err, report.ErrRunNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &verr) && errors.Is(err, entities.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// boolParam reads an optional boolean query parameter.
func boolParam(c echo.Context, name string, def bool) (bool, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}

// rootParam resolves the required root parameter through the named roots.
func (h *Handler) rootParam(c echo.Context, span trace.Span) (string, error) {
	root := c.QueryParam("root")
	if root == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "root parameter is required")
	}
	resolved := h.roots.Resolve(root)
	span.SetAttributes(attribute.String("root", resolved))
	return resolved, nil
}
