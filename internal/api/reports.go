package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/soyunomas/folderly/internal/report"
)

var errNoArchive = echo.NewHTTPError(http.StatusNotFound, "no archive attached")

// ListReports returns archived runs, newest first.
func (h *Handler) ListReports(c echo.Context) error {
	ctx, span := h.startSpan(c, "ListReports")
	defer span.End()

	if h.archive == nil {
		return fail(span, errNoArchive)
	}
	runs, err := h.archive.List(ctx)
	if err != nil {
		return fail(span, err)
	}
	if runs == nil {
		runs = []report.Run{}
	}
	span.SetAttributes(attribute.Int("response_items", len(runs)))
	return c.JSON(http.StatusOK, runs)
}

// GetReport returns one archived run with its groups.
func (h *Handler) GetReport(c echo.Context) error {
	ctx, span := h.startSpan(c, "GetReport")
	defer span.End()

	if h.archive == nil {
		return fail(span, errNoArchive)
	}
	id := c.Param("id")
	span.SetAttributes(attribute.String("run_id", id))

	run, err := h.archive.Get(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	return c.JSON(http.StatusOK, run)
}
