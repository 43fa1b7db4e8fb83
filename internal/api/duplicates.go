package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/soyunomas/folderly/internal/report"
)

// ListDuplicates groups the files under root by name, size or digest.
// With save=true and an archive attached, the run is archived and its id
// returned.
func (h *Handler) ListDuplicates(c echo.Context) error {
	ctx, span := h.startSpan(c, "ListDuplicates")
	defer span.End()

	root, err := h.rootParam(c, span)
	if err != nil {
		return fail(span, err)
	}
	mode, err := engine.ParseMode(c.QueryParam("by"))
	if err != nil {
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
	}
	keep, err := engine.ParseKeepStrategy(c.QueryParam("keep"))
	if err != nil {
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
	}

	opts := h.detect
	if name := c.QueryParam("algorithm"); name != "" {
		if opts.Algorithm, err = hasher.ParseAlgorithm(name); err != nil {
			return fail(span, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
		}
	}
	if opts.Recursive, err = boolParam(c, "recursive", opts.Recursive); err != nil {
		return fail(span, err)
	}
	if opts.Prefilter, err = boolParam(c, "prefilter", opts.Prefilter); err != nil {
		return fail(span, err)
	}
	save, err := boolParam(c, "save", false)
	if err != nil {
		return fail(span, err)
	}
	if suffix := c.QueryParam("suffix"); suffix != "" {
		opts.Suffix = suffix
	}
	span.SetAttributes(
		attribute.String("by", mode.String()),
		attribute.String("algorithm", string(opts.Algorithm)),
		attribute.Bool("recursive", opts.Recursive),
	)

	res, err := engine.New(root, opts).Detect(ctx, mode, keep)
	if err != nil {
		return fail(span, err)
	}

	resp := NewDuplicatesResponse(res)

	if save {
		if h.archive == nil {
			return fail(span, echo.NewHTTPError(http.StatusConflict, "no archive attached"))
		}
		if resp.RunID, err = h.archive.Save(ctx, report.NewRun(res)); err != nil {
			return fail(span, err)
		}
		span.SetAttributes(attribute.String("run_id", resp.RunID))
	}

	span.SetAttributes(attribute.Int("groups", len(resp.Groups)))
	return c.JSON(http.StatusOK, resp)
}
