package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/soyunomas/folderly/internal/scanner"
)

// Mutate applies a batch of copies, moves or deletes. Copies and moves go
// into the destination folder under each source's base name. Deletes run
// only when confirm is true; otherwise every item comes back declined.
func (h *Handler) Mutate(c echo.Context) error {
	ctx, span := h.startSpan(c, "Mutate")
	defer span.End()

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return fail(span, echo.NewHTTPError(http.StatusUnsupportedMediaType, "request body must be JSON"))
	}
	var req MutationRequest
	if err := c.Bind(&req); err != nil {
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, "invalid request body"))
	}
	op, err := entities.ParseOp(req.Op)
	if err != nil {
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, err.Error()))
	}
	if len(req.Sources) == 0 {
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, "sources must not be empty"))
	}
	span.SetAttributes(attribute.String("op", op.String()), attribute.Int("items", len(req.Sources)))

	sources := make([]string, len(req.Sources))
	for i, s := range req.Sources {
		sources[i] = h.roots.Resolve(s)
	}

	opts := h.mutate
	opts.Confirm = mutator.Decision(req.Confirm)
	m := mutator.New(opts)

	var results []entities.MutationResult
	switch op {
	case entities.OpCopy, entities.OpMove:
		if req.Destination == "" {
			return fail(span, echo.NewHTTPError(http.StatusBadRequest, "destination is required"))
		}
		dest, err := scanner.ValidateDirectory(h.roots.Resolve(req.Destination))
		if err != nil {
			return fail(span, err)
		}
		if op == entities.OpCopy {
			results = m.CopyMany(ctx, sources, dest, req.Overwrite)
		} else {
			results = m.MoveMany(ctx, sources, dest, req.Overwrite)
		}
	case entities.OpDelete:
		results = m.DeleteMany(ctx, sources, req.Recursive, true)
	}

	resp := NewMutationResponse(results)
	span.SetAttributes(
		attribute.Int("succeeded", resp.Succeeded),
		attribute.Int("failed", resp.Failed),
		attribute.Int("declined", resp.Declined),
	)
	return c.JSON(http.StatusOK, resp)
}
