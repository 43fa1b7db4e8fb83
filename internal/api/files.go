package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/scanner"
)

// ListRoots returns the named roots in display order.
func (h *Handler) ListRoots(c echo.Context) error {
	_, span := h.startSpan(c, "ListRoots")
	defer span.End()

	out := make([]RootEntry, 0, h.roots.Len())
	for _, name := range h.roots.Names() {
		path, _ := h.roots.Lookup(name)
		out = append(out, RootEntry{Name: name, Path: path})
	}
	span.SetAttributes(attribute.Int("response_items", len(out)))
	return c.JSON(http.StatusOK, out)
}

// ListFiles returns the files (or with type=dirs, the folders) under root.
func (h *Handler) ListFiles(c echo.Context) error {
	ctx, span := h.startSpan(c, "ListFiles")
	defer span.End()

	root, err := h.rootParam(c, span)
	if err != nil {
		return fail(span, err)
	}
	recursive, err := boolParam(c, "recursive", false)
	if err != nil {
		return fail(span, err)
	}
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "files"
	}
	span.SetAttributes(attribute.Bool("recursive", recursive), attribute.String("type", kind))

	s := scanner.New(scanner.Config{
		Recursive: recursive,
		Suffix:    c.QueryParam("suffix"),
		Workers:   h.detect.Workers,
		Logger:    h.logger,
	})

	var entries []*entities.FileEntry
	switch kind {
	case "files":
		entries, err = s.Files(ctx, root)
	case "dirs", "folders":
		entries, err = s.Directories(ctx, root)
	default:
		return fail(span, echo.NewHTTPError(http.StatusBadRequest, "type must be files or dirs"))
	}
	if err != nil {
		return fail(span, err)
	}

	resp := NewFilesResponse(root, entries)
	span.SetAttributes(attribute.Int("response_items", len(entries)))
	return c.JSON(http.StatusOK, resp)
}
