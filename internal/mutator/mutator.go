// Package mutator performs copy, move and delete requests on behalf of the
// CLI and API. Every request yields a MutationResult; nothing here returns a
// bare error to the caller.
package mutator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/utils"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/soyunomas/folderly/internal/mutator"

// copyBufferSize is the chunk size for file copies. The context is checked
// between chunks.
const copyBufferSize = 32 * 1024

type Options struct {
	// FS defaults to the OS filesystem.
	FS afero.Fs
	// Confirm answers delete confirmations. A nil Confirmer declines.
	Confirm Confirmer
	// Workers bounds how many independent lanes run at once. Values below
	// one mean one.
	Workers int
	// Timeout bounds each single operation when positive.
	Timeout time.Duration
	Logger  *slog.Logger
}

type Mutator struct {
	fs      afero.Fs
	confirm Confirmer
	workers int
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
}

func New(opts Options) *Mutator {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Mutator{
		fs:      opts.FS,
		confirm: opts.Confirm,
		workers: opts.Workers,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Copy copies src to dest.
func (m *Mutator) Copy(ctx context.Context, src, dest string, overwrite bool) entities.MutationResult {
	return m.Apply(ctx, entities.MutationRequest{Op: entities.OpCopy, Source: src, Destination: dest, Overwrite: overwrite})
}

// Move moves src to dest, falling back to copy and remove across devices.
func (m *Mutator) Move(ctx context.Context, src, dest string, overwrite bool) entities.MutationResult {
	return m.Apply(ctx, entities.MutationRequest{Op: entities.OpMove, Source: src, Destination: dest, Overwrite: overwrite})
}

// Delete removes target. Directories with content need recursive.
func (m *Mutator) Delete(ctx context.Context, target string, recursive, confirm bool) entities.MutationResult {
	return m.Apply(ctx, entities.MutationRequest{Op: entities.OpDelete, Source: target, Recursive: recursive, Confirm: confirm})
}

// Apply runs a single pre-built request.
func (m *Mutator) Apply(ctx context.Context, req entities.MutationRequest) entities.MutationResult {
	ctx, span := m.tracer.Start(ctx, req.Op.String(), trace.WithAttributes(
		attribute.String("source", req.Source),
		attribute.String("destination", req.Destination),
		attribute.Bool("overwrite", req.Overwrite),
		attribute.Bool("recursive", req.Recursive),
	))
	defer span.End()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var (
		declined bool
		err      = ctx.Err()
	)
	if err == nil {
		switch req.Op {
		case entities.OpCopy:
			err = m.copy(ctx, req)
		case entities.OpMove:
			err = m.move(ctx, req)
		case entities.OpDelete:
			declined, err = m.delete(ctx, req)
		default:
			err = fmt.Errorf("unsupported operation %d", req.Op)
		}
	}

	var result entities.MutationResult
	switch {
	case err != nil:
		result = entities.Failed(req, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case declined:
		result = entities.Declined(req)
	default:
		result = entities.Succeeded(req)
	}
	span.SetAttributes(attribute.String("outcome", result.Reason()))
	m.log(result)
	return result
}

func (m *Mutator) log(r entities.MutationResult) {
	attrs := []any{"op", r.Request.Op.String(), "source", r.Request.Source}
	if r.Request.Destination != "" {
		attrs = append(attrs, "destination", r.Request.Destination)
	}
	switch {
	case r.Declined:
		m.logger.Info("mutation declined", attrs...)
	case r.Succeeded:
		m.logger.Info("mutation applied", attrs...)
	default:
		attrs = append(attrs, "kind", r.Kind().String(), "error", r.Err)
		m.logger.Warn("mutation failed", attrs...)
	}
}

// lstat does not follow a trailing symlink when the filesystem supports it.
func (m *Mutator) lstat(path string) (os.FileInfo, error) {
	if l, ok := m.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return m.fs.Stat(path)
}

// validateDir checks that path exists on the mutator's filesystem and is a
// directory.
func (m *Mutator) validateDir(path string) error {
	info, err := m.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &entities.ValidationError{Path: path, Err: entities.ErrNotFound}
	case err != nil:
		return &entities.ValidationError{Path: path, Err: err}
	case !info.IsDir():
		return &entities.ValidationError{Path: path, Err: entities.ErrNotADirectory}
	}
	return nil
}

// transferPaths resolves a transfer request and rejects identical endpoints
// and a destination that contains the source. It does not touch the filesystem.
func transferPaths(req entities.MutationRequest) (string, string, error) {
	src, dest := utils.AbsClean(req.Source), utils.AbsClean(req.Destination)
	if src == dest {
		return "", "", fmt.Errorf("%s: %w", src, entities.ErrSamePath)
	}
	if utils.IsWithin(dest, src) {
		return "", "", fmt.Errorf("%s: %w", dest, entities.ErrSourceInsideDestination)
	}
	return src, dest, nil
}

// clearDestination removes an existing dest when overwrite is set and
// refuses otherwise. A missing dest is fine.
func (m *Mutator) clearDestination(dest string, overwrite bool) error {
	info, err := m.lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !overwrite {
		return fmt.Errorf("%s: %w", dest, entities.ErrDestinationExists)
	}
	if info.IsDir() {
		return m.fs.RemoveAll(dest)
	}
	return m.fs.Remove(dest)
}

func notFound(path string) error {
	return &entities.ValidationError{Path: path, Err: entities.ErrNotFound}
}
