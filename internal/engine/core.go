package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/soyunomas/folderly/internal/scanner"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/soyunomas/folderly/internal/engine"

// Options configures a Detector.
type Options struct {
	Recursive bool
	Suffix    string
	Excludes  []string

	Algorithm hasher.Algorithm // por defecto SHA256
	ChunkSize int              // por defecto hasher.DefaultChunkSize
	Workers   int              // goroutines de hashing, por defecto runtime.NumCPU()

	// Prefilter narrows candidates by size, then by a 4KB prefix digest,
	// before the full digest. Group membership is unchanged.
	Prefilter bool

	FS     afero.Fs // sistema de archivos a leer, por defecto el del OS
	Logger *slog.Logger

	// OnSkip is told about every file excluded because it could not be read.
	OnSkip func(path string, err error)
}

// Detector groups the files under one directory by an equivalence key.
// Every method does a fresh enumeration; nothing is cached between calls.
type Detector struct {
	root    string
	opts    Options
	scanner *scanner.FileScanner
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a detector for root. The root is validated when a grouping
// method runs.
func New(root string, opts Options) *Detector {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Algorithm == "" {
		opts.Algorithm = hasher.SHA256
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Detector{
		root: root,
		opts: opts,
		scanner: scanner.New(scanner.Config{
			Recursive: opts.Recursive,
			Suffix:    opts.Suffix,
			Excludes:  opts.Excludes,
			Workers:   opts.Workers,
			Logger:    logger,
		}),
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// GroupByName buckets files by base name. Files with the same name in
// different directories collide.
func (d *Detector) GroupByName(ctx context.Context) (map[string]*entities.DuplicateGroup, error) {
	ctx, span := d.tracer.Start(ctx, "GroupByName", trace.WithAttributes(attribute.String("root", d.root)))
	defer span.End()

	files, err := d.scanner.Files(ctx, d.root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	groups := make(map[string]*entities.DuplicateGroup)
	for _, f := range files {
		g, ok := groups[f.Name]
		if !ok {
			g = &entities.DuplicateGroup{Key: entities.NameKey(f.Name)}
			groups[f.Name] = g
		}
		g.Add(f)
	}

	groups = entities.PruneSingletons(groups)
	span.SetAttributes(attribute.Int("files", len(files)), attribute.Int("groups", len(groups)))
	return groups, nil
}

// GroupBySize buckets files by exact byte size. Zero-length files collide.
func (d *Detector) GroupBySize(ctx context.Context) (map[uint64]*entities.DuplicateGroup, error) {
	ctx, span := d.tracer.Start(ctx, "GroupBySize", trace.WithAttributes(attribute.String("root", d.root)))
	defer span.End()

	files, err := d.scanner.Files(ctx, d.root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	groups := d.bucketBySize(files)
	groups = entities.PruneSingletons(groups)
	span.SetAttributes(attribute.Int("files", len(files)), attribute.Int("groups", len(groups)))
	return groups, nil
}

// GroupByDigest buckets files by content digest, the authoritative duplicate
// check. The map is keyed by the hex digest. Unreadable files are skipped
// and appear in no group.
func (d *Detector) GroupByDigest(ctx context.Context) (map[string]*entities.DuplicateGroup, error) {
	ctx, span := d.tracer.Start(ctx, "GroupByDigest", trace.WithAttributes(
		attribute.String("root", d.root),
		attribute.String("algorithm", string(d.opts.Algorithm)),
		attribute.Bool("prefilter", d.opts.Prefilter),
	))
	defer span.End()

	h, err := hasher.New(hasher.Config{
		Algorithm: d.opts.Algorithm,
		ChunkSize: d.opts.ChunkSize,
		FS:        d.opts.FS,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// --- PASO 1: SCANNER ---
	files, err := d.scanner.Files(ctx, d.root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candidates := make([]int, len(files))
	for i := range files {
		candidates[i] = i
	}

	// --- PASO 2: PRE-HASHING (tamaño y prefijo, opcional) ---
	if d.opts.Prefilter {
		candidates = d.narrowBySize(files, candidates)
		prefixes := d.hashAll(ctx, files, candidates, func(ctx context.Context, path string) ([]byte, error) {
			return h.SumPrefix(ctx, path, hasher.PreHashSize)
		})
		candidates = narrow(candidates, func(i int) (string, bool) {
			if prefixes[i] == nil {
				return "", false
			}
			return fmt.Sprintf("%d:%x", files[i].Size(), prefixes[i]), true
		})
	}

	// --- PASO 3: FULL HASHING ---
	sums := d.hashAll(ctx, files, candidates, h.Sum)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	groups := make(map[string]*entities.DuplicateGroup)
	for _, i := range candidates {
		sum := sums[i]
		if sum == nil {
			continue
		}
		key := entities.DigestKey(string(h.Algorithm()), sum)
		id := key.String()
		g, ok := groups[id]
		if !ok {
			g = &entities.DuplicateGroup{Key: key}
			groups[id] = g
		}
		g.Add(files[i])
	}

	groups = entities.PruneSingletons(groups)
	span.SetAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("hashed", len(candidates)),
		attribute.Int("groups", len(groups)),
	)
	d.logger.Debug("digest grouping finished",
		"root", d.root,
		"files", len(files),
		"hashed", len(candidates),
		"groups", len(groups),
	)
	return groups, nil
}

func (d *Detector) bucketBySize(files []*entities.FileEntry) map[uint64]*entities.DuplicateGroup {
	groups := make(map[uint64]*entities.DuplicateGroup)
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			d.skip(f.Path, err)
			continue
		}
		size := uint64(info.Size())
		g, ok := groups[size]
		if !ok {
			g = &entities.DuplicateGroup{Key: entities.SizeKey(size)}
			groups[size] = g
		}
		g.Add(f)
	}
	return groups
}

func (d *Detector) narrowBySize(files []*entities.FileEntry, candidates []int) []int {
	return narrow(candidates, func(i int) (string, bool) {
		info, err := files[i].Info()
		if err != nil {
			d.skip(files[i].Path, err)
			return "", false
		}
		return fmt.Sprint(info.Size()), true
	})
}

// narrow conserva los candidatos cuyo grupo tiene al menos dos miembros,
// respetando el orden original.
func narrow(candidates []int, bucket func(int) (string, bool)) []int {
	keys := make(map[int]string, len(candidates))
	counts := make(map[string]int)
	for _, i := range candidates {
		k, ok := bucket(i)
		if !ok {
			continue
		}
		keys[i] = k
		counts[k]++
	}

	out := make([]int, 0, len(keys))
	for _, i := range candidates {
		k, ok := keys[i]
		if ok && counts[k] > 1 {
			out = append(out, i)
		}
	}
	return out
}

// hashAll: pool de workers que aplica sum a cada candidato. El slice
// devuelto se indexa igual que files; los fallidos u omitidos quedan en nil.
func (d *Detector) hashAll(ctx context.Context, files []*entities.FileEntry, candidates []int, sum func(context.Context, string) ([]byte, error)) [][]byte {
	type job struct{ idx int }
	type result struct {
		idx int
		sum []byte
		err error
	}

	jobs := make(chan job, len(candidates))
	results := make(chan result, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < d.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				s, err := sum(ctx, files[j.idx].Path)
				results <- result{j.idx, s, err}
			}
		}()
	}

	for _, i := range candidates {
		jobs <- job{i}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	sums := make([][]byte, len(files))
	for res := range results {
		if res.err != nil {
			if ctx.Err() == nil {
				d.skip(files[res.idx].Path, res.err)
			}
			continue
		}
		sums[res.idx] = res.sum
	}
	return sums
}

func (d *Detector) skip(path string, err error) {
	d.logger.Warn("skipping unreadable file", "path", path, "error", err)
	if d.opts.OnSkip != nil {
		d.opts.OnSkip(path, err)
	}
}
