package hasher

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// DefaultChunkSize es el tamaño de lectura al pasar un archivo por el digest.
const DefaultChunkSize = 8192

// PreHashSize es cuánto lee el pre-hash rápido del prefijo (4KB).
const PreHashSize = 4 * 1024

// ErrUnknownAlgorithm is returned for an algorithm name not in the registry.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithm names a digest.
type Algorithm string

const (
	SHA256   Algorithm = "sha256"
	SHA1     Algorithm = "sha1"
	SHA512   Algorithm = "sha512"
	MD5      Algorithm = "md5"
	XXHash64 Algorithm = "xxhash64"
)

var registry = map[Algorithm]func() hash.Hash{
	SHA256:   sha256.New,
	SHA1:     sha1.New,
	SHA512:   sha512.New,
	MD5:      md5.New,
	XXHash64: func() hash.Hash { return xxhash.New() },
}

// Algorithms lists the supported digests, default first.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, SHA1, SHA512, MD5, XXHash64}
}

// ParseAlgorithm resolves a user supplied name; empty means SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return SHA256, nil
	}
	alg := Algorithm(strings.ToLower(strings.ReplaceAll(name, "-", "")))
	if _, ok := registry[alg]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// New returns a fresh digest for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	ctor, ok := registry[a]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, a)
	}
	return ctor(), nil
}

// Config configures a Hasher.
type Config struct {
	Algorithm Algorithm
	ChunkSize int
	FS        afero.Fs // por defecto el sistema de archivos del OS
}

// Hasher streams files through a digest in fixed size chunks. It is safe
// for concurrent use; buffers and digest states are pooled.
type Hasher struct {
	alg       Algorithm
	chunkSize int
	fs        afero.Fs

	bufferPool sync.Pool
	hashPool   sync.Pool
}

// New validates the configuration and builds a Hasher.
func New(cfg Config) (*Hasher, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = SHA256
	}
	ctor, ok := registry[cfg.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, cfg.Algorithm)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}

	h := &Hasher{
		alg:       cfg.Algorithm,
		chunkSize: cfg.ChunkSize,
		fs:        cfg.FS,
	}
	h.bufferPool.New = func() any {
		b := make([]byte, h.chunkSize)
		return &b
	}
	h.hashPool.New = func() any {
		return ctor()
	}
	return h, nil
}

func (h *Hasher) Algorithm() Algorithm { return h.alg }

func (h *Hasher) ChunkSize() int { return h.chunkSize }

// Sum digests the whole file, reading ChunkSize bytes at a time. The context
// is checked between chunks.
func (h *Hasher) Sum(ctx context.Context, path string) ([]byte, error) {
	file, err := h.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := h.hashPool.Get().(hash.Hash)
	d.Reset()
	defer h.hashPool.Put(d)

	bufPtr := h.bufferPool.Get().(*[]byte)
	buf := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := file.Read(buf)
		if n > 0 {
			_, _ = d.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return d.Sum(nil), nil
}

// SumPrefix digests at most the first n bytes of the file. Short files are
// hashed whole.
func (h *Hasher) SumPrefix(ctx context.Context, path string, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := h.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := h.hashPool.Get().(hash.Hash)
	d.Reset()
	defer h.hashPool.Put(d)

	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	_, _ = d.Write(buf[:read])

	return d.Sum(nil), nil
}
