package hasher

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestSumKnownDigest(t *testing.T) {
	p := writeFile(t, t.TempDir(), "hello.txt", []byte("hello"))

	h, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, SHA256, h.Algorithm())
	assert.Equal(t, DefaultChunkSize, h.ChunkSize())

	sum, err := h.Sum(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, hex.EncodeToString(sum))
}

func TestSumIndependentOfChunkSize(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 5000)
	p := writeFile(t, t.TempDir(), "big.bin", data)
	ctx := context.Background()

	var sums [][]byte
	for _, size := range []int{1, 7, 4096, DefaultChunkSize, 1 << 20} {
		h, err := New(Config{ChunkSize: size})
		require.NoError(t, err)
		sum, err := h.Sum(ctx, p)
		require.NoError(t, err)
		sums = append(sums, sum)
	}
	for _, s := range sums[1:] {
		assert.Equal(t, sums[0], s)
	}
}

func TestAlgorithms(t *testing.T) {
	p := writeFile(t, t.TempDir(), "f", []byte("hello"))
	ctx := context.Background()

	wantLen := map[Algorithm]int{
		SHA256:   32,
		SHA1:     20,
		SHA512:   64,
		MD5:      16,
		XXHash64: 8,
	}
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			h, err := New(Config{Algorithm: alg})
			require.NoError(t, err)
			sum, err := h.Sum(ctx, p)
			require.NoError(t, err)
			assert.Len(t, sum, wantLen[alg])
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{in: "", want: SHA256},
		{in: "SHA-256", want: SHA256},
		{in: "md5", want: MD5},
		{in: "xxhash64", want: XXHash64},
		{in: "crc32", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := New(Config{Algorithm: "whirlpool"})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestSumPrefix(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", append(bytes.Repeat([]byte{'x'}, PreHashSize), 'A'))
	b := writeFile(t, dir, "b", append(bytes.Repeat([]byte{'x'}, PreHashSize), 'B'))
	short := writeFile(t, dir, "short", []byte("hello"))
	ctx := context.Background()

	h, err := New(Config{})
	require.NoError(t, err)

	pa, err := h.SumPrefix(ctx, a, PreHashSize)
	require.NoError(t, err)
	pb, err := h.SumPrefix(ctx, b, PreHashSize)
	require.NoError(t, err)
	assert.Equal(t, pa, pb, "files differ only after the prefix")

	ps, err := h.SumPrefix(ctx, short, PreHashSize)
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, hex.EncodeToString(ps))
}

func TestSumErrors(t *testing.T) {
	h, err := New(Config{FS: afero.NewMemMapFs()})
	require.NoError(t, err)

	_, err = h.Sum(context.Background(), "/does/not/exist")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f", []byte("data"), 0o644))
	h, err = New(Config{FS: fs})
	require.NoError(t, err)
	_, err = h.Sum(ctx, "/f")
	assert.ErrorIs(t, err, context.Canceled)
}
