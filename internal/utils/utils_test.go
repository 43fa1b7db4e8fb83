package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteCountDecimal(t *testing.T) {
	assert.Equal(t, "0 B", ByteCountDecimal(0))
	assert.Equal(t, "1.5 kB", ByteCountDecimal(1500))
	assert.Equal(t, "-2.0 MB", ByteCountDecimal(-2_000_000))
}

func TestPathRelations(t *testing.T) {
	tests := []struct {
		a, b     string
		same     bool
		within   bool // b within a
		overlaps bool
	}{
		{a: "/x/y", b: "/x/y", same: true, overlaps: true},
		{a: "/x/y", b: "/x/y/", same: true, overlaps: true},
		{a: "/x/y", b: "/x/./y", same: true, overlaps: true},
		{a: "/x", b: "/x/y/z", within: true, overlaps: true},
		{a: "/x/y", b: "/x/yz"},
		{a: "/x/y", b: "/x"},
		{a: "/x/..y", b: "/x/..y/z", within: true, overlaps: true},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.same, SamePath(tt.a, tt.b))
			assert.Equal(t, tt.within, IsWithin(tt.a, tt.b))
			assert.Equal(t, tt.overlaps, Overlaps(tt.a, tt.b))
		})
	}
	assert.True(t, Overlaps("/x/y/z", "/x"), "containment is symmetric for Overlaps")
}
