package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := NewProvider(&buf, "test")
	require.NoError(t, err)

	_, span := tp.Tracer("telemetry-test").Start(context.Background(), "GroupByDigest")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `"Name": "GroupByDigest"`)
	assert.Contains(t, out, serviceName)
}
