package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/ship/internal/adapters/telemetry/progrock"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.NewRecorder(vprogrock.NewTape(), "run-1")

	ctx, vertex := recorder.Record(context.Background(), "npm https://registry.npmjs.org/", ports.WithGroup("@acme/ui"))
	assert.Same(t, vertex, ports.VertexFromContext(ctx))

	_, err := vertex.Stdout().Write([]byte("+ @acme/ui@1.0.0\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("npm notice\n"))
	require.NoError(t, err)

	vertex.Log(domain.LogLevelDebug, "debug msg")
	vertex.Complete(nil)
	// A second completion is ignored.
	vertex.Complete(errors.New("late"))

	_, cached := recorder.Record(context.Background(), "jsr", ports.WithGroup("@acme/ui"))
	cached.Cached()
	cached.Complete(nil)

	assert.NoError(t, recorder.Close())
}
