package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/telemetry"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Telemetry = (*telemetry.NoOp)(nil)
	var _ ports.Vertex = (*telemetry.NoOpVertex)(nil)
}

func TestNoOp_Record(t *testing.T) {
	tel := telemetry.NewNoOp()

	ctx, vertex := tel.Record(context.Background(), "publish @acme/ui", ports.WithGroup("@acme/ui"))
	require.NotNil(t, vertex)
	assert.Same(t, vertex, ports.VertexFromContext(ctx))

	n, err := vertex.Stdout().Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	vertex.Log(domain.LogLevelInfo, "hello")
	vertex.Cached()
	vertex.Complete(errors.New("boom"))

	assert.NoError(t, tel.Close())
}

func TestVertexFromContext_Empty(t *testing.T) {
	assert.Nil(t, ports.VertexFromContext(context.Background()))
}
