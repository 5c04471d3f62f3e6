// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ship/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w     progrock.Writer
	rec   *progrock.Recorder
	runID string
}

// New creates a new Recorder with a default tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape(), "")
}

// NewRecorder creates a new Recorder with the given writer. runID scopes vertex
// digests so two runs on the same tape do not collide.
func NewRecorder(w progrock.Writer, runID string) *Recorder {
	return &Recorder{
		w:     w,
		rec:   progrock.NewRecorder(w),
		runID: runID,
	}
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := &ports.VertexConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	label := name
	if cfg.Group != "" {
		label = cfg.Group + " › " + name
	}

	d := digest.FromString(r.runID + "/" + label)
	vertex := &Vertex{vertex: r.rec.Vertex(d, label)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
