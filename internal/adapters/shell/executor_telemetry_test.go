package shell_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/shell"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRunner_Run_WithVertex(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("running command", gomock.Any()).Times(1)

	mockVertex := mocks.NewMockVertex(ctrl)

	var stdoutBuf bytes.Buffer
	var stderrBuf bytes.Buffer

	mockVertex.EXPECT().Stdout().Return(&stdoutBuf).AnyTimes()
	mockVertex.EXPECT().Stderr().Return(&stderrBuf).AnyTimes()

	runner := shell.NewRunner(mockLogger)

	ctx := ports.ContextWithVertex(context.Background(), mockVertex)

	res, err := runner.Run(ctx, domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo hello to stdout; echo hello to stderr >&2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)

	require.Contains(t, stdoutBuf.String(), "hello to stdout")
	require.Contains(t, stderrBuf.String(), "hello to stderr")
	require.Contains(t, res.Stdout, "hello to stdout")
	require.Contains(t, res.Stderr, "hello to stderr")
}
