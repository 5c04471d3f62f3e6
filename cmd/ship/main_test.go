package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		files        map[string]string
		args         []string
		expectedExit int
	}{
		{
			name:         "Version",
			args:         []string{"ship", "version"},
			expectedExit: 0,
		},
		{
			name: "Plan with configured releases",
			files: map[string]string{
				"ship.yaml":    "releases:\n  - solo@1.0.0\n",
				"package.json": `{"name":"solo","version":"1.0.0","publishConfig":{"access":"public"}}`,
			},
			args:         []string{"ship", "plan"},
			expectedExit: 0,
		},
		{
			name:         "Error with missing config",
			args:         []string{"ship", "-c", "nonexistent.yaml", "plan"},
			expectedExit: 1,
		},
		{
			name: "Publish with nothing to publish",
			files: map[string]string{
				"package.json": `{"name":"solo","version":"1.0.0","private":true}`,
			},
			args:         []string{"ship", "publish", "--release", "solo@1.0.0"},
			expectedExit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
					t.Fatalf("failed to write %s: %v", name, err)
				}
			}

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			err := os.Chdir(tmpDir)
			if err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
