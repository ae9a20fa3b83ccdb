package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  bool
	}{
		{
			name: "init empty directory",
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, config.FileName), []byte("existing"), 0o600)
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, config.FileName), []byte("existing"), 0o600)
			},
			args: []string{"--force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			out, _, err := execute(t, NewInitCommand(), nil, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "already exists")
				assert.NoFileExists(t, filepath.Join(dir, ".editorconfig"))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Created .leaplint.yaml")
			assert.FileExists(t, filepath.Join(dir, ".editorconfig"))

			// The written configuration loads.
			cfg, err := config.Load("", nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, config.FileName), cfg.File)
			assert.Equal(t, []string{config.DefaultReporter}, cfg.Reporters)
			assert.Equal(t, config.DefaultMaxFormatRuns, cfg.MaxFormatRuns)
		})
	}
}

func TestInit_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	_, _, err := execute(t, NewInitCommand(), nil, dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.FileName))
	assert.FileExists(t, filepath.Join(dir, ".editorconfig"))
}
