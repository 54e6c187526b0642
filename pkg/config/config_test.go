package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Prune.ColumnThreshold)
	assert.Equal(t, 1.5, cfg.Outlier.IQRScale)
	assert.Equal(t, 3, cfg.Render.Cols)
	assert.Equal(t, frame.CategoricalCutoff, cfg.Group.LabelCutoff)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero column threshold", func(c *Config) { c.Prune.ColumnThreshold = 0 }},
		{"negative row threshold", func(c *Config) { c.Prune.RowThreshold = -0.1 }},
		{"threshold above one", func(c *Config) { c.Prune.ColumnThreshold = 1.2 }},
		{"zero iqr scale", func(c *Config) { c.Outlier.IQRScale = 0 }},
		{"zero bins", func(c *Config) { c.Dist.Bins = 0 }},
		{"corr threshold above one", func(c *Config) { c.Group.CorrThreshold = 1.5 }},
		{"zero label cutoff", func(c *Config) { c.Group.LabelCutoff = 0 }},
		{"zero grid cols", func(c *Config) { c.Render.Cols = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tablescope.yaml")

	content := `
prune:
  column_threshold: 0.34
outlier:
  iqr_scale: 3.0
render:
  output_dir: ${TABLESCOPE_OUT}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TABLESCOPE_OUT", "/tmp/charts")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.34, cfg.Prune.ColumnThreshold)
	assert.Equal(t, 3.0, cfg.Outlier.IQRScale)
	assert.Equal(t, "/tmp/charts", cfg.Render.OutputDir)
	// untouched sections keep defaults
	assert.Equal(t, 0.5, cfg.Prune.RowThreshold)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prune:\n  column_threshold: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.Group.CorrThreshold = 0.95
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.95, loaded.Group.CorrThreshold)
}
