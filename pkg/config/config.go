// Package config provides the configuration system for tablescope.
// It defines a single Config structure holding the tunable parameters of
// every EDA routine, organized into logical sections:
//
//   - Prune: missing-ratio thresholds for dropping columns and rows
//   - Outlier: the IQR fence multiplier and exclusions
//   - Dist: distribution grid options (plots per row, KDE overlay)
//   - Group: correlation-grouping parameters (variance threshold,
//     correlation cutoff, label-encoding cardinality cutoff)
//   - Render: chart output settings
//   - Log: logger settings
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Prune.ColumnThreshold = 0.4
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

// Config is the unified configuration structure for all tablescope routines.
type Config struct {
	// Prune settings for sparse row/column dropping
	Prune PruneConfig `yaml:"prune" json:"prune"`

	// Outlier settings for IQR detection
	Outlier OutlierConfig `yaml:"outlier" json:"outlier"`

	// Dist settings for distribution plot grids
	Dist DistConfig `yaml:"dist" json:"dist"`

	// Group settings for correlation grouping
	Group GroupConfig `yaml:"group" json:"group"`

	// Render settings for chart output
	Render RenderConfig `yaml:"render" json:"render"`

	// Log settings for the structured logger
	Log LogConfig `yaml:"log" json:"log"`
}

// PruneConfig controls prune.Sparse.
type PruneConfig struct {
	// ColumnThreshold drops a column when its null fraction is >= this value
	ColumnThreshold float64 `yaml:"column_threshold" json:"column_threshold"`
	// RowThreshold drops a row when its null fraction is > this value
	RowThreshold float64 `yaml:"row_threshold" json:"row_threshold"`
}

// OutlierConfig controls outlier.Detect.
type OutlierConfig struct {
	// IQRScale is the fence multiplier: fences sit at Q1-k*IQR and Q3+k*IQR
	IQRScale float64 `yaml:"iqr_scale" json:"iqr_scale"`
	// Exclude lists columns skipped by detection
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// DistConfig controls the distribution plot grids.
type DistConfig struct {
	// KDE overlays a kernel density estimate on numeric histograms
	KDE bool `yaml:"kde" json:"kde"`
	// Bins is the histogram bin count
	Bins int `yaml:"bins" json:"bins"`
	// Exclude lists columns skipped by the grids
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// GroupConfig controls cluster.CorrGroups.
type GroupConfig struct {
	// VarianceThreshold drops encoded columns whose variance is below it
	VarianceThreshold float64 `yaml:"variance_threshold" json:"variance_threshold"`
	// CorrThreshold merges columns whose absolute correlation is >= this value
	CorrThreshold float64 `yaml:"corr_threshold" json:"corr_threshold"`
	// LabelCutoff selects label encoding at or below this cardinality,
	// one-hot encoding above it
	LabelCutoff int `yaml:"label_cutoff" json:"label_cutoff"`
	// Standardize returns zero-mean unit-variance per-group sub-tables
	Standardize bool `yaml:"standardize" json:"standardize"`
}

// RenderConfig controls chart output.
type RenderConfig struct {
	// Cols is the number of subplots per grid row
	Cols int `yaml:"cols" json:"cols"`
	// CellWidthPts and CellHeightPts size each grid cell in points
	CellWidthPts  float64 `yaml:"cell_width_pts" json:"cell_width_pts"`
	CellHeightPts float64 `yaml:"cell_height_pts" json:"cell_height_pts"`
	// OutputDir is where chart files are written
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
	Encoding    string `yaml:"encoding" json:"encoding"`
}

// Default returns a Config with sensible defaults for every routine.
func Default() *Config {
	return &Config{
		Prune: PruneConfig{
			ColumnThreshold: 0.5,
			RowThreshold:    0.5,
		},
		Outlier: OutlierConfig{
			IQRScale: 1.5,
		},
		Dist: DistConfig{
			KDE:  true,
			Bins: 16,
		},
		Group: GroupConfig{
			VarianceThreshold: 0.01,
			CorrThreshold:     0.9,
			LabelCutoff:       frame.CategoricalCutoff,
		},
		Render: RenderConfig{
			Cols:          3,
			CellWidthPts:  360,
			CellHeightPts: 288,
			OutputDir:     ".",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Validate checks that every section holds usable values.
func (c *Config) Validate() error {
	if c.Prune.ColumnThreshold <= 0 || c.Prune.ColumnThreshold > 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"prune.column_threshold must be in (0, 1], got %v", c.Prune.ColumnThreshold)
	}
	if c.Prune.RowThreshold <= 0 || c.Prune.RowThreshold > 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"prune.row_threshold must be in (0, 1], got %v", c.Prune.RowThreshold)
	}
	if c.Outlier.IQRScale <= 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"outlier.iqr_scale must be positive, got %v", c.Outlier.IQRScale)
	}
	if c.Dist.Bins <= 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"dist.bins must be positive, got %d", c.Dist.Bins)
	}
	if c.Group.VarianceThreshold < 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"group.variance_threshold must be non-negative, got %v", c.Group.VarianceThreshold)
	}
	if c.Group.CorrThreshold <= 0 || c.Group.CorrThreshold > 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"group.corr_threshold must be in (0, 1], got %v", c.Group.CorrThreshold)
	}
	if c.Group.LabelCutoff <= 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"group.label_cutoff must be positive, got %d", c.Group.LabelCutoff)
	}
	if c.Render.Cols <= 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"render.cols must be a positive integer, got %d", c.Render.Cols)
	}
	if c.Render.CellWidthPts <= 0 || c.Render.CellHeightPts <= 0 {
		return errors.New(errors.ErrorTypeConfig,
			"render cell dimensions must be positive")
	}
	return nil
}
