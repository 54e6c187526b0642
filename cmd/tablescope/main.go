package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/cluster"
	"github.com/tablescope/tablescope/pkg/config"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
	"github.com/tablescope/tablescope/pkg/outlier"
	"github.com/tablescope/tablescope/pkg/profile"
	"github.com/tablescope/tablescope/pkg/prune"
	"github.com/tablescope/tablescope/pkg/render"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfgFile string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "tablescope",
		Short: "Tablescope - exploratory data analysis for tabular datasets",
		Long: `Tablescope profiles CSV datasets: column overviews, sparse row/column
pruning, missing-value summaries and group-wise imputation, IQR outlier
detection with box plot grids, distribution plot grids, and
correlation-based feature grouping for PCA.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				loaded, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// environment and flags override the config file
			if v := viper.GetString("log_level"); v != "" {
				cfg.Log.Level = v
			}
			if v := viper.GetString("output_dir"); v != "" {
				cfg.Render.OutputDir = v
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logger.Init(logger.Config{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
				Encoding:    cfg.Log.Encoding,
			})
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("output-dir", "", "Directory chart files are written to")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output_dir", root.PersistentFlags().Lookup("output-dir"))
	viper.SetEnvPrefix("TABLESCOPE")
	viper.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Tablescope v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(overviewCmd(cfgPtr(&cfg)))
	root.AddCommand(pruneCmd(cfgPtr(&cfg)))
	root.AddCommand(missingCmd(cfgPtr(&cfg)))
	root.AddCommand(outliersCmd(cfgPtr(&cfg)))
	root.AddCommand(distCmd(cfgPtr(&cfg)))
	root.AddCommand(groupsCmd(cfgPtr(&cfg)))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cfgPtr defers dereferencing until a command runs, after PersistentPreRunE
// may have swapped the config for a loaded one.
func cfgPtr(cfg **config.Config) func() *config.Config {
	return func() *config.Config { return *cfg }
}

// loadFrame reads a CSV dataset, logging its shape.
func loadFrame(path string) (*frame.Frame, error) {
	f, err := frame.ReadCSV(path, frame.CSVOptions{})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded dataset",
		zap.String("path", path),
		zap.Int("rows", f.NumRows()),
		zap.Int("cols", f.NumCols()))
	return f, nil
}

// chartPath resolves a chart file name against the configured output
// directory.
func chartPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Render.OutputDir, name)
}

func gridOptions(cfg *config.Config, path string) render.GridOptions {
	return render.GridOptions{
		Path:          chartPath(cfg, path),
		Cols:          cfg.Render.Cols,
		CellWidthPts:  cfg.Render.CellWidthPts,
		CellHeightPts: cfg.Render.CellHeightPts,
	}
}

func overviewCmd(cfg func() *config.Config) *cobra.Command {
	var dropDuplicates bool
	var jsonOut string

	cmd := &cobra.Command{
		Use:   "overview <data.csv>",
		Short: "Profile every column: dtype, kind, missing values, samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			rep, err := profile.Overview(f, profile.Options{RemoveDuplicates: dropDuplicates})
			if err != nil {
				return err
			}

			fmt.Printf("%d rows x %d cols, %d duplicate rows\n\n", rep.Rows, rep.Cols, rep.DuplicateRows)
			render.OverviewTable(os.Stdout, rep)

			if jsonOut != "" {
				w, err := os.Create(jsonOut)
				if err != nil {
					return err
				}
				defer w.Close()
				return rep.WriteJSON(w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropDuplicates, "drop-duplicates", false, "Remove exact duplicate rows before profiling")
	cmd.Flags().StringVar(&jsonOut, "json", "", "Also write the report as JSON to this file")
	return cmd
}

func pruneCmd(cfg func() *config.Config) *cobra.Command {
	var dropCols, dropRows bool
	var columns []string
	var out string

	cmd := &cobra.Command{
		Use:   "prune <data.csv>",
		Short: "Drop sparse columns and rows by missing-value thresholds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			res, err := prune.Sparse(f, prune.Options{
				Columns:         columns,
				DropColumns:     dropCols,
				ColumnThreshold: cfg().Prune.ColumnThreshold,
				DropRows:        dropRows,
				RowThreshold:    cfg().Prune.RowThreshold,
			})
			if err != nil {
				return err
			}

			fmt.Printf("dropped %d columns, %d rows; %d rows x %d cols remain\n",
				len(res.DroppedColumns), res.DroppedRows.NumRows(),
				res.Frame.NumRows(), res.Frame.NumCols())
			if len(res.DroppedColumns) > 0 {
				fmt.Printf("dropped columns: %s\n", strings.Join(res.DroppedColumns, ", "))
			}

			if out != "" {
				return frame.WriteCSV(res.Frame, out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropCols, "drop-cols", false, "Drop columns whose missing fraction meets the column threshold")
	cmd.Flags().BoolVar(&dropRows, "drop-rows", false, "Drop rows whose missing fraction exceeds the row threshold")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Explicit columns to drop instead of threshold-based selection")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the pruned dataset to this CSV file")
	return cmd
}

func missingCmd(cfg func() *config.Config) *cobra.Command {
	var onlyMissing bool
	var fillBy, heatmap, out string

	cmd := &cobra.Command{
		Use:   "missing <data.csv>",
		Short: "Summarize missing values, optionally impute them by group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			stats, err := profile.MissingSummary(f, profile.MissingOptions{OnlyMissing: onlyMissing})
			if err != nil {
				return err
			}
			render.MissingTable(os.Stdout, stats)

			if heatmap != "" {
				if err := render.MissingHeatmap(f, chartPath(cfg(), heatmap), gridOptions(cfg(), heatmap)); err != nil {
					return err
				}
			}

			if fillBy != "" {
				results, err := profile.FillByGroup(f, fillBy)
				if err != nil {
					return err
				}
				fmt.Println()
				render.FillTable(os.Stdout, results)
				if out != "" {
					return frame.WriteCSV(f, out)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "Show only columns that have missing values")
	cmd.Flags().StringVar(&fillBy, "fill-by", "", "Impute missing values grouped by this categorical column")
	cmd.Flags().StringVar(&heatmap, "heatmap", "", "Write a missing-values heatmap PNG to this file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the imputed dataset to this CSV file")
	return cmd
}

func outliersCmd(cfg func() *config.Config) *cobra.Command {
	var hue, boxes string
	var exclude []string

	cmd := &cobra.Command{
		Use:   "outliers <data.csv>",
		Short: "Detect IQR outliers, optionally drawing a box plot grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			excluded := append(append([]string(nil), cfg().Outlier.Exclude...), exclude...)
			results, err := outlier.Detect(f, outlier.Options{
				Exclude:  excluded,
				Hue:      hue,
				IQRScale: cfg().Outlier.IQRScale,
			})
			if err != nil {
				return err
			}
			render.OutlierTable(os.Stdout, results)

			if boxes != "" {
				return render.BoxGrid(f, render.BoxOptions{
					Exclude: excluded,
					Hue:     hue,
					Grid:    gridOptions(cfg(), boxes),
				})
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Columns to skip")
	cmd.Flags().StringVar(&hue, "hue", "", "Categorical column splitting each box plot")
	cmd.Flags().StringVar(&boxes, "boxes", "", "Write a box plot grid PNG to this file")
	return cmd
}

func distCmd(cfg func() *config.Config) *cobra.Command {
	var hue, out string
	var exclude []string
	var normalize, noKDE bool

	cmd := &cobra.Command{
		Use:   "dist <data.csv>",
		Short: "Draw a distribution plot grid: histograms and count plots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			return render.DistGrid(f, render.DistOptions{
				Exclude:   append(append([]string(nil), cfg().Dist.Exclude...), exclude...),
				Hue:       hue,
				Bins:      cfg().Dist.Bins,
				KDE:       cfg().Dist.KDE && !noKDE,
				Normalize: normalize,
				Grid:      gridOptions(cfg(), out),
			})
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Columns to skip")
	cmd.Flags().StringVar(&hue, "hue", "", "Categorical column splitting each panel")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Scale histograms to densities and counts to proportions")
	cmd.Flags().BoolVar(&noKDE, "no-kde", false, "Skip the KDE overlay on numeric panels")
	cmd.Flags().StringVarP(&out, "output", "o", "dist.png", "PNG file for the grid")
	return cmd
}

func groupsCmd(cfg func() *config.Config) *cobra.Command {
	var exclude []string
	var standardize bool

	cmd := &cobra.Command{
		Use:   "groups <data.csv>",
		Short: "Group correlated columns for PCA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			res, err := cluster.CorrGroups(f, cluster.Options{
				Exclude:           exclude,
				VarianceThreshold: cfg().Group.VarianceThreshold,
				CorrThreshold:     cfg().Group.CorrThreshold,
				LabelCutoff:       cfg().Group.LabelCutoff,
				Standardize:       standardize || cfg().Group.Standardize,
			})
			if err != nil {
				return err
			}
			render.GroupTable(os.Stdout, res)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Columns to skip")
	cmd.Flags().BoolVar(&standardize, "standardize", false, "Standardize each group to zero mean and unit variance")
	return cmd
}
