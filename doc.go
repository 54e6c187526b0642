// Package tablescope provides exploratory-data-analysis helpers for tabular
// datasets: column profiling, sparse row/column pruning, missing-value
// summaries with group-wise imputation, IQR outlier detection with box plot
// grids, distribution plot grids, and correlation-based feature grouping for
// PCA preparation.
//
// Every routine is a standalone function over an in-memory frame.Frame.
// There is no shared state between calls: each call either returns a derived
// frame/summary or renders a chart to a file, and the caller owns all inputs
// and outputs.
//
// # Packages
//
//   - frame: the tagged-variant column table (typed columns + null masks,
//     CSV load/save, column kind classification)
//   - profile: dataset overview, missing-value summary, group-wise imputation
//   - prune: threshold-based dropping of sparse columns and rows
//   - outlier: IQR outlier detection
//   - cluster: categorical encoding, low-variance filtering, and
//     correlation-distance grouping of features
//   - render: box plot / histogram / count plot grids, the missing-values
//     heatmap, and terminal report tables
//
// # Quick start
//
//	f, err := frame.ReadCSV("housing.csv", frame.CSVOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rep, err := profile.Overview(f, profile.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	render.OverviewTable(os.Stdout, rep)
//
//	err = render.BoxGrid(f, render.BoxOptions{
//	    Grid: render.GridOptions{Cols: 3, Path: "box.png"},
//	})
package tablescope
