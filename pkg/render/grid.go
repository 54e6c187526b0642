// Package render draws the chart output of the EDA routines with gonum/plot:
// box plot grids for outlier inspection, distribution grids (histograms with
// optional KDE overlays, count plots), a missing-values heatmap, and plain
// text tables for terminal reports.
package render

import (
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/logger"
)

// Grid layout defaults, in subplots per row and points per cell.
const (
	DefaultCols       = 3
	DefaultCellWidth  = 360
	DefaultCellHeight = 288
)

// GridOptions sizes a multi-panel chart and names its output file.
type GridOptions struct {
	// Path is the PNG file to write
	Path string
	// Cols is the number of subplots per row; <= 0 selects 3
	Cols int
	// CellWidthPts and CellHeightPts size each subplot in points; <= 0
	// selects 360x288
	CellWidthPts  float64
	CellHeightPts float64
}

func (o GridOptions) normalize() GridOptions {
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.CellWidthPts <= 0 {
		o.CellWidthPts = DefaultCellWidth
	}
	if o.CellHeightPts <= 0 {
		o.CellHeightPts = DefaultCellHeight
	}
	return o
}

// writeGrid tiles the plots row-major into a single PNG.
func writeGrid(plots []*plot.Plot, opts GridOptions) error {
	opts = opts.normalize()
	if len(plots) == 0 {
		return errors.New(errors.ErrorTypeNothingToDo, "no plots to draw")
	}
	if opts.Path == "" {
		return errors.New(errors.ErrorTypeValidation, "an output path is required")
	}

	cols := opts.Cols
	if cols > len(plots) {
		cols = len(plots)
	}
	rows := (len(plots) + cols - 1) / cols

	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := range grid[r] {
			if i := r*cols + c; i < len(plots) {
				grid[r][c] = plots[i]
			}
		}
	}

	img := vgimg.New(
		vg.Points(opts.CellWidthPts*float64(cols)),
		vg.Points(opts.CellHeightPts*float64(rows)),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Points(6),
		PadY:      vg.Points(6),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] != nil {
				grid[r][c].Draw(canvases[r][c])
			}
		}
	}

	w, err := os.Create(opts.Path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create chart file")
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrorTypeRender, "failed to write chart")
	}

	logger.Debug("wrote chart grid",
		zap.String("path", opts.Path),
		zap.Int("plots", len(plots)),
		zap.Int("rows", rows),
		zap.Int("cols", cols))
	return nil
}

// annotationCell draws a titled panel carrying only a centered message, used
// where a column cannot be plotted so the grid still shows every column.
func annotationCell(title, msg string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{msg},
	})
	if err == nil {
		p.Add(labels)
	}
	return p
}
