package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

// nullGrid adapts a frame's missing-value mask to the heat map's grid:
// columns along X, rows along Y, cell value 1 where the cell is missing.
type nullGrid struct {
	mask [][]bool
	cols int
}

func (g nullGrid) Dims() (int, int) { return g.cols, len(g.mask) }
func (g nullGrid) X(c int) float64 { return float64(c) }
func (g nullGrid) Y(r int) float64 { return float64(r) }

func (g nullGrid) Z(c, r int) float64 {
	if g.mask[r][c] {
		return 1
	}
	return 0
}

// MissingHeatmap draws the frame's missing-value mask as a heat map, one
// cell per table cell, with column names along the X axis. It gives a quick
// visual read of where nulls cluster.
func MissingHeatmap(f *frame.Frame, path string, opts GridOptions) error {
	if f.Empty() {
		return errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	if path == "" {
		return errors.New(errors.ErrorTypeValidation, "an output path is required")
	}
	opts = opts.normalize()

	p := plot.New()
	p.Title.Text = "missing values"
	p.Y.Label.Text = "row"

	grid := nullGrid{mask: f.NullMask(), cols: f.NumCols()}
	p.Add(plotter.NewHeatMap(grid, palette.Heat(12, 1)))
	p.NominalX(f.Names()...)

	width := vg.Points(opts.CellWidthPts * 2)
	height := vg.Points(opts.CellHeightPts * 2)
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeRender, "failed to write heatmap")
	}
	return nil
}
