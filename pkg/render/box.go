package render

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

// BoxOptions controls BoxGrid.
type BoxOptions struct {
	// Exclude lists columns left out of the grid
	Exclude []string
	// Hue splits each box plot by the classes of a categorical column
	Hue string
	// Grid sizes the output
	Grid GridOptions
}

// BoxGrid draws one box plot per outlier-candidate column (numeric dtype
// with enough distinct values), optionally split by a hue column, into a
// single PNG grid.
func BoxGrid(f *frame.Frame, opts BoxOptions) error {
	if f.Empty() {
		return errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	hueClasses, err := hueValues(f, opts.Hue)
	if err != nil {
		return err
	}

	skip := make(map[string]struct{}, len(opts.Exclude)+1)
	for _, name := range opts.Exclude {
		skip[name] = struct{}{}
	}
	if opts.Hue != "" {
		skip[opts.Hue] = struct{}{}
	}

	var plots []*plot.Plot
	for _, c := range f.Columns() {
		if _, excluded := skip[c.Name()]; excluded {
			continue
		}
		if !frame.IsNumericDType(c) || c.Distinct() < frame.CategoricalCutoff {
			continue
		}
		plots = append(plots, boxPlot(c, f, opts.Hue, hueClasses))
	}
	if len(plots) == 0 {
		return errors.New(errors.ErrorTypeValidation,
			"no numeric columns available for box plots")
	}

	return writeGrid(plots, opts.Grid)
}

// boxPlot draws one column, either a single box or one box per hue class.
func boxPlot(c frame.Column, f *frame.Frame, hue string, hueClasses []string) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Name()
	p.Y.Label.Text = c.Name()

	if hue == "" {
		values, _, err := frame.FloatValues(c)
		if err != nil || len(values) == 0 {
			return annotationCell(c.Name(), "no values to plot")
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
		if err != nil {
			return annotationCell(c.Name(), err.Error())
		}
		p.Add(box)
		p.NominalX(c.Name())
		return p
	}

	hueCol, _ := f.Column(hue)
	for j, class := range hueClasses {
		var values plotter.Values
		for i := 0; i < c.Len(); i++ {
			if hueCol.IsNull(i) || hueCol.Render(i) != class {
				continue
			}
			if v, present, ok := frame.AsFloat(c, i); ok && present {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(j), values)
		if err != nil {
			continue
		}
		p.Add(box)
	}
	p.X.Label.Text = hue
	p.NominalX(hueClasses...)
	return p
}

// hueValues validates a hue column and returns its sorted classes. An empty
// hue name is allowed and returns nil.
func hueValues(f *frame.Frame, hue string) ([]string, error) {
	if hue == "" {
		return nil, nil
	}
	c, ok := f.Column(hue)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "hue column %q not found", hue)
	}
	if c.Distinct() > frame.CategoricalCutoff {
		return nil, errors.Newf(errors.ErrorTypeCardinality,
			"hue column %q has %d distinct values, at most %d are supported",
			hue, c.Distinct(), frame.CategoricalCutoff)
	}
	return distinctRendered(c), nil
}

// distinctRendered returns the sorted distinct non-null rendered values.
func distinctRendered(c frame.Column) []string {
	seen := make(map[string]struct{})
	var classes []string
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Render(i)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return classes
}
