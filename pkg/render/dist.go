package render

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

// DefaultBins is the histogram bin count.
const DefaultBins = 16

// kdePoints is how many samples the KDE overlay curve is drawn with.
const kdePoints = 128

// DistOptions controls DistGrid.
type DistOptions struct {
	// Exclude lists columns left out of the grid
	Exclude []string
	// Hue splits each panel by the classes of a categorical column
	Hue string
	// Bins is the histogram bin count; <= 0 selects 16
	Bins int
	// KDE overlays a kernel density estimate on numeric panels
	KDE bool
	// Normalize scales histograms to densities and count plots to
	// within-class proportions
	Normalize bool
	// Grid sizes the output
	Grid GridOptions
}

// DistGrid draws one distribution panel per column into a single PNG grid:
// histograms for numeric columns (optionally with a KDE overlay) and count
// plots for categorical and boolean columns. Columns no panel type supports
// keep their grid slot with an annotation, so the grid always shows every
// non-excluded column.
func DistGrid(f *frame.Frame, opts DistOptions) error {
	if f.Empty() {
		return errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	bins := opts.Bins
	if bins <= 0 {
		bins = DefaultBins
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
		switch frame.KindOf(c) {
		case frame.KindNumeric:
			plots = append(plots, histPanel(c, f, opts, bins, hueClasses))
		case frame.KindCategorical, frame.KindBoolean:
			plots = append(plots, countPanel(c, f, opts, hueClasses))
		default:
			plots = append(plots, annotationCell(c.Name(), "unsupported column kind: "+frame.KindOf(c).String()))
		}
	}
	if len(plots) == 0 {
		return errors.New(errors.ErrorTypeNothingToDo, "no columns to plot")
	}

	return writeGrid(plots, opts.Grid)
}

// DistGridNormalized draws the same grid with histograms scaled to
// densities and count plots to proportions, which makes differently sized
// hue classes comparable.
func DistGridNormalized(f *frame.Frame, opts DistOptions) error {
	opts.Normalize = true
	return DistGrid(f, opts)
}

// histPanel draws a histogram of one numeric column, split by hue when set.
func histPanel(c frame.Column, f *frame.Frame, opts DistOptions, bins int, hueClasses []string) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Name()
	p.X.Label.Text = c.Name()
	if opts.Normalize {
		p.Y.Label.Text = "density"
	} else {
		p.Y.Label.Text = "count"
	}

	if opts.Hue == "" {
		values, _, err := frame.FloatValues(c)
		if err != nil || len(values) == 0 {
			return annotationCell(c.Name(), "no values to plot")
		}
		if err := addHist(p, values, bins, opts, 0, false); err != nil {
			return annotationCell(c.Name(), err.Error())
		}
		return p
	}

	hueCol, _ := f.Column(opts.Hue)
	drawn := 0
	for j, class := range hueClasses {
		var values []float64
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
		if err := addHist(p, values, bins, opts, j, true); err == nil {
			drawn++
		}
	}
	if drawn == 0 {
		return annotationCell(c.Name(), "no values to plot")
	}
	return p
}

// addHist adds one histogram series, normalized to a density when requested,
// plus a KDE overlay on the same scale.
func addHist(p *plot.Plot, values []float64, bins int, opts DistOptions, series int, outline bool) error {
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeRender, "failed to build histogram")
	}
	if opts.Normalize {
		h.Normalize(1)
	}
	if outline {
		// overlapping hue series draw as outlines so all stay visible
		h.FillColor = nil
		h.LineStyle.Color = plotutil.Color(series)
		h.LineStyle.Width = vg.Points(1.5)
	}
	p.Add(h)

	if opts.KDE && len(values) > 1 {
		p.Add(kdeLine(values, bins, opts.Normalize, series))
	}
	return nil
}

// kdeLine samples a Gaussian kernel density estimate across the value range.
// On count-scaled histograms the density is multiplied by n times the bin
// width so the curve overlays the bars.
func kdeLine(values []float64, bins int, normalized bool, series int) *plotter.Line {
	kde := moremath.KDE{Sample: moremath.Sample{Xs: values}}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	// extend past the data so the curve tails off visibly
	lo -= span * 0.1
	hi += span * 0.1

	scale := 1.0
	if !normalized {
		scale = float64(len(values)) * span / float64(bins)
	}

	pts := make(plotter.XYs, kdePoints)
	step := (hi - lo) / float64(kdePoints-1)
	for i := range pts {
		x := lo + float64(i)*step
		pts[i].X = x
		pts[i].Y = kde.PDF(x) * scale
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil
	}
	line.Color = plotutil.Color(series)
	line.Width = vg.Points(1.5)
	return line
}

// countPanel draws per-class counts of one categorical or boolean column,
// grouped by hue when set.
func countPanel(c frame.Column, f *frame.Frame, opts DistOptions, hueClasses []string) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Name()
	p.X.Label.Text = c.Name()
	if opts.Normalize {
		p.Y.Label.Text = "proportion"
	} else {
		p.Y.Label.Text = "count"
	}

	classes := distinctRendered(c)
	if len(classes) == 0 {
		return annotationCell(c.Name(), "no values to plot")
	}

	if opts.Hue == "" {
		counts := classCounts(c, classes, nil, "")
		bars, err := plotter.NewBarChart(normalizeCounts(counts, opts.Normalize), vg.Points(24))
		if err != nil {
			return annotationCell(c.Name(), err.Error())
		}
		bars.Color = plotutil.Color(0)
		p.Add(bars)
		p.NominalX(classes...)
		return p
	}

	hueCol, _ := f.Column(opts.Hue)
	width := vg.Points(36 / float64(len(hueClasses)))
	for j, class := range hueClasses {
		counts := classCounts(c, classes, hueCol, class)
		bars, err := plotter.NewBarChart(normalizeCounts(counts, opts.Normalize), width)
		if err != nil {
			continue
		}
		bars.Color = plotutil.Color(j)
		bars.Offset = width * vg.Length(float64(j)-float64(len(hueClasses)-1)/2)
		p.Add(bars)
		p.Legend.Add(class, bars)
	}
	p.Legend.Top = true
	p.NominalX(classes...)
	return p
}

// classCounts tallies the rows of each class, restricted to one hue class
// when hueCol is set.
func classCounts(c frame.Column, classes []string, hueCol frame.Column, hueClass string) []float64 {
	idx := make(map[string]int, len(classes))
	for i, class := range classes {
		idx[class] = i
	}
	counts := make([]float64, len(classes))
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		if hueCol != nil && (hueCol.IsNull(i) || hueCol.Render(i) != hueClass) {
			continue
		}
		counts[idx[c.Render(i)]]++
	}
	return counts
}

// normalizeCounts converts counts to proportions when requested.
func normalizeCounts(counts []float64, normalize bool) plotter.Values {
	out := make(plotter.Values, len(counts))
	total := 0.0
	for _, v := range counts {
		total += v
	}
	for i, v := range counts {
		if normalize && total > 0 {
			out[i] = v / total
		} else {
			out[i] = v
		}
	}
	return out
}
