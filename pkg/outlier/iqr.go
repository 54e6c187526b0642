// Package outlier detects univariate outliers with the interquartile-range
// method: values outside [Q1 - k*IQR, Q3 + k*IQR] are flagged, with
// quartiles computed by linear interpolation over the non-null values.
package outlier

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
)

// DefaultIQRScale is the conventional fence multiplier.
const DefaultIQRScale = 1.5

// Options controls Detect.
type Options struct {
	// Exclude lists columns to skip
	Exclude []string
	// Hue is skipped like an exclusion (it only affects rendering)
	Hue string
	// IQRScale multiplies the IQR when deriving fences; <= 0 selects the
	// default of 1.5
	IQRScale float64
}

// Result pairs a column with the rows falling outside its fences.
type Result struct {
	// Column is the inspected column name
	Column string
	// Q1, Q3 are the quartiles of the non-null values
	Q1, Q3 float64
	// Lower, Upper are the derived fences
	Lower, Upper float64
	// Outliers holds the full rows whose value lies strictly outside the
	// fences
	Outliers *frame.Frame
}

// Detect runs IQR outlier detection over every candidate column: numeric
// dtype, at least CategoricalCutoff distinct values, and not excluded.
// Values exactly on a fence are not outliers; a constant column has zero
// IQR and flags nothing.
func Detect(f *frame.Frame, opts Options) ([]Result, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	scale := opts.IQRScale
	if scale <= 0 {
		scale = DefaultIQRScale
	}

	skip := make(map[string]struct{}, len(opts.Exclude)+1)
	for _, name := range opts.Exclude {
		skip[name] = struct{}{}
	}
	if opts.Hue != "" {
		skip[opts.Hue] = struct{}{}
	}

	var results []Result
	for _, c := range f.Columns() {
		if _, excluded := skip[c.Name()]; excluded {
			continue
		}
		if !frame.IsNumericDType(c) || c.Distinct() < frame.CategoricalCutoff {
			continue
		}

		values, _, err := frame.FloatValues(c)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			results = append(results, Result{
				Column:   c.Name(),
				Outliers: f.TakeRows(nil),
			})
			continue
		}

		q1, q3, lower, upper := Bounds(values, scale)

		var rows []int
		for i := 0; i < c.Len(); i++ {
			v, present, _ := frame.AsFloat(c, i)
			if !present {
				continue
			}
			if Outside(v, lower, upper) {
				rows = append(rows, i)
			}
		}

		results = append(results, Result{
			Column:   c.Name(),
			Q1:       q1,
			Q3:       q3,
			Lower:    lower,
			Upper:    upper,
			Outliers: f.TakeRows(rows),
		})
		logger.Debug("detected outliers",
			zap.String("column", c.Name()),
			zap.Int("count", len(rows)),
			zap.Float64("lower", lower),
			zap.Float64("upper", upper))
	}

	if len(results) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation,
			"no numeric columns available for outlier detection")
	}
	return results, nil
}

// Bounds computes the quartiles and fences for a set of values. The input
// need not be sorted.
func Bounds(values []float64, scale float64) (q1, q3, lower, upper float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	return q1, q3, q1 - scale*iqr, q3 + scale*iqr
}

// Outside reports whether v lies strictly outside the fences. Values
// exactly on a fence are inliers.
func Outside(v, lower, upper float64) bool {
	return v < lower || v > upper
}
