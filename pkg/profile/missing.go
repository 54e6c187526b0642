package profile

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
)

// MissingOptions controls MissingSummary.
type MissingOptions struct {
	// OnlyMissing restricts the summary to columns that have nulls
	OnlyMissing bool
}

// MissingStat reports the missingness of one column.
type MissingStat struct {
	Column     string  `json:"column"`
	MissingPct float64 `json:"missing_pct"`
	Missing    int     `json:"missing"`
}

// MissingSummary returns per-column missing percentages and counts, in
// column order.
func MissingSummary(f *frame.Frame, opts MissingOptions) ([]MissingStat, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}

	rows := f.NumRows()
	stats := make([]MissingStat, 0, f.NumCols())
	for _, c := range f.Columns() {
		missing := c.NullCount()
		if opts.OnlyMissing && missing == 0 {
			continue
		}
		stats = append(stats, MissingStat{
			Column:     c.Name(),
			MissingPct: Round2(float64(missing) / float64(rows) * 100),
			Missing:    missing,
		})
	}
	return stats, nil
}

// FillStrategy names the imputation applied to a column.
type FillStrategy string

const (
	// FillMean imputes the group mean (numeric columns)
	FillMean FillStrategy = "mean"
	// FillMode imputes the group mode (categorical columns)
	FillMode FillStrategy = "mode"
	// FillSkipped marks columns the imputation could not handle
	FillSkipped FillStrategy = "skipped"
)

// fallbackCategory fills categorical cells whose group has no observed value.
const fallbackCategory = "Unknown"

// FillResult describes the imputation applied to one column.
type FillResult struct {
	Column   string       `json:"column"`
	Strategy FillStrategy `json:"strategy"`
	Filled   int          `json:"filled"`
}

// FillByGroup imputes missing values in place, grouping rows by the given
// categorical column: numeric columns receive their group mean, categorical
// columns their group mode (or "Unknown" when the group has no observed
// value). Rows whose group value is itself missing are left untouched.
//
// The grouping column must exist and may not exceed CategoricalCutoff
// distinct values.
func FillByGroup(f *frame.Frame, groupCol string) ([]FillResult, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	gc, ok := f.Column(groupCol)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "grouping column %q not found", groupCol)
	}
	if d := gc.Distinct(); d > frame.CategoricalCutoff {
		return nil, errors.Newf(errors.ErrorTypeCardinality,
			"grouping column %q has too many distinct values (%d), consider categorizing it", groupCol, d)
	}

	groups := make(map[string][]int)
	for i := 0; i < gc.Len(); i++ {
		if gc.IsNull(i) {
			continue
		}
		key := gc.Render(i)
		groups[key] = append(groups[key], i)
	}

	var results []FillResult
	for _, c := range f.Columns() {
		if c.Name() == groupCol {
			continue
		}
		if c.NullCount() == 0 {
			continue
		}

		var (
			replacement frame.Column
			strategy    FillStrategy
			filled      int
			err         error
		)
		if frame.IsNumericDType(c) {
			replacement, filled = fillMean(c, gc, groups)
			strategy = FillMean
		} else {
			replacement, filled, err = fillMode(c, gc, groups)
			strategy = FillMode
			if err != nil {
				results = append(results, FillResult{Column: c.Name(), Strategy: FillSkipped})
				continue
			}
		}

		if err := f.Replace(replacement); err != nil {
			return nil, err
		}
		results = append(results, FillResult{Column: c.Name(), Strategy: strategy, Filled: filled})
		logger.Debug("imputed missing values",
			zap.String("column", c.Name()),
			zap.String("strategy", string(strategy)),
			zap.Int("filled", filled))
	}
	return results, nil
}

// fillMean replaces nulls with the mean of the row's group. Int columns are
// promoted to float so fractional means survive.
func fillMean(c, gc frame.Column, groups map[string][]int) (frame.Column, int) {
	means := make(map[string]float64, len(groups))
	for key, rows := range groups {
		sum, n := 0.0, 0
		for _, i := range rows {
			if v, present, _ := frame.AsFloat(c, i); present {
				sum += v
				n++
			}
		}
		if n > 0 {
			means[key] = sum / float64(n)
		}
	}

	values := make([]float64, c.Len())
	valid := make([]bool, c.Len())
	filled := 0
	for i := 0; i < c.Len(); i++ {
		if v, present, _ := frame.AsFloat(c, i); present {
			values[i] = v
			valid[i] = true
			continue
		}
		if gc.IsNull(i) {
			continue
		}
		mean, known := means[gc.Render(i)]
		if !known {
			continue
		}
		values[i] = mean
		valid[i] = true
		filled++
	}
	return frame.NewFloatColumn(c.Name(), values, valid), filled
}

// fillMode replaces nulls with the most frequent value of the row's group,
// breaking ties toward the lexicographically smallest value. Groups with no
// observed value fall back to "Unknown"; bool and time columns cannot
// represent the fallback, so their affected cells stay missing.
func fillMode(c, gc frame.Column, groups map[string][]int) (frame.Column, int, error) {
	modes := make(map[string]string, len(groups))
	for key, rows := range groups {
		counts := make(map[string]int)
		for _, i := range rows {
			if !c.IsNull(i) {
				counts[c.Render(i)]++
			}
		}
		if len(counts) == 0 {
			continue
		}
		rendered := make([]string, 0, len(counts))
		for v := range counts {
			rendered = append(rendered, v)
		}
		sort.Strings(rendered)
		best := rendered[0]
		for _, v := range rendered[1:] {
			if counts[v] > counts[best] {
				best = v
			}
		}
		modes[key] = best
	}

	fill := make(map[int]string)
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) || gc.IsNull(i) {
			continue
		}
		mode, known := modes[gc.Render(i)]
		if !known {
			mode = fallbackCategory
		}
		fill[i] = mode
	}

	col, err := rebuildWithFills(c, fill)
	if err != nil {
		return nil, 0, err
	}
	return col, len(fill), nil
}

// rebuildWithFills reconstructs a column of the original type with the
// given rendered values filled in.
func rebuildWithFills(c frame.Column, fill map[int]string) (frame.Column, error) {
	switch col := c.(type) {
	case *frame.StringColumn:
		values := make([]string, c.Len())
		valid := make([]bool, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, present := col.Str(i); present {
				values[i], valid[i] = v, true
			} else if v, ok := fill[i]; ok {
				values[i], valid[i] = v, true
			}
		}
		return frame.NewStringColumn(c.Name(), values, valid), nil
	case *frame.BoolColumn:
		values := make([]bool, c.Len())
		valid := make([]bool, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, present := col.Bool(i); present {
				values[i], valid[i] = v, true
			} else if v, ok := fill[i]; ok {
				parsed, err := strconv.ParseBool(v)
				if err != nil {
					continue
				}
				values[i], valid[i] = parsed, true
			}
		}
		return frame.NewBoolColumn(c.Name(), values, valid), nil
	case *frame.TimeColumn:
		values := make([]time.Time, c.Len())
		valid := make([]bool, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, present := col.Time(i); present {
				values[i], valid[i] = v, true
			} else if v, ok := fill[i]; ok {
				parsed, err := time.Parse(time.RFC3339, v)
				if err != nil {
					continue
				}
				values[i], valid[i] = parsed, true
			}
		}
		return frame.NewTimeColumn(c.Name(), values, valid), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData,
			"cannot impute column %q of dtype %s", c.Name(), c.DType())
	}
}
