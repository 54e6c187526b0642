// Package profile computes dataset overviews and missing-value summaries:
// per-column dtype/kind, missing counts and percentages, distinct counts,
// sample values, duplicate-row detection, and optional group-wise
// imputation of missing values.
package profile

import (
	"io"
	"math"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
)

// ContinuousPlaceholder replaces sample values for wide numeric columns.
const ContinuousPlaceholder = "numerical/continuous"

// defaultSampleValues caps how many sample values a summary row shows.
const defaultSampleValues = 5

// Options controls Overview.
type Options struct {
	// RemoveDuplicates drops exact duplicate rows from the returned frame
	RemoveDuplicates bool
	// SampleValues caps the sample values per column (default 5)
	SampleValues int
}

// ColumnSummary describes one column of the dataset.
type ColumnSummary struct {
	Name       string  `json:"column"`
	DType      string  `json:"dtype"`
	Kind       string  `json:"kind"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Distinct   int     `json:"distinct"`
	Samples    string  `json:"samples"`
}

// Report is the result of Overview.
type Report struct {
	Rows              int             `json:"rows"`
	Cols              int             `json:"cols"`
	Columns           []ColumnSummary `json:"columns"`
	DuplicateRows     int             `json:"duplicate_rows"`
	RemovedDuplicates int             `json:"removed_duplicates"`

	// Frame is the dataset after optional deduplication
	Frame *frame.Frame `json:"-"`
}

// Overview profiles every column of the frame: missing count and
// percentage, dtype, kind, distinct count, and up to SampleValues sample
// values (wide numeric columns show a placeholder instead). Exact duplicate
// rows are counted and optionally removed.
func Overview(f *frame.Frame, opts Options) (*Report, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	sampleCap := opts.SampleValues
	if sampleCap <= 0 {
		sampleCap = defaultSampleValues
	}

	rows := f.NumRows()
	rep := &Report{
		Rows:  rows,
		Cols:  f.NumCols(),
		Frame: f,
	}

	for _, c := range f.Columns() {
		missing := c.NullCount()
		distinct := c.Distinct()
		rep.Columns = append(rep.Columns, ColumnSummary{
			Name:       c.Name(),
			DType:      c.DType().String(),
			Kind:       frame.KindOf(c).String(),
			Missing:    missing,
			MissingPct: Round2(float64(missing) / float64(rows) * 100),
			Distinct:   distinct,
			Samples:    sampleValues(c, distinct, sampleCap),
		})
	}

	rep.DuplicateRows = len(f.DuplicateRows())
	if opts.RemoveDuplicates && rep.DuplicateRows > 0 {
		deduped, removed := f.DropDuplicates()
		rep.Frame = deduped
		rep.RemovedDuplicates = removed
		logger.Debug("removed duplicate rows",
			zap.Int("removed", removed),
			zap.Int("rows", deduped.NumRows()))
	}

	return rep, nil
}

// sampleValues renders up to cap distinct non-null values, or the
// continuous placeholder for non-string columns with more than
// CategoricalCutoff distinct values.
func sampleValues(c frame.Column, distinct, sampleCap int) string {
	if distinct > frame.CategoricalCutoff && c.DType() != frame.DTypeString {
		return ContinuousPlaceholder
	}

	seen := make(map[string]struct{}, sampleCap)
	samples := make([]string, 0, sampleCap)
	for i := 0; i < c.Len() && len(samples) < sampleCap; i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Render(i)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		samples = append(samples, v)
	}
	return strings.Join(samples, ", ")
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode report")
	}
	return nil
}

// Round2 rounds to two decimal places, the precision used by every
// percentage in summaries.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
