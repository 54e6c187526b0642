// Package prune drops sparse columns and rows from a frame based on
// missing-ratio thresholds.
package prune

import (
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
)

// Options controls Sparse. At least one of Columns, DropColumns, or
// DropRows must be selected.
type Options struct {
	// Columns are dropped unconditionally; every name must exist
	Columns []string

	// DropColumns removes columns whose null fraction is >= ColumnThreshold
	DropColumns     bool
	ColumnThreshold float64

	// DropRows removes rows (evaluated after column drops) whose null
	// fraction is > RowThreshold
	DropRows     bool
	RowThreshold float64
}

// Result holds the pruned frame and what was removed.
type Result struct {
	// Frame is the pruned dataset
	Frame *frame.Frame
	// DroppedColumns lists removed column names, in original order
	DroppedColumns []string
	// DroppedRows holds the removed rows as a frame over the pruned columns
	DroppedRows *frame.Frame
}

// Sparse prunes the frame. Columns are dropped first: explicit drops, then
// any column whose null fraction meets or exceeds ColumnThreshold. Rows are
// then evaluated against the already-pruned column set and dropped when
// their null fraction strictly exceeds RowThreshold.
//
// Thresholds must lie in (0, 1] for the drop options that use them.
func Sparse(f *frame.Frame, opts Options) (*Result, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	if len(opts.Columns) == 0 && !opts.DropColumns && !opts.DropRows {
		return nil, errors.New(errors.ErrorTypeNothingToDo,
			"no drop option selected, specify columns, drop_columns, or drop_rows")
	}
	if opts.DropColumns && (opts.ColumnThreshold <= 0 || opts.ColumnThreshold > 1) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"column threshold must be in (0, 1], got %v", opts.ColumnThreshold)
	}
	if opts.DropRows && (opts.RowThreshold <= 0 || opts.RowThreshold > 1) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"row threshold must be in (0, 1], got %v", opts.RowThreshold)
	}
	for _, name := range opts.Columns {
		if !f.HasColumn(name) {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
		}
	}

	rows := f.NumRows()
	explicit := make(map[string]struct{}, len(opts.Columns))
	for _, name := range opts.Columns {
		explicit[name] = struct{}{}
	}

	var dropped []string
	for _, c := range f.Columns() {
		if _, ok := explicit[c.Name()]; ok {
			dropped = append(dropped, c.Name())
			continue
		}
		if !opts.DropColumns {
			continue
		}
		ratio := float64(c.NullCount()) / float64(rows)
		if ratio >= opts.ColumnThreshold {
			dropped = append(dropped, c.Name())
		}
	}

	pruned := f
	if len(dropped) > 0 {
		pruned = f.Drop(dropped...)
		logger.Debug("dropped sparse columns",
			zap.Strings("columns", dropped),
			zap.Float64("threshold", opts.ColumnThreshold))
	}

	res := &Result{Frame: pruned, DroppedColumns: dropped}

	if !opts.DropRows || pruned.NumCols() == 0 {
		res.DroppedRows = pruned.TakeRows(nil)
		return res, nil
	}

	var keep, drop []int
	for i := 0; i < pruned.NumRows(); i++ {
		if pruned.RowNullFraction(i) > opts.RowThreshold {
			drop = append(drop, i)
		} else {
			keep = append(keep, i)
		}
	}

	res.DroppedRows = pruned.TakeRows(drop)
	if len(drop) > 0 {
		res.Frame = pruned.TakeRows(keep)
		logger.Debug("dropped sparse rows",
			zap.Int("rows", len(drop)),
			zap.Float64("threshold", opts.RowThreshold))
	}
	return res, nil
}
