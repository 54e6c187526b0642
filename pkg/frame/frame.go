package frame

import (
	"strings"

	"github.com/tablescope/tablescope/pkg/errors"
)

// Frame is an ordered collection of equal-length named columns. It is the
// single entity every EDA routine operates on; frames are transient,
// caller-owned, and recomputed on every call.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns, validating unique names and equal
// lengths.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	n := -1
	for _, c := range cols {
		if _, dup := f.index[c.Name()]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column name %q", c.Name())
		}
		if n == -1 {
			n = c.Len()
		} else if c.Len() != n {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", c.Name(), c.Len(), n)
		}
		f.index[c.Name()] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool { return f == nil || f.NumCols() == 0 || f.NumRows() == 0 }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Columns returns the columns in order. The slice is shared; callers must
// not modify it.
func (f *Frame) Columns() []Column { return f.cols }

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Select returns a new frame holding only the named columns, in the given
// order. Columns are shared, not copied.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Drop returns a new frame without the named columns. Unknown names are
// ignored. Columns are shared, not copied.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropped[n] = struct{}{}
	}
	out := &Frame{index: make(map[string]int)}
	for _, c := range f.cols {
		if _, skip := dropped[c.Name()]; skip {
			continue
		}
		out.index[c.Name()] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out
}

// Replace swaps in a column of the same name and length, returning an error
// when the name is unknown or the length differs.
func (f *Frame) Replace(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound, "column %q not found", c.Name())
	}
	if c.Len() != f.NumRows() {
		return errors.Newf(errors.ErrorTypeValidation,
			"replacement for %q has %d rows, expected %d", c.Name(), c.Len(), f.NumRows())
	}
	f.cols[i] = c
	return nil
}

// TakeRows returns a new frame containing the given rows, in order.
func (f *Frame) TakeRows(rows []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.cols))}
	for _, c := range f.cols {
		out.index[c.Name()] = len(out.cols)
		out.cols = append(out.cols, c.Take(rows))
	}
	return out
}

// Head returns the first n rows (or fewer when the frame is shorter).
func (f *Frame) Head(n int) *Frame {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.TakeRows(rows)
}

// RowNullFraction returns the fraction of missing cells in row i.
func (f *Frame) RowNullFraction(i int) float64 {
	if len(f.cols) == 0 {
		return 0
	}
	nulls := 0
	for _, c := range f.cols {
		if c.IsNull(i) {
			nulls++
		}
	}
	return float64(nulls) / float64(len(f.cols))
}

// NullMask returns the row-major missing-value mask, true where a cell is
// missing. This feeds the missing-values heatmap.
func (f *Frame) NullMask() [][]bool {
	mask := make([][]bool, f.NumRows())
	for i := range mask {
		row := make([]bool, len(f.cols))
		for j, c := range f.cols {
			row[j] = c.IsNull(i)
		}
		mask[i] = row
	}
	return mask
}

// HasNulls reports whether any cell in the frame is missing.
func (f *Frame) HasNulls() bool {
	for _, c := range f.cols {
		if c.NullCount() > 0 {
			return true
		}
	}
	return false
}

// DuplicateRows returns the indices of rows that exactly duplicate an
// earlier row.
func (f *Frame) DuplicateRows() []int {
	seen := make(map[string]struct{}, f.NumRows())
	var dups []int
	for i := 0; i < f.NumRows(); i++ {
		key := f.rowKey(i)
		if _, ok := seen[key]; ok {
			dups = append(dups, i)
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// DropDuplicates returns a frame keeping the first occurrence of each
// distinct row, plus the number of rows removed.
func (f *Frame) DropDuplicates() (*Frame, int) {
	dups := f.DuplicateRows()
	if len(dups) == 0 {
		return f, 0
	}
	drop := make(map[int]struct{}, len(dups))
	for _, i := range dups {
		drop[i] = struct{}{}
	}
	keep := make([]int, 0, f.NumRows()-len(dups))
	for i := 0; i < f.NumRows(); i++ {
		if _, skip := drop[i]; !skip {
			keep = append(keep, i)
		}
	}
	return f.TakeRows(keep), len(dups)
}

// rowKey renders row i into a hashable key. A unit separator keeps adjacent
// values from colliding, and nulls are marked distinctly from empty strings.
func (f *Frame) rowKey(i int) string {
	var sb strings.Builder
	for _, c := range f.cols {
		if c.IsNull(i) {
			sb.WriteString("\x00")
		} else {
			sb.WriteString(c.Render(i))
		}
		sb.WriteString("\x1f")
	}
	return sb.String()
}
