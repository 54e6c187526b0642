// Package frame provides the in-memory tabular dataset used by every
// tablescope routine: named, typed columns of equal length with per-row
// validity masks. The dynamic dtype checks of dataframe libraries are
// replaced by an explicit tagged-variant classification (Kind) computed
// from the column type and its distinct-value count.
package frame

import (
	"strconv"
	"time"

	"github.com/tablescope/tablescope/pkg/errors"
)

// DType represents the storage type of a column
type DType int

const (
	DTypeFloat DType = iota
	DTypeInt
	DTypeString
	DTypeBool
	DTypeTime
)

// String returns the dtype name as reported in summaries.
func (d DType) String() string {
	switch d {
	case DTypeFloat:
		return "float64"
	case DTypeInt:
		return "int64"
	case DTypeString:
		return "string"
	case DTypeBool:
		return "bool"
	case DTypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// Kind classifies how a column behaves in EDA routines, independent of its
// storage type. Classification is computed once per column and then drives
// all type-specific dispatch.
type Kind int

const (
	// KindNumeric marks continuous numeric columns (>= CategoricalCutoff
	// distinct values)
	KindNumeric Kind = iota
	// KindCategorical marks string columns and low-cardinality numeric ones
	KindCategorical
	// KindBoolean marks boolean columns
	KindBoolean
	// KindTemporal marks timestamp columns
	KindTemporal
)

// CategoricalCutoff is the distinct-value count at and above which a numeric
// column counts as continuous. Numeric columns below it are treated as
// categorical-like, and hue/grouping columns may not exceed it.
const CategoricalCutoff = 10

// String returns the kind name as reported in summaries.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Column is the tagged-variant column interface. All implementations carry a
// validity mask: IsNull reports missing entries and Value returns nil for
// them.
type Column interface {
	Name() string
	DType() DType
	Len() int

	// IsNull reports whether row i is missing
	IsNull(i int) bool
	// NullCount returns the number of missing rows
	NullCount() int
	// Value returns the value at row i, or nil when missing
	Value(i int) interface{}
	// Render returns the value at row i formatted for display, "" when missing
	Render(i int) string
	// Distinct returns the number of distinct non-null values
	Distinct() int
	// Take returns a new column containing the given rows, in order
	Take(rows []int) Column
}

// KindOf computes the EDA classification for a column.
func KindOf(c Column) Kind {
	switch c.DType() {
	case DTypeString:
		return KindCategorical
	case DTypeBool:
		return KindBoolean
	case DTypeTime:
		return KindTemporal
	default:
		if c.Distinct() < CategoricalCutoff {
			return KindCategorical
		}
		return KindNumeric
	}
}

// FloatColumn stores float64 values with a validity mask.
type FloatColumn struct {
	name   string
	values []float64
	valid  []bool
}

// NewFloatColumn creates a float column. A nil valid mask marks every row
// present.
func NewFloatColumn(name string, values []float64, valid []bool) *FloatColumn {
	return &FloatColumn{name: name, values: values, valid: normalizeMask(len(values), valid)}
}

func (c *FloatColumn) Name() string { return c.name }
func (c *FloatColumn) DType() DType { return DTypeFloat }
func (c *FloatColumn) Len() int { return len(c.values) }
func (c *FloatColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *FloatColumn) NullCount() int { return countNulls(c.valid) }

func (c *FloatColumn) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	return c.values[i]
}

func (c *FloatColumn) Render(i int) string {
	if !c.valid[i] {
		return ""
	}
	return strconv.FormatFloat(c.values[i], 'g', -1, 64)
}

func (c *FloatColumn) Distinct() int {
	seen := make(map[float64]struct{})
	for i, v := range c.values {
		if c.valid[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func (c *FloatColumn) Take(rows []int) Column {
	values := make([]float64, len(rows))
	valid := make([]bool, len(rows))
	for j, i := range rows {
		values[j] = c.values[i]
		valid[j] = c.valid[i]
	}
	return &FloatColumn{name: c.name, values: values, valid: valid}
}

// Float returns the value and presence at row i.
func (c *FloatColumn) Float(i int) (float64, bool) { return c.values[i], c.valid[i] }

// IntColumn stores int64 values with a validity mask.
type IntColumn struct {
	name   string
	values []int64
	valid  []bool
}

// NewIntColumn creates an int column. A nil valid mask marks every row
// present.
func NewIntColumn(name string, values []int64, valid []bool) *IntColumn {
	return &IntColumn{name: name, values: values, valid: normalizeMask(len(values), valid)}
}

func (c *IntColumn) Name() string { return c.name }
func (c *IntColumn) DType() DType { return DTypeInt }
func (c *IntColumn) Len() int { return len(c.values) }
func (c *IntColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *IntColumn) NullCount() int { return countNulls(c.valid) }

func (c *IntColumn) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	return c.values[i]
}

func (c *IntColumn) Render(i int) string {
	if !c.valid[i] {
		return ""
	}
	return strconv.FormatInt(c.values[i], 10)
}

func (c *IntColumn) Distinct() int {
	seen := make(map[int64]struct{})
	for i, v := range c.values {
		if c.valid[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func (c *IntColumn) Take(rows []int) Column {
	values := make([]int64, len(rows))
	valid := make([]bool, len(rows))
	for j, i := range rows {
		values[j] = c.values[i]
		valid[j] = c.valid[i]
	}
	return &IntColumn{name: c.name, values: values, valid: valid}
}

// Int returns the value and presence at row i.
func (c *IntColumn) Int(i int) (int64, bool) { return c.values[i], c.valid[i] }

// StringColumn stores string values with a validity mask.
type StringColumn struct {
	name   string
	values []string
	valid  []bool
}

// NewStringColumn creates a string column. A nil valid mask marks every row
// present.
func NewStringColumn(name string, values []string, valid []bool) *StringColumn {
	return &StringColumn{name: name, values: values, valid: normalizeMask(len(values), valid)}
}

func (c *StringColumn) Name() string { return c.name }
func (c *StringColumn) DType() DType { return DTypeString }
func (c *StringColumn) Len() int { return len(c.values) }
func (c *StringColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *StringColumn) NullCount() int { return countNulls(c.valid) }

func (c *StringColumn) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	return c.values[i]
}

func (c *StringColumn) Render(i int) string {
	if !c.valid[i] {
		return ""
	}
	return c.values[i]
}

func (c *StringColumn) Distinct() int {
	seen := make(map[string]struct{})
	for i, v := range c.values {
		if c.valid[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func (c *StringColumn) Take(rows []int) Column {
	values := make([]string, len(rows))
	valid := make([]bool, len(rows))
	for j, i := range rows {
		values[j] = c.values[i]
		valid[j] = c.valid[i]
	}
	return &StringColumn{name: c.name, values: values, valid: valid}
}

// Str returns the value and presence at row i.
func (c *StringColumn) Str(i int) (string, bool) { return c.values[i], c.valid[i] }

// BoolColumn stores boolean values with a validity mask.
type BoolColumn struct {
	name   string
	values []bool
	valid  []bool
}

// NewBoolColumn creates a bool column. A nil valid mask marks every row
// present.
func NewBoolColumn(name string, values []bool, valid []bool) *BoolColumn {
	return &BoolColumn{name: name, values: values, valid: normalizeMask(len(values), valid)}
}

func (c *BoolColumn) Name() string { return c.name }
func (c *BoolColumn) DType() DType { return DTypeBool }
func (c *BoolColumn) Len() int { return len(c.values) }
func (c *BoolColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *BoolColumn) NullCount() int { return countNulls(c.valid) }

func (c *BoolColumn) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	return c.values[i]
}

func (c *BoolColumn) Render(i int) string {
	if !c.valid[i] {
		return ""
	}
	return strconv.FormatBool(c.values[i])
}

func (c *BoolColumn) Distinct() int {
	seen := [2]bool{}
	n := 0
	for i, v := range c.values {
		if !c.valid[i] {
			continue
		}
		idx := 0
		if v {
			idx = 1
		}
		if !seen[idx] {
			seen[idx] = true
			n++
		}
	}
	return n
}

func (c *BoolColumn) Take(rows []int) Column {
	values := make([]bool, len(rows))
	valid := make([]bool, len(rows))
	for j, i := range rows {
		values[j] = c.values[i]
		valid[j] = c.valid[i]
	}
	return &BoolColumn{name: c.name, values: values, valid: valid}
}

// Bool returns the value and presence at row i.
func (c *BoolColumn) Bool(i int) (bool, bool) { return c.values[i], c.valid[i] }

// TimeColumn stores timestamps with a validity mask.
type TimeColumn struct {
	name   string
	values []time.Time
	valid  []bool
}

// NewTimeColumn creates a time column. A nil valid mask marks every row
// present.
func NewTimeColumn(name string, values []time.Time, valid []bool) *TimeColumn {
	return &TimeColumn{name: name, values: values, valid: normalizeMask(len(values), valid)}
}

func (c *TimeColumn) Name() string { return c.name }
func (c *TimeColumn) DType() DType { return DTypeTime }
func (c *TimeColumn) Len() int { return len(c.values) }
func (c *TimeColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *TimeColumn) NullCount() int { return countNulls(c.valid) }

func (c *TimeColumn) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	return c.values[i]
}

func (c *TimeColumn) Render(i int) string {
	if !c.valid[i] {
		return ""
	}
	return c.values[i].Format(time.RFC3339)
}

func (c *TimeColumn) Distinct() int {
	seen := make(map[int64]struct{})
	for i, v := range c.values {
		if c.valid[i] {
			seen[v.UnixNano()] = struct{}{}
		}
	}
	return len(seen)
}

func (c *TimeColumn) Take(rows []int) Column {
	values := make([]time.Time, len(rows))
	valid := make([]bool, len(rows))
	for j, i := range rows {
		values[j] = c.values[i]
		valid[j] = c.valid[i]
	}
	return &TimeColumn{name: c.name, values: values, valid: valid}
}

// Time returns the value and presence at row i.
func (c *TimeColumn) Time(i int) (time.Time, bool) { return c.values[i], c.valid[i] }

// AsFloat converts the value at row i to a float64 where the column type
// permits it: floats and ints directly, bools as 0/1, timestamps as Unix
// seconds. The second return reports presence, the third convertibility.
func AsFloat(c Column, i int) (v float64, present bool, ok bool) {
	switch col := c.(type) {
	case *FloatColumn:
		f, p := col.Float(i)
		return f, p, true
	case *IntColumn:
		n, p := col.Int(i)
		return float64(n), p, true
	case *BoolColumn:
		b, p := col.Bool(i)
		if b {
			return 1, p, true
		}
		return 0, p, true
	case *TimeColumn:
		t, p := col.Time(i)
		return float64(t.Unix()), p, true
	default:
		return 0, false, false
	}
}

// FloatValues extracts the non-null values of a numeric-convertible column
// along with the row indices they came from.
func FloatValues(c Column) (values []float64, rows []int, err error) {
	for i := 0; i < c.Len(); i++ {
		v, present, ok := AsFloat(c, i)
		if !ok {
			return nil, nil, errors.Newf(errors.ErrorTypeData,
				"column %q is not numeric-convertible", c.Name())
		}
		if present {
			values = append(values, v)
			rows = append(rows, i)
		}
	}
	return values, rows, nil
}

// IsNumericDType reports whether the column stores raw numeric data.
func IsNumericDType(c Column) bool {
	return c.DType() == DTypeFloat || c.DType() == DTypeInt
}

func normalizeMask(n int, valid []bool) []bool {
	if valid != nil {
		return valid
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

func countNulls(valid []bool) int {
	n := 0
	for _, v := range valid {
		if !v {
			n++
		}
	}
	return n
}
