package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		NewFloatColumn("price", []float64{100, 200, 300, 200}, []bool{true, true, false, true}),
		NewIntColumn("rooms", []int64{2, 3, 4, 3}, nil),
		NewStringColumn("city", []string{"berlin", "", "munich", "berlin"}, []bool{true, false, true, true}),
	)
	require.NoError(t, err)
	return f
}

func TestNewValidation(t *testing.T) {
	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := New(
			NewIntColumn("a", []int64{1}, nil),
			NewFloatColumn("a", []float64{1}, nil),
		)
		require.Error(t, err)
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		_, err := New(
			NewIntColumn("a", []int64{1, 2}, nil),
			NewIntColumn("b", []int64{1}, nil),
		)
		require.Error(t, err)
	})
}

func TestShapeAndLookup(t *testing.T) {
	f := newTestFrame(t)
	assert.Equal(t, 4, f.NumRows())
	assert.Equal(t, 3, f.NumCols())
	assert.Equal(t, []string{"price", "rooms", "city"}, f.Names())

	c, ok := f.Column("price")
	require.True(t, ok)
	assert.Equal(t, DTypeFloat, c.DType())
	assert.Equal(t, 1, c.NullCount())

	_, ok = f.Column("missing")
	assert.False(t, ok)
}

func TestNullAccounting(t *testing.T) {
	f := newTestFrame(t)

	assert.InDelta(t, 0.0, f.RowNullFraction(0), 1e-12)
	assert.InDelta(t, 1.0/3.0, f.RowNullFraction(1), 1e-12)
	assert.InDelta(t, 1.0/3.0, f.RowNullFraction(2), 1e-12)

	mask := f.NullMask()
	require.Len(t, mask, 4)
	assert.Equal(t, []bool{false, false, false}, mask[0])
	assert.Equal(t, []bool{false, false, true}, mask[1])
	assert.Equal(t, []bool{true, false, false}, mask[2])
	assert.True(t, f.HasNulls())
}

func TestDropAndSelect(t *testing.T) {
	f := newTestFrame(t)

	dropped := f.Drop("city", "nonexistent")
	assert.Equal(t, []string{"price", "rooms"}, dropped.Names())
	assert.Equal(t, 4, dropped.NumRows())

	sel, err := f.Select("city", "price")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "price"}, sel.Names())

	_, err = f.Select("unknown")
	require.Error(t, err)
}

func TestTakeRows(t *testing.T) {
	f := newTestFrame(t)
	sub := f.TakeRows([]int{3, 0})
	assert.Equal(t, 2, sub.NumRows())

	c, _ := sub.Column("rooms")
	assert.Equal(t, int64(3), c.Value(0))
	assert.Equal(t, int64(2), c.Value(1))
}

func TestDuplicates(t *testing.T) {
	f, err := New(
		NewIntColumn("a", []int64{1, 2, 1, 1}, nil),
		NewStringColumn("b", []string{"x", "y", "x", "z"}, nil),
	)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, f.DuplicateRows())

	deduped, removed := f.DropDuplicates()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, deduped.NumRows())

	// a null is not the same as an empty string
	g, err := New(NewStringColumn("s", []string{"", ""}, []bool{true, false}))
	require.NoError(t, err)
	assert.Empty(t, g.DuplicateRows())
}

func TestKindClassification(t *testing.T) {
	wide := make([]float64, 25)
	for i := range wide {
		wide[i] = float64(i)
	}
	narrow := []float64{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1}

	tests := []struct {
		name string
		col  Column
		want Kind
	}{
		{"continuous numeric", NewFloatColumn("x", wide, nil), KindNumeric},
		{"low-cardinality numeric", NewFloatColumn("x", narrow, nil), KindCategorical},
		{"string", NewStringColumn("x", []string{"a", "b"}, nil), KindCategorical},
		{"bool", NewBoolColumn("x", []bool{true, false}, nil), KindBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.col))
		})
	}
}

func TestFloatValues(t *testing.T) {
	c := NewFloatColumn("x", []float64{1, 2, 3}, []bool{true, false, true})
	values, rows, err := FloatValues(c)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, values)
	assert.Equal(t, []int{0, 2}, rows)

	_, _, err = FloatValues(NewStringColumn("s", []string{"a"}, nil))
	require.Error(t, err)
}

func TestReplace(t *testing.T) {
	f := newTestFrame(t)

	require.NoError(t, f.Replace(NewFloatColumn("price", []float64{1, 2, 3, 4}, nil)))
	c, _ := f.Column("price")
	assert.Equal(t, 0, c.NullCount())

	err := f.Replace(NewFloatColumn("absent", []float64{1, 2, 3, 4}, nil))
	require.Error(t, err)

	err = f.Replace(NewFloatColumn("price", []float64{1}, nil))
	require.Error(t, err)
}
