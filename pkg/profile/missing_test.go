package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

func TestMissingSummary(t *testing.T) {
	f, err := frame.New(
		frame.NewFloatColumn("a", []float64{1, 2, 0, 4}, []bool{true, true, false, true}),
		frame.NewIntColumn("b", []int64{1, 2, 3, 4}, nil),
		frame.NewStringColumn("c", []string{"x", "", "", "y"}, []bool{true, false, false, true}),
	)
	require.NoError(t, err)

	t.Run("all columns", func(t *testing.T) {
		stats, err := MissingSummary(f, MissingOptions{})
		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, MissingStat{Column: "a", MissingPct: 25, Missing: 1}, stats[0])
		assert.Equal(t, MissingStat{Column: "b", MissingPct: 0, Missing: 0}, stats[1])
		assert.Equal(t, MissingStat{Column: "c", MissingPct: 50, Missing: 2}, stats[2])
	})

	t.Run("only missing", func(t *testing.T) {
		stats, err := MissingSummary(f, MissingOptions{OnlyMissing: true})
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, "a", stats[0].Column)
		assert.Equal(t, "c", stats[1].Column)
	})

	t.Run("empty frame", func(t *testing.T) {
		empty, err := frame.New()
		require.NoError(t, err)
		_, err = MissingSummary(empty, MissingOptions{})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyInput))
	})
}

func fillFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.NewStringColumn("segment",
			[]string{"low", "low", "low", "high", "high", "high"}, nil),
		frame.NewFloatColumn("price",
			[]float64{10, 20, 0, 100, 0, 140}, []bool{true, true, false, true, false, true}),
		frame.NewStringColumn("color",
			[]string{"red", "red", "", "blue", "", "green"},
			[]bool{true, true, false, true, false, true}),
	)
	require.NoError(t, err)
	return f
}

func TestFillByGroup(t *testing.T) {
	f := fillFrame(t)
	results, err := FillByGroup(f, "segment")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byCol := map[string]FillResult{}
	for _, r := range results {
		byCol[r.Column] = r
	}
	assert.Equal(t, FillMean, byCol["price"].Strategy)
	assert.Equal(t, 2, byCol["price"].Filled)
	assert.Equal(t, FillMode, byCol["color"].Strategy)
	assert.Equal(t, 2, byCol["color"].Filled)

	price, _ := f.Column("price")
	assert.Equal(t, 0, price.NullCount())
	// group "low" mean of {10, 20}
	assert.Equal(t, 15.0, price.Value(2))
	// group "high" mean of {100, 140}
	assert.Equal(t, 120.0, price.Value(4))

	color, _ := f.Column("color")
	assert.Equal(t, 0, color.NullCount())
	// group "low" mode is "red"
	assert.Equal(t, "red", color.Value(2))
	// group "high" ties between "blue" and "green" break lexicographically
	assert.Equal(t, "blue", color.Value(4))
}

func TestFillByGroupAllNullGroup(t *testing.T) {
	f, err := frame.New(
		frame.NewStringColumn("segment", []string{"a", "a", "b"}, nil),
		frame.NewStringColumn("color", []string{"red", "", ""}, []bool{true, false, false}),
	)
	require.NoError(t, err)

	_, err = FillByGroup(f, "segment")
	require.NoError(t, err)

	color, _ := f.Column("color")
	assert.Equal(t, "red", color.Value(1))
	// group "b" has no observed value: fallback category
	assert.Equal(t, "Unknown", color.Value(2))
}

func TestFillByGroupLeavesNullGroupRows(t *testing.T) {
	f, err := frame.New(
		frame.NewStringColumn("segment", []string{"a", ""}, []bool{true, false}),
		frame.NewFloatColumn("x", []float64{1, 0}, []bool{true, false}),
	)
	require.NoError(t, err)

	_, err = FillByGroup(f, "segment")
	require.NoError(t, err)

	x, _ := f.Column("x")
	assert.True(t, x.IsNull(1))
}

func TestFillByGroupValidation(t *testing.T) {
	f := fillFrame(t)

	t.Run("unknown grouping column", func(t *testing.T) {
		_, err := FillByGroup(f, "absent")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	})

	t.Run("excessive cardinality", func(t *testing.T) {
		values := make([]string, 12)
		for i := range values {
			values[i] = string(rune('a' + i))
		}
		g, err := frame.New(
			frame.NewStringColumn("id", values, nil),
			frame.NewFloatColumn("x", make([]float64, 12), make([]bool, 12)),
		)
		require.NoError(t, err)

		_, err = FillByGroup(g, "id")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeCardinality))
	})
}

func TestFillByGroupPromotesIntToFloat(t *testing.T) {
	f, err := frame.New(
		frame.NewStringColumn("g", []string{"a", "a", "a"}, nil),
		frame.NewIntColumn("n", []int64{1, 2, 0}, []bool{true, true, false}),
	)
	require.NoError(t, err)

	_, err = FillByGroup(f, "g")
	require.NoError(t, err)

	n, _ := f.Column("n")
	assert.Equal(t, frame.DTypeFloat, n.DType())
	assert.Equal(t, 1.5, n.Value(2))
}
