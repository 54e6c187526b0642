package prune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

func sparseFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		// 1/3 null
		frame.NewFloatColumn("a", []float64{1, 2, 0}, []bool{true, true, false}),
		// fully present
		frame.NewIntColumn("b", []int64{1, 2, 3}, nil),
		// 2/3 null
		frame.NewStringColumn("c", []string{"x", "", ""}, []bool{true, false, false}),
	)
	require.NoError(t, err)
	return f
}

func TestSparseColumnThresholdBoundary(t *testing.T) {
	t.Run("threshold just above null fraction keeps column", func(t *testing.T) {
		res, err := Sparse(sparseFrame(t), Options{DropColumns: true, ColumnThreshold: 0.34})
		require.NoError(t, err)
		// a's null fraction 1/3 < 0.34 stays, c's 2/3 >= 0.34 goes
		assert.Equal(t, []string{"c"}, res.DroppedColumns)
		assert.Equal(t, []string{"a", "b"}, res.Frame.Names())
	})

	t.Run("threshold at or below null fraction drops column", func(t *testing.T) {
		res, err := Sparse(sparseFrame(t), Options{DropColumns: true, ColumnThreshold: 0.3})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, res.DroppedColumns)
		assert.Equal(t, []string{"b"}, res.Frame.Names())
	})

	t.Run("equality drops: comparison is >=", func(t *testing.T) {
		res, err := Sparse(sparseFrame(t), Options{DropColumns: true, ColumnThreshold: 1.0 / 3.0})
		require.NoError(t, err)
		assert.Contains(t, res.DroppedColumns, "a")
	})
}

func TestSparseNoColumnsRemovedLeavesFrameUnchanged(t *testing.T) {
	f := sparseFrame(t)
	res, err := Sparse(f, Options{DropColumns: true, ColumnThreshold: 0.99})
	require.NoError(t, err)
	assert.Empty(t, res.DroppedColumns)
	assert.Equal(t, f.Names(), res.Frame.Names())
	assert.Equal(t, f.NumRows(), res.Frame.NumRows())
}

func TestSparseRowThresholdStrict(t *testing.T) {
	f, err := frame.New(
		frame.NewFloatColumn("a", []float64{1, 0}, []bool{true, false}),
		frame.NewFloatColumn("b", []float64{1, 2}, nil),
	)
	require.NoError(t, err)

	// row 1 has null fraction exactly 0.5: comparison is strict >, so it stays
	res, err := Sparse(f, Options{DropRows: true, RowThreshold: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Frame.NumRows())
	assert.Equal(t, 0, res.DroppedRows.NumRows())

	// just below 0.5 drops it
	res, err = Sparse(f, Options{DropRows: true, RowThreshold: 0.49})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Frame.NumRows())
	assert.Equal(t, 1, res.DroppedRows.NumRows())
}

func TestSparseRowsEvaluatedAfterColumnDrops(t *testing.T) {
	// row 2 is null only in column "c"; once "c" is dropped the row is clean
	f := sparseFrame(t)
	res, err := Sparse(f, Options{
		DropColumns: true, ColumnThreshold: 0.5,
		DropRows: true, RowThreshold: 0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, res.DroppedColumns)
	// row 2 null fraction over {a, b} is 1/2 > 0.4: dropped
	assert.Equal(t, 2, res.Frame.NumRows())
	assert.Equal(t, 1, res.DroppedRows.NumRows())
}

func TestSparseExplicitColumns(t *testing.T) {
	res, err := Sparse(sparseFrame(t), Options{Columns: []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, res.DroppedColumns)
	assert.Equal(t, []string{"a", "c"}, res.Frame.Names())

	_, err = Sparse(sparseFrame(t), Options{Columns: []string{"missing"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestSparseValidation(t *testing.T) {
	f := sparseFrame(t)

	t.Run("nothing to do", func(t *testing.T) {
		_, err := Sparse(f, Options{})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNothingToDo))
	})

	t.Run("non-positive column threshold", func(t *testing.T) {
		_, err := Sparse(f, Options{DropColumns: true, ColumnThreshold: 0})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("negative row threshold", func(t *testing.T) {
		_, err := Sparse(f, Options{DropRows: true, RowThreshold: -0.5})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("empty frame", func(t *testing.T) {
		empty, err := frame.New()
		require.NoError(t, err)
		_, err = Sparse(empty, Options{DropColumns: true, ColumnThreshold: 0.5})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyInput))
	})
}
