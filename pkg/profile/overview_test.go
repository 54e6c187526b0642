package profile

import (
	"bytes"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
)

func overviewFrame(t *testing.T) *frame.Frame {
	t.Helper()
	wide := make([]float64, 14)
	valid := make([]bool, 14)
	for i := range wide {
		wide[i] = float64(i) * 1.5
		valid[i] = i != 3 && i != 7
	}
	cities := []string{"berlin", "munich", "berlin", "hamburg", "berlin", "munich",
		"berlin", "hamburg", "berlin", "munich", "berlin", "hamburg", "berlin", "munich"}

	f, err := frame.New(
		frame.NewFloatColumn("price", wide, valid),
		frame.NewStringColumn("city", cities, nil),
	)
	require.NoError(t, err)
	return f
}

func TestOverview(t *testing.T) {
	f := overviewFrame(t)
	rep, err := Overview(f, Options{})
	require.NoError(t, err)

	assert.Equal(t, 14, rep.Rows)
	assert.Equal(t, 2, rep.Cols)
	require.Len(t, rep.Columns, 2)

	price := rep.Columns[0]
	assert.Equal(t, "price", price.Name)
	assert.Equal(t, "float64", price.DType)
	assert.Equal(t, "numeric", price.Kind)
	assert.Equal(t, 2, price.Missing)
	// 2/14*100 = 14.2857... rounded to two decimals
	assert.Equal(t, 14.29, price.MissingPct)
	assert.Equal(t, 12, price.Distinct)
	assert.Equal(t, ContinuousPlaceholder, price.Samples)

	city := rep.Columns[1]
	assert.Equal(t, "categorical", city.Kind)
	assert.Equal(t, 0, city.Missing)
	assert.Equal(t, 0.0, city.MissingPct)
	assert.Equal(t, 3, city.Distinct)
	assert.Equal(t, "berlin, munich, hamburg", city.Samples)
}

func TestOverviewMissingCountsMatchNullCounts(t *testing.T) {
	f := overviewFrame(t)
	rep, err := Overview(f, Options{})
	require.NoError(t, err)

	for _, cs := range rep.Columns {
		c, ok := f.Column(cs.Name)
		require.True(t, ok)
		assert.Equal(t, c.NullCount(), cs.Missing)
		assert.Equal(t, Round2(float64(c.NullCount())/float64(f.NumRows())*100), cs.MissingPct)
	}
}

func TestOverviewDuplicates(t *testing.T) {
	f, err := frame.New(
		frame.NewIntColumn("a", []int64{1, 2, 1, 2}, nil),
		frame.NewStringColumn("b", []string{"x", "y", "x", "y"}, nil),
	)
	require.NoError(t, err)

	t.Run("reported without removal", func(t *testing.T) {
		rep, err := Overview(f, Options{})
		require.NoError(t, err)
		assert.Equal(t, 2, rep.DuplicateRows)
		assert.Equal(t, 0, rep.RemovedDuplicates)
		assert.Equal(t, 4, rep.Frame.NumRows())
	})

	t.Run("removed when requested", func(t *testing.T) {
		rep, err := Overview(f, Options{RemoveDuplicates: true})
		require.NoError(t, err)
		assert.Equal(t, 2, rep.RemovedDuplicates)
		assert.Equal(t, 2, rep.Frame.NumRows())
	})
}

func TestOverviewEmptyFrame(t *testing.T) {
	empty, err := frame.New()
	require.NoError(t, err)

	_, err = Overview(empty, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyInput))
}

func TestOverviewSampleCap(t *testing.T) {
	f, err := frame.New(
		frame.NewStringColumn("s", []string{"a", "b", "c", "d"}, nil),
	)
	require.NoError(t, err)

	rep, err := Overview(f, Options{SampleValues: 2})
	require.NoError(t, err)
	assert.Equal(t, "a, b", rep.Columns[0].Samples)
}

func TestReportWriteJSON(t *testing.T) {
	f := overviewFrame(t)
	rep, err := Overview(f, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteJSON(&buf))

	var decoded map[string]interface{}
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(14), decoded["rows"])
	assert.Len(t, decoded["columns"], 2)
}
