package frame

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `price,rooms,city,furnished,listed
100.5,2,berlin,true,2024-01-02
,3,munich,false,2024-01-03
300.25,4,,true,2024-01-04
`

func TestParseCSVInference(t *testing.T) {
	f, err := ParseCSV(strings.NewReader(sampleCSV), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 5, f.NumCols())

	price, _ := f.Column("price")
	assert.Equal(t, DTypeFloat, price.DType())
	assert.Equal(t, 1, price.NullCount())
	assert.True(t, price.IsNull(1))

	rooms, _ := f.Column("rooms")
	assert.Equal(t, DTypeInt, rooms.DType())
	assert.Equal(t, int64(3), rooms.Value(1))

	city, _ := f.Column("city")
	assert.Equal(t, DTypeString, city.DType())
	assert.True(t, city.IsNull(2))

	furnished, _ := f.Column("furnished")
	assert.Equal(t, DTypeBool, furnished.DType())
	assert.Equal(t, true, furnished.Value(0))

	listed, _ := f.Column("listed")
	assert.Equal(t, DTypeTime, listed.DType())
}

func TestParseCSVMissingTokens(t *testing.T) {
	data := "a,b\n1,NA\nNaN,2\nnull,3\n"
	f, err := ParseCSV(strings.NewReader(data), CSVOptions{})
	require.NoError(t, err)

	a, _ := f.Column("a")
	assert.Equal(t, 2, a.NullCount())
	b, _ := f.Column("b")
	assert.Equal(t, 1, b.NullCount())

	// custom tokens add to the defaults
	g, err := ParseCSV(strings.NewReader("a\n?\n1\n"), CSVOptions{MissingTokens: []string{"?"}})
	require.NoError(t, err)
	c, _ := g.Column("a")
	assert.Equal(t, 1, c.NullCount())
}

func TestParseCSVAllMissingColumn(t *testing.T) {
	f, err := ParseCSV(strings.NewReader("a,b\n,1\n,2\n"), CSVOptions{})
	require.NoError(t, err)

	a, _ := f.Column("a")
	assert.Equal(t, DTypeString, a.DType())
	assert.Equal(t, 2, a.NullCount())
	assert.Equal(t, 0, a.Distinct())
}

func TestCSVRoundTrip(t *testing.T) {
	f, err := ParseCSV(strings.NewReader(sampleCSV), CSVOptions{})
	require.NoError(t, err)

	for _, name := range []string{"out.csv", "out.csv.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteCSV(f, path))

			back, err := ReadCSV(path, CSVOptions{})
			require.NoError(t, err)
			assert.Equal(t, f.NumRows(), back.NumRows())
			assert.Equal(t, f.Names(), back.Names())

			price, _ := back.Column("price")
			assert.True(t, price.IsNull(1))
			assert.Equal(t, 100.5, price.Value(0))
		})
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), CSVOptions{})
	require.Error(t, err)
}
