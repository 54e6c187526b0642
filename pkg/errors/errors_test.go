package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeValidation, "threshold must be positive")
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Contains(t, err.Error(), "validation: threshold must be positive")
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeNotFound, "column %q not found", "price")
	assert.Contains(t, err.Error(), `column "price" not found`)
}

func TestWrap(t *testing.T) {
	t.Run("wraps plain error", func(t *testing.T) {
		cause := fmt.Errorf("open data.csv: no such file")
		err := Wrap(cause, ErrorTypeFile, "failed to load dataset")
		require.Error(t, err)
		assert.Equal(t, ErrorTypeFile, err.Type)
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("nil cause returns nil", func(t *testing.T) {
		var nilErr *Error
		assert.Equal(t, nilErr, Wrap(nil, ErrorTypeData, "ignored"))
	})

	t.Run("preserves inner stack", func(t *testing.T) {
		inner := New(ErrorTypeData, "bad value")
		outer := Wrap(inner, ErrorTypeInternal, "profiling failed")
		assert.Equal(t, inner.Stack, outer.Stack)
	})
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeCardinality, "hue column has 42 distinct values")
	assert.True(t, IsType(err, ErrorTypeCardinality))
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeCardinality))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeCardinality))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "bad threshold").
		WithDetail("threshold", -0.5).
		WithDetail("parameter", "drop_col_threshold")
	assert.Equal(t, -0.5, err.Details["threshold"])
	assert.Equal(t, "drop_col_threshold", err.Details["parameter"])
}
