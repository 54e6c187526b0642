// Package cluster prepares features for PCA by encoding categoricals,
// filtering low-variance columns, and grouping the remainder by
// correlation distance with agglomerative clustering.
package cluster

import (
	"sort"

	"github.com/tablescope/tablescope/pkg/frame"
)

// EncodingMethod names how a categorical column was made numeric.
type EncodingMethod string

const (
	// EncodingLabel maps each distinct value to an integer code
	EncodingLabel EncodingMethod = "label"
	// EncodingOneHot expands each distinct value into a binary indicator
	EncodingOneHot EncodingMethod = "one-hot"
)

// Encoding records the method and the classes a column was encoded with.
type Encoding struct {
	Method  EncodingMethod `json:"method"`
	Classes []string       `json:"classes"`
}

// feature is one numeric column of the encoded design matrix.
type feature struct {
	name   string
	values []float64
}

// labelEncode maps each distinct rendered value to its integer code, codes
// assigned in sorted class order. Nulls encode as their own empty-string
// class.
func labelEncode(c frame.Column) ([]float64, []string) {
	classes := distinctClasses(c)
	codes := make(map[string]float64, len(classes))
	for i, class := range classes {
		codes[class] = float64(i)
	}

	values := make([]float64, c.Len())
	for i := 0; i < c.Len(); i++ {
		values[i] = codes[c.Render(i)]
	}
	return values, classes
}

// oneHotEncode expands the column into one indicator feature per class.
func oneHotEncode(c frame.Column) ([]feature, []string) {
	classes := distinctClasses(c)
	features := make([]feature, len(classes))
	for j, class := range classes {
		values := make([]float64, c.Len())
		for i := 0; i < c.Len(); i++ {
			if c.Render(i) == class {
				values[i] = 1
			}
		}
		features[j] = feature{name: c.Name() + "=" + class, values: values}
	}
	return features, classes
}

// distinctClasses returns the sorted distinct rendered values of a column,
// nulls included as "".
func distinctClasses(c frame.Column) []string {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		seen[c.Render(i)] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return classes
}
