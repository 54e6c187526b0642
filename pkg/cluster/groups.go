package cluster

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/tablescope/tablescope/pkg/errors"
	"github.com/tablescope/tablescope/pkg/frame"
	"github.com/tablescope/tablescope/pkg/logger"
)

const (
	// DefaultVarianceThreshold drops near-constant encoded columns
	DefaultVarianceThreshold = 0.01
	// DefaultCorrThreshold merges columns correlated at or above 0.9
	DefaultCorrThreshold = 0.9
)

// Options controls CorrGroups.
type Options struct {
	// Exclude lists columns left out of the analysis
	Exclude []string
	// VarianceThreshold drops encoded columns whose sample variance is
	// below it; <= 0 selects the default of 0.01
	VarianceThreshold float64
	// CorrThreshold in (0, 1] merges two columns when their absolute
	// correlation is >= it; 0 selects the default of 0.9
	CorrThreshold float64
	// LabelCutoff selects label encoding for categoricals at or below this
	// cardinality and one-hot encoding above it; <= 0 selects
	// frame.CategoricalCutoff
	LabelCutoff int
	// Standardize returns zero-mean unit-variance per-group matrices
	Standardize bool
}

// Group is one correlation cluster of encoded columns.
type Group struct {
	// ID is the cluster label, numbered from 0 in column order
	ID int `json:"id"`
	// Columns lists the encoded column names in the cluster
	Columns []string `json:"columns"`
	// Standardized holds the group's standardized values when requested,
	// one column per entry of Columns
	Standardized *mat.Dense `json:"-"`
}

// Result holds the correlation grouping.
type Result struct {
	// Groups partitions the surviving encoded columns
	Groups []Group `json:"groups"`
	// LowVariance lists encoded columns dropped by the variance filter
	LowVariance []string `json:"low_variance"`
	// Encodings records how each non-numeric source column was encoded
	Encodings map[string]Encoding `json:"encodings"`
}

// CorrGroups prepares a frame for PCA: categoricals are encoded (label
// encoding at or below LabelCutoff distinct values, one-hot above),
// near-constant columns are dropped, and the remaining columns are
// partitioned by average-linkage clustering over the distance 1 - |r|
// with the cut placed at 1 - CorrThreshold. With CorrThreshold = 1 only
// perfectly correlated columns share a group.
func CorrGroups(f *frame.Frame, opts Options) (*Result, error) {
	if f.Empty() {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "the provided frame is empty")
	}
	varThreshold := opts.VarianceThreshold
	if varThreshold <= 0 {
		varThreshold = DefaultVarianceThreshold
	}
	corrThreshold := opts.CorrThreshold
	if corrThreshold == 0 {
		corrThreshold = DefaultCorrThreshold
	}
	if corrThreshold < 0 || corrThreshold > 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"correlation threshold must be in (0, 1], got %v", corrThreshold)
	}
	labelCutoff := opts.LabelCutoff
	if labelCutoff <= 0 {
		labelCutoff = frame.CategoricalCutoff
	}

	res := &Result{Encodings: make(map[string]Encoding)}

	features, encodings, err := encodeFeatures(f, opts.Exclude, labelCutoff)
	if err != nil {
		return nil, err
	}
	res.Encodings = encodings

	kept := features[:0]
	for _, ft := range features {
		if stat.Variance(ft.values, nil) < varThreshold {
			res.LowVariance = append(res.LowVariance, ft.name)
			continue
		}
		kept = append(kept, ft)
	}
	if len(kept) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation,
			"no columns remaining after variance filtering")
	}

	labels := groupByCorrelation(kept, corrThreshold)

	for i, ft := range kept {
		id := labels[i]
		for id >= len(res.Groups) {
			res.Groups = append(res.Groups, Group{ID: len(res.Groups)})
		}
		res.Groups[id].Columns = append(res.Groups[id].Columns, ft.name)
	}

	if opts.Standardize {
		for gi := range res.Groups {
			res.Groups[gi].Standardized = standardizeGroup(kept, res.Groups[gi].Columns)
		}
	}

	logger.Debug("grouped correlated features",
		zap.Int("features", len(kept)),
		zap.Int("groups", len(res.Groups)),
		zap.Int("low_variance", len(res.LowVariance)))
	return res, nil
}

// encodeFeatures converts every non-excluded column into numeric features.
// Missing numeric entries are replaced with the column mean so they do not
// distort pairwise correlations.
func encodeFeatures(f *frame.Frame, exclude []string, labelCutoff int) ([]feature, map[string]Encoding, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	var features []feature
	encodings := make(map[string]Encoding)
	for _, c := range f.Columns() {
		if _, excluded := skip[c.Name()]; excluded {
			continue
		}
		if c.DType() == frame.DTypeString {
			if c.Distinct() <= labelCutoff {
				values, classes := labelEncode(c)
				features = append(features, feature{name: c.Name(), values: values})
				encodings[c.Name()] = Encoding{Method: EncodingLabel, Classes: classes}
			} else {
				oneHot, classes := oneHotEncode(c)
				features = append(features, oneHot...)
				encodings[c.Name()] = Encoding{Method: EncodingOneHot, Classes: classes}
			}
			continue
		}

		values := make([]float64, c.Len())
		var sum float64
		var missing []int
		n := 0
		for i := 0; i < c.Len(); i++ {
			v, present, ok := frame.AsFloat(c, i)
			if !ok {
				return nil, nil, errors.Newf(errors.ErrorTypeData,
					"column %q cannot be encoded", c.Name())
			}
			if !present {
				missing = append(missing, i)
				continue
			}
			values[i] = v
			sum += v
			n++
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for _, i := range missing {
			values[i] = mean
		}
		features = append(features, feature{name: c.Name(), values: values})
	}
	return features, encodings, nil
}

// groupByCorrelation clusters features over the distance 1 - |r|.
func groupByCorrelation(features []feature, corrThreshold float64) []int {
	n := len(features)
	rows := len(features[0].values)

	x := mat.NewDense(rows, n, nil)
	for j, ft := range features {
		x.SetCol(j, ft.values)
	}
	corr := mat.NewSymDense(n, nil)
	stat.CorrelationMatrix(corr, x, nil)

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			r := corr.At(i, j)
			if math.IsNaN(r) {
				r = 0
			}
			dist[i][j] = 1 - math.Abs(r)
		}
	}

	return agglomerate(dist, 1-corrThreshold)
}

// standardizeGroup builds the zero-mean unit-variance matrix of a group's
// columns. Zero-variance columns map to all zeros.
func standardizeGroup(features []feature, columns []string) *mat.Dense {
	byName := make(map[string][]float64, len(features))
	for _, ft := range features {
		byName[ft.name] = ft.values
	}

	rows := len(features[0].values)
	out := mat.NewDense(rows, len(columns), nil)
	for j, name := range columns {
		values := byName[name]
		mean, std := stat.MeanStdDev(values, nil)
		col := make([]float64, rows)
		if std != 0 && !math.IsNaN(std) {
			for i, v := range values {
				col[i] = (v - mean) / std
			}
		}
		out.SetCol(j, col)
	}
	return out
}
