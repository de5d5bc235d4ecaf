package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-adsales/linearmodel"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
	ErrNoValues           = errors.New("no finite values")
	ErrInvalidQuantile    = errors.New("quantile must be between 0 and 1 inclusive")
)

// Finite returns a copy of x without NaN or infinite values
func Finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NullIfNonFinite returns nil for NaN or infinite v so it encodes as a JSON null
func NullIfNonFinite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Quantiles computes the requested quantiles of x with linear interpolation between the closest
// ranks, h = (n-1)*p. Non-finite values are ignored.
func Quantiles(x []float64, ps ...float64) ([]float64, error) {
	sorted := Finite(x)
	if len(sorted) == 0 {
		return nil, ErrNoValues
	}
	sort.Float64s(sorted)

	res := make([]float64, len(ps))
	for i, p := range ps {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("got %f, %w", p, ErrInvalidQuantile)
		}
		h := float64(len(sorted)-1) * p
		lo := int(math.Floor(h))
		if lo >= len(sorted)-1 {
			res[i] = sorted[len(sorted)-1]
			continue
		}
		res[i] = sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
	}
	return res, nil
}

// DetectOutliers returns the indices of y falling outside the Tukey fences built from the lower
// and upper percentiles, widened by tukeyFactor times the inner range.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	q, err := Quantiles(y, lowerPerc, upperPerc)
	if err != nil {
		return nil
	}

	lower, upper := q[0], q[1]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// VarianceInflationFactor regresses each feature on the remaining features and reports
// 1/(1-R^2). Values near 1 indicate the feature is not explained by the others. A feature that
// is an exact linear combination of the others, or a regression on a singular design, reports
// +Inf. Labels are processed in the order given.
func VarianceInflationFactor(labels []string, features map[string][]float64) (map[string]float64, error) {
	if len(labels) < 2 {
		return nil, ErrMinimumFeatures
	}
	var m int
	for _, label := range labels {
		feature, exists := features[label]
		if !exists {
			return nil, fmt.Errorf("feature %q not found, %w", label, ErrFeatureLenMismatch)
		}
		if len(feature) < 2 {
			return nil, ErrFeatureLen
		}
		if m == 0 {
			m = len(feature)
			continue
		}
		if m != len(feature) {
			return nil, ErrFeatureLenMismatch
		}
	}

	vif := make(map[string]float64, len(labels))
	x := mat.NewDense(m, len(labels)-1, nil)
	for _, label := range labels {
		y := mat.NewDense(m, 1, features[label])
		c := 0
		for _, otherLabel := range labels {
			if otherLabel == label {
				continue
			}
			x.SetCol(c, features[otherLabel])
			c++
		}

		model, err := linearmodel.NewOLSRegression(nil)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(x, y); err != nil {
			if errors.Is(err, linearmodel.ErrSingularMatrix) {
				vif[label] = math.Inf(1)
				continue
			}
			return nil, fmt.Errorf("unable to regress %s on remaining features, %w", label, err)
		}
		r2, err := model.Score(x, y)
		if err != nil {
			return nil, fmt.Errorf("unable to score %s regression, %w", label, err)
		}
		if r2 >= 1.0 {
			vif[label] = math.Inf(1)
			continue
		}
		vif[label] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
