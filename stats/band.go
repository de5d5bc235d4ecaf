package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInsufficientPoints = errors.New("need at least 3 paired points for a regression band")
	ErrInvalidLevel       = errors.New("confidence level must be between 0 and 1 exclusive")
	ErrConstantPredictor  = errors.New("predictor has no variance")
)

// RegressionBand is a single predictor least squares line evaluated on a grid along with the
// confidence interval of the mean response
type RegressionBand struct {
	Intercept float64
	Slope     float64
	Level     float64

	X     []float64
	Fit   []float64
	Lower []float64
	Upper []float64
}

// NewRegressionBand fits y = a + b*x and evaluates the line and its confidence band at each grid
// point. The half width is t(level, n-2) * s * sqrt(1/n + (x0-mean(x))^2 / Sxx) where s is the
// residual standard error. Pairs with a non-finite member are dropped.
func NewRegressionBand(x, y, grid []float64, level float64) (*RegressionBand, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d values and y has %d, %w", len(x), len(y), ErrFeatureLenMismatch)
	}
	if math.IsNaN(level) || level <= 0 || level >= 1 {
		return nil, fmt.Errorf("got %f, %w", level, ErrInvalidLevel)
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	n := len(xs)
	if n < 3 {
		return nil, fmt.Errorf("got %d points, %w", n, ErrInsufficientPoints)
	}

	xMean := stat.Mean(xs, nil)
	var sxx float64
	for _, v := range xs {
		sxx += (v - xMean) * (v - xMean)
	}
	if sxx == 0 {
		return nil, ErrConstantPredictor
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	var ssRes float64
	for i := range xs {
		r := ys[i] - (alpha + beta*xs[i])
		ssRes += r * r
	}
	dof := float64(n - 2)
	s := math.Sqrt(ssRes / dof)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}.Quantile(0.5 + level/2.0)

	band := &RegressionBand{
		Intercept: alpha,
		Slope:     beta,
		Level:     level,
		X:         append([]float64(nil), grid...),
		Fit:       make([]float64, len(grid)),
		Lower:     make([]float64, len(grid)),
		Upper:     make([]float64, len(grid)),
	}
	for i, x0 := range grid {
		fit := alpha + beta*x0
		half := t * s * math.Sqrt(1.0/float64(n)+(x0-xMean)*(x0-xMean)/sxx)
		band.Fit[i] = fit
		band.Lower[i] = fit - half
		band.Upper[i] = fit + half
	}
	return band, nil
}
