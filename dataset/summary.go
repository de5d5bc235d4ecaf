package dataset

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-adsales/stats"
	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds the descriptive statistics of a single column. Missing values are excluded
// and Std uses the n-1 denominator.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

type columnSummaryJSON struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"q25"`
	Q50    *float64 `json:"q50"`
	Q75    *float64 `json:"q75"`
	Max    *float64 `json:"max"`
}

// MarshalJSON encodes undefined statistics as null
func (s ColumnSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnSummaryJSON{
		Column: s.Column,
		Count:  s.Count,
		Mean:   stats.NullIfNonFinite(s.Mean),
		Std:    stats.NullIfNonFinite(s.Std),
		Min:    stats.NullIfNonFinite(s.Min),
		Q25:    stats.NullIfNonFinite(s.Q25),
		Q50:    stats.NullIfNonFinite(s.Q50),
		Q75:    stats.NullIfNonFinite(s.Q75),
		Max:    stats.NullIfNonFinite(s.Max),
	})
}

// Describe summarizes every value column. Columns without any value report a zero count and NaN
// statistics.
func (d *Dataset) Describe() []ColumnSummary {
	res := make([]ColumnSummary, len(d.columns))
	for j, col := range d.columns {
		vals := stats.Finite(d.values[j])
		s := ColumnSummary{
			Column: col,
			Count:  len(vals),
			Mean:   math.NaN(),
			Std:    math.NaN(),
			Min:    math.NaN(),
			Q25:    math.NaN(),
			Q50:    math.NaN(),
			Q75:    math.NaN(),
			Max:    math.NaN(),
		}
		if len(vals) > 0 {
			s.Mean = stat.Mean(vals, nil)
			if len(vals) > 1 {
				s.Std = stat.StdDev(vals, nil)
			}
			s.Min = floats.Min(vals)
			s.Max = floats.Max(vals)
			if q, err := stats.Quantiles(vals, 0.25, 0.5, 0.75); err == nil {
				s.Q25, s.Q50, s.Q75 = q[0], q[1], q[2]
			}
		}
		res[j] = s
	}
	return res
}

// CorrMatrix is a symmetric matrix of pairwise Pearson correlations
type CorrMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// MarshalJSON encodes undefined correlations as null
func (c CorrMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(c.Values))
	for i, row := range c.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			values[i][j] = stats.NullIfNonFinite(v)
		}
	}
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{c.Labels, values})
}

// Get returns the correlation between two labels
func (c *CorrMatrix) Get(a, b string) (float64, error) {
	i, j := -1, -1
	for k, label := range c.Labels {
		if label == a {
			i = k
		}
		if label == b {
			j = k
		}
	}
	if i < 0 {
		return 0, fmt.Errorf("label %q, %w", a, ErrUnknownColumn)
	}
	if j < 0 {
		return 0, fmt.Errorf("label %q, %w", b, ErrUnknownColumn)
	}
	return c.Values[i][j], nil
}

// Corr computes Pearson correlations between every pair of value columns using the rows where
// both columns are present
func (d *Dataset) Corr() *CorrMatrix {
	n := len(d.columns)
	c := &CorrMatrix{
		Labels: d.Columns(),
		Values: make([][]float64, n),
	}
	for i := range c.Values {
		c.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwiseCorrelation(d.values[i], d.values[j])
			if i == j && !math.IsNaN(r) {
				r = 1.0
			}
			c.Values[i][j] = r
			c.Values[j][i] = r
		}
	}
	return c
}

// CorrWith returns the correlation of each of cols with the target column
func (d *Dataset) CorrWith(target string, cols ...string) ([]float64, error) {
	t, err := d.columnIdx(target)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(cols))
	for i, col := range cols {
		j, err := d.columnIdx(col)
		if err != nil {
			return nil, err
		}
		res[i] = pairwiseCorrelation(d.values[j], d.values[t])
	}
	return res, nil
}

func pairwiseCorrelation(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
