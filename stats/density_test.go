package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoBins(t *testing.T) {
	testData := map[string]struct {
		x        []float64
		expected int
		err      error
	}{
		"no values": {nil, 0, ErrNoValues},
		"constant":  {[]float64{2, 2, 2}, 1, nil},
		"sturges":   {[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			bins, err := AutoBins(td.x)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, bins)
		})
	}
}

func TestNewHistogram(t *testing.T) {
	testData := map[string]struct {
		x      []float64
		bins   int
		edges  []float64
		counts []float64
	}{
		"explicit bins": {
			[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			5,
			[]float64{0, 1.8, 3.6, 5.4, 7.2, 9},
			[]float64{2, 2, 2, 2, 2},
		},
		"auto bins": {
			[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			0,
			[]float64{0, 1.8, 3.6, 5.4, 7.2, 9},
			[]float64{2, 2, 2, 2, 2},
		},
		"last edge inclusive": {
			[]float64{0, 0, 1},
			2,
			[]float64{0, 0.5, 1},
			[]float64{2, 1},
		},
		"constant": {
			[]float64{3, 3},
			1,
			[]float64{2.5, 3.5},
			[]float64{2},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			h, err := NewHistogram(td.x, td.bins)
			require.Nil(t, err)
			assert.InDeltaSlice(t, td.edges, h.Edges, 1e-12, "edges")
			assert.Equal(t, td.counts, h.Counts, "counts")
		})
	}
}

func TestHistogramCenters(t *testing.T) {
	h := &Histogram{Edges: []float64{0, 2, 4}, Counts: []float64{1, 1}}
	assert.Equal(t, []float64{1, 3}, h.Centers())
	assert.Equal(t, 2.0, h.BinWidth())
}

func TestKDE(t *testing.T) {
	_, err := NewKDE([]float64{1})
	assert.ErrorIs(t, err, ErrNoValues)

	kde, err := NewKDE([]float64{-1, 1})
	require.Nil(t, err)
	assert.InDelta(t, 1.2311444133449163, kde.Bandwidth(), 1e-12)

	density := kde.Density([]float64{0})
	assert.InDelta(t, 0.23299001857548163, density[0], 1e-12)

	// density should integrate to one over a wide enough grid
	grid := kde.Grid(2001, 8)
	d := kde.Density(grid)
	var area float64
	for i := 1; i < len(grid); i++ {
		area += (grid[i] - grid[i-1]) * (d[i] + d[i-1]) / 2.0
	}
	assert.InDelta(t, 1.0, area, 1e-4)
}

func TestNewRegressionBand(t *testing.T) {
	testData := map[string]struct {
		x         []float64
		y         []float64
		grid      []float64
		level     float64
		intercept float64
		slope     float64
		fit       []float64
		lower     []float64
		upper     []float64
		err       error
	}{
		"length mismatch": {
			x: []float64{1, 2}, y: []float64{1}, level: 0.95,
			err: ErrFeatureLenMismatch,
		},
		"bad level": {
			x: []float64{1, 2, 3}, y: []float64{1, 2, 3}, level: 1.0,
			err: ErrInvalidLevel,
		},
		"too few points": {
			x: []float64{1, 2}, y: []float64{1, 2}, level: 0.95,
			err: ErrInsufficientPoints,
		},
		"constant predictor": {
			x: []float64{2, 2, 2}, y: []float64{1, 2, 3}, level: 0.95,
			err: ErrConstantPredictor,
		},
		"perfect line": {
			x:         []float64{0, 1, 2, 3},
			y:         []float64{1, 3, 5, 7},
			grid:      []float64{0, 10},
			level:     0.95,
			intercept: 1,
			slope:     2,
			fit:       []float64{1, 21},
			lower:     []float64{1, 21},
			upper:     []float64{1, 21},
		},
		"noisy": {
			x:         []float64{1, 2, 3, 4, 5},
			y:         []float64{2, 4, 5, 4, 5},
			grid:      []float64{3},
			level:     0.95,
			intercept: 2.2,
			slope:     0.6,
			fit:       []float64{4.0},
			lower:     []float64{4.0 - 1.2729785221},
			upper:     []float64{4.0 + 1.2729785221},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			band, err := NewRegressionBand(td.x, td.y, td.grid, td.level)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.intercept, band.Intercept, 1e-9, "intercept")
			assert.InDelta(t, td.slope, band.Slope, 1e-9, "slope")
			assert.InDeltaSlice(t, td.fit, band.Fit, 1e-9, "fit")
			assert.InDeltaSlice(t, td.lower, band.Lower, 1e-6, "lower")
			assert.InDeltaSlice(t, td.upper, band.Upper, 1e-6, "upper")
		})
	}
}
