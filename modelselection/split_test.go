package modelselection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSplitOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *SplitOptions
		err      error
		expected *SplitOptions
	}{
		"nil":       {nil, nil, &SplitOptions{TestSize: 0.2, Seed: 42}},
		"valid":     {&SplitOptions{TestSize: 0.3, Seed: 7}, nil, &SplitOptions{TestSize: 0.3, Seed: 7}},
		"zero":      {&SplitOptions{TestSize: 0.0}, ErrInvalidTestSize, nil},
		"one":       {&SplitOptions{TestSize: 1.0}, ErrInvalidTestSize, nil},
		"negative":  {&SplitOptions{TestSize: -0.2}, ErrInvalidTestSize, nil},
		"above one": {&SplitOptions{TestSize: 1.5}, ErrInvalidTestSize, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestSizes(t *testing.T) {
	testData := map[string]struct {
		n      int
		size   float64
		nTrain int
		nTest  int
		err    error
	}{
		"200 rows":       {200, 0.2, 160, 40, nil},
		"rounds test up": {11, 0.2, 8, 3, nil},
		"ten rows":       {10, 0.2, 8, 2, nil},
		"single row":     {1, 0.2, 0, 0, ErrTooFewSamples},
		"no rows":        {0, 0.2, 0, 0, ErrTooFewSamples},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := &SplitOptions{TestSize: td.size, Seed: 42}
			nTrain, nTest, err := opt.Sizes(td.n)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.nTrain, nTrain, "train")
			assert.Equal(t, td.nTest, nTest, "test")
		})
	}
}

func TestPermutation(t *testing.T) {
	testData := map[string]struct {
		n        int
		seed     uint64
		expected []int
	}{
		"empty":       {0, 42, []int{}},
		"single":      {1, 42, []int{0}},
		"ten seed 42": {10, 42, []int{8, 1, 5, 0, 7, 2, 9, 4, 3, 6}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, Permutation(td.n, td.seed))
		})
	}
}

func TestPermutationIsDeterministic(t *testing.T) {
	a := Permutation(200, 42)
	b := Permutation(200, 42)
	assert.Equal(t, a, b)

	c := Permutation(200, 43)
	assert.NotEqual(t, a, c)

	sorted := append([]int(nil), a...)
	sort.Ints(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v, "permutation must contain every index once")
	}
}

func TestTrainTestSplit(t *testing.T) {
	n := 10
	xData := make([]float64, 0, n*2)
	yData := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xData = append(xData, float64(i), float64(i)*10)
		yData = append(yData, float64(i)*100)
	}
	x := mat.NewDense(n, 2, xData)
	y := mat.NewDense(n, 1, yData)

	s, err := TrainTestSplit(x, y, nil)
	require.Nil(t, err)

	assert.Equal(t, []int{8, 1}, s.TestIdx)
	assert.Equal(t, []int{5, 0, 7, 2, 9, 4, 3, 6}, s.TrainIdx)

	rTrain, cTrain := s.XTrain.Dims()
	rTest, cTest := s.XTest.Dims()
	assert.Equal(t, 8, rTrain)
	assert.Equal(t, 2, rTest)
	assert.Equal(t, 2, cTrain)
	assert.Equal(t, 2, cTest)

	for i, idx := range s.TrainIdx {
		assert.Equal(t, float64(idx), s.XTrain.At(i, 0))
		assert.Equal(t, float64(idx)*10, s.XTrain.At(i, 1))
		assert.Equal(t, float64(idx)*100, s.YTrain.At(i, 0))
	}
	for i, idx := range s.TestIdx {
		assert.Equal(t, float64(idx), s.XTest.At(i, 0))
		assert.Equal(t, float64(idx)*100, s.YTest.At(i, 0))
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	testData := map[string]struct {
		x   mat.Matrix
		y   mat.Matrix
		opt *SplitOptions
		err error
	}{
		"no features": {nil, mat.NewDense(2, 1, nil), nil, ErrNoFeatureMatrix},
		"no target":   {mat.NewDense(2, 1, nil), nil, nil, ErrNoTargetMatrix},
		"row mismatch": {
			mat.NewDense(3, 1, nil),
			mat.NewDense(2, 1, nil),
			nil,
			ErrTargetLenMismatch,
		},
		"bad test size": {
			mat.NewDense(3, 1, nil),
			mat.NewDense(3, 1, nil),
			&SplitOptions{TestSize: 2},
			ErrInvalidTestSize,
		},
		"too few rows": {
			mat.NewDense(1, 1, nil),
			mat.NewDense(1, 1, nil),
			nil,
			ErrTooFewSamples,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := TrainTestSplit(td.x, td.y, td.opt)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
