package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDenseFromArray(t *testing.T) {
	testData := map[string]struct {
		err error
		x   [][]float64
		m   int
		n   int
	}{
		"nil input": {
			ErrEmptyArray,
			nil,
			0, 0,
		},
		"empty rows": {
			ErrEmptyArray,
			[][]float64{{}, {}},
			0, 0,
		},
		"single element": {
			nil,
			[][]float64{{1}},
			1, 1,
		},
		"one row multiple cols": {
			nil,
			[][]float64{{1, 2, 3}},
			1, 3,
		},
		"multiple rows and cols": {
			nil,
			[][]float64{{1, 2, 3}, {4, 5, 6}},
			2, 3,
		},
		"inconsistent cols": {
			ErrColMismatch,
			[][]float64{{1, 2, 3}, {4, 5}},
			0, 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mx, err := NewDenseFromArray(td.x)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			m, n := mx.Dims()
			assert.Equal(t, td.m, m, "m")
			assert.Equal(t, td.n, n, "n")

			for ri, row := range td.x {
				assert.Equal(t, row, mat.Row(nil, ri, mx), "array")
			}
		})
	}
}

func TestNewDenseFromColumns(t *testing.T) {
	testData := map[string]struct {
		cols     [][]float64
		err      error
		expected [][]float64
	}{
		"empty":          {nil, ErrEmptyArray, nil},
		"empty column":   {[][]float64{{}}, ErrEmptyArray, nil},
		"ragged columns": {[][]float64{{1, 2}, {3}}, ErrRowMismatch, nil},
		"two columns": {
			[][]float64{{1, 2, 3}, {4, 5, 6}},
			nil,
			[][]float64{{1, 4}, {2, 5}, {3, 6}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mx, err := NewDenseFromColumns(td.cols)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			for ri, row := range td.expected {
				assert.Equal(t, row, mat.Row(nil, ri, mx))
			}
		})
	}
}

func TestSelectRows(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 10,
		2, 20,
		3, 30,
	})

	testData := map[string]struct {
		idx      []int
		err      error
		expected []float64
	}{
		"no rows":      {nil, ErrEmptyArray, nil},
		"out of range": {[]int{1, 4}, ErrRowOutOfBounds, nil},
		"negative":     {[]int{-1}, ErrRowOutOfBounds, nil},
		"reordered":    {[]int{3, 0, 2}, nil, []float64{3, 30, 0, 0, 2, 20}},
		"repeated":     {[]int{1, 1}, nil, []float64{1, 10, 1, 10}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out, err := SelectRows(x, td.idx)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, out.RawMatrix().Data)
		})
	}
}
