package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyArray     = errors.New("no rows or columns to build matrix")
	ErrColMismatch    = errors.New("column size mismatch")
	ErrRowMismatch    = errors.New("row size mismatch")
	ErrRowOutOfBounds = errors.New("row is out of bounds")
)

// NewDenseFromArray builds a dense matrix from row major slices. Every row must have the same
// number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if m == 0 || n <= 0 {
		return nil, ErrEmptyArray
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromColumns builds a dense matrix where each input slice becomes a column. Every
// column must have the same number of rows.
func NewDenseFromColumns(cols [][]float64) (*mat.Dense, error) {
	n := len(cols)
	if n == 0 {
		return nil, ErrEmptyArray
	}
	m := len(cols[0])
	if m == 0 {
		return nil, ErrEmptyArray
	}
	for j, col := range cols {
		if len(col) != m {
			return nil, fmt.Errorf("column %d has %d rows but expected %d, %w", j, len(col), m, ErrRowMismatch)
		}
	}

	mx := mat.NewDense(m, n, nil)
	for j, col := range cols {
		mx.SetCol(j, col)
	}
	return mx, nil
}

// SelectRows copies the rows at the given indices, in the given order, into a new dense matrix.
func SelectRows(x mat.Matrix, idx []int) (*mat.Dense, error) {
	if len(idx) == 0 {
		return nil, ErrEmptyArray
	}
	m, n := x.Dims()
	out := mat.NewDense(len(idx), n, nil)
	row := make([]float64, n)
	for i, r := range idx {
		if r < 0 || r >= m {
			return nil, fmt.Errorf("row %d of %d, %w", r, m, ErrRowOutOfBounds)
		}
		mat.Row(row, r, x)
		out.SetRow(i, row)
	}
	return out, nil
}
