// Package dataset loads a numeric table from CSV and summarizes its columns
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	mat_ "github.com/aouyang1/go-adsales/mat"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyDataset  = errors.New("dataset has no rows")
	ErrNoColumns     = errors.New("dataset has no value columns")
	ErrUnknownColumn = errors.New("column not found in dataset")
	ErrDuplicateCol  = errors.New("duplicate column name")
	ErrParseValue    = errors.New("value is not numeric")
	ErrMissingValue  = errors.New("value is missing or not finite")
)

// Options configures how a CSV file is read
type Options struct {
	// IndexColumn treats the first column as a row label instead of a value column
	IndexColumn bool

	// NullTokens are cell values, compared case insensitively after trimming, read as missing.
	// An empty cell is always missing.
	NullTokens []string
}

// NewDefaultOptions reads the first column as the row index and treats NA, NaN, null and
// None as missing values
func NewDefaultOptions() *Options {
	return &Options{
		IndexColumn: true,
		NullTokens:  []string{"na", "nan", "null", "none", "n/a"},
	}
}

// Validate runs basic validation on dataset options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	return o, nil
}

func (o *Options) isNull(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return true
	}
	for _, null := range o.NullTokens {
		if strings.EqualFold(token, null) {
			return true
		}
	}
	return false
}

// Dataset is an in-memory numeric table stored by column. Missing cells are NaN.
type Dataset struct {
	name        string
	index       []string
	columns     []string
	values      [][]float64
	fingerprint uint64
}

// Load reads a CSV file from disk
func Load(path string, opt *Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset, %w", err)
	}
	defer f.Close()

	return Read(f, path, opt)
}

// Read parses CSV content whose first record is the header. The name is used in error
// messages only.
func Read(r io.Reader, name string, opt *Options) (*Dataset, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w", name, err)
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s, %w", name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s, %w", name, ErrEmptyDataset)
	}

	header := records[0]
	offset := 0
	if opt.IndexColumn {
		offset = 1
	}
	if len(header) <= offset {
		return nil, fmt.Errorf("%s, %w", name, ErrNoColumns)
	}

	columns := make([]string, 0, len(header)-offset)
	seen := make(map[string]bool)
	for _, col := range header[offset:] {
		col = strings.TrimSpace(col)
		if seen[col] {
			return nil, fmt.Errorf("column %q in %s, %w", col, name, ErrDuplicateCol)
		}
		seen[col] = true
		columns = append(columns, col)
	}

	rows := records[1:]
	ds := &Dataset{
		name:        name,
		index:       make([]string, len(rows)),
		columns:     columns,
		values:      make([][]float64, len(columns)),
		fingerprint: xxhash.Sum64(raw),
	}
	for j := range ds.values {
		ds.values[j] = make([]float64, len(rows))
	}

	for i, rec := range rows {
		if opt.IndexColumn {
			ds.index[i] = strings.TrimSpace(rec[0])
		} else {
			ds.index[i] = strconv.Itoa(i)
		}
		for j := range columns {
			token := rec[j+offset]
			if opt.isNull(token) {
				ds.values[j][i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
			if err != nil {
				// csv line numbers are 1 based and include the header
				return nil, fmt.Errorf("%s line %d column %q value %q, %w", name, i+2, columns[j], token, ErrParseValue)
			}
			ds.values[j][i] = v
		}
	}
	return ds, nil
}

// Name is the source the dataset was read from
func (d *Dataset) Name() string {
	return d.name
}

// Shape returns the number of rows and value columns. The index column is not counted.
func (d *Dataset) Shape() (int, int) {
	return len(d.index), len(d.columns)
}

// Columns returns the value column names in file order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Index returns the row labels
func (d *Dataset) Index() []string {
	return append([]string(nil), d.index...)
}

// Fingerprint is the xxhash64 digest of the raw file contents in hex
func (d *Dataset) Fingerprint() string {
	return strconv.FormatUint(d.fingerprint, 16)
}

func (d *Dataset) columnIdx(name string) (int, error) {
	for j, col := range d.columns {
		if col == name {
			return j, nil
		}
	}
	return -1, fmt.Errorf("column %q, %w", name, ErrUnknownColumn)
}

// Column returns a copy of the named column's values
func (d *Dataset) Column(name string) ([]float64, error) {
	j, err := d.columnIdx(name)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), d.values[j]...), nil
}

// Matrix builds a rows by len(cols) design matrix with the columns in the requested order. Any
// missing or infinite cell in the requested columns fails with ErrMissingValue.
func (d *Dataset) Matrix(cols ...string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	data := make([][]float64, 0, len(cols))
	for _, col := range cols {
		j, err := d.columnIdx(col)
		if err != nil {
			return nil, err
		}
		for i, v := range d.values[j] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("column %q row %q, %w", col, d.index[i], ErrMissingValue)
			}
		}
		data = append(data, d.values[j])
	}
	return mat_.NewDenseFromColumns(data)
}

// Row is a single labeled observation
type Row struct {
	Index  string
	Values []float64
}

// Head returns up to the first n rows
func (d *Dataset) Head(n int) []Row {
	if n > len(d.index) {
		n = len(d.index)
	}
	if n < 0 {
		n = 0
	}
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		vals := make([]float64, len(d.columns))
		for j := range d.columns {
			vals[j] = d.values[j][i]
		}
		rows[i] = Row{Index: d.index[i], Values: vals}
	}
	return rows
}

// NullCount is the number of missing cells in a column
type NullCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// NullCounts returns the missing cell count per column in file order
func (d *Dataset) NullCounts() []NullCount {
	res := make([]NullCount, len(d.columns))
	for j, col := range d.columns {
		var cnt int
		for _, v := range d.values[j] {
			if math.IsNaN(v) {
				cnt++
			}
		}
		res[j] = NullCount{Column: col, Count: cnt}
	}
	return res
}
