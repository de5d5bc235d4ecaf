package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const advertisementPath = "../testdata/advertisement.csv"

func TestRead(t *testing.T) {
	testData := map[string]struct {
		content string
		opt     *Options
		rows    int
		cols    int
		err     error
	}{
		"header only": {
			content: "\"\",TV,Sales\n",
			err:     ErrEmptyDataset,
		},
		"index only": {
			content: "\"\"\n1\n",
			err:     ErrNoColumns,
		},
		"duplicate column": {
			content: "\"\",TV,TV\n1,2,3\n",
			err:     ErrDuplicateCol,
		},
		"non numeric": {
			content: "\"\",TV,Sales\n1,abc,3\n",
			err:     ErrParseValue,
		},
		"indexed": {
			content: "\"\",TV,Sales\n1,2,3\n2,4,6\n",
			rows:    2,
			cols:    2,
		},
		"no index": {
			content: "TV,Sales\n2,3\n4,6\n",
			opt:     &Options{IndexColumn: false},
			rows:    2,
			cols:    2,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := Read(strings.NewReader(td.content), name, td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			rows, cols := ds.Shape()
			assert.Equal(t, td.rows, rows, "rows")
			assert.Equal(t, td.cols, cols, "cols")
		})
	}
}

func TestReadRaggedRow(t *testing.T) {
	_, err := Read(strings.NewReader("\"\",TV,Sales\n1,2\n"), "ragged", nil)
	assert.NotNil(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.csv", nil)
	assert.NotNil(t, err)
}

func TestLoadAdvertisement(t *testing.T) {
	ds, err := Load(advertisementPath, nil)
	require.Nil(t, err)

	rows, cols := ds.Shape()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []string{"TV", "Radio", "Newspaper", "Sales"}, ds.Columns())
	assert.Equal(t, "1", ds.Index()[0])
	assert.NotEmpty(t, ds.Fingerprint())

	head := ds.Head(5)
	require.Len(t, head, 5)
	assert.Equal(t, Row{Index: "1", Values: []float64{230.1, 37.8, 69.2, 22.1}}, head[0])
	assert.Equal(t, Row{Index: "5", Values: []float64{180.8, 10.8, 58.4, 12.9}}, head[4])
	assert.Len(t, ds.Head(100), 20)

	for _, nc := range ds.NullCounts() {
		assert.Equal(t, 0, nc.Count, nc.Column)
	}

	x, err := ds.Matrix("TV", "Radio", "Newspaper")
	require.Nil(t, err)
	m, n := x.Dims()
	assert.Equal(t, 20, m)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{44.5, 39.3, 45.1}, x.RawRowView(1))

	_, err = ds.Matrix("TV", "Billboard")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ds.Column("Billboard")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFingerprint(t *testing.T) {
	content := "\"\",TV,Sales\n1,2,3\n2,4,6\n"
	a, err := Read(strings.NewReader(content), "a", nil)
	require.Nil(t, err)
	b, err := Read(strings.NewReader(content), "b", nil)
	require.Nil(t, err)
	c, err := Read(strings.NewReader(content+"3,5,7\n"), "c", nil)
	require.Nil(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestNullCounts(t *testing.T) {
	content := "\"\",TV,Radio,Sales\n1,,2,3\n2,NA,nan,6\n3,1,2,null\n"
	ds, err := Read(strings.NewReader(content), "nulls", nil)
	require.Nil(t, err)

	assert.Equal(t, []NullCount{
		{Column: "TV", Count: 2},
		{Column: "Radio", Count: 1},
		{Column: "Sales", Count: 1},
	}, ds.NullCounts())

	tv, err := ds.Column("TV")
	require.Nil(t, err)
	assert.True(t, math.IsNaN(tv[0]))
	assert.Equal(t, 1.0, tv[2])
}

func TestMatrixMissingValue(t *testing.T) {
	content := "\"\",TV,Radio,Sales\n1,1,,3\n2,4,5,6\n3,7,8,inf\n"
	ds, err := Read(strings.NewReader(content), "gaps", nil)
	require.Nil(t, err)

	testData := map[string]struct {
		cols []string
		msg  string
		err  error
	}{
		"complete column": {[]string{"TV"}, "", nil},
		"blank cell":      {[]string{"TV", "Radio"}, `column "Radio" row "1"`, ErrMissingValue},
		"infinite cell":   {[]string{"Sales"}, `column "Sales" row "3"`, ErrMissingValue},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := ds.Matrix(td.cols...)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.Contains(t, err.Error(), td.msg)
				return
			}
			require.Nil(t, err)
			r, c := x.Dims()
			assert.Equal(t, 3, r)
			assert.Equal(t, len(td.cols), c)
		})
	}
}

func TestDescribe(t *testing.T) {
	ds, err := Load(advertisementPath, nil)
	require.Nil(t, err)

	expected := map[string]ColumnSummary{
		"TV":        {Column: "TV", Count: 20, Mean: 119.31, Std: 84.17842516439646, Min: 8.6, Q25: 54.25, Q50: 108.85, Q75: 196.5, Max: 281.4},
		"Radio":     {Column: "Radio", Count: 20, Mean: 27.74, Std: 15.44257273356933, Min: 2.1, Q25: 17.4, Q50: 32.85, Q75: 39.375, Max: 48.9},
		"Newspaper": {Column: "Newspaper", Count: 20, Mean: 42.01, Std: 29.596797479670524, Min: 1.0, Q25: 18.9, Q50: 45.55, Q75: 60.35, Max: 114.0},
		"Sales":     {Column: "Sales", Count: 20, Mean: 13.495, Std: 5.4328896062486125, Min: 4.8, Q25: 9.6, Q50: 12.15, Q75: 17.675, Max: 24.4},
	}

	summaries := ds.Describe()
	require.Len(t, summaries, 4)
	for _, s := range summaries {
		e := expected[s.Column]
		assert.Equal(t, e.Count, s.Count, s.Column)
		assert.InDelta(t, e.Mean, s.Mean, 1e-9, s.Column+" mean")
		assert.InDelta(t, e.Std, s.Std, 1e-9, s.Column+" std")
		assert.InDelta(t, e.Min, s.Min, 1e-9, s.Column+" min")
		assert.InDelta(t, e.Q25, s.Q25, 1e-9, s.Column+" 25%")
		assert.InDelta(t, e.Q50, s.Q50, 1e-9, s.Column+" 50%")
		assert.InDelta(t, e.Q75, s.Q75, 1e-9, s.Column+" 75%")
		assert.InDelta(t, e.Max, s.Max, 1e-9, s.Column+" max")
	}
}

func TestSummaryJSON(t *testing.T) {
	content := "\"\",TV,Billboard\n1,1,\n2,2,NA\n3,3,\n"
	ds, err := Read(strings.NewReader(content), "undefined", nil)
	require.Nil(t, err)

	testData := map[string]struct {
		value    any
		expected string
	}{
		"describe": {
			ds.Describe(),
			`[{"column":"TV","count":3,"mean":2,"std":1,"min":1,"q25":1.5,"q50":2,"q75":2.5,"max":3},` +
				`{"column":"Billboard","count":0,"mean":null,"std":null,"min":null,"q25":null,"q50":null,"q75":null,"max":null}]`,
		},
		"correlations": {
			ds.Corr(),
			`{"labels":["TV","Billboard"],"values":[[1,null],[null,null]]}`,
		},
		"null counts": {
			ds.NullCounts(),
			`[{"column":"TV","count":0},{"column":"Billboard","count":3}]`,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(td.value)
			require.Nil(t, err)
			assert.JSONEq(t, td.expected, string(b))
		})
	}
}

func TestCorr(t *testing.T) {
	ds, err := Load(advertisementPath, nil)
	require.Nil(t, err)

	corr := ds.Corr()
	assert.Equal(t, ds.Columns(), corr.Labels)
	for i := range corr.Labels {
		assert.Equal(t, 1.0, corr.Values[i][i])
		for j := range corr.Labels {
			assert.Equal(t, corr.Values[i][j], corr.Values[j][i])
		}
	}

	r, err := corr.Get("TV", "Sales")
	require.Nil(t, err)
	assert.InDelta(t, 0.8629248158321479, r, 1e-9)

	_, err = corr.Get("TV", "Billboard")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	withSales, err := ds.CorrWith("Sales", "TV", "Radio", "Newspaper")
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{0.8629248158321479, 0.4296104483331957, 0.2045319540456467}, withSales, 1e-9)
}

func TestTablePrint(t *testing.T) {
	ds, err := Read(strings.NewReader("\"\",TV,Sales\n1,230.1,22\n2,8.75,3\n"), "print", nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, ds.TablePrintHead(&buf, 5))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "230.10")
	assert.Contains(t, lines[2], "8.75")
	assert.True(t, strings.HasSuffix(lines[1], "22"))

	buf.Reset()
	require.Nil(t, ds.TablePrintNulls(&buf))
	assert.Equal(t, "TV       0\nSales    0\n", buf.String())

	buf.Reset()
	require.Nil(t, ds.TablePrintDescribe(&buf))
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Contains(t, lines[1], "count")
	assert.Contains(t, lines[1], "2.000000")
	assert.Contains(t, lines[8], "230.100000")
}
