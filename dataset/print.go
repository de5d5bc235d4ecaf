package dataset

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
)

const maxDisplayDecimals = 6

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// displayDecimals is the fewest decimals that shows every value of a column without rounding,
// capped at maxDisplayDecimals
func displayDecimals(vals []float64) int {
	var dec int
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > dec {
			dec = len(s) - i - 1
		}
	}
	if dec > maxDisplayDecimals {
		dec = maxDisplayDecimals
	}
	return dec
}

func formatValue(v float64, dec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', dec, 64)
}

// TablePrintHead writes the first n rows with the index as the leading column
func (d *Dataset) TablePrintHead(w io.Writer, n int) error {
	rows := d.Head(n)

	decimals := make([]int, len(d.columns))
	for j := range d.columns {
		col := make([]float64, len(rows))
		for i, row := range rows {
			col[i] = row.Values[j]
		}
		decimals[j] = displayDecimals(col)
	}

	tbl := newTabWriter(w)
	if _, err := fmt.Fprintf(tbl, "\t%s\t\n", strings.Join(d.columns, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = formatValue(v, decimals[j])
		}
		if _, err := fmt.Fprintf(tbl, "%s\t%s\t\n", row.Index, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// TablePrintNulls writes the missing value count of each column
func (d *Dataset) TablePrintNulls(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	for _, nc := range d.NullCounts() {
		if _, err := fmt.Fprintf(tbl, "%s\t%d\n", nc.Column, nc.Count); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// TablePrintDescribe writes the descriptive statistics with one row per statistic and one column
// per value column
func (d *Dataset) TablePrintDescribe(w io.Writer) error {
	summaries := d.Describe()

	statRows := []struct {
		label string
		value func(ColumnSummary) float64
	}{
		{"count", func(s ColumnSummary) float64 { return float64(s.Count) }},
		{"mean", func(s ColumnSummary) float64 { return s.Mean }},
		{"std", func(s ColumnSummary) float64 { return s.Std }},
		{"min", func(s ColumnSummary) float64 { return s.Min }},
		{"25%", func(s ColumnSummary) float64 { return s.Q25 }},
		{"50%", func(s ColumnSummary) float64 { return s.Q50 }},
		{"75%", func(s ColumnSummary) float64 { return s.Q75 }},
		{"max", func(s ColumnSummary) float64 { return s.Max }},
	}

	tbl := newTabWriter(w)
	if _, err := fmt.Fprintf(tbl, "\t%s\t\n", strings.Join(d.columns, "\t")); err != nil {
		return err
	}
	for _, sr := range statRows {
		cells := make([]string, len(summaries))
		for j, s := range summaries {
			cells[j] = formatValue(sr.value(s), maxDisplayDecimals)
		}
		if _, err := fmt.Fprintf(tbl, "%s\t%s\t\n", sr.label, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
