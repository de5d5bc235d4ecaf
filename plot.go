package adsales

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/aouyang1/go-adsales/dataset"
	"github.com/aouyang1/go-adsales/stats"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

const (
	kdeGridSize    = 200
	kdeCut         = 3.0
	bandGridSize   = 100
	chartWidth     = "900px"
	chartHeight    = "500px"
	referenceColor = "#000000"
)

var coolwarm = []string{"#3b4cc0", "#8db0fe", "#dddddd", "#f49a7b", "#b40426"}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:  chartWidth,
		Height: chartHeight,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HeatMapCorrelation generates an echart heatmap of a correlation matrix with each cell
// annotated by its value
func HeatMapCorrelation(corr *dataset.CorrMatrix) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Correlation Matrix"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: corr.Labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: corr.Labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: coolwarm},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(corr.Labels)*len(corr.Labels))
	for i := range corr.Labels {
		for j := range corr.Labels {
			v := corr.Values[i][j]
			if math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, round2(v)}})
		}
	}
	hm.SetXAxis(corr.Labels).AddSeries("correlation", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm
}

func scatterData(x, y []float64) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		data = append(data, opts.ScatterData{Value: []float64{x[i], y[i]}})
	}
	return data
}

func lineData(x, y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(x))
	for i := range x {
		data = append(data, opts.LineData{Value: []float64{x[i], y[i]}})
	}
	return data
}

func valueScatter(title, xName, yName string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName, Scale: opts.Bool(true)}),
	)
	return scatter
}

// ScatterChannels generates an echart scatter of the target against every channel's spend on a
// shared axis
func ScatterChannels(ds *dataset.Dataset, features []string, target string) (*charts.Scatter, error) {
	y, err := ds.Column(target)
	if err != nil {
		return nil, err
	}
	scatter := valueScatter("Sales vs. Advertising Channels", "Advertising Budget", target)
	for _, f := range features {
		x, err := ds.Column(f)
		if err != nil {
			return nil, err
		}
		scatter.AddSeries(f, scatterData(x, y))
	}
	return scatter, nil
}

// HistogramKDE generates an echart histogram of the values overlaid with a gaussian kernel
// density estimate scaled to counts
func HistogramKDE(name string, values []float64) (*charts.Bar, error) {
	hist, err := stats.NewHistogram(values, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to bin %s, %w", name, err)
	}
	kde, err := stats.NewKDE(values)
	if err != nil {
		return nil, fmt.Errorf("unable to estimate %s density, %w", name, err)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Distribution of " + name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: name, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Count"}),
	)

	centers := hist.Centers()
	barData := make([]opts.BarData, len(centers))
	for i, c := range centers {
		barData[i] = opts.BarData{Value: []float64{c, hist.Counts[i]}}
	}
	bar.AddSeries("Count", barData,
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "1%"}),
	)

	grid := kde.Grid(kdeGridSize, kdeCut)
	density := kde.Density(grid)
	floats.Scale(float64(len(stats.Finite(values)))*hist.BinWidth(), density)

	line := charts.NewLine()
	line.AddSeries("KDE", lineData(grid, density),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(true)}),
	)
	bar.Overlap(line)
	return bar, nil
}

// ScatterRegression generates an echart scatter of y against x with the least squares line and
// its confidence band
func ScatterRegression(xName, yName string, x, y []float64, level float64) (*charts.Scatter, error) {
	finite := stats.Finite(x)
	if len(finite) == 0 {
		return nil, fmt.Errorf("%s, %w", xName, stats.ErrNoValues)
	}
	grid := make([]float64, bandGridSize)
	floats.Span(grid, floats.Min(finite), floats.Max(finite))

	band, err := stats.NewRegressionBand(x, y, grid, level)
	if err != nil {
		return nil, fmt.Errorf("unable to fit %s on %s, %w", yName, xName, err)
	}

	scatter := valueScatter(fmt.Sprintf("%s vs %s Advertising", yName, xName), xName, yName)
	scatter.AddSeries(xName, scatterData(x, y))

	dashed := charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Width: 1})
	noSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	ciName := fmt.Sprintf("%.0f%% CI", level*100)

	line := charts.NewLine()
	line.AddSeries("Fit", lineData(band.X, band.Fit), noSymbol).
		AddSeries(ciName+" upper", lineData(band.X, band.Upper), noSymbol, dashed).
		AddSeries(ciName+" lower", lineData(band.X, band.Lower), noSymbol, dashed)
	scatter.Overlap(line)
	return scatter, nil
}

// ScatterPredicted generates an echart scatter of predicted against actual values with a y = x
// reference line spanning the observed range
func ScatterPredicted(actual, predicted []float64) *charts.Scatter {
	scatter := valueScatter("Predicted vs Actual Sales", "Actual Sales", "Predicted Sales")
	scatter.AddSeries("Test", scatterData(actual, predicted))

	finite := stats.Finite(actual)
	if len(finite) == 0 {
		return scatter
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	line := charts.NewLine()
	line.AddSeries("y = x", lineData([]float64{lo, hi}, []float64{lo, hi}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Color: referenceColor, Width: 1}),
	)
	scatter.Overlap(line)
	return scatter
}

// BarImportance generates a horizontal echart bar chart of feature importance with the most
// important feature on top
func BarImportance(ranked []FeatureImportance) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Feature Importance"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Importance"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Feature"}),
	)

	// category axes grow upward once reversed so list the least important first
	names := make([]string, len(ranked))
	data := make([]opts.BarData, len(ranked))
	for i, fi := range ranked {
		k := len(ranked) - 1 - i
		names[k] = fi.Feature
		data[k] = opts.BarData{Value: fi.Importance}
	}
	bar.SetXAxis(names).AddSeries("Importance", data).XYReversal()
	return bar
}

// BarCorrelation generates an echart bar chart of each channel's correlation with the target,
// strongest first
func BarCorrelation(features []string, corr []float64, target string) *charts.Bar {
	type pair struct {
		name string
		r    float64
	}
	pairs := make([]pair, len(features))
	for i := range features {
		pairs[i] = pair{features[i], corr[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].r > pairs[j].r
	})

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "Correlation with " + target}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: 1}),
	)
	names := make([]string, len(pairs))
	data := make([]opts.BarData, len(pairs))
	for i, p := range pairs {
		names[i] = p.name
		data[i] = opts.BarData{Value: round2(p.r)}
	}
	bar.SetXAxis(names).AddSeries("Pearson r", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// PlotFit uses the Apache Echarts library to write an html page with the exploratory charts,
// the single channel regressions, the predicted against actual test values and the feature
// importance
func (a *Analyzer) PlotFit(w io.Writer) error {
	if a.model == nil {
		return ErrUntrainedAnalyzer
	}
	ds := a.ds
	target := a.opt.Target

	page := components.NewPage()
	page.SetPageTitle("Sales Prediction Analysis")
	page.AddCharts(HeatMapCorrelation(ds.Corr()))

	channels, err := ScatterChannels(ds, a.opt.Features, target)
	if err != nil {
		return fmt.Errorf("unable to plot channels, %w", err)
	}
	page.AddCharts(channels)

	sales, err := ds.Column(target)
	if err != nil {
		return err
	}
	hist, err := HistogramKDE(target, sales)
	if err != nil {
		return fmt.Errorf("unable to plot distribution, %w", err)
	}
	page.AddCharts(hist)

	for _, f := range a.opt.Features {
		x, err := ds.Column(f)
		if err != nil {
			return err
		}
		reg, err := ScatterRegression(f, target, x, sales, a.opt.ConfidenceLevel)
		if err != nil {
			return fmt.Errorf("unable to plot regression, %w", err)
		}
		page.AddCharts(reg)
	}

	actual, predicted := a.TestPredictions()
	page.AddCharts(
		ScatterPredicted(actual, predicted),
		BarImportance(a.importance),
	)

	corr, err := ds.CorrWith(target, a.opt.Features...)
	if err != nil {
		return err
	}
	page.AddCharts(BarCorrelation(a.opt.Features, corr, target))

	return page.Render(w)
}
