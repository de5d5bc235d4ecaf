package adsales

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-adsales/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 6 * vg.Inch
)

var (
	pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fitColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	barColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	black      = color.RGBA{A: 255}
	dashes     = []vg.Length{vg.Points(5), vg.Points(5)}
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// PlotRegression draws y against x with the least squares line and its dashed confidence bounds
func PlotRegression(xName, yName string, x, y []float64, level float64) (*plot.Plot, error) {
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

	p := newPlot(fmt.Sprintf("%s vs %s Advertising", yName, xName), xName, yName)

	scatter, err := plotter.NewScatter(xys(x, y))
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	fit, err := plotter.NewLine(xys(band.X, band.Fit))
	if err != nil {
		return nil, err
	}
	fit.Color = fitColor
	fit.Width = vg.Points(2)

	upper, err := plotter.NewLine(xys(band.X, band.Upper))
	if err != nil {
		return nil, err
	}
	upper.Color = fitColor
	upper.Dashes = dashes

	lower, err := plotter.NewLine(xys(band.X, band.Lower))
	if err != nil {
		return nil, err
	}
	lower.Color = fitColor
	lower.Dashes = dashes

	p.Add(scatter, fit, upper, lower)
	p.Legend.Add("Fit", fit)
	p.Legend.Add(fmt.Sprintf("%.0f%% CI", level*100), upper)
	p.Legend.Top = true
	return p, nil
}

// PlotPredicted draws predicted against actual values with a dashed y = x reference line
func PlotPredicted(actual, predicted []float64) (*plot.Plot, error) {
	p := newPlot("Predicted vs Actual Sales", "Actual Sales", "Predicted Sales")

	scatter, err := plotter.NewScatter(xys(actual, predicted))
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	finite := stats.Finite(actual)
	if len(finite) == 0 {
		return p, nil
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, err
	}
	ref.Color = black
	ref.Dashes = dashes
	p.Add(ref)
	return p, nil
}

// PlotImportance draws a horizontal bar per feature with the most important feature on top
func PlotImportance(ranked []FeatureImportance) (*plot.Plot, error) {
	p := newPlot("Feature Importance", "Importance", "Feature")

	names := make([]string, len(ranked))
	values := make(plotter.Values, len(ranked))
	for i, fi := range ranked {
		k := len(ranked) - 1 - i
		names[k] = fi.Feature
		values[k] = fi.Importance
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

// SavePNG writes the single channel regressions, the predicted against actual test values and the
// feature importance as png images into dir, creating it if needed. It returns the written paths.
func (a *Analyzer) SavePNG(dir string) ([]string, error) {
	if a.model == nil {
		return nil, ErrUntrainedAnalyzer
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create %s, %w", dir, err)
	}

	target := a.opt.Target
	sales, err := a.ds.Column(target)
	if err != nil {
		return nil, err
	}

	plots := make(map[string]*plot.Plot, len(a.opt.Features)+2)
	order := make([]string, 0, len(a.opt.Features)+2)
	for _, f := range a.opt.Features {
		x, err := a.ds.Column(f)
		if err != nil {
			return nil, err
		}
		p, err := PlotRegression(f, target, x, sales, a.opt.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("unable to plot regression, %w", err)
		}
		name := fmt.Sprintf("regression_%s.png", f)
		plots[name] = p
		order = append(order, name)
	}

	actual, predicted := a.TestPredictions()
	p, err := PlotPredicted(actual, predicted)
	if err != nil {
		return nil, fmt.Errorf("unable to plot predictions, %w", err)
	}
	plots["predicted_vs_actual.png"] = p
	order = append(order, "predicted_vs_actual.png")

	p, err = PlotImportance(a.importance)
	if err != nil {
		return nil, fmt.Errorf("unable to plot importance, %w", err)
	}
	plots["feature_importance.png"] = p
	order = append(order, "feature_importance.png")

	paths := make([]string, 0, len(order))
	for _, name := range order {
		path := filepath.Join(dir, name)
		if err := plots[name].Save(pngWidth, pngHeight, path); err != nil {
			return nil, fmt.Errorf("unable to save %s, %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
