package adsales

import (
	"fmt"
	"io"
)

const DefaultHeadRows = 5

// ReportOptions controls the printed analysis report
type ReportOptions struct {
	// HeadRows is the number of leading dataset rows shown in the overview
	HeadRows int

	// Example spend on each channel used to demonstrate a single prediction
	ExampleTV        float64
	ExampleRadio     float64
	ExampleNewspaper float64

	// Insights appends the return on investment of the example and the allocation advice
	Insights bool
}

// NewDefaultReportOptions demonstrates a prediction at TV=200, Radio=40, Newspaper=60
func NewDefaultReportOptions() *ReportOptions {
	return &ReportOptions{
		HeadRows:         DefaultHeadRows,
		ExampleTV:        200,
		ExampleRadio:     40,
		ExampleNewspaper: 60,
		Insights:         true,
	}
}

// reportWriter keeps the first write error so a report can be written as a sequence of lines
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *reportWriter) table(fn func(io.Writer) error) {
	if r.err != nil {
		return
	}
	r.err = fn(r.w)
}

// Report writes the analysis in a fixed order: dataset shape, head rows, missing values, summary
// statistics, partition shapes, coefficients, test scores, per $1000 interpretation, the example
// prediction, the ranked channels and the closing advice.
func (a *Analyzer) Report(w io.Writer, opt *ReportOptions) error {
	if a.model == nil {
		return ErrUntrainedAnalyzer
	}
	if opt == nil {
		opt = NewDefaultReportOptions()
	}
	ds := a.ds
	rows, cols := ds.Shape()
	nFeat := len(a.opt.Features)

	r := &reportWriter{w: w}
	r.printf("Data shape: (%d, %d)\n", rows, cols)

	r.printf("\nData overview:\n")
	r.table(func(w io.Writer) error { return ds.TablePrintHead(w, opt.HeadRows) })

	r.printf("\nMissing values:\n")
	r.table(ds.TablePrintNulls)

	r.printf("\nStatistical summary:\n")
	r.table(ds.TablePrintDescribe)

	r.printf("\nTraining set shape: (%d, %d)\n", len(a.split.TrainIdx), nFeat)
	r.printf("Testing set shape: (%d, %d)\n", len(a.split.TestIdx), nFeat)

	r.printf("\nModel Coefficients:\n")
	r.printf("Intercept: %.4f\n", a.Intercept())
	coefs := a.Coefficients()
	for _, c := range coefs {
		r.printf("%s coefficient: %.4f\n", c.Feature, c.Value)
	}

	r.printf("\nModel Evaluation:\n")
	r.printf("Mean Squared Error (MSE): %.4f\n", a.testScores.MSE)
	r.printf("Root Mean Squared Error (RMSE): %.4f\n", a.testScores.RMSE)
	r.printf("R-squared (R²): %.4f\n", a.testScores.R2)

	r.printf("\nModel Interpretation:\n")
	r.printf("For every $1000 spent on:\n")
	for _, c := range coefs {
		r.printf("- %s advertising: $%.2f increase in sales\n", c.Feature, c.Value*SpendUnit)
	}

	example, err := a.PredictBudget(opt.ExampleTV, opt.ExampleRadio, opt.ExampleNewspaper)
	if err != nil {
		return fmt.Errorf("unable to predict example budget, %w", err)
	}
	r.printf("\nPredicted sales with TV=$%v, Radio=$%v, Newspaper=$%v: $%.2f\n",
		example.TV, example.Radio, example.Newspaper, example.Sales)

	r.printf("\nBudget Allocation Optimization:\n")
	r.printf("Based on the model coefficients, the most effective advertising channels in descending order are:\n")
	for _, fi := range a.importance {
		r.printf("- %s: coefficient = %.4f\n", fi.Feature, fi.Importance)
	}

	r.printf("\nTo maximize sales with a limited budget, consider allocating more budget to channels with higher coefficients.\n")

	if opt.Insights {
		r.printf("\nBudget Insights:\n")
		r.printf("Total advertising budget: $%.2f\n", example.TotalBudget)
		r.printf("Return on investment: %.2f%%\n", example.ROI)
		for i, insight := range BudgetInsights(a.importance) {
			r.printf("%d. %s\n", i+1, insight)
		}
	}
	return r.err
}

// TablePrint writes a prediction with its total budget and return on investment
func (p *Prediction) TablePrint(w io.Writer) error {
	r := &reportWriter{w: w}
	r.printf("Predicted sales with TV=$%v, Radio=$%v, Newspaper=$%v: $%.2f\n", p.TV, p.Radio, p.Newspaper, p.Sales)
	r.printf("Total advertising budget: $%.2f\n", p.TotalBudget)
	r.printf("Return on investment: %.2f%%\n", p.ROI)
	return r.err
}
