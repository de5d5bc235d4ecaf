// Package adsales regresses sales on advertising spend per channel, evaluates the fit on a held
// out split and reports how each channel contributes to sales.
package adsales

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aouyang1/go-adsales/dataset"
	"github.com/aouyang1/go-adsales/linearmodel"
	mat_ "github.com/aouyang1/go-adsales/mat"
	"github.com/aouyang1/go-adsales/metrics"
	"github.com/aouyang1/go-adsales/modelselection"
	"github.com/aouyang1/go-adsales/stats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoDataset          = errors.New("no dataset or uninitialized")
	ErrUntrainedAnalyzer  = errors.New("analyzer has not been fit")
	ErrFeatureLenMismatch = errors.New("number of inputs does not match number of features")
	ErrUnknownFeature     = errors.New("feature is not an advertising channel")
)

// Analyzer splits an advertising dataset, fits an ordinary least squares model on the training
// rows and evaluates it on the testing rows
type Analyzer struct {
	opt *Options

	ds    *dataset.Dataset
	split *modelselection.Split
	model *linearmodel.OLSRegression

	testPred    []float64
	testScores  *metrics.Scores
	trainScores *metrics.Scores
	importance  []FeatureImportance
}

// New creates a new instance of an Analyzer using the provided options. If no options are
// provided a default is used.
func New(opt *Options) (*Analyzer, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate options, %w", err)
	}
	return &Analyzer{opt: opt}, nil
}

// Options returns the validated options the analyzer runs with
func (a *Analyzer) Options() *Options {
	return a.opt
}

// Fit partitions the dataset, trains the model on the training rows and scores it on both
// partitions
func (a *Analyzer) Fit(ds *dataset.Dataset) error {
	if ds == nil {
		return ErrNoDataset
	}

	x, err := ds.Matrix(a.opt.Features...)
	if err != nil {
		return fmt.Errorf("unable to build feature matrix, %w", err)
	}
	y, err := ds.Matrix(a.opt.Target)
	if err != nil {
		return fmt.Errorf("unable to build target vector, %w", err)
	}

	split, err := modelselection.TrainTestSplit(x, y, a.opt.SplitOptions)
	if err != nil {
		return fmt.Errorf("unable to split dataset, %w", err)
	}

	model, err := linearmodel.NewOLSRegression(a.opt.OLSOptions)
	if err != nil {
		return fmt.Errorf("unable to initialize ols regression, %w", err)
	}
	if err := model.Fit(split.XTrain, split.YTrain); err != nil {
		return fmt.Errorf("unable to fit ols regression, %w", err)
	}

	testPred, err := model.Predict(split.XTest)
	if err != nil {
		return fmt.Errorf("unable to predict test partition, %w", err)
	}
	testScores, err := metrics.NewScores(testPred, mat.Col(nil, 0, split.YTest))
	if err != nil {
		return fmt.Errorf("unable to score test partition, %w", err)
	}

	trainPred, err := model.Predict(split.XTrain)
	if err != nil {
		return fmt.Errorf("unable to predict train partition, %w", err)
	}
	trainScores, err := metrics.NewScores(trainPred, mat.Col(nil, 0, split.YTrain))
	if err != nil {
		return fmt.Errorf("unable to score train partition, %w", err)
	}

	importance, err := RankFeatures(a.opt.Features, model.Coef())
	if err != nil {
		return fmt.Errorf("unable to rank features, %w", err)
	}

	a.ds = ds
	a.split = split
	a.model = model
	a.testPred = testPred
	a.testScores = testScores
	a.trainScores = trainScores
	a.importance = importance
	return nil
}

// Fitted reports whether Fit has completed successfully
func (a *Analyzer) Fitted() bool {
	return a.model != nil
}

// Dataset returns the dataset the analyzer was fit on
func (a *Analyzer) Dataset() *dataset.Dataset {
	return a.ds
}

// Split returns the train and test partitions
func (a *Analyzer) Split() *modelselection.Split {
	return a.split
}

// Intercept returns the fitted intercept
func (a *Analyzer) Intercept() float64 {
	if a.model == nil {
		return 0.0
	}
	return a.model.Intercept()
}

// Coef returns the fitted coefficients in feature order
func (a *Analyzer) Coef() []float64 {
	if a.model == nil {
		return nil
	}
	return a.model.Coef()
}

// Coefficient pairs a feature with its fitted weight
type Coefficient struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Coefficients returns the fitted coefficients labeled by feature in feature order
func (a *Analyzer) Coefficients() []Coefficient {
	coef := a.Coef()
	res := make([]Coefficient, len(coef))
	for i, c := range coef {
		res[i] = Coefficient{Feature: a.opt.Features[i], Value: c}
	}
	return res
}

// Scores returns the evaluation scores on the test partition
func (a *Analyzer) Scores() *metrics.Scores {
	return a.testScores
}

// TrainScores returns the evaluation scores on the training partition
func (a *Analyzer) TrainScores() *metrics.Scores {
	return a.trainScores
}

// TestPredictions returns the observed and predicted target for each test row
func (a *Analyzer) TestPredictions() ([]float64, []float64) {
	if a.split == nil {
		return nil, nil
	}
	actual := mat.Col(nil, 0, a.split.YTest)
	predicted := append([]float64(nil), a.testPred...)
	return actual, predicted
}

// Importance returns features ranked by descending absolute coefficient
func (a *Analyzer) Importance() []FeatureImportance {
	return append([]FeatureImportance(nil), a.importance...)
}

// Predict applies the fitted model to a single observation given in feature order
func (a *Analyzer) Predict(values ...float64) (float64, error) {
	if a.model == nil {
		return 0.0, ErrUntrainedAnalyzer
	}
	if len(values) != len(a.opt.Features) {
		return 0.0, fmt.Errorf("got %d values for %d features, %w", len(values), len(a.opt.Features), ErrFeatureLenMismatch)
	}
	x, err := mat_.NewDenseFromArray([][]float64{values})
	if err != nil {
		return 0.0, fmt.Errorf("unable to build design row, %w", err)
	}
	res, err := a.model.Predict(x)
	if err != nil {
		return 0.0, fmt.Errorf("unable to predict, %w", err)
	}
	return res[0], nil
}

// PredictSales predicts sales for a spend on each of the TV, Radio and Newspaper channels. The
// result is intercept + c_tv*tv + c_radio*radio + c_newspaper*newspaper. Inputs are not
// validated so negative or extreme budgets extrapolate linearly.
func (a *Analyzer) PredictSales(tv, radio, newspaper float64) (float64, error) {
	if a.model == nil {
		return 0.0, ErrUntrainedAnalyzer
	}
	spend := map[string]float64{
		FeatureTV:        tv,
		FeatureRadio:     radio,
		FeatureNewspaper: newspaper,
	}
	values := make([]float64, len(a.opt.Features))
	for i, f := range a.opt.Features {
		v, exists := spend[f]
		if !exists {
			return 0.0, fmt.Errorf("%s, %w", f, ErrUnknownFeature)
		}
		values[i] = v
	}
	return a.Predict(values...)
}

// Prediction is a sales prediction for a budget allocation along with its return on the total
// spend
type Prediction struct {
	TV          float64 `json:"tv"`
	Radio       float64 `json:"radio"`
	Newspaper   float64 `json:"newspaper"`
	Sales       float64 `json:"sales"`
	TotalBudget float64 `json:"total_budget"`

	// ROI is predicted sales as a percentage of the total budget. Zero when nothing is spent.
	ROI float64 `json:"roi_percent"`
}

// PredictBudget predicts sales for a budget allocation and computes the return on the total
// spend
func (a *Analyzer) PredictBudget(tv, radio, newspaper float64) (*Prediction, error) {
	sales, err := a.PredictSales(tv, radio, newspaper)
	if err != nil {
		return nil, err
	}
	p := &Prediction{
		TV:          tv,
		Radio:       radio,
		Newspaper:   newspaper,
		Sales:       sales,
		TotalBudget: tv + radio + newspaper,
	}
	if p.TotalBudget != 0 {
		p.ROI = sales / p.TotalBudget * 100.0
	}
	return p, nil
}

// ResidualOutliers returns the training rows, as dataset row positions, whose residual falls
// outside the Tukey fences of the training residuals
func (a *Analyzer) ResidualOutliers() ([]int, error) {
	if a.model == nil {
		return nil, ErrUntrainedAnalyzer
	}
	pred, err := a.model.Predict(a.split.XTrain)
	if err != nil {
		return nil, fmt.Errorf("unable to predict train partition, %w", err)
	}
	actual := mat.Col(nil, 0, a.split.YTrain)
	residual := make([]float64, len(actual))
	for i := range actual {
		residual[i] = actual[i] - pred[i]
	}

	idx := stats.DetectOutliers(residual, 0.25, 0.75, a.opt.TukeyFactor)
	rows := make([]int, len(idx))
	for i, j := range idx {
		rows[i] = a.split.TrainIdx[j]
	}
	return rows, nil
}

// VarianceInflation computes the variance inflation factor of every feature over the full
// dataset. Large values mean the coefficient magnitudes are a weak importance proxy.
func (a *Analyzer) VarianceInflation() (map[string]float64, error) {
	if a.ds == nil {
		return nil, ErrUntrainedAnalyzer
	}
	if len(a.opt.Features) < 2 {
		return map[string]float64{}, nil
	}
	features := make(map[string][]float64, len(a.opt.Features))
	for _, f := range a.opt.Features {
		col, err := a.ds.Column(f)
		if err != nil {
			return nil, err
		}
		features[f] = col
	}
	return stats.VarianceInflationFactor(a.opt.Features, features)
}

// ModelEq returns a string representation of the fitted model, e.g.
// Sales ~ 2.9210 + 0.0470*TV + 0.1880*Radio + 0.0020*Newspaper
func (a *Analyzer) ModelEq() (string, error) {
	if a.model == nil {
		return "", ErrUntrainedAnalyzer
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s ~ %.4f", a.opt.Target, a.model.Intercept())
	for _, c := range a.Coefficients() {
		sign := "+"
		v := c.Value
		if v < 0 {
			sign = "-"
			v = -v
		}
		fmt.Fprintf(&sb, " %s %.4f*%s", sign, v, c.Feature)
	}
	return sb.String(), nil
}
