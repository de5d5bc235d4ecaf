package adsales

import (
	"fmt"
	"time"

	"github.com/aouyang1/go-adsales/dataset"
	"github.com/aouyang1/go-adsales/metrics"
	"github.com/aouyang1/go-adsales/stats"
)

// Results is a serializable snapshot of a completed analysis. It carries the evaluation and
// interpretation of the fit, not a reusable model.
type Results struct {
	Dataset     string    `json:"dataset"`
	Fingerprint string    `json:"fingerprint"`
	GeneratedAt time.Time `json:"generated_at"`

	Rows      int `json:"rows"`
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	Summary      []dataset.ColumnSummary `json:"summary"`
	Nulls        []dataset.NullCount     `json:"nulls"`
	Correlations *dataset.CorrMatrix     `json:"correlations"`

	ModelEq      string              `json:"model_equation"`
	Intercept    float64             `json:"intercept"`
	Coefficients []Coefficient       `json:"coefficients"`
	Importance   []FeatureImportance `json:"importance"`
	Insights     []string            `json:"insights"`

	TestScores  *metrics.Scores `json:"test_scores"`
	TrainScores *metrics.Scores `json:"train_scores"`

	// VarianceInflation is null for a feature whose factor is infinite
	VarianceInflation map[string]*float64 `json:"variance_inflation"`
	ResidualOutliers  []int               `json:"residual_outlier_rows"`

	Example *Prediction `json:"example_prediction"`
}

// Results gathers the fitted analysis into a single snapshot. The example prediction is
// evaluated at the given spend on TV, Radio and Newspaper.
func (a *Analyzer) Results(tv, radio, newspaper float64) (*Results, error) {
	if a.model == nil {
		return nil, ErrUntrainedAnalyzer
	}
	rows, _ := a.ds.Shape()

	eq, err := a.ModelEq()
	if err != nil {
		return nil, err
	}
	vif, err := a.VarianceInflation()
	if err != nil {
		return nil, fmt.Errorf("unable to compute variance inflation, %w", err)
	}
	nullableVIF := make(map[string]*float64, len(vif))
	for f, v := range vif {
		nullableVIF[f] = stats.NullIfNonFinite(v)
	}
	outliers, err := a.ResidualOutliers()
	if err != nil {
		return nil, fmt.Errorf("unable to detect residual outliers, %w", err)
	}
	example, err := a.PredictBudget(tv, radio, newspaper)
	if err != nil {
		return nil, fmt.Errorf("unable to predict example budget, %w", err)
	}

	return &Results{
		Dataset:           a.ds.Name(),
		Fingerprint:       a.ds.Fingerprint(),
		GeneratedAt:       time.Now().UTC(),
		Rows:              rows,
		TrainRows:         len(a.split.TrainIdx),
		TestRows:          len(a.split.TestIdx),
		Summary:           a.ds.Describe(),
		Nulls:             a.ds.NullCounts(),
		Correlations:      a.ds.Corr(),
		ModelEq:           eq,
		Intercept:         a.Intercept(),
		Coefficients:      a.Coefficients(),
		Importance:        a.Importance(),
		Insights:          BudgetInsights(a.importance),
		TestScores:        a.testScores,
		TrainScores:       a.trainScores,
		VarianceInflation: nullableVIF,
		ResidualOutliers:  outliers,
		Example:           example,
	}, nil
}
