package adsales

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrCoefLenMismatch = errors.New("number of features does not match number of coefficients")

// FeatureImportance uses the absolute coefficient magnitude as a proxy for how much a channel
// moves sales per unit of spend
type FeatureImportance struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
	Importance  float64 `json:"importance"`
}

// RankFeatures orders features by descending absolute coefficient. Ties keep the input order.
func RankFeatures(features []string, coef []float64) ([]FeatureImportance, error) {
	if len(features) != len(coef) {
		return nil, fmt.Errorf("%d features and %d coefficients, %w", len(features), len(coef), ErrCoefLenMismatch)
	}
	ranked := make([]FeatureImportance, len(features))
	for i, f := range features {
		ranked[i] = FeatureImportance{
			Feature:     f,
			Coefficient: coef[i],
			Importance:  math.Abs(coef[i]),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	return ranked, nil
}

// BudgetInsights turns a ranking into allocation advice: prioritize the top channel, give the
// middle channels a moderate share and minimize the last
func BudgetInsights(ranked []FeatureImportance) []string {
	insights := make([]string, 0, len(ranked))
	for i, fi := range ranked {
		switch {
		case i == 0:
			insights = append(insights, fmt.Sprintf("Prioritize %s advertising - Highest return per dollar spent", fi.Feature))
		case i == len(ranked)-1:
			insights = append(insights, fmt.Sprintf("Minimize spending on %s advertising - Lowest impact on sales", fi.Feature))
		default:
			insights = append(insights, fmt.Sprintf("Allocate a moderate budget to %s advertising - Good secondary channel", fi.Feature))
		}
	}
	return insights
}
