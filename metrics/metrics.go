// Package metrics scores regression predictions against observed values
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoObservations = errors.New("no observations to score")
	ErrNonFinite      = errors.New("value is NaN or infinite")
)

// Scores tracks the evaluation scores of a set of predictions
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	RMSE float64 `json:"root_mean_squared_error"`
	MAE  float64 `json:"mean_absolute_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the evaluation scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		RMSE: rmse,
		MAE:  mae,
		R2:   rs,
	}, nil
}

func checkLen(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoObservations
	}
	for i := range actual {
		if !isFinite(actual[i]) {
			return fmt.Errorf("actual value at %d, %w", i, ErrNonFinite)
		}
		if !isFinite(predicted[i]) {
			return fmt.Errorf("predicted value at %d, %w", i, ErrNonFinite)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MSE computes the mean squared error. This is the same as mean((y-yhat)^2).
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		d := actual[i] - predicted[i]
		mse += d * d
	}
	mse /= float64(len(actual))
	return mse, nil
}

// RMSE is the square root of the mean squared error, in the units of the target.
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error, mean(abs(y-yhat)).
func MAE(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	mae := 0.0
	for i := 0; i < len(actual); i++ {
		mae += math.Abs(actual[i] - predicted[i])
	}
	mae /= float64(len(actual))
	return mae, nil
}

// RSquared computes the coefficient of determination, 1 - SSres/SStot. A perfect fit is 1.0 and
// predicting the mean of actual everywhere is 0. Worse than the mean is negative. A constant
// actual series is scored 1.0 on a perfect fit and 0.0 otherwise. NaN or infinite inputs are
// rejected with ErrNonFinite.
func RSquared(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	// zero variance in actual leaves SStot at 0
	if floats.Min(actual) != floats.Max(actual) {
		return stat.RSquaredFrom(predicted, actual, nil), nil
	}
	for i := range actual {
		if actual[i] != predicted[i] {
			return 0.0, nil
		}
	}
	return 1.0, nil
}
