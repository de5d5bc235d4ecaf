package adsales

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-adsales/linearmodel"
	"github.com/aouyang1/go-adsales/modelselection"
)

var (
	ErrNoFeatures       = errors.New("at least one feature column is required")
	ErrNoTarget         = errors.New("no target column")
	ErrTargetIsFeature  = errors.New("target column cannot also be a feature")
	ErrDuplicateFeature = errors.New("feature listed more than once")
	ErrInvalidLevel     = errors.New("confidence level must be between 0 and 1 exclusive")
)

const (
	FeatureTV        = "TV"
	FeatureRadio     = "Radio"
	FeatureNewspaper = "Newspaper"
	TargetSales      = "Sales"

	// SpendUnit scales a per unit coefficient into the change in sales per $1000 of spend
	SpendUnit = 1000.0

	DefaultConfidenceLevel = 0.95
	DefaultTukeyFactor     = 1.5
)

// Options configures the advertising regression analysis
type Options struct {
	// Features are the spend columns in coefficient order
	Features []string `json:"features"`
	Target   string   `json:"target"`

	SplitOptions *modelselection.SplitOptions `json:"split_options"`
	OLSOptions   *linearmodel.OLSOptions      `json:"ols_options"`

	// ConfidenceLevel of the single predictor regression bands
	ConfidenceLevel float64 `json:"confidence_level"`

	// TukeyFactor widens the interquartile range when counting residual outliers
	TukeyFactor float64 `json:"tukey_factor"`
}

// NewDefaultOptions regresses Sales on TV, Radio and Newspaper spend with an 80/20 split
// seeded with 42
func NewDefaultOptions() *Options {
	return &Options{
		Features:        []string{FeatureTV, FeatureRadio, FeatureNewspaper},
		Target:          TargetSales,
		SplitOptions:    modelselection.NewDefaultSplitOptions(),
		OLSOptions:      linearmodel.NewDefaultOLSOptions(),
		ConfidenceLevel: DefaultConfidenceLevel,
		TukeyFactor:     DefaultTukeyFactor,
	}
}

// Validate fills in defaults for unset fields and checks the column selection
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if len(o.Features) == 0 {
		return nil, ErrNoFeatures
	}
	if o.Target == "" {
		return nil, ErrNoTarget
	}
	seen := make(map[string]bool, len(o.Features))
	for _, f := range o.Features {
		if f == o.Target {
			return nil, fmt.Errorf("%s, %w", f, ErrTargetIsFeature)
		}
		if seen[f] {
			return nil, fmt.Errorf("%s, %w", f, ErrDuplicateFeature)
		}
		seen[f] = true
	}

	splitOpt, err := o.SplitOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid split options, %w", err)
	}
	o.SplitOptions = splitOpt

	olsOpt, err := o.OLSOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid ols options, %w", err)
	}
	o.OLSOptions = olsOpt

	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = DefaultConfidenceLevel
	}
	if math.IsNaN(o.ConfidenceLevel) || o.ConfidenceLevel <= 0 || o.ConfidenceLevel >= 1 {
		return nil, fmt.Errorf("got %f, %w", o.ConfidenceLevel, ErrInvalidLevel)
	}
	if o.TukeyFactor <= 0 {
		o.TukeyFactor = DefaultTukeyFactor
	}
	return o, nil
}
