// Package modelselection partitions observations into training and testing sets
package modelselection

import (
	"errors"
	"fmt"
	"math"

	mat_ "github.com/aouyang1/go-adsales/mat"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext/prng"
)

var (
	ErrInvalidTestSize   = errors.New("test size must be between 0 and 1 exclusive")
	ErrTooFewSamples     = errors.New("not enough samples to produce non-empty train and test sets")
	ErrTargetLenMismatch = errors.New("feature and target row counts differ")
	ErrNoFeatureMatrix   = errors.New("no feature matrix")
	ErrNoTargetMatrix    = errors.New("no target matrix")
)

const (
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

// SplitOptions configures the train/test partition
type SplitOptions struct {
	// TestSize is the fraction of rows assigned to the test set. The test count is rounded up.
	TestSize float64 `json:"test_size" mapstructure:"test_size" yaml:"test_size"`

	// Seed drives the row permutation. Only the lower 32 bits are used.
	Seed uint64 `json:"seed" mapstructure:"seed" yaml:"seed"`
}

// NewDefaultSplitOptions returns an 80/20 split seeded with 42
func NewDefaultSplitOptions() *SplitOptions {
	return &SplitOptions{
		TestSize: DefaultTestSize,
		Seed:     DefaultSeed,
	}
}

// Validate runs basic validation on the split options
func (s *SplitOptions) Validate() (*SplitOptions, error) {
	if s == nil {
		s = NewDefaultSplitOptions()
	}
	if math.IsNaN(s.TestSize) || s.TestSize <= 0.0 || s.TestSize >= 1.0 {
		return nil, fmt.Errorf("got %f, %w", s.TestSize, ErrInvalidTestSize)
	}
	return s, nil
}

// Sizes returns the number of train and test rows for n observations
func (s *SplitOptions) Sizes(n int) (int, int, error) {
	nTest := int(math.Ceil(s.TestSize * float64(n)))
	nTrain := n - nTest
	if nTest <= 0 || nTrain <= 0 {
		return 0, 0, fmt.Errorf("%d samples with test size %.2f, %w", n, s.TestSize, ErrTooFewSamples)
	}
	return nTrain, nTest, nil
}

// Permutation returns a shuffled ordering of [0, n) using a Mersenne Twister seeded with seed.
// Fisher-Yates is run from the last position down with bounded rejection sampling over 32 bit
// draws, the legacy MT19937 shuffle, so a seed maps to the same ordering across runs and tools.
func Permutation(n int, seed uint64) []int {
	src := prng.NewMT19937()
	src.Seed(seed)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i >= 1; i-- {
		j := boundedUint(src, uint64(i))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// boundedUint draws a uniform value in [0, bound] by masking to the smallest covering power of
// two and rejecting values above bound
func boundedUint(src *prng.MT19937, bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	mask := bound
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16
	mask |= mask >> 32

	if bound <= math.MaxUint32 {
		for {
			v := uint64(src.Uint32()) & mask
			if v <= bound {
				return v
			}
		}
	}
	for {
		v := src.Uint64() & mask
		if v <= bound {
			return v
		}
	}
}

// Split holds row-aligned training and testing partitions
type Split struct {
	TrainIdx []int
	TestIdx  []int

	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.Dense
	YTest  *mat.Dense
}

// TrainTestSplit shuffles the rows of x and y with the same permutation and assigns the first
// ceil(TestSize*n) shuffled rows to the test set and the remainder to the training set.
func TrainTestSplit(x, y mat.Matrix, opt *SplitOptions) (*Split, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, ErrNoFeatureMatrix
	}
	if y == nil {
		return nil, ErrNoTargetMatrix
	}

	m, _ := x.Dims()
	ym, _ := y.Dims()
	if m != ym {
		return nil, fmt.Errorf("features have %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	_, nTest, err := opt.Sizes(m)
	if err != nil {
		return nil, err
	}

	perm := Permutation(m, opt.Seed)
	s := &Split{
		TestIdx:  perm[:nTest],
		TrainIdx: perm[nTest:],
	}

	if s.XTrain, err = mat_.SelectRows(x, s.TrainIdx); err != nil {
		return nil, fmt.Errorf("unable to select training features, %w", err)
	}
	if s.XTest, err = mat_.SelectRows(x, s.TestIdx); err != nil {
		return nil, fmt.Errorf("unable to select testing features, %w", err)
	}
	if s.YTrain, err = mat_.SelectRows(y, s.TrainIdx); err != nil {
		return nil, fmt.Errorf("unable to select training target, %w", err)
	}
	if s.YTest, err = mat_.SelectRows(y, s.TestIdx); err != nil {
		return nil, fmt.Errorf("unable to select testing target, %w", err)
	}
	return s, nil
}
