package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram holds equal width bin edges and the count of values in each bin. The last bin is
// closed on both ends.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// BinWidth is the width shared by every bin
func (h *Histogram) BinWidth() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// Centers returns the midpoint of each bin
func (h *Histogram) Centers() []float64 {
	c := make([]float64, len(h.Counts))
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2.0
	}
	return c
}

// AutoBins picks the number of histogram bins as the smaller bin width of the Sturges and
// Freedman-Diaconis rules. Freedman-Diaconis is skipped when the interquartile range is zero.
func AutoBins(x []float64) (int, error) {
	vals := Finite(x)
	if len(vals) == 0 {
		return 0, ErrNoValues
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	ptp := hi - lo
	if ptp == 0 {
		return 1, nil
	}
	n := float64(len(vals))

	width := ptp / (math.Log2(n) + 1.0)
	q, err := Quantiles(vals, 0.25, 0.75)
	if err != nil {
		return 0, err
	}
	if fd := 2.0 * (q[1] - q[0]) * math.Pow(n, -1.0/3.0); fd > 0 {
		width = math.Min(width, fd)
	}
	return int(math.Ceil(ptp / width)), nil
}

// NewHistogram bins the finite values of x into the given number of equal width bins. A
// non-positive bins uses AutoBins.
func NewHistogram(x []float64, bins int) (*Histogram, error) {
	vals := Finite(x)
	if len(vals) == 0 {
		return nil, ErrNoValues
	}
	if bins <= 0 {
		var err error
		if bins, err = AutoBins(vals); err != nil {
			return nil, fmt.Errorf("unable to infer bin count, %w", err)
		}
	}

	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	counts := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		// floating point division can land an edge value one bin off
		if i > 0 && v < edges[i] {
			i--
		} else if i < bins-1 && v >= edges[i+1] {
			i++
		}
		counts[i]++
	}
	return &Histogram{Edges: edges, Counts: counts}, nil
}

// ScottBandwidth returns the gaussian kernel standard deviation, std(x) * n^(-1/5)
func ScottBandwidth(x []float64) (float64, error) {
	vals := Finite(x)
	if len(vals) < 2 {
		return 0, ErrNoValues
	}
	std := stat.StdDev(vals, nil)
	return std * math.Pow(float64(len(vals)), -0.2), nil
}

// KDE is a gaussian kernel density estimate
type KDE struct {
	data      []float64
	bandwidth float64
}

// NewKDE builds a gaussian kernel density estimate over the finite values of x using Scott's
// rule for the bandwidth
func NewKDE(x []float64) (*KDE, error) {
	bw, err := ScottBandwidth(x)
	if err != nil {
		return nil, err
	}
	return &KDE{data: Finite(x), bandwidth: bw}, nil
}

// Bandwidth of the gaussian kernel
func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

// Density evaluates the estimated probability density at each point
func (k *KDE) Density(points []float64) []float64 {
	res := make([]float64, len(points))
	if k.bandwidth == 0 {
		return res
	}
	norm := 1.0 / (float64(len(k.data)) * k.bandwidth * math.Sqrt(2.0*math.Pi))
	for i, p := range points {
		var sum float64
		for _, d := range k.data {
			z := (p - d) / k.bandwidth
			sum += math.Exp(-0.5 * z * z)
		}
		res[i] = sum * norm
	}
	return res
}

// Grid returns gridsize evenly spaced points covering the data extended by cut bandwidths on
// either side
func (k *KDE) Grid(gridsize int, cut float64) []float64 {
	if gridsize < 2 {
		gridsize = 2
	}
	lo := floats.Min(k.data) - cut*k.bandwidth
	hi := floats.Max(k.data) + cut*k.bandwidth
	grid := make([]float64, gridsize)
	floats.Span(grid, lo, hi)
	return grid
}
