// Package stats holds the small numeric helpers shared by the cleaning
// transforms and the analysis functions.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Present returns the values whose valid flag is set.
func Present(vals []float64, valid []bool) []float64 {
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Quantile returns the p-quantile (0 <= p <= 1) of x using linear
// interpolation between the closest ranks. x need not be sorted and is not
// modified. It returns NaN for an empty slice.
func Quantile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	return SortedQuantile(cp, p)
}

// SortedQuantile is Quantile for input that is already sorted ascending.
func SortedQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	weight := rank - float64(lower)
	if lower+1 >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// Median is the 0.5 quantile.
func Median(x []float64) float64 { return Quantile(x, 0.5) }

// Mean returns the arithmetic mean, NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// PopMeanStd returns the mean and the population (ddof=0) standard deviation.
func PopMeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.PopMeanStdDev(x, nil)
}

// SampleStd returns the sample (ddof=1) standard deviation, NaN below two
// observations.
func SampleStd(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// MinMax returns the extremes of a non-empty slice.
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(x), floats.Max(x)
}

// Mode returns the most frequent value; ties go to the smallest value.
func Mode(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int, len(x))
	for _, v := range x {
		counts[v]++
	}
	best, bestc := math.Inf(1), 0
	for v, c := range counts {
		if c > bestc || (c == bestc && v < best) {
			best, bestc = v, c
		}
	}
	return best
}

// Ranks returns 1-based ranks of x with ties given their average rank.
func Ranks(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
