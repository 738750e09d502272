package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

const (
	kmeansRestarts = 10
	kmeansMaxIter  = 300
)

type KMeansResult struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Silhouette float64
}

// KMeans clusters the rows of cols into k groups. Each of ten k-means++
// seeded restarts runs Lloyd iterations to convergence, and the lowest
// inertia wins. The selected columns must have no missing cells and
// 2 <= k < rows.
func KMeans(t *dl.Table, cols []string, k int, seed int64) (*KMeansResult, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidArgument)
	}
	n := t.Rows()
	if k < 2 || k >= n {
		return nil, fmt.Errorf("%w: k=%d with %d rows", ErrInvalidArgument, k, n)
	}
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, len(cols))
	}
	for j, name := range cols {
		vals, valid, err := numeric(t, name)
		if err != nil {
			return nil, err
		}
		for i := range vals {
			if !valid[i] {
				return nil, fmt.Errorf("%w: %s has missing values", ErrInvalidArgument, name)
			}
			points[i][j] = vals[i]
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var best *KMeansResult
	for run := 0; run < kmeansRestarts; run++ {
		res := lloyd(points, seedCentroids(points, k, rng))
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	best.Silhouette = silhouette(points, best.Labels, k)
	return best, nil
}

// seedCentroids picks k starting centroids with k-means++.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	cents := [][]float64{clone(points[rng.Intn(len(points))])}
	d2 := make([]float64, len(points))
	for len(cents) < k {
		var sum float64
		for i, p := range points {
			d2[i] = math.Inf(1)
			for _, c := range cents {
				d2[i] = math.Min(d2[i], sqDist(p, c))
			}
			sum += d2[i]
		}
		if sum == 0 {
			cents = append(cents, clone(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * sum
		pick := len(points) - 1
		for i, d := range d2 {
			target -= d
			if target <= 0 {
				pick = i
				break
			}
		}
		cents = append(cents, clone(points[pick]))
	}
	return cents
}

func lloyd(points, cents [][]float64) *KMeansResult {
	k, dim := len(cents), len(points[0])
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, cents)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range cents {
			if counts[c] == 0 {
				// an empty cluster takes the point farthest from its centroid
				far, fd := 0, -1.0
				for i, p := range points {
					if d := sqDist(p, cents[labels[i]]); d > fd {
						far, fd = i, d
					}
				}
				cents[c] = clone(points[far])
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			cents[c] = sums[c]
		}
	}
	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, cents[labels[i]])
	}
	return &KMeansResult{Labels: labels, Centroids: cents, Inertia: inertia}
}

// silhouette is the mean silhouette coefficient; points alone in their
// cluster score 0.
func silhouette(points [][]float64, labels []int, k int) float64 {
	n := len(points)
	size := make([]int, k)
	for _, l := range labels {
		size[l]++
	}
	var total float64
	dist := make([]float64, k)
	for i, p := range points {
		for c := range dist {
			dist[c] = 0
		}
		for j, q := range points {
			if i != j {
				dist[labels[j]] += floats.Distance(p, q, 2)
			}
		}
		own := labels[i]
		if size[own] < 2 {
			continue
		}
		a := dist[own] / float64(size[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c != own && size[c] > 0 {
				b = math.Min(b, dist[c]/float64(size[c]))
			}
		}
		if s := math.Max(a, b); s > 0 && !math.IsInf(b, 1) {
			total += (b - a) / s
		}
	}
	return total / float64(n)
}

func nearest(p []float64, cents [][]float64) int {
	best, bd := 0, math.Inf(1)
	for c, cent := range cents {
		if d := sqDist(p, cent); d < bd {
			best, bd = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(x []float64) []float64 { return append([]float64(nil), x...) }
