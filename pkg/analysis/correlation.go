package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
)

type CorrMethod string

const (
	Pearson  CorrMethod = "pearson"
	Spearman CorrMethod = "spearman"
	Kendall  CorrMethod = "kendall"
)

// CorrMatrix is a symmetric correlation matrix with named rows and columns.
type CorrMatrix struct {
	Names []string
	*mat.SymDense
}

// Get returns the coefficient of a pair of columns by name.
func (m *CorrMatrix) Get(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, n := range m.Names {
		if n == a {
			i = k
		}
		if n == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.At(i, j), true
}

// Correlation computes pairwise correlations of cols (every numeric column
// when nil). Each pair uses the rows where both cells are present; a pair with
// fewer than two such rows or no variance is NaN.
func Correlation(t *dl.Table, method CorrMethod, cols []string) (*CorrMatrix, error) {
	if method == "" {
		method = Pearson
	}
	var fn func(x, y []float64) float64
	switch method {
	case Pearson:
		fn = pearson
	case Spearman:
		fn = func(x, y []float64) float64 { return pearson(stats.Ranks(x), stats.Ranks(y)) }
	case Kendall:
		fn = kendallTauB
	default:
		return nil, fmt.Errorf("%w: correlation method %q", ErrInvalidArgument, method)
	}
	cols, err := selectNumeric(t, cols)
	if err != nil {
		return nil, err
	}
	vals := make([][]float64, len(cols))
	masks := make([][]bool, len(cols))
	for i, name := range cols {
		vals[i], masks[i], _ = numeric(t, name)
	}
	m := mat.NewSymDense(len(cols), nil)
	for i := range cols {
		for j := i; j < len(cols); j++ {
			pair := complete([][]float64{vals[i], vals[j]}, [][]bool{masks[i], masks[j]})
			r := math.NaN()
			if len(pair[0]) >= 2 {
				r = fn(pair[0], pair[1])
			}
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.SetSym(i, j, r)
		}
	}
	return &CorrMatrix{Names: cols, SymDense: m}, nil
}

func pearson(x, y []float64) float64 {
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// kendallTauB counts concordant and discordant pairs and corrects for ties.
func kendallTauB(x, y []float64) float64 {
	var conc, disc, tx, ty float64
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			dx, dy := x[i]-x[j], y[i]-y[j]
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tx++
			case dy == 0:
				ty++
			case (dx > 0) == (dy > 0):
				conc++
			default:
				disc++
			}
		}
	}
	den := math.Sqrt((conc + disc + tx) * (conc + disc + ty))
	if den == 0 {
		return math.NaN()
	}
	return (conc - disc) / den
}
