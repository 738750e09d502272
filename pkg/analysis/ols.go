package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// ConstName labels the intercept term.
const ConstName = "const"

type Coefficient struct {
	Name   string
	Value  float64
	StdErr float64
	T      float64
	P      float64
}

type OLSResult struct {
	Target       string
	Coefficients []Coefficient
	N            int
	DFResid      float64
	RSquared     float64
	AdjRSquared  float64
	Residuals    []float64
}

// OLS fits target on features by ordinary least squares. Rows with a missing
// cell in any used column are dropped. With addConstant an intercept named
// "const" is fitted first.
func OLS(t *dl.Table, target string, features []string, addConstant bool) (*OLSResult, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrInvalidArgument)
	}
	names := append([]string{target}, features...)
	vals := make([][]float64, len(names))
	masks := make([][]bool, len(names))
	for i, name := range names {
		var err error
		if vals[i], masks[i], err = numeric(t, name); err != nil {
			return nil, err
		}
	}
	cols := complete(vals, masks)
	n := len(cols[0])
	p := len(features)
	if addConstant {
		p++
	}
	if n <= p {
		return nil, fmt.Errorf("%w: %d rows for %d parameters", ErrInsufficientData, n, p)
	}

	x := mat.NewDense(n, p, nil)
	for r := 0; r < n; r++ {
		c := 0
		if addConstant {
			x.Set(r, 0, 1)
			c = 1
		}
		for j := range features {
			x.Set(r, c+j, cols[j+1][r])
		}
	}
	y := mat.NewVecDense(n, cols[0])

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok || chol.Cond() > 1e12 {
		return nil, ErrSingular
	}
	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, beta.ColView(0))
	resid := make([]float64, n)
	var ssr, ymean float64
	for r := 0; r < n; r++ {
		resid[r] = y.AtVec(r) - fitted.AtVec(r)
		ssr += resid[r] * resid[r]
		ymean += y.AtVec(r)
	}
	ymean /= float64(n)
	var sst float64
	for r := 0; r < n; r++ {
		d := y.AtVec(r)
		if addConstant {
			d -= ymean
		}
		sst += d * d
	}

	df := float64(n - p)
	sigma2 := ssr / df
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res := &OLSResult{Target: target, N: n, DFResid: df, Residuals: resid}
	for j := 0; j < p; j++ {
		name := ConstName
		if addConstant {
			if j > 0 {
				name = features[j-1]
			}
		} else {
			name = features[j]
		}
		c := Coefficient{Name: name, Value: beta.At(j, 0), StdErr: math.Sqrt(sigma2 * cov.At(j, j))}
		c.T = c.Value / c.StdErr
		c.P = 2 * (1 - tdist.CDF(math.Abs(c.T)))
		res.Coefficients = append(res.Coefficients, c)
	}
	if sst > 0 {
		res.RSquared = 1 - ssr/sst
		k := float64(n)
		if addConstant {
			k = float64(n - 1)
		}
		res.AdjRSquared = 1 - (1-res.RSquared)*k/df
	} else {
		res.RSquared, res.AdjRSquared = math.NaN(), math.NaN()
	}
	return res, nil
}

// Coef returns the fitted coefficient for name.
func (r *OLSResult) Coef(name string) (Coefficient, bool) {
	for _, c := range r.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// Summary renders the fit as a text table.
func (r *OLSResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OLS  target=%s  n=%d  df_resid=%g  R2=%.4f  adj_R2=%.4f\n",
		r.Target, r.N, r.DFResid, r.RSquared, r.AdjRSquared)
	tw := tablewriter.NewWriter(&b)
	tw.SetHeader([]string{"term", "coef", "std err", "t", "P>|t|"})
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, c := range r.Coefficients {
		tw.Append([]string{
			c.Name,
			fmt.Sprintf("%.4f", c.Value),
			fmt.Sprintf("%.4f", c.StdErr),
			fmt.Sprintf("%.3f", c.T),
			fmt.Sprintf("%.3f", c.P),
		})
	}
	tw.Render()
	return b.String()
}
