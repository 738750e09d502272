// Package outliers removes rows whose values fall outside the Tukey fences.
package outliers

import (
	"context"
	"fmt"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

const DefaultFactor = 1.5

var ErrInvalidFactor = fmt.Errorf("%w: outlier factor must not be negative", dl.ErrConfiguration)

// IQR drops rows whose value in Column lies outside
// [Q1 - Factor*IQR, Q3 + Factor*IQR]. A zero Factor means DefaultFactor.
// Rows missing a value in Column are dropped too.
type IQR struct {
	Column string
	Factor float64
}

func (t *IQR) Name() string   { return "remove_outliers" }
func (t *IQR) Target() string { return t.Column }

// Bounds returns the fences for the non-missing values of c.
func Bounds(c dl.Column, factor float64) (lo, hi float64, ok bool) {
	vals, valid, numeric := dl.NumericValues(c)
	if !numeric {
		return 0, 0, false
	}
	present := stats.Present(vals, valid)
	if len(present) == 0 {
		return 0, 0, false
	}
	q1 := stats.Quantile(present, 0.25)
	q3 := stats.Quantile(present, 0.75)
	iqr := q3 - q1
	return q1 - factor*iqr, q3 + factor*iqr, true
}

func (t *IQR) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	factor := t.Factor
	if factor == 0 {
		factor = DefaultFactor
	}
	if factor < 0 {
		return nil, dl.Errorf(t.Name(), t.Column, "%w: got %v", ErrInvalidFactor, factor)
	}
	col, err := validate.Numeric(tb, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	lo, hi, ok := Bounds(col, factor)
	vals, valid, _ := dl.NumericValues(col)
	keep := make([]bool, len(vals))
	for i, v := range vals {
		keep[i] = ok && valid[i] && v >= lo && v <= hi
	}
	return tb.Filter(keep), nil
}

// Remove applies IQR to each column in turn; the fences of a later column are
// computed on the rows that survived the earlier ones.
type Remove struct {
	Columns []string
	Factor  float64
}

func (t *Remove) Name() string { return "remove_outliers" }

func (t *Remove) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if err := validate.Columns(tb, t.Name(), t.Columns...); err != nil {
		return nil, err
	}
	for _, name := range t.Columns {
		out, err := (&IQR{Column: name, Factor: t.Factor}).Apply(ctx, tb)
		if err != nil {
			return nil, err
		}
		tb = out
	}
	return tb, nil
}
