// Package normalize rescales numeric columns.
package normalize

import (
	"context"
	"fmt"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

type Method string

const (
	// Standard centers on the mean and divides by the population std.
	Standard Method = "standard"
	// MinMax maps the observed range onto [0, 1].
	MinMax Method = "minmax"
)

var ErrInvalidMethod = fmt.Errorf("%w: invalid normalization method", dl.ErrConfiguration)

// Scale rescales each of Columns with Method. Missing cells stay missing and
// are ignored when fitting. A column with no spread becomes all zeros.
type Scale struct {
	Columns []string
	Method  Method
}

func (t *Scale) Name() string { return "normalize" }

func (t *Scale) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if t.Method != Standard && t.Method != MinMax {
		return nil, dl.Errorf(t.Name(), "", "%w %q", ErrInvalidMethod, t.Method)
	}
	for _, name := range t.Columns {
		col, err := validate.Numeric(tb, t.Name(), name)
		if err != nil {
			return nil, err
		}
		vals, valid, _ := dl.NumericValues(col)
		present := stats.Present(vals, valid)
		if len(present) == 0 {
			continue
		}
		var shift, div float64
		switch t.Method {
		case Standard:
			shift, div = stats.PopMeanStd(present)
		case MinMax:
			var hi float64
			shift, hi = stats.MinMax(present)
			div = hi - shift
		}
		out := dl.NewFloatColumn(name, len(vals))
		for i, v := range vals {
			if !valid[i] {
				continue
			}
			if div == 0 {
				out.Set(i, 0)
				continue
			}
			out.Set(i, (v-shift)/div)
		}
		if err := tb.ReplaceColumn(out); err != nil {
			return nil, dl.Errorf(t.Name(), name, "%w: %v", dl.ErrConfiguration, err)
		}
	}
	return tb, nil
}
