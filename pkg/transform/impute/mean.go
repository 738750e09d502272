package impute

import (
	"context"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

// Mean fills missing cells with the column mean. An int column becomes float.
type Mean struct{ Column string }

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	return fillNumeric(tb, t.Name(), t.Column, stats.Mean)
}

func fillNumeric(tb *dl.Table, step, name string, agg func([]float64) float64) (*dl.Table, error) {
	col, err := validate.Numeric(tb, step, name)
	if err != nil {
		return nil, err
	}
	vals, valid, _ := dl.NumericValues(col)
	present := stats.Present(vals, valid)
	if len(present) == 0 || len(present) == len(vals) {
		return tb, nil
	}
	v := agg(present)
	fc, err := promote(tb, col)
	if err != nil {
		return nil, &dl.StepError{Step: step, Column: name, Err: err}
	}
	fillFloat(fc, v)
	return tb, nil
}
