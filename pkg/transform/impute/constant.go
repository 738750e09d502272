package impute

import (
	"context"

	"github.com/spf13/cast"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// Constant fills missing cells with Value, coerced to the column kind. A value
// that cannot be coerced is a configuration error.
type Constant struct {
	Column string
	Value  any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if t.Value == nil {
		return nil, &dl.StepError{Step: t.Name(), Column: t.Column, Err: ErrMissingFillValue}
	}
	col, ok := tb.ColumnByName(t.Column)
	if !ok {
		return nil, &dl.StepError{Step: t.Name(), Column: t.Column, Err: dl.ErrUnknownColumn}
	}
	var fill any
	var err error
	switch col.Kind() {
	case dl.KindFloat:
		fill, err = cast.ToFloat64E(t.Value)
	case dl.KindInt:
		fill, err = cast.ToInt64E(t.Value)
	case dl.KindString:
		fill, err = cast.ToStringE(t.Value)
	case dl.KindBool:
		fill, err = cast.ToBoolE(t.Value)
	case dl.KindTime:
		fill, err = cast.ToTimeE(t.Value)
	default:
		return nil, dl.Errorf(t.Name(), t.Column, "%w: %s", dl.ErrColumnKind, col.Kind())
	}
	if err != nil {
		return nil, dl.Errorf(t.Name(), t.Column, "%w: fill value %v does not fit a %s column: %v",
			dl.ErrConfiguration, t.Value, col.Kind(), err)
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			if err := tb.SetCell(i, t.Column, fill); err != nil {
				return nil, dl.Errorf(t.Name(), t.Column, "%w: %v", dl.ErrConfiguration, err)
			}
		}
	}
	return tb, nil
}
