// Package impute fills or drops missing values.
package impute

import (
	"context"
	"fmt"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

type Strategy string

const (
	StrategyMean     Strategy = "mean"
	StrategyMedian   Strategy = "median"
	StrategyMode     Strategy = "mode"
	StrategyConstant Strategy = "constant"
	StrategyDrop     Strategy = "drop"
)

var (
	ErrInvalidStrategy  = fmt.Errorf("%w: invalid missing-value strategy", dl.ErrConfiguration)
	ErrMissingFillValue = fmt.Errorf("%w: strategy constant needs a fill value", dl.ErrConfiguration)
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyMean, StrategyMedian, StrategyMode, StrategyConstant, StrategyDrop:
		return true
	}
	return false
}

// Missing handles missing values in Columns according to Strategy. A nil
// Columns selects every column that holds at least one missing value; with
// that default, mean and median skip columns that are not numeric.
type Missing struct {
	Strategy  Strategy
	Columns   []string
	FillValue any
}

func (t *Missing) Name() string { return "handle_missing" }

func (t *Missing) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if !t.Strategy.Valid() {
		return nil, dl.Errorf(t.Name(), "", "%w %q", ErrInvalidStrategy, t.Strategy)
	}
	if t.Strategy == StrategyConstant && t.FillValue == nil {
		return nil, &dl.StepError{Step: t.Name(), Err: ErrMissingFillValue}
	}

	cols := t.Columns
	auto := cols == nil
	if auto {
		cols = tb.ColumnsWithNulls()
	} else if err := validate.Columns(tb, t.Name(), cols...); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return tb, nil
	}

	if t.Strategy == StrategyDrop {
		return (&Drop{Columns: cols}).Apply(ctx, tb)
	}

	for _, name := range cols {
		var step dl.Transform
		switch t.Strategy {
		case StrategyMean:
			step = &Mean{Column: name}
		case StrategyMedian:
			step = &Median{Column: name}
		case StrategyMode:
			step = &Mode{Column: name}
		case StrategyConstant:
			step = &Constant{Column: name, Value: t.FillValue}
		}
		if auto && (t.Strategy == StrategyMean || t.Strategy == StrategyMedian) {
			if c, _ := tb.ColumnByName(name); !c.Kind().Numeric() {
				continue
			}
		}
		out, err := step.Apply(ctx, tb)
		if err != nil {
			return nil, err
		}
		tb = out
	}
	return tb, nil
}

// Drop removes every row that is missing a value in any of Columns.
type Drop struct{ Columns []string }

func (t *Drop) Name() string { return "drop_missing" }

func (t *Drop) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	if err := validate.Columns(tb, t.Name(), t.Columns...); err != nil {
		return nil, err
	}
	keep := make([]bool, tb.Rows())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range t.Columns {
		c, _ := tb.ColumnByName(name)
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				keep[i] = false
			}
		}
	}
	return tb.Filter(keep), nil
}

// promote returns c as a float column, converting an int column.
func promote(tb *dl.Table, c dl.Column) (*dl.FloatColumn, error) {
	switch col := c.(type) {
	case *dl.FloatColumn:
		return col, nil
	case *dl.IntColumn:
		fc := dl.NewFloatColumn(col.Name(), col.Len())
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Get(i); ok {
				fc.Set(i, float64(v))
			}
		}
		if err := tb.ReplaceColumn(fc); err != nil {
			return nil, err
		}
		return fc, nil
	}
	return nil, fmt.Errorf("%w: want numeric, got %s", dl.ErrColumnKind, c.Kind())
}

func fillFloat(c *dl.FloatColumn, v float64) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			c.Set(i, v)
		}
	}
}
