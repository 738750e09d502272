// Package analysis runs standard statistics over the numeric columns of a
// Table: summaries, correlation, t-tests, one-way ANOVA, least squares and
// k-means clustering.
package analysis

import (
	"fmt"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

var (
	ErrNoNumericColumns = fmt.Errorf("%w: no numeric columns", dl.ErrOperational)
	ErrNotNumeric       = fmt.Errorf("%w: column is not numeric", dl.ErrOperational)
	ErrInsufficientData = fmt.Errorf("%w: not enough observations", dl.ErrOperational)
	ErrInvalidArgument  = fmt.Errorf("%w: invalid argument", dl.ErrOperational)
	ErrSingular         = fmt.Errorf("%w: design matrix is singular", dl.ErrOperational)
)

// numeric returns the values and validity mask of a numeric column.
func numeric(t *dl.Table, name string) ([]float64, []bool, error) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown column %q", ErrInvalidArgument, name)
	}
	vals, valid, ok := dl.NumericValues(c)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, name, c.Kind())
	}
	return vals, valid, nil
}

// selectNumeric resolves cols, or every numeric column when cols is nil.
func selectNumeric(t *dl.Table, cols []string) ([]string, error) {
	if cols == nil {
		for _, c := range t.Columns() {
			if c.Kind().Numeric() {
				cols = append(cols, c.Name())
			}
		}
	}
	if len(cols) == 0 {
		return nil, ErrNoNumericColumns
	}
	for _, name := range cols {
		if _, _, err := numeric(t, name); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// complete keeps the rows where every mask is set.
func complete(vals [][]float64, masks [][]bool) [][]float64 {
	n := 0
	if len(vals) > 0 {
		n = len(vals[0])
	}
	out := make([][]float64, len(vals))
	for r := 0; r < n; r++ {
		keep := true
		for _, m := range masks {
			if !m[r] {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		for i := range vals {
			out[i] = append(out[i], vals[i][r])
		}
	}
	return out
}
