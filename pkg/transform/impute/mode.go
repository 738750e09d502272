package impute

import (
	"cmp"
	"context"
	"time"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// Mode fills missing cells with the most frequent value, the smallest one on
// a tie. It works on every column kind and keeps the kind.
type Mode struct{ Column string }

func (t *Mode) Name() string { return "impute_mode" }

func (t *Mode) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	col, ok := tb.ColumnByName(t.Column)
	if !ok {
		return nil, &dl.StepError{Step: t.Name(), Column: t.Column, Err: dl.ErrUnknownColumn}
	}
	switch c := col.(type) {
	case *dl.FloatColumn:
		fillMode(c.Len(), c.Get, c.Set)
	case *dl.IntColumn:
		fillMode(c.Len(), c.Get, c.Set)
	case *dl.StringColumn:
		fillMode(c.Len(), c.Get, c.Set)
	case *dl.BoolColumn:
		// false < true
		get := func(i int) (int, bool) {
			v, ok := c.Get(i)
			if v {
				return 1, ok
			}
			return 0, ok
		}
		fillMode(c.Len(), get, func(i, v int) { c.Set(i, v == 1) })
	case *dl.TimeColumn:
		get := func(i int) (int64, bool) {
			v, ok := c.Get(i)
			return v.UnixNano(), ok
		}
		fillMode(c.Len(), get, func(i int, v int64) { c.Set(i, time.Unix(0, v).UTC()) })
	default:
		return nil, dl.Errorf(t.Name(), t.Column, "%w: %s", dl.ErrColumnKind, col.Kind())
	}
	return tb, nil
}

func fillMode[T cmp.Ordered](n int, get func(int) (T, bool), set func(int, T)) {
	counts := make(map[T]int)
	var missing []int
	for i := 0; i < n; i++ {
		v, ok := get(i)
		if !ok {
			missing = append(missing, i)
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 || len(missing) == 0 {
		return
	}
	var best T
	bestc := 0
	for v, c := range counts {
		if c > bestc || (c == bestc && cmp.Less(v, best)) {
			best, bestc = v, c
		}
	}
	for _, i := range missing {
		set(i, best)
	}
}
