// Package dedupe removes duplicate rows.
package dedupe

import (
	"context"
	"fmt"
	"strings"
	"time"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

type Keep string

const (
	KeepFirst Keep = "first"
	KeepLast  Keep = "last"
	// KeepNone drops every row of a duplicate group.
	KeepNone Keep = "none"
)

var ErrInvalidKeep = fmt.Errorf("%w: invalid keep policy", dl.ErrConfiguration)

// Rows drops rows equal to another row on Subset (all columns when nil).
// Two missing cells compare equal. Kept rows keep their relative order.
type Rows struct {
	Subset []string
	Keep   Keep
}

func (t *Rows) Name() string { return "remove_duplicates" }

func (t *Rows) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	switch t.Keep {
	case KeepFirst, KeepLast, KeepNone:
	default:
		return nil, dl.Errorf(t.Name(), "", "%w %q", ErrInvalidKeep, t.Keep)
	}
	names := t.Subset
	if names == nil {
		names = tb.Names()
	} else if err := validate.Columns(tb, t.Name(), names...); err != nil {
		return nil, err
	}
	cols := make([]dl.Column, len(names))
	for i, n := range names {
		cols[i], _ = tb.ColumnByName(n)
	}

	keys := make([]string, tb.Rows())
	counts := make(map[string]int, tb.Rows())
	for r := range keys {
		keys[r] = rowKey(cols, r)
		counts[keys[r]]++
	}

	keep := make([]bool, tb.Rows())
	seen := make(map[string]bool, len(counts))
	switch t.Keep {
	case KeepFirst:
		for r, k := range keys {
			keep[r] = !seen[k]
			seen[k] = true
		}
	case KeepLast:
		for r := len(keys) - 1; r >= 0; r-- {
			keep[r] = !seen[keys[r]]
			seen[keys[r]] = true
		}
	case KeepNone:
		for r, k := range keys {
			keep[r] = counts[k] == 1
		}
	}
	return tb.Filter(keep), nil
}

// rowKey encodes the cells of row r so that equal rows get equal keys. Each
// cell is tagged with its kind so 1 (int) and "1" (string) differ.
func rowKey(cols []dl.Column, r int) string {
	var b strings.Builder
	for _, c := range cols {
		s, ok := dl.FormatCell(c, r)
		if !ok {
			b.WriteString("\x00-")
			continue
		}
		if tc, isTime := c.(*dl.TimeColumn); isTime {
			v, _ := tc.Get(r)
			s = v.UTC().Format(time.RFC3339Nano)
		}
		fmt.Fprintf(&b, "\x00%d:%d:%s", c.Kind(), len(s), s)
	}
	return b.String()
}
