package datalib

import (
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// TimeLayout is the layout writers use for time cells.
const TimeLayout = time.RFC3339

func parseTime(s string) (time.Time, error) {
	return cast.ToTimeE(s)
}

// FormatCell renders a cell as text, false when it is missing.
func FormatCell(c Column, i int) (string, bool) {
	switch col := c.(type) {
	case *FloatColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatFloat(v, 'g', -1, 64), true
		}
	case *IntColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatInt(v, 10), true
		}
	case *BoolColumn:
		if v, ok := col.Get(i); ok {
			return strconv.FormatBool(v), true
		}
	case *StringColumn:
		if v, ok := col.Get(i); ok {
			return v, true
		}
	case *TimeColumn:
		if v, ok := col.Get(i); ok {
			return v.Format(TimeLayout), true
		}
	}
	return "", false
}

// Record renders row as text cells in schema order; missing cells are empty.
func (t *Table) Record(row int) []string {
	rec := make([]string, len(t.cols))
	for c, col := range t.cols {
		rec[c], _ = FormatCell(col, row)
	}
	return rec
}

// RowMap renders row as a map keyed by column name, skipping missing cells.
// Times are formatted with TimeLayout; every other kind keeps its Go type.
func (t *Table) RowMap(row int) map[string]any {
	m := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		v, ok := col.Value(row)
		if !ok {
			continue
		}
		if tm, isTime := v.(time.Time); isTime {
			v = tm.Format(TimeLayout)
		}
		m[col.Name()] = v
	}
	return m
}
