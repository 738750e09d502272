// Package profile accumulates per-column statistics over one table or a
// stream of table chunks.
package profile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

// Mean is NaN when the column had no values.
func (s *NumStats) Mean() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type StringStats struct {
	Count int
	Nulls int
	Freqs map[string]int
}

type ColumnProfile struct {
	Name string
	Kind dl.Kind
	Num  *NumStats
	Bool *BoolStats
	Str  *StringStats
}

type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
	rows  int
}

// NewCollector profiles the columns of schema. Text and time columns keep
// value frequencies when topK > 0.
func NewCollector(schema dl.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case dl.KindFloat, dl.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case dl.KindBool:
			cp.Bool = &BoolStats{}
		default:
			cp.Str = &StringStats{Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

// ConsumeTable adds the rows of t. Columns unknown to the collector are
// skipped.
func (c *Collector) ConsumeTable(t *dl.Table) {
	c.rows += t.Rows()
	for _, col := range t.Columns() {
		idx, ok := c.index[col.Name()]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		switch {
		case cp.Num != nil:
			vals, valid, ok := dl.NumericValues(col)
			if !ok {
				continue
			}
			for i, v := range vals {
				if !valid[i] {
					cp.Num.Nulls++
					continue
				}
				cp.Num.Count++
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.Sum += v
			}
		case cp.Bool != nil:
			bc, ok := col.(*dl.BoolColumn)
			if !ok {
				continue
			}
			for i := 0; i < bc.Len(); i++ {
				v, present := bc.Get(i)
				switch {
				case !present:
					cp.Bool.Nulls++
					continue
				case v:
					cp.Bool.True++
				default:
					cp.Bool.False++
				}
				cp.Bool.Count++
			}
		default:
			for i := 0; i < col.Len(); i++ {
				v, present := dl.FormatCell(col, i)
				if !present {
					cp.Str.Nulls++
					continue
				}
				cp.Str.Count++
				if c.topK > 0 {
					cp.Str.Freqs[v]++
				}
			}
		}
	}
}

// ChunkReader yields table chunks until io.EOF.
type ChunkReader interface {
	Schema() dl.Schema
	Next() (*dl.Table, error)
}

// Stream profiles every chunk of r.
func Stream(r ChunkReader, topK int) (*Collector, error) {
	c := NewCollector(r.Schema(), topK)
	for {
		t, err := r.Next()
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			return nil, err
		}
		c.ConsumeTable(t)
	}
}

// Table profiles a single in-memory table.
func Table(t *dl.Table, topK int) *Collector {
	c := NewCollector(t.Schema(), topK)
	c.ConsumeTable(t)
	return c
}

func (c *Collector) Rows() int { return c.rows }

// Column returns the profile of one column.
func (c *Collector) Column(name string) (ColumnProfile, bool) {
	i, ok := c.index[name]
	if !ok {
		return ColumnProfile{}, false
	}
	return c.cols[i], true
}

type freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// top returns the k most frequent values, ties broken by value.
func (s *StringStats) top(k int) []freq {
	arr := make([]freq, 0, len(s.Freqs))
	for v, n := range s.Freqs {
		arr = append(arr, freq{v, n})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if k > 0 && k < len(arr) {
		arr = arr[:k]
	}
	return arr
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", c.rows)
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s (%v): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g\n",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, cp.Num.Mean())
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		default:
			fmt.Fprintf(&b, "count=%d nulls=%d\n", cp.Str.Count, cp.Str.Nulls)
			for _, f := range cp.Str.top(c.topK) {
				fmt.Fprintf(&b, "  * %q: %d\n", f.Value, f.Count)
			}
		}
	}
	return b.String()
}

type JSONProfile struct {
	Rows    int          `json:"rows"`
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Num  *JSONNum   `json:"num,omitempty"`
	Bool *BoolStats `json:"bool,omitempty"`
	Str  *JSONStr   `json:"str,omitempty"`
}

// JSONNum leaves min, max and mean out when the column had no values.
type JSONNum struct {
	Count int      `json:"count"`
	Nulls int      `json:"nulls"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Mean  *float64 `json:"mean,omitempty"`
}

type JSONStr struct {
	Count int    `json:"count"`
	Nulls int    `json:"nulls"`
	Top   []freq `json:"top,omitempty"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Rows: c.rows, Columns: make([]JSONColumn, 0, len(c.cols))}
	for _, cp := range c.cols {
		jc := JSONColumn{Name: cp.Name, Kind: cp.Kind.String()}
		switch {
		case cp.Num != nil:
			jn := &JSONNum{Count: cp.Num.Count, Nulls: cp.Num.Nulls}
			if cp.Num.Count > 0 {
				lo, hi, mean := cp.Num.Min, cp.Num.Max, cp.Num.Mean()
				jn.Min, jn.Max, jn.Mean = &lo, &hi, &mean
			}
			jc.Num = jn
		case cp.Bool != nil:
			jc.Bool = cp.Bool
		default:
			jc.Str = &JSONStr{Count: cp.Str.Count, Nulls: cp.Str.Nulls, Top: cp.Str.top(c.topK)}
			if c.topK <= 0 {
				jc.Str.Top = nil
			}
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
