package datalib

import (
	"fmt"
	"strings"
	"time"
)

// Schema describes the logical shape of a table.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name string
	Type Kind
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Kind enumerates the scalar kinds a column can hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Numeric reports whether values of this kind take part in arithmetic.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// ParseKind maps a type name, including the common aliases used in cleaning
// configs ("numeric", "text", "datetime", ...), to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float", "float64", "double", "numeric", "number":
		return KindFloat, nil
	case "int", "int64", "integer":
		return KindInt, nil
	case "string", "str", "text", "object":
		return KindString, nil
	case "time", "datetime", "timestamp", "temporal", "date":
		return KindTime, nil
	case "bool", "boolean":
		return KindBool, nil
	}
	return KindInvalid, fmt.Errorf("%w: unknown type %q", ErrConfiguration, name)
}

// Column is a typed, nullable column.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Value returns the cell as its Go type and false when it is missing.
	Value(i int) (any, bool)
	// Take returns a new column holding the rows at idx, in that order.
	Take(idx []int) Column
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: allNull(n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.data[i] = false; c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}
func (c *BoolColumn) Take(idx []int) Column {
	out := &BoolColumn{name: c.name, data: make([]bool, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k], out.nulls[k] = c.data[i], c.nulls[i]
	}
	return out
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: allNull(n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.data[i] = 0; c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}
func (c *IntColumn) Take(idx []int) Column {
	out := &IntColumn{name: c.name, data: make([]int64, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k], out.nulls[k] = c.data[i], c.nulls[i]
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: allNull(n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.data[i] = 0; c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *FloatColumn) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}
func (c *FloatColumn) Take(idx []int) Column {
	out := &FloatColumn{name: c.name, data: make([]float64, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k], out.nulls[k] = c.data[i], c.nulls[i]
	}
	return out
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: allNull(n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.data[i] = ""; c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}
func (c *StringColumn) Take(idx []int) Column {
	out := &StringColumn{name: c.name, data: make([]string, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k], out.nulls[k] = c.data[i], c.nulls[i]
	}
	return out
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: allNull(n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.data[i] = time.Time{}; c.nulls[i] = true }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}
func (c *TimeColumn) Take(idx []int) Column {
	out := &TimeColumn{name: c.name, data: make([]time.Time, len(idx)), nulls: make([]bool, len(idx))}
	for k, i := range idx {
		out.data[k], out.nulls[k] = c.data[i], c.nulls[i]
	}
	return out
}

func allNull(n int) []bool {
	nulls := make([]bool, n)
	for i := range nulls {
		nulls[i] = true
	}
	return nulls
}

// NewColumn returns an empty column of the given kind.
func NewColumn(name string, k Kind, n int) (Column, error) {
	switch k {
	case KindBool:
		return NewBoolColumn(name, n), nil
	case KindInt:
		return NewIntColumn(name, n), nil
	case KindFloat:
		return NewFloatColumn(name, n), nil
	case KindString:
		return NewStringColumn(name, n), nil
	case KindTime:
		return NewTimeColumn(name, n), nil
	}
	return nil, fmt.Errorf("column %s: invalid kind %d", name, k)
}

// NumericValues widens an int or float column to float64 values plus a
// validity mask. ok is false for every other kind.
func NumericValues(c Column) (vals []float64, valid []bool, ok bool) {
	vals = make([]float64, c.Len())
	valid = make([]bool, c.Len())
	switch col := c.(type) {
	case *FloatColumn:
		for i := range vals {
			vals[i], valid[i] = col.Get(i)
		}
	case *IntColumn:
		for i := range vals {
			v, present := col.Get(i)
			vals[i], valid[i] = float64(v), present
		}
	default:
		return nil, nil, false
	}
	return vals, valid, true
}

// Table is a columnar container for tabular data.
type Table struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

// New returns an empty table with the given schema. It panics on an invalid
// kind, which is a programming error.
func New(s Schema) *Table {
	t := &Table{schema: Schema{Columns: append([]ColumnSchema(nil), s.Columns...)}, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic(err)
		}
		t.cols[i] = c
		t.index[cs.Name] = i
	}
	return t
}

// FromColumns builds a table over existing columns, which must share a length
// and have distinct names.
func FromColumns(cols ...Column) (*Table, error) {
	t := &Table{cols: make([]Column, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column: %s", c.Name())
		}
		if i == 0 {
			t.nrows = c.Len()
		} else if c.Len() != t.nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), t.nrows)
		}
		t.cols[i] = c
		t.index[c.Name()] = i
		t.schema.Columns = append(t.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind()})
	}
	return t, nil
}

func (t *Table) Schema() Schema  { return t.schema }
func (t *Table) Rows() int       { return t.nrows }
func (t *Table) Cols() int       { return len(t.cols) }
func (t *Table) Names() []string { return t.schema.Names() }

// Columns returns the columns in schema order.
func (t *Table) Columns() []Column { return append([]Column(nil), t.cols...) }

func (t *Table) ColumnByName(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Column is ColumnByName with an ErrUnknownColumn error instead of a bool.
func (t *Table) Column(name string) (Column, error) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return c, nil
}

// ColumnsWithNulls lists, in schema order, the columns holding at least one
// missing value.
func (t *Table) ColumnsWithNulls() []string {
	var out []string
	for _, c := range t.cols {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				out = append(out, c.Name())
				break
			}
		}
	}
	return out
}

// AppendNullRow appends a row with all-null values.
func (t *Table) AppendNullRow() {
	for _, c := range t.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	t.nrows++
}

// AppendRow appends one row given in schema order; nil marks a missing cell.
func (t *Table) AppendRow(vals ...any) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("append row: got %d values for %d columns", len(vals), len(t.cols))
	}
	t.AppendNullRow()
	row := t.nrows - 1
	for i, v := range vals {
		if err := t.SetCell(row, t.cols[i].Name(), v); err != nil {
			return err
		}
	}
	return nil
}

// Cell returns the value at row for the named column, false when missing.
func (t *Table) Cell(row int, name string) (any, bool) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, false
	}
	return c.Value(row)
}

// SetCell sets a single cell value by name (row must exist).
func (t *Table) SetCell(row int, name string, v any) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	c := t.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool, got %T", name, v)
		}
		col.Set(row, b)
	case *IntColumn:
		switch x := v.(type) {
		case int:
			col.Set(row, int64(x))
		case int32:
			col.Set(row, int64(x))
		case int64:
			col.Set(row, x)
		default:
			return fmt.Errorf("column %s expects int64, got %T", name, v)
		}
	case *FloatColumn:
		switch x := v.(type) {
		case float32:
			col.Set(row, float64(x))
		case float64:
			col.Set(row, x)
		case int:
			col.Set(row, float64(x))
		case int64:
			col.Set(row, float64(x))
		default:
			return fmt.Errorf("column %s expects float64, got %T", name, v)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string, got %T", name, v)
		}
		col.Set(row, s)
	case *TimeColumn:
		tm, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time, got %T", name, v)
		}
		col.Set(row, tm)
	default:
		return fmt.Errorf("column %s: unknown column kind", name)
	}
	return nil
}

// Take returns a new table holding the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{schema: t.schema, cols: make([]Column, len(t.cols)), index: t.index, nrows: len(idx)}
	for i, c := range t.cols {
		out.cols[i] = c.Take(idx)
	}
	return out
}

// Filter returns a new table with the rows where keep is true.
func (t *Table) Filter(keep []bool) *Table {
	idx := make([]int, 0, t.nrows)
	for i := 0; i < t.nrows; i++ {
		if keep[i] {
			idx = append(idx, i)
		}
	}
	return t.Take(idx)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	idx := make([]int, t.nrows)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}

// ReplaceColumn swaps in c for the existing column of the same name. The kind
// may change; the length may not.
func (t *Table) ReplaceColumn(c Column) error {
	i, ok := t.index[c.Name()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, c.Name())
	}
	if c.Len() != t.nrows {
		return fmt.Errorf("replace column %s: got %d rows, want %d", c.Name(), c.Len(), t.nrows)
	}
	cols := make([]ColumnSchema, len(t.schema.Columns))
	copy(cols, t.schema.Columns)
	cols[i].Type = c.Kind()
	t.schema = Schema{Columns: cols}
	t.cols[i] = c
	return nil
}
