// Package golearn converts between Tables and golearn DenseInstances.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// ToDenseInstances converts t into golearn instances. Numeric columns become
// float attributes with NaN for missing cells; every other column becomes a
// categorical attribute. When class is set, that column is the class
// attribute.
func ToDenseInstances(t *dl.Table, class string) (*base.DenseInstances, error) {
	cols := t.Columns()
	attrs := make([]base.Attribute, len(cols))
	for i, c := range cols {
		if c.Kind().Numeric() {
			attrs[i] = base.NewFloatAttribute(c.Name())
			continue
		}
		ca := new(base.CategoricalAttribute)
		ca.SetName(c.Name())
		attrs[i] = ca
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(t.Rows()); err != nil {
		return nil, err
	}

	nan := base.PackFloatToBytes(math.NaN())
	for c, col := range cols {
		if vals, valid, ok := dl.NumericValues(col); ok {
			for r, v := range vals {
				if valid[r] {
					inst.Set(specs[c], r, base.PackFloatToBytes(v))
				} else {
					inst.Set(specs[c], r, nan)
				}
			}
			continue
		}
		for r := 0; r < col.Len(); r++ {
			s, ok := dl.FormatCell(col, r)
			if !ok {
				s = ""
			}
			inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
		}
	}

	if class != "" {
		idx := -1
		for i, c := range cols {
			if c.Name() == class {
				idx = i
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: class %q", dl.ErrUnknownColumn, class)
		}
		if err := inst.AddClassAttribute(attrs[idx]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn instances into a Table. Float
// attributes become float columns with NaN read as missing; categorical
// attributes become string columns with empty values read as missing.
func FromDenseInstances(inst *base.DenseInstances) (*dl.Table, error) {
	attrs := inst.AllAttributes()
	schema := dl.Schema{Columns: make([]dl.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := dl.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = dl.KindFloat
		}
		schema.Columns[i] = dl.ColumnSchema{Name: a.GetName(), Type: k}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	t := dl.New(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		t.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == dl.KindFloat {
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					_ = t.SetCell(r, cs.Name, v)
				}
				continue
			}
			if s := attrs[c].GetStringFromSysVal(raw); s != "" {
				_ = t.SetCell(r, cs.Name, s)
			}
		}
	}
	return t, nil
}
