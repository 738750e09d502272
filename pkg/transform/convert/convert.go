// Package convert casts a column to another kind.
package convert

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// ErrConversion marks a value that could not be cast. It is operational: the
// column is left as it was and later steps still run.
var ErrConversion = fmt.Errorf("%w: conversion failed", dl.ErrOperational)

// Column converts every present cell of Column to Type. Missing cells stay
// missing. Type accepts the names understood by datalib.ParseKind.
type Column struct {
	Column string
	Type   string
}

func (t *Column) Name() string   { return "convert_type" }
func (t *Column) Target() string { return t.Column }

func (t *Column) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	kind, err := dl.ParseKind(t.Type)
	if err != nil {
		return nil, &dl.StepError{Step: t.Name(), Column: t.Column, Err: err}
	}
	src, ok := tb.ColumnByName(t.Column)
	if !ok {
		return tb, dl.Errorf(t.Name(), t.Column, "%w: no such column", ErrConversion)
	}
	if src.Kind() == kind {
		return tb, nil
	}
	dst, _ := dl.NewColumn(t.Column, kind, src.Len())
	for i := 0; i < src.Len(); i++ {
		v, present := src.Value(i)
		if !present {
			continue
		}
		if err := set(dst, i, v); err != nil {
			return tb, dl.Errorf(t.Name(), t.Column, "%w: row %d: %v", ErrConversion, i, err)
		}
	}
	if err := tb.ReplaceColumn(dst); err != nil {
		return tb, dl.Errorf(t.Name(), t.Column, "%w: %v", ErrConversion, err)
	}
	return tb, nil
}

// wholeInt64 reports whether f is a whole number int64 can hold.
func wholeInt64(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func set(dst dl.Column, i int, v any) error {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	switch c := dst.(type) {
	case *dl.FloatColumn:
		if tm, ok := v.(time.Time); ok {
			v = tm.Unix()
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		c.Set(i, f)
	case *dl.IntColumn:
		if tm, ok := v.(time.Time); ok {
			v = tm.Unix()
		}
		if f, ok := v.(float64); ok {
			if !wholeInt64(f) {
				return fmt.Errorf("%v is not a whole number", f)
			}
		}
		if s, ok := v.(string); ok {
			// cast truncates "1.5" to 1; only whole numbers convert.
			if f, err := cast.ToFloat64E(s); err == nil {
				if !wholeInt64(f) {
					return fmt.Errorf("%q is not a whole number", s)
				}
				v = f
			}
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		c.Set(i, n)
	case *dl.StringColumn:
		if tm, ok := v.(time.Time); ok {
			c.Set(i, tm.Format(dl.TimeLayout))
			return nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		c.Set(i, s)
	case *dl.BoolColumn:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		c.Set(i, b)
	case *dl.TimeColumn:
		tm, err := cast.ToTimeE(v)
		if err != nil {
			return err
		}
		c.Set(i, tm)
	default:
		return fmt.Errorf("unsupported target %s", dst.Kind())
	}
	return nil
}
