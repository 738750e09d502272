// Package validate checks column selectors before a transform touches data.
package validate

import (
	"fmt"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// Columns fails with ErrUnknownColumn on the first name t does not have.
func Columns(t *dl.Table, step string, names ...string) error {
	for _, n := range names {
		if _, ok := t.ColumnByName(n); !ok {
			return &dl.StepError{Step: step, Column: n, Err: dl.ErrUnknownColumn}
		}
	}
	return nil
}

// Numeric returns the named column when it exists and is int or float.
func Numeric(t *dl.Table, step, name string) (dl.Column, error) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, &dl.StepError{Step: step, Column: name, Err: dl.ErrUnknownColumn}
	}
	if !c.Kind().Numeric() {
		return nil, dl.Errorf(step, name, "%w: want numeric, got %s", dl.ErrColumnKind, c.Kind())
	}
	return c, nil
}

// Text returns the named column when it exists and holds strings.
func Text(t *dl.Table, step, name string) (*dl.StringColumn, error) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, &dl.StepError{Step: step, Column: name, Err: dl.ErrUnknownColumn}
	}
	sc, ok := c.(*dl.StringColumn)
	if !ok {
		return nil, dl.Errorf(step, name, "%w: want string, got %s", dl.ErrColumnKind, c.Kind())
	}
	return sc, nil
}

// OneOf fails with a configuration error when v is not among allowed.
func OneOf(step, option, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return &dl.StepError{Step: step, Err: fmt.Errorf("%w: invalid %s %q (want one of %v)", dl.ErrConfiguration, option, v, allowed)}
}
