// Package standardize rewrites text cells.
package standardize

import (
	"context"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Lower struct{ Column string }

func (t *Lower) Name() string   { return "lower" }
func (t *Lower) Target() string { return t.Column }

func (t *Lower) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	c, err := validate.Text(tb, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	eachText(c, cases.Lower(language.Und).String)
	return tb, nil
}

// eachText replaces every present cell v of c with fn(v).
func eachText(c *dl.StringColumn, fn func(string) string) {
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		c.Set(i, fn(v))
	}
}
