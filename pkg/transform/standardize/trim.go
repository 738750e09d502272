package standardize

import (
	"context"
	"strings"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

type Trim struct{ Column string }

func (t *Trim) Name() string   { return "trim" }
func (t *Trim) Target() string { return t.Column }

func (t *Trim) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	c, err := validate.Text(tb, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	eachText(c, strings.TrimSpace)
	return tb, nil
}
