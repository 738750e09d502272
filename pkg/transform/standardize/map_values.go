package standardize

import (
	"context"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/transform/validate"
)

// MapValues recodes cells found in Map; other cells are left alone.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string   { return "map_values" }
func (t *MapValues) Target() string { return t.Column }

func (t *MapValues) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	c, err := validate.Text(tb, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	eachText(c, func(v string) string {
		if nv, ok := t.Map[v]; ok {
			return nv
		}
		return v
	})
	return tb, nil
}
