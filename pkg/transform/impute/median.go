package impute

import (
	"context"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
)

type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, tb *dl.Table) (*dl.Table, error) {
	return fillNumeric(tb, t.Name(), t.Column, stats.Median)
}
