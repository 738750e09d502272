package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

type ANOVAResult struct {
	F      float64
	P      float64
	DFB    float64 // between groups
	DFW    float64 // within groups
	Groups []string
}

// ANOVA runs a one-way analysis of variance of value across the groups of
// group. Groups keep first-appearance order; rows missing either cell are
// left out.
func ANOVA(t *dl.Table, value, group string) (*ANOVAResult, error) {
	vals, valid, err := numeric(t, value)
	if err != nil {
		return nil, err
	}
	gc, ok := t.ColumnByName(group)
	if !ok {
		return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidArgument, group)
	}
	var order []string
	groups := make(map[string][]float64)
	for r := range vals {
		key, present := dl.FormatCell(gc, r)
		if !valid[r] || !present {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], vals[r])
	}
	k := len(order)
	n := 0
	var grand float64
	for _, g := range groups {
		n += len(g)
		for _, v := range g {
			grand += v
		}
	}
	if k < 2 || n <= k {
		return nil, fmt.Errorf("%w: anova needs at least two groups and more rows than groups", ErrInsufficientData)
	}
	grand /= float64(n)
	var ssb, ssw float64
	for _, g := range groups {
		var m float64
		for _, v := range g {
			m += v
		}
		m /= float64(len(g))
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	res := &ANOVAResult{DFB: float64(k - 1), DFW: float64(n - k), Groups: order}
	res.F = (ssb / res.DFB) / (ssw / res.DFW)
	res.P = 1 - distuv.F{D1: res.DFB, D2: res.DFW}.CDF(res.F)
	return res, nil
}
