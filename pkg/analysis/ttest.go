package analysis

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	dstats "github.com/wdm0006/datalib/pkg/stats"
)

type TTestResult struct {
	T   float64
	P   float64 // two-sided
	DoF float64
	N1  int
	N2  int
}

// TTest compares the means of two columns with an independent two-sample
// t-test: Student's when equalVar is set, Welch's otherwise. Missing cells
// are left out.
func TTest(t *dl.Table, col1, col2 string, equalVar bool) (*TTestResult, error) {
	v1, m1, err := numeric(t, col1)
	if err != nil {
		return nil, err
	}
	v2, m2, err := numeric(t, col2)
	if err != nil {
		return nil, err
	}
	x1 := &stats.Sample{Xs: dstats.Present(v1, m1)}
	x2 := &stats.Sample{Xs: dstats.Present(v2, m2)}
	var res *stats.TTestResult
	if equalVar {
		res, err = stats.TwoSampleTTest(x1, x2, stats.LocationDiffers)
	} else {
		res, err = stats.TwoSampleWelchTTest(x1, x2, stats.LocationDiffers)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: t-test %s vs %s: %v", ErrInsufficientData, col1, col2, err)
	}
	return &TTestResult{T: res.T, P: res.P, DoF: res.DoF, N1: res.N1, N2: res.N2}, nil
}
