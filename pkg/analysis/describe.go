package analysis

import (
	"math"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
)

// Summary holds the descriptive statistics of one column. Std is the sample
// standard deviation; quartiles interpolate linearly between ranks.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Describe summarizes cols, or every numeric column when cols is nil.
// Missing cells are left out; a column with no values gets NaN statistics.
func Describe(t *dl.Table, cols []string) ([]Summary, error) {
	cols, err := selectNumeric(t, cols)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(cols))
	for _, name := range cols {
		vals, valid, _ := numeric(t, name)
		x := stats.Present(vals, valid)
		s := Summary{Column: name, Count: len(x)}
		if len(x) == 0 {
			nan := math.NaN()
			s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, s)
			continue
		}
		s.Mean = stats.Mean(x)
		s.Std = stats.SampleStd(x)
		s.Min, s.Max = stats.MinMax(x)
		s.Q25 = stats.Quantile(x, 0.25)
		s.Q50 = stats.Quantile(x, 0.5)
		s.Q75 = stats.Quantile(x, 0.75)
		out = append(out, s)
	}
	return out, nil
}
