package plotting

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
)

// Histogram plots the distribution of a numeric column.
func Histogram(t *dl.Table, col, path string, opt Options) error {
	vals, valid, err := numeric(t, col)
	if err != nil {
		return err
	}
	x := stats.Present(vals, valid)
	if len(x) == 0 {
		return fmt.Errorf("%w: %s has no values", ErrNoData, col)
	}
	opt = opt.withDefaults("Histogram", col, "Frequency")
	p := newPlot(opt)
	h, err := plotter.NewHist(plotter.Values(x), opt.Bins)
	if err != nil {
		return err
	}
	h.FillColor = opt.Color
	p.Add(h)
	return save(p, opt, path)
}

// Scatter plots y against x over the rows where both are present.
func Scatter(t *dl.Table, x, y, path string, opt Options) error {
	pts, err := pairs(t, x, y)
	if err != nil {
		return err
	}
	opt = opt.withDefaults("Scatter Plot", x, y)
	p := newPlot(opt)
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = opt.Color
	p.Add(s)
	return save(p, opt, path)
}

func pairs(t *dl.Table, x, y string) (plotter.XYs, error) {
	xv, xm, err := numeric(t, x)
	if err != nil {
		return nil, err
	}
	yv, ym, err := numeric(t, y)
	if err != nil {
		return nil, err
	}
	var pts plotter.XYs
	for i := range xv {
		if xm[i] && ym[i] {
			pts = append(pts, plotter.XY{X: xv[i], Y: yv[i]})
		}
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no rows with both %s and %s", ErrNoData, x, y)
	}
	return pts, nil
}

// BoxPlot draws a box and whisker plot of a numeric column.
func BoxPlot(t *dl.Table, col, path string, opt Options) error {
	vals, valid, err := numeric(t, col)
	if err != nil {
		return err
	}
	x := stats.Present(vals, valid)
	if len(x) == 0 {
		return fmt.Errorf("%w: %s has no values", ErrNoData, col)
	}
	opt = opt.withDefaults("Box Plot", "", col)
	p := newPlot(opt)
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(x))
	if err != nil {
		return err
	}
	b.FillColor = opt.Color
	p.Add(b)
	p.NominalX(col)
	return save(p, opt, path)
}

type count struct {
	label string
	n     int
}

// valueCounts tallies the present cells of any column, most frequent first.
func valueCounts(c dl.Column) []count {
	idx := make(map[string]int)
	var out []count
	for i := 0; i < c.Len(); i++ {
		s, ok := dl.FormatCell(c, i)
		if !ok {
			continue
		}
		j, seen := idx[s]
		if !seen {
			j = len(out)
			idx[s] = j
			out = append(out, count{label: s})
		}
		out[j].n++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].n > out[b].n })
	return out
}

// BarChart plots the value counts of a column, most frequent first.
func BarChart(t *dl.Table, col, path string, opt Options) error {
	c, err := column(t, col)
	if err != nil {
		return err
	}
	counts := valueCounts(c)
	if len(counts) == 0 {
		return fmt.Errorf("%w: %s has no values", ErrNoData, col)
	}
	opt = opt.withDefaults("Bar Chart", col, "Count")
	p := newPlot(opt)
	vals := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, cnt := range counts {
		vals[i] = float64(cnt.n)
		labels[i] = cnt.label
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = opt.Color
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.8
	return save(p, opt, path)
}

// LineChart plots y against x with point markers, ordered by x. The x column
// may be numeric or time; time axes get date ticks.
func LineChart(t *dl.Table, x, y, path string, opt Options) error {
	xc, err := column(t, x)
	if err != nil {
		return err
	}
	var pts plotter.XYs
	if tc, ok := xc.(*dl.TimeColumn); ok {
		yv, ym, err := numeric(t, y)
		if err != nil {
			return err
		}
		for i := range yv {
			if tm, present := tc.Get(i); present && ym[i] {
				pts = append(pts, plotter.XY{X: float64(tm.Unix()), Y: yv[i]})
			}
		}
		if len(pts) == 0 {
			return fmt.Errorf("%w: no rows with both %s and %s", ErrNoData, x, y)
		}
	} else if pts, err = pairs(t, x, y); err != nil {
		return err
	}
	sort.SliceStable(pts, func(a, b int) bool { return pts[a].X < pts[b].X })

	opt = opt.withDefaults("Line Chart", x, y)
	p := newPlot(opt)
	if xc.Kind() == dl.KindTime {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
	line, marks, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = opt.Color
	marks.Color = opt.Color
	p.Add(line, marks)
	return save(p, opt, path)
}
