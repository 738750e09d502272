package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// wedges is a plot.Plotter drawing a pie with percent labels.
type wedges struct {
	labels []string
	values []float64
	colors []color.Color
}

func (w *wedges) DataRange() (xmin, xmax, ymin, ymax float64) { return -1, 1, -1, 1 }

func (w *wedges) Plot(c draw.Canvas, plt *plot.Plot) {
	var total float64
	for _, v := range w.values {
		total += v
	}
	cx := (c.Min.X + c.Max.X) / 2
	cy := (c.Min.Y + c.Max.Y) / 2
	r := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < r {
		r = h
	}
	r *= 0.4

	sty := plt.X.Tick.Label
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	start := math.Pi / 2
	for i, v := range w.values {
		sweep := 2 * math.Pi * v / total
		steps := int(math.Ceil(sweep/0.05)) + 1
		pts := []vg.Point{{X: cx, Y: cy}}
		for s := 0; s <= steps; s++ {
			a := start - sweep*float64(s)/float64(steps)
			pts = append(pts, vg.Point{X: cx + r*vg.Length(math.Cos(a)), Y: cy + r*vg.Length(math.Sin(a))})
		}
		c.FillPolygon(w.colors[i], pts)

		mid := start - sweep/2
		at := vg.Point{X: cx + 0.65*r*vg.Length(math.Cos(mid)), Y: cy + 0.65*r*vg.Length(math.Sin(mid))}
		c.FillText(sty, at, fmt.Sprintf("%.1f%%", 100*v/total))
		out := vg.Point{X: cx + 1.15*r*vg.Length(math.Cos(mid)), Y: cy + 1.15*r*vg.Length(math.Sin(mid))}
		c.FillText(sty, out, w.labels[i])
		start -= sweep
	}
}

// PieChart draws the share of each distinct value of a column.
func PieChart(t *dl.Table, col, path string, opt Options) error {
	c, err := column(t, col)
	if err != nil {
		return err
	}
	counts := valueCounts(c)
	if len(counts) == 0 {
		return fmt.Errorf("%w: %s has no values", ErrNoData, col)
	}
	opt = opt.withDefaults("Pie Chart", "", "")
	if opt.Width == 6*vg.Inch && opt.Height == 4*vg.Inch {
		opt.Width, opt.Height = 6*vg.Inch, 6*vg.Inch
	}
	w := &wedges{}
	for i, cnt := range counts {
		w.labels = append(w.labels, cnt.label)
		w.values = append(w.values, float64(cnt.n))
		w.colors = append(w.colors, plotutil.Color(i))
	}
	p := newPlot(opt)
	p.HideAxes()
	p.Add(w)
	return save(p, opt, path)
}
