package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/wdm0006/datalib/pkg/analysis"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// corrGrid lays a correlation matrix out with the first column at the top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { n := len(g.m.Names); return n, n }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(len(g.m.Names)-1-r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws the correlation matrix of cols (every numeric
// column when nil) on a blue-red scale, each cell annotated with its value.
func CorrelationHeatmap(t *dl.Table, method analysis.CorrMethod, cols []string, path string, opt Options) error {
	m, err := analysis.Correlation(t, method, cols)
	if err != nil {
		return err
	}
	n := len(m.Names)
	opt = opt.withDefaults("Correlation Matrix", "", "")
	if opt.Width == 6*vg.Inch && opt.Height == 4*vg.Inch {
		opt.Width, opt.Height = 7*vg.Inch, 6*vg.Inch
	}
	p := newPlot(opt)

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	var xys plotter.XYs
	var labels []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.At(n-1-r, c)
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			if math.IsNaN(v) {
				labels = append(labels, "NaN")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = text.XCenter
		lbl.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(lbl)

	rev := make([]string, n)
	for i, name := range m.Names {
		rev[n-1-i] = name
	}
	p.NominalX(m.Names...)
	p.NominalY(rev...)
	return save(p, opt, path)
}
