package plotting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/stats"
)

const tileSize = 2 * vg.Inch

// PairPlot draws a grid with a histogram of each column on the diagonal and
// pairwise scatter plots elsewhere. cols nil means every numeric column.
// With hue set, points are colored by that column's values.
func PairPlot(t *dl.Table, cols []string, hue, path string, opt Options) error {
	if cols == nil {
		for _, c := range t.Columns() {
			if c.Kind().Numeric() && c.Name() != hue {
				cols = append(cols, c.Name())
			}
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("%w: no numeric columns", ErrNoData)
	}
	vals := make([][]float64, len(cols))
	masks := make([][]bool, len(cols))
	for i, name := range cols {
		var err error
		if vals[i], masks[i], err = numeric(t, name); err != nil {
			return err
		}
	}
	groups := []string{""}
	group := make([]int, t.Rows())
	if hue != "" {
		hc, err := column(t, hue)
		if err != nil {
			return err
		}
		groups = groups[:0]
		idx := make(map[string]int)
		for r := range group {
			key, ok := dl.FormatCell(hc, r)
			if !ok {
				group[r] = -1
				continue
			}
			g, seen := idx[key]
			if !seen {
				g = len(groups)
				idx[key] = g
				groups = append(groups, key)
			}
			group[r] = g
		}
	}

	opt = opt.withDefaults("Pair Plot", "", "")
	n := len(cols)
	grid := make([][]*plot.Plot, n)
	for i := range grid {
		grid[i] = make([]*plot.Plot, n)
		for j := range grid[i] {
			p := plot.New()
			if i == n-1 {
				p.X.Label.Text = cols[j]
			}
			if j == 0 {
				p.Y.Label.Text = cols[i]
			}
			if i == j {
				x := stats.Present(vals[i], masks[i])
				if len(x) > 0 {
					h, err := plotter.NewHist(plotter.Values(x), opt.Bins)
					if err != nil {
						return err
					}
					h.FillColor = opt.Color
					p.Add(h)
				}
			} else if err := addScatter(p, vals[j], masks[j], vals[i], masks[i], group, groups); err != nil {
				return err
			}
			grid[i][j] = p
		}
	}

	w, h := tileSize*vg.Length(n), tileSize*vg.Length(n)
	if opt.Width > w {
		w = opt.Width
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return err
	}
	dc := draw.New(c)
	sty := plot.New().Title.TextStyle
	sty.XAlign, sty.YAlign = text.XCenter, text.YCenter
	titleH := sty.Height(opt.Title) * 2
	dc.FillText(sty, vg.Point{X: w / 2, Y: h - titleH/2}, opt.Title)
	dc.Max.Y -= titleH
	tiles := draw.Tiles{Rows: n, Cols: n, PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter, PadLeft: vg.Millimeter, PadRight: vg.Millimeter}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		for j := range grid[i] {
			grid[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

func addScatter(p *plot.Plot, xv []float64, xm []bool, yv []float64, ym []bool, group []int, groups []string) error {
	pts := make([]plotter.XYs, len(groups))
	for r := range xv {
		if xm[r] && ym[r] && group[r] >= 0 {
			pts[group[r]] = append(pts[group[r]], plotter.XY{X: xv[r], Y: yv[r]})
		}
	}
	for g, xy := range pts {
		if len(xy) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xy)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(g)
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		if groups[g] != "" {
			p.Legend.Add(groups[g], s)
		}
	}
	return nil
}
