// Package plotting renders standard charts of Table columns to image files.
// The file extension picks the output format (png, jpg, svg, pdf, eps, tif).
package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

var (
	ErrNoData     = fmt.Errorf("%w: nothing to plot", dl.ErrOperational)
	ErrNotNumeric = fmt.Errorf("%w: column is not numeric", dl.ErrOperational)
)

// Options tune a chart. Zero values fall back to chart defaults: the title
// names the chart, axis labels name the columns, 6x4 inches, 10 bins.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	Bins   int
	Color  color.Color
}

func (o Options) withDefaults(title, x, y string) Options {
	if o.Title == "" {
		o.Title = title
	}
	if o.XLabel == "" {
		o.XLabel = x
	}
	if o.YLabel == "" {
		o.YLabel = y
	}
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 4 * vg.Inch
	}
	if o.Bins <= 0 {
		o.Bins = 10
	}
	if o.Color == nil {
		o.Color = plotutil.Color(0)
	}
	return o
}

func newPlot(o Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	return p
}

func save(p *plot.Plot, o Options, path string) error {
	if err := p.Save(o.Width, o.Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func column(t *dl.Table, name string) (dl.Column, error) {
	c, ok := t.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", dl.ErrUnknownColumn, name)
	}
	return c, nil
}

// numeric returns the values and validity of a numeric column. NaN cells
// count as missing.
func numeric(t *dl.Table, name string) ([]float64, []bool, error) {
	c, err := column(t, name)
	if err != nil {
		return nil, nil, err
	}
	vals, valid, ok := dl.NumericValues(c)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, name, c.Kind())
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			valid[i] = false
		}
	}
	return vals, valid, nil
}
