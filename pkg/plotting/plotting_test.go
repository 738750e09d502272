package plotting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/datalib/pkg/analysis"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func sample(t *testing.T) *dl.Table {
	t.Helper()
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "x", Type: dl.KindFloat},
		{Name: "y", Type: dl.KindFloat},
		{Name: "n", Type: dl.KindInt},
		{Name: "kind", Type: dl.KindString},
		{Name: "day", Type: dl.KindTime},
	}})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kinds := []string{"a", "b", "a", "c", "a", "b"}
	for i := 0; i < 12; i++ {
		var y any = float64(i*i) / 3
		if i == 5 {
			y = nil
		}
		require.NoError(t, tb.AppendRow(float64(i), y, int64(i%4), kinds[i%len(kinds)], base.AddDate(0, 0, 11-i)))
	}
	return tb
}

func assertWritten(t *testing.T, path string) {
	t.Helper()
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestCharts(t *testing.T) {
	tb := sample(t)
	dir := t.TempDir()
	charts := []struct {
		name string
		draw func(path string) error
	}{
		{"hist.png", func(p string) error { return Histogram(tb, "y", p, Options{Bins: 5}) }},
		{"scatter.svg", func(p string) error { return Scatter(tb, "x", "y", p, Options{}) }},
		{"box.png", func(p string) error { return BoxPlot(tb, "n", p, Options{Title: "n"}) }},
		{"bar.png", func(p string) error { return BarChart(tb, "kind", p, Options{}) }},
		{"line.png", func(p string) error { return LineChart(tb, "x", "y", p, Options{}) }},
		{"line_time.pdf", func(p string) error { return LineChart(tb, "day", "x", p, Options{}) }},
		{"pie.png", func(p string) error { return PieChart(tb, "kind", p, Options{}) }},
		{"heat.png", func(p string) error { return CorrelationHeatmap(tb, analysis.Spearman, nil, p, Options{}) }},
		{"pair.png", func(p string) error { return PairPlot(tb, []string{"x", "y"}, "kind", p, Options{}) }},
		{"pair_all.svg", func(p string) error { return PairPlot(tb, nil, "", p, Options{}) }},
	}
	for _, c := range charts {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, c.name)
			require.NoError(t, c.draw(path))
			assertWritten(t, path)
		})
	}
}

func TestChartErrors(t *testing.T) {
	tb := sample(t)
	dir := t.TempDir()
	err := Histogram(tb, "nope", filepath.Join(dir, "a.png"), Options{})
	assert.True(t, errors.Is(err, dl.ErrUnknownColumn))
	err = Scatter(tb, "x", "kind", filepath.Join(dir, "b.png"), Options{})
	assert.True(t, errors.Is(err, ErrNotNumeric))

	empty := dl.New(dl.Schema{Columns: []dl.ColumnSchema{{Name: "x", Type: dl.KindFloat}}})
	empty.AppendNullRow()
	err = BoxPlot(empty, "x", filepath.Join(dir, "c.png"), Options{})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestValueCountsOrder(t *testing.T) {
	c, _ := sample(t).ColumnByName("kind")
	got := valueCounts(c)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].label)
	assert.Equal(t, 6, got[0].n)
	assert.Equal(t, "b", got[1].label)
	assert.Equal(t, "c", got[2].label)
}
