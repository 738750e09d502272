package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func table(t *testing.T, cols map[string][]any, order ...string) *dl.Table {
	t.Helper()
	schema := dl.Schema{}
	for _, name := range order {
		k := dl.KindFloat
		if len(cols[name]) > 0 {
			if _, ok := cols[name][0].(string); ok {
				k = dl.KindString
			}
		}
		schema.Columns = append(schema.Columns, dl.ColumnSchema{Name: name, Type: k})
	}
	tb := dl.New(schema)
	n := len(cols[order[0]])
	for r := 0; r < n; r++ {
		row := make([]any, len(order))
		for i, name := range order {
			row[i] = cols[name][r]
		}
		require.NoError(t, tb.AppendRow(row...))
	}
	return tb
}

func TestDescribe(t *testing.T) {
	tb := table(t, map[string][]any{
		"x": {1.0, 2.0, 3.0, 4.0, nil},
		"s": {"a", "b", "c", "d", "e"},
	}, "x", "s")
	got, err := Describe(tb, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "x", d.Column)
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), d.Std, 1e-12)
	assert.Equal(t, 1.0, d.Min)
	assert.InDelta(t, 1.75, d.Q25, 1e-12)
	assert.InDelta(t, 3.25, d.Q75, 1e-12)
	assert.Equal(t, 4.0, d.Max)

	_, err = Describe(table(t, map[string][]any{"s": {"a"}}, "s"), nil)
	assert.True(t, errors.Is(err, ErrNoNumericColumns))
	assert.Equal(t, dl.ClassOperational, dl.ClassOf(err))
}

func TestCorrelation(t *testing.T) {
	tb := table(t, map[string][]any{
		"x": {1.0, 2.0, 3.0, 4.0, 5.0},
		"y": {2.0, 4.0, 6.0, 8.0, 10.0},
		"z": {1.0, 8.0, 27.0, 64.0, 125.0},
		"w": {5.0, 4.0, 3.0, 2.0, 1.0},
	}, "x", "y", "z", "w")

	m, err := Correlation(tb, Pearson, nil)
	require.NoError(t, err)
	r, _ := m.Get("x", "y")
	assert.InDelta(t, 1, r, 1e-12)
	r, _ = m.Get("x", "w")
	assert.InDelta(t, -1, r, 1e-12)
	r, _ = m.Get("x", "z")
	assert.Less(t, r, 1.0)

	m, err = Correlation(tb, Spearman, []string{"x", "z"})
	require.NoError(t, err)
	r, _ = m.Get("x", "z")
	assert.InDelta(t, 1, r, 1e-12)

	m, err = Correlation(tb, Kendall, []string{"x", "w"})
	require.NoError(t, err)
	r, _ = m.Get("w", "x")
	assert.InDelta(t, -1, r, 1e-12)

	_, err = Correlation(tb, "cosine", nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestKendallTies(t *testing.T) {
	// concordant 4, discordant 1, tied in x 1 => (4-1)/sqrt(6*5)
	x := []float64{1, 1, 2, 3}
	y := []float64{1, 2, 3, 2.5}
	assert.InDelta(t, 3/math.Sqrt(30), kendallTauB(x, y), 1e-12)
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	tb := table(t, map[string][]any{
		"x": {1.0, 2.0, nil, 4.0},
		"y": {1.0, 2.0, 100.0, 4.0},
	}, "x", "y")
	m, err := Correlation(tb, Pearson, nil)
	require.NoError(t, err)
	r, _ := m.Get("x", "y")
	assert.InDelta(t, 1, r, 1e-12)
}

func TestTTest(t *testing.T) {
	tb := table(t, map[string][]any{
		"a": {1.0, 2.0, 3.0, 4.0, 5.0},
		"b": {6.0, 7.0, 8.0, 9.0, 10.0},
	}, "a", "b")
	res, err := TTest(tb, "a", "b", true)
	require.NoError(t, err)
	assert.InDelta(t, -5, res.T, 1e-9)
	assert.InDelta(t, 8, res.DoF, 1e-9)
	assert.Less(t, res.P, 0.01)

	welch, err := TTest(tb, "a", "b", false)
	require.NoError(t, err)
	assert.InDelta(t, -5, welch.T, 1e-9)

	_, err = TTest(tb, "a", "nope", true)
	assert.Error(t, err)
}

func TestANOVA(t *testing.T) {
	tb := table(t, map[string][]any{
		"v": {1.0, 2.0, 3.0, 5.0, 6.0, 7.0, nil},
		"g": {"a", "a", "a", "b", "b", "b", "c"},
	}, "v", "g")
	res, err := ANOVA(tb, "v", "g")
	require.NoError(t, err)
	// group means 2 and 6, ssb 24, ssw 4
	assert.InDelta(t, 24.0, res.F, 1e-9)
	assert.Equal(t, []string{"a", "b"}, res.Groups)
	assert.Equal(t, 1.0, res.DFB)
	assert.Equal(t, 4.0, res.DFW)
	assert.Less(t, res.P, 0.01)

	_, err = ANOVA(tb, "v", "missing")
	assert.Error(t, err)
}

func TestOLSRecoversLine(t *testing.T) {
	tb := table(t, map[string][]any{
		"x": {0.0, 1.0, 2.0, 3.0, 4.0, 5.0},
		"y": {1.1, 2.9, 5.1, 6.9, 9.1, 10.9},
	}, "x", "y")
	res, err := OLS(tb, "y", []string{"x"}, true)
	require.NoError(t, err)
	c, ok := res.Coef(ConstName)
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Value, 0.2)
	slope, _ := res.Coef("x")
	assert.InDelta(t, 2.0, slope.Value, 0.05)
	assert.Less(t, slope.P, 0.001)
	assert.Greater(t, res.RSquared, 0.99)
	assert.Less(t, res.AdjRSquared, res.RSquared)
	assert.Contains(t, res.Summary(), "const")
}

func TestOLSErrors(t *testing.T) {
	tb := table(t, map[string][]any{
		"x": {1.0, 2.0, 3.0},
		"z": {2.0, 4.0, 6.0},
		"y": {1.0, 2.0, 4.0},
	}, "x", "z", "y")
	_, err := OLS(tb, "y", []string{"x", "z"}, false)
	assert.True(t, errors.Is(err, ErrSingular))
	_, err = OLS(tb, "y", []string{"x", "z"}, true)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestKMeansTwoBlobs(t *testing.T) {
	x := []any{0.0, 0.1, 0.2, 0.1, 10.0, 10.1, 10.2, 9.9}
	y := []any{0.0, 0.2, 0.1, 0.1, 10.0, 10.2, 9.9, 10.1}
	tb := table(t, map[string][]any{"x": x, "y": y}, "x", "y")
	res, err := KMeans(tb, []string{"x", "y"}, 2, 42)
	require.NoError(t, err)
	for i := 1; i < 4; i++ {
		assert.Equal(t, res.Labels[0], res.Labels[i])
		assert.Equal(t, res.Labels[4], res.Labels[4+i])
	}
	assert.NotEqual(t, res.Labels[0], res.Labels[4])
	assert.Greater(t, res.Silhouette, 0.9)

	_, err = KMeans(tb, []string{"x"}, 8, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
