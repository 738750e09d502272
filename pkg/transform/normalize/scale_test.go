package normalize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func makeTable(t *testing.T) *dl.Table {
	t.Helper()
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "a", Type: dl.KindInt},
		{Name: "b", Type: dl.KindFloat},
		{Name: "s", Type: dl.KindString},
	}})
	rows := [][]any{
		{int64(0), 5.0, "x"},
		{int64(5), 5.0, "y"},
		{nil, nil, "z"},
		{int64(10), 5.0, "w"},
	}
	for _, r := range rows {
		require.NoError(t, tb.AppendRow(r...))
	}
	return tb
}

func TestStandard(t *testing.T) {
	out, err := (&Scale{Columns: []string{"a"}, Method: Standard}).Apply(context.Background(), makeTable(t))
	require.NoError(t, err)
	col, _ := out.ColumnByName("a")
	c, ok := col.(*dl.FloatColumn)
	require.True(t, ok, "int column should be promoted")
	sd := math.Sqrt(50.0 / 3)
	v0, _ := c.Get(0)
	v1, _ := c.Get(1)
	v3, _ := c.Get(3)
	assert.InDelta(t, -5/sd, v0, 1e-12)
	assert.InDelta(t, 0, v1, 1e-12)
	assert.InDelta(t, 5/sd, v3, 1e-12)
	assert.True(t, c.IsNull(2))
}

func TestMinMax(t *testing.T) {
	out, err := (&Scale{Columns: []string{"a", "b"}, Method: MinMax}).Apply(context.Background(), makeTable(t))
	require.NoError(t, err)
	a, _ := out.Cell(1, "a")
	assert.Equal(t, 0.5, a)
	for _, row := range []int{0, 1, 3} {
		b, _ := out.Cell(row, "b")
		assert.Equal(t, 0.0, b, "constant column maps to zero")
	}
}

func TestScaleErrors(t *testing.T) {
	_, err := (&Scale{Columns: []string{"a"}, Method: "robust"}).Apply(context.Background(), makeTable(t))
	assert.ErrorIs(t, err, ErrInvalidMethod)
	_, err = (&Scale{Columns: []string{"s"}, Method: Standard}).Apply(context.Background(), makeTable(t))
	assert.ErrorIs(t, err, dl.ErrColumnKind)
	_, err = (&Scale{Columns: []string{"q"}, Method: Standard}).Apply(context.Background(), makeTable(t))
	assert.ErrorIs(t, err, dl.ErrUnknownColumn)
}
