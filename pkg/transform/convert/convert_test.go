package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func makeTable(t *testing.T) *dl.Table {
	t.Helper()
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "num", Type: dl.KindString},
		{Name: "when", Type: dl.KindString},
		{Name: "bad", Type: dl.KindString},
		{Name: "f", Type: dl.KindFloat},
	}})
	rows := [][]any{
		{"1.5", "2024-01-02", "7", 1.0},
		{nil, "2024-03-04T05:06:07Z", "seven", 2.5},
		{"3", nil, "8", nil},
	}
	for _, r := range rows {
		require.NoError(t, tb.AppendRow(r...))
	}
	return tb
}

func TestToFloat(t *testing.T) {
	out, err := (&Column{Column: "num", Type: "numeric"}).Apply(context.Background(), makeTable(t))
	require.NoError(t, err)
	col, _ := out.ColumnByName("num")
	assert.Equal(t, dl.KindFloat, col.Kind())
	v, _ := out.Cell(0, "num")
	assert.Equal(t, 1.5, v)
	assert.True(t, col.IsNull(1), "missing stays missing")
}

func TestToTime(t *testing.T) {
	out, err := (&Column{Column: "when", Type: "datetime"}).Apply(context.Background(), makeTable(t))
	require.NoError(t, err)
	v, ok := out.Cell(0, "when")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), v.(time.Time).UTC())
}

func TestToTextAndInt(t *testing.T) {
	tb := makeTable(t)
	out, err := (&Column{Column: "f", Type: "text"}).Apply(context.Background(), tb)
	require.NoError(t, err)
	v, _ := out.Cell(1, "f")
	assert.Equal(t, "2.5", v)

	out, err = (&Column{Column: "num", Type: "int"}).Apply(context.Background(), makeTable(t))
	assert.ErrorIs(t, err, ErrConversion, "1.5 is not an integer")
	col, _ := out.ColumnByName("num")
	assert.Equal(t, dl.KindString, col.Kind())
}

func TestFailureLeavesColumnUnchanged(t *testing.T) {
	tb := makeTable(t)
	out, err := (&Column{Column: "bad", Type: "int"}).Apply(context.Background(), tb)
	require.Error(t, err)
	assert.Equal(t, dl.ClassOperational, dl.ClassOf(err))
	var se *dl.StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad", se.Column)
	v, _ := out.Cell(1, "bad")
	assert.Equal(t, "seven", v)
}

func TestUnknownColumnAndType(t *testing.T) {
	_, err := (&Column{Column: "zz", Type: "float"}).Apply(context.Background(), makeTable(t))
	assert.Equal(t, dl.ClassOperational, dl.ClassOf(err))
	_, err = (&Column{Column: "num", Type: "complex"}).Apply(context.Background(), makeTable(t))
	assert.Equal(t, dl.ClassConfiguration, dl.ClassOf(err))
}

func TestFractionalTextToIntFails(t *testing.T) {
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{{Name: "s", Type: dl.KindString}}})
	for _, v := range []any{"1.5", "2.9", "-0.7"} {
		require.NoError(t, tb.AppendRow(v))
	}
	out, err := (&Column{Column: "s", Type: "int"}).Apply(context.Background(), tb)
	assert.ErrorIs(t, err, ErrConversion)
	v, _ := out.Cell(0, "s")
	assert.Equal(t, "1.5", v)

	whole := dl.New(dl.Schema{Columns: []dl.ColumnSchema{{Name: "s", Type: dl.KindString}}})
	require.NoError(t, whole.AppendRow("3.0"))
	require.NoError(t, whole.AppendRow("-4"))
	out, err = (&Column{Column: "s", Type: "int"}).Apply(context.Background(), whole)
	require.NoError(t, err)
	v, _ = out.Cell(0, "s")
	assert.Equal(t, int64(3), v)
	v, _ = out.Cell(1, "s")
	assert.Equal(t, int64(-4), v)
}

func TestPaddedTextConverts(t *testing.T) {
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{{Name: "s", Type: dl.KindString}}})
	require.NoError(t, tb.AppendRow(" 5 "))
	out, err := (&Column{Column: "s", Type: "int"}).Apply(context.Background(), tb)
	require.NoError(t, err)
	v, _ := out.Cell(0, "s")
	assert.Equal(t, int64(5), v)
}
