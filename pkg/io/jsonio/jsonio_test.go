package jsonio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const sampleLines = `{"name": "ann", "age": 31, "score": 1.5}
{"name": "bob", "age": null, "score": 2}

{"score": 3.25, "name": "cy", "active": true}
`

func TestReadLinesKeepsKeyOrder(t *testing.T) {
	tb, err := ReadLines(writeFile(t, "sample.jsonl", sampleLines), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "score", "active"}, tb.Names())
	assert.Equal(t, 3, tb.Rows())
	col, _ := tb.ColumnByName("age")
	assert.Equal(t, dl.KindInt, col.Kind())
	assert.True(t, col.IsNull(1))
	assert.True(t, col.IsNull(2))
	col, _ = tb.ColumnByName("score")
	assert.Equal(t, dl.KindFloat, col.Kind())
	v, _ := tb.Cell(2, "active")
	assert.Equal(t, true, v)
}

func TestReadJSONRecordsAndColumns(t *testing.T) {
	recs := `[{"a": 1, "b": "x"}, {"a": 2, "b": null}]`
	tb, err := ReadJSON(writeFile(t, "r.json", recs), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tb.Names())
	assert.Equal(t, 2, tb.Rows())

	cols := `{"b": {"0": "x", "1": null}, "a": {"1": 2, "0": 1}}`
	tb, err = ReadJSON(writeFile(t, "c.json", cols), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, tb.Names())
	v, _ := tb.Cell(0, "a")
	assert.Equal(t, int64(1), v)

	arrays := `{"a": [1, 2, 3]}`
	tb, err = ReadJSON(writeFile(t, "a.json", arrays), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Rows())

	_, err = ReadJSON(writeFile(t, "bad.json", `"just a string"`), ReaderOptions{})
	assert.ErrorIs(t, err, ErrNotTabular)
}

func TestWriteRoundTrip(t *testing.T) {
	src, err := ReadLines(writeFile(t, "sample.jsonl", sampleLines), ReaderOptions{})
	require.NoError(t, err)
	dir := t.TempDir()

	for _, orient := range []Orient{Records, Columns} {
		p := filepath.Join(dir, string(orient)+".json")
		require.NoError(t, WriteJSON(p, src, orient))
		back, err := ReadJSON(p, ReaderOptions{})
		require.NoError(t, err, orient)
		assert.Equal(t, src.Names(), back.Names(), orient)
		assert.Equal(t, src.Rows(), back.Rows(), orient)
		v, _ := back.Cell(2, "score")
		assert.Equal(t, 3.25, v, orient)
	}

	p := filepath.Join(dir, "out.jsonl.gz")
	require.NoError(t, WriteLines(p, src))
	back, err := ReadLines(p, ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, src.Rows(), back.Rows())
	assert.Equal(t, src.Names(), back.Names())
}

func TestStreamReadJSONL(t *testing.T) {
	sr, err := NewStreamReader(writeFile(t, "sample.jsonl", sampleLines), 2, 0)
	require.NoError(t, err)
	defer func() { _ = sr.Close() }()
	total := 0
	for {
		fr, err := sr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		total += fr.Rows()
	}
	assert.Equal(t, 3, total)
}
