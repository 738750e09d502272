package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFile(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "m.csv")
	require.NoError(t, os.WriteFile(csv, []byte("id,v\n1,2.5\n2,\n3,4.5\n"), 0o644))
	jsonDoc := filepath.Join(dir, "m.json")
	require.NoError(t, os.WriteFile(jsonDoc, []byte(`[{"id":1,"v":2.5},{"id":2,"v":null},{"id":3,"v":4.5}]`), 0o644))

	for _, p := range []string{csv, jsonDoc} {
		t.Run(filepath.Ext(p), func(t *testing.T) {
			c, err := profileFile(p, 2, 3)
			require.NoError(t, err)
			assert.Equal(t, 3, c.Rows())
			v, ok := c.Column("v")
			require.True(t, ok)
			require.NotNil(t, v.Num)
			assert.Equal(t, 2, v.Num.Count)
			assert.Equal(t, 1, v.Num.Nulls)
			assert.InDelta(t, 3.5, v.Num.Mean(), 1e-9)
		})
	}
}

func TestProfileFileUnknownFormat(t *testing.T) {
	_, err := profileFile(filepath.Join(t.TempDir(), "m.avro"), 2, 3)
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteProfile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.csv")
	require.NoError(t, os.WriteFile(p, []byte("id,name\n1,a\n2,\n"), 0o644))
	c, err := profileFile(p, 10, 3)
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, writeProfile(&text, c, false))
	assert.Contains(t, text.String(), "name")

	var doc bytes.Buffer
	require.NoError(t, writeProfile(&doc, c, true))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(doc.Bytes(), &decoded))
	assert.EqualValues(t, 2, decoded["rows"])

	assert.Error(t, writeProfile(failingWriter{}, c, true))
	assert.Error(t, writeProfile(failingWriter{}, c, false))
}
