package jsonio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
)

type Orient string

const (
	// Records writes [{"col": v, ...}, ...].
	Records Orient = "records"
	// Columns writes {"col": {"0": v, ...}, ...}.
	Columns Orient = "columns"
)

// WriteJSON writes t as one JSON document. Missing cells are null.
func WriteJSON(path string, t *dl.Table, orient Orient) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	switch orient {
	case "", Records:
		err = writeRecords(w, t)
	case Columns:
		err = writeColumns(w, t)
	default:
		err = fmt.Errorf("unknown json orient %q", orient)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeRecords(w *bufio.Writer, t *dl.Table) error {
	_ = w.WriteByte('[')
	for r := 0; r < t.Rows(); r++ {
		if r > 0 {
			_ = w.WriteByte(',')
		}
		if err := writeRow(w, t, r); err != nil {
			return err
		}
	}
	_, err := w.WriteString("]\n")
	return err
}

func writeColumns(w *bufio.Writer, t *dl.Table) error {
	_ = w.WriteByte('{')
	for i, c := range t.Columns() {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		writeKey(w, c.Name())
		_ = w.WriteByte('{')
		for r := 0; r < c.Len(); r++ {
			if r > 0 {
				_ = w.WriteByte(',')
			}
			writeKey(w, strconv.Itoa(r))
			_, _ = w.Write(cellJSON(c, r))
		}
		_ = w.WriteByte('}')
	}
	_, err := w.WriteString("}\n")
	return err
}

func writeRow(w *bufio.Writer, t *dl.Table, r int) error {
	if err := w.WriteByte('{'); err != nil {
		return err
	}
	for i, c := range t.Columns() {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		writeKey(w, c.Name())
		_, _ = w.Write(cellJSON(c, r))
	}
	return w.WriteByte('}')
}

func writeKey(w *bufio.Writer, k string) {
	b, _ := json.Marshal(k)
	_, _ = w.Write(b)
	_ = w.WriteByte(':')
}

// cellJSON encodes one cell. Missing cells and non-finite floats are null.
func cellJSON(c dl.Column, r int) []byte {
	v, ok := c.Value(r)
	if !ok {
		return []byte("null")
	}
	if f, isFloat := v.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return []byte("null")
	}
	if c.Kind() == dl.KindTime {
		s, _ := dl.FormatCell(c, r)
		v = s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

// WriteLines writes one JSON object per row.
func WriteLines(path string, t *dl.Table) error {
	sw, err := NewStreamWriter(path)
	if err != nil {
		return err
	}
	if err := sw.Write(t); err != nil {
		_ = sw.Close()
		return err
	}
	return sw.Close()
}

// StreamWriter appends tables to a JSON lines file.
type StreamWriter struct {
	w   *bufio.Writer
	out io.WriteCloser
}

func NewStreamWriter(path string) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{w: bufio.NewWriter(out), out: out}, nil
}

func (s *StreamWriter) Write(t *dl.Table) error {
	for r := 0; r < t.Rows(); r++ {
		if err := writeRow(s.w, t, r); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *StreamWriter) Close() error {
	if err := s.w.Flush(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
