package csvio

import (
	"encoding/csv"
	"io"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
	NoHeader  bool
}

// WriteAll writes a Table to a CSV file, gzip compressed when path ends in
// ".gz". Missing cells are written empty.
func WriteAll(path string, t *dl.Table, opt WriterOptions) error {
	sw, err := NewStreamWriter(path, t.Schema(), opt)
	if err != nil {
		return err
	}
	if err := sw.Write(t); err != nil {
		_ = sw.Close()
		return err
	}
	return sw.Close()
}

// StreamWriter appends tables to a CSV file with a header (written once).
type StreamWriter struct {
	w           *csv.Writer
	out         io.WriteCloser
	wroteHeader bool
	schema      dl.Schema
}

func NewStreamWriter(path string, schema dl.Schema, opt WriterOptions) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	return &StreamWriter{w: w, out: out, schema: schema, wroteHeader: opt.NoHeader}, nil
}

func (s *StreamWriter) Write(t *dl.Table) error {
	if !s.wroteHeader {
		if err := s.w.Write(s.schema.Names()); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	for r := 0; r < t.Rows(); r++ {
		if err := s.w.Write(t.Record(r)); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *StreamWriter) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
