package csvio

import (
	"io"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// StreamReader reads CSV into Table chunks of up to chunkSize rows.
type StreamReader struct {
	r         *Reader
	closer    io.Closer
	schema    dl.Schema
	chunkSize int
}

// NewStreamReader opens the file, infers schema (respecting options), and returns a StreamReader.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, error) {
	rr, c, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	schema, err := rr.InferSchema()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	return &StreamReader{r: rr, closer: c, schema: schema, chunkSize: chunkSize}, nil
}

// Next returns the next chunk or io.EOF when complete.
func (s *StreamReader) Next() (*dl.Table, error) {
	t := dl.New(s.schema)
	for t.Rows() < s.chunkSize {
		rec, err := s.r.next()
		if err == io.EOF {
			if t.Rows() == 0 {
				return nil, io.EOF
			}
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.r.check(rec); err != nil {
			return nil, err
		}
		t.AppendRecord(rec)
	}
	return t, nil
}

func (s *StreamReader) Schema() dl.Schema { return s.schema }
func (s *StreamReader) Close() error      { return s.closer.Close() }
