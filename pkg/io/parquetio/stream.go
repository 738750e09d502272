package parquetio

import (
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// StreamReader reads Parquet rows in chunks as Tables.
type StreamReader struct {
	r         *Reader
	chunkSize int
}

func NewStreamReader(path string, chunkSize int) (*StreamReader, error) {
	rd, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 8192
	}
	return &StreamReader{r: rd, chunkSize: chunkSize}, nil
}

func (s *StreamReader) Close() error      { return s.r.Close() }
func (s *StreamReader) Schema() dl.Schema { return s.r.schema }

// Next returns the next chunk or io.EOF when complete.
func (s *StreamReader) Next() (*dl.Table, error) {
	t := dl.New(s.r.schema)
	if err := s.r.readChunk(t, s.chunkSize); err != nil {
		return nil, err
	}
	return t, nil
}
