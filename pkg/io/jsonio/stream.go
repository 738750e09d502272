package jsonio

import (
	"encoding/json"
	"io"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
)

// StreamReader reads JSON lines in Table chunks. Its columns are those seen
// in the first sample records; keys that appear later are dropped.
type StreamReader struct {
	dec       *json.Decoder
	closer    io.Closer
	cols      columnSet
	buf       []record
	schema    dl.Schema
	chunkSize int
}

func NewStreamReader(path string, chunkSize, sampleRows int) (*StreamReader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	if sampleRows <= 0 {
		sampleRows = 100
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	s := &StreamReader{dec: newDecoder(rc), closer: rc, chunkSize: chunkSize}
	for len(s.buf) < sampleRows {
		r, err := readObject(s.dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		s.buf = append(s.buf, r)
		s.cols.add(r.keys)
	}
	rows := make([][]string, len(s.buf))
	for i, r := range s.buf {
		rows[i] = s.cols.row(r)
	}
	kinds := dl.InferKinds(rows, len(s.cols.names))
	s.schema.Columns = make([]dl.ColumnSchema, len(kinds))
	for i, n := range s.cols.names {
		s.schema.Columns[i] = dl.ColumnSchema{Name: n, Type: kinds[i]}
	}
	return s, nil
}

// Next returns the next chunk or io.EOF when complete.
func (s *StreamReader) Next() (*dl.Table, error) {
	t := dl.New(s.schema)
	for t.Rows() < s.chunkSize {
		var r record
		if len(s.buf) > 0 {
			r, s.buf = s.buf[0], s.buf[1:]
		} else {
			var err error
			r, err = readObject(s.dec)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		t.AppendRecord(s.cols.row(r))
	}
	if t.Rows() == 0 {
		return nil, io.EOF
	}
	return t, nil
}

func (s *StreamReader) Schema() dl.Schema { return s.schema }
func (s *StreamReader) Close() error      { return s.closer.Close() }
