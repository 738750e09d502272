// Package parquetio reads and writes flat Parquet files.
package parquetio

import (
	"fmt"
	"io"
	"os"
	"time"

	parquet "github.com/segmentio/parquet-go"
	"github.com/segmentio/parquet-go/format"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

type Reader struct {
	file   *os.File
	reader *parquet.Reader
	schema dl.Schema
	leaves []leaf
}

// leaf maps one parquet leaf column onto a table column.
type leaf struct {
	kind dl.Kind
	unit time.Duration // for timestamps
	date bool
}

// OpenReader opens a Parquet file. Nested columns are named by their
// dotted path.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r := &Reader{file: f, reader: parquet.NewReader(pf)}
	sch := pf.Schema()
	for _, p := range sch.Columns() {
		lc, _ := sch.Lookup(p...)
		lf := leafOf(lc.Node.Type())
		r.leaves = append(r.leaves, lf)
		r.schema.Columns = append(r.schema.Columns, dl.ColumnSchema{Name: joinPath(p), Type: lf.kind})
	}
	return r, nil
}

func leafOf(t parquet.Type) leaf {
	if lt := t.LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil:
			return leaf{kind: dl.KindTime, unit: timeUnit(lt.Timestamp.Unit)}
		case lt.Date != nil:
			return leaf{kind: dl.KindTime, date: true}
		}
	}
	switch t.Kind() {
	case parquet.Boolean:
		return leaf{kind: dl.KindBool}
	case parquet.Int32, parquet.Int64:
		return leaf{kind: dl.KindInt}
	case parquet.Float, parquet.Double:
		return leaf{kind: dl.KindFloat}
	}
	return leaf{kind: dl.KindString}
}

func timeUnit(u format.TimeUnit) time.Duration {
	switch {
	case u.Nanos != nil:
		return time.Nanosecond
	case u.Micros != nil:
		return time.Microsecond
	}
	return time.Millisecond
}

func joinPath(p []string) string {
	s := p[0]
	for _, x := range p[1:] {
		s += "." + x
	}
	return s
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

func (r *Reader) Schema() dl.Schema { return r.schema }

// readChunk appends up to n rows to t; it returns io.EOF once nothing is left.
func (r *Reader) readChunk(t *dl.Table, n int) error {
	buf := make([]parquet.Row, n)
	got, err := r.reader.ReadRows(buf)
	for i := 0; i < got; i++ {
		t.AppendNullRow()
		r.setRow(t, t.Rows()-1, buf[i])
	}
	if err != nil && err != io.EOF {
		return fmt.Errorf("parquet read: %w", err)
	}
	if got == 0 {
		return io.EOF
	}
	return nil
}

// ReadAll loads every remaining row.
func (r *Reader) ReadAll() (*dl.Table, error) {
	t := dl.New(r.schema)
	for {
		if err := r.readChunk(t, 1024); err == io.EOF {
			return t, nil
		} else if err != nil {
			return nil, err
		}
	}
}

func (r *Reader) setRow(t *dl.Table, row int, values parquet.Row) {
	cols := t.Columns()
	for _, v := range values {
		ci := v.Column()
		if ci < 0 || ci >= len(cols) || v.IsNull() {
			continue
		}
		lf := r.leaves[ci]
		switch c := cols[ci].(type) {
		case *dl.BoolColumn:
			c.Set(row, v.Boolean())
		case *dl.IntColumn:
			c.Set(row, intOf(v))
		case *dl.FloatColumn:
			if v.Kind() == parquet.Float {
				c.Set(row, float64(v.Float()))
			} else {
				c.Set(row, v.Double())
			}
		case *dl.TimeColumn:
			if lf.date {
				c.Set(row, time.Unix(intOf(v)*86400, 0).UTC())
			} else {
				c.Set(row, time.Unix(0, intOf(v)*int64(lf.unit)).UTC())
			}
		case *dl.StringColumn:
			if k := v.Kind(); k == parquet.ByteArray || k == parquet.FixedLenByteArray {
				c.Set(row, string(v.ByteArray()))
			} else {
				c.Set(row, v.String())
			}
		}
	}
}

func intOf(v parquet.Value) int64 {
	if v.Kind() == parquet.Int32 {
		return int64(v.Int32())
	}
	return v.Int64()
}

// Read opens path and loads it.
func Read(path string) (*dl.Table, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll()
}
