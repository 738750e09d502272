// Package jsonio reads and writes tables as JSON documents and JSON lines.
package jsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
)

// ErrNotTabular is returned for JSON that is neither an array of objects
// nor a columns-oriented object.
var ErrNotTabular = errors.New("json document is not a table")

type ReaderOptions struct {
	SampleRows int // rows used for kind inference; 0 = all
}

// ReadJSON reads an array of records, or an object keyed by column name
// whose values are arrays or objects keyed by row index.
func ReadJSON(path string, opt ReaderOptions) (*dl.Table, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimLeft(b, " \t\r\n\ufeff")
	switch firstByte(b) {
	case '[':
		return readRecords(newDecoder(bytes.NewReader(b)), opt)
	case '{':
		return readColumns(newDecoder(bytes.NewReader(b)), opt)
	case 0:
		return dl.New(dl.Schema{}), nil
	}
	return nil, ErrNotTabular
}

func readRecords(dec *json.Decoder, opt ReaderOptions) (*dl.Table, error) {
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var recs []record
	for dec.More() {
		r, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(recs), err)
		}
		recs = append(recs, r)
	}
	return fromRecords(recs, opt.SampleRows), nil
}

func readColumns(dec *json.Decoder, opt ReaderOptions) (*dl.Table, error) {
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var names []string
	var cells []map[int]string
	nrows := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		col, err := columnCells(raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		for i := range col {
			if i+1 > nrows {
				nrows = i + 1
			}
		}
		names = append(names, name)
		cells = append(cells, col)
	}
	rows := make([][]string, nrows)
	for r := range rows {
		rows[r] = make([]string, len(names))
		for c := range names {
			rows[r][c] = cells[c][r]
		}
	}
	return fromRows(names, rows, opt.SampleRows), nil
}

// columnCells decodes one column given as an array or as an object keyed by
// row index. Non-numeric keys are numbered in key order.
func columnCells(raw json.RawMessage) (map[int]string, error) {
	out := map[int]string{}
	dec := newDecoder(bytes.NewReader(raw))
	switch firstByte(raw) {
	case '[':
		var vals []any
		if err := dec.Decode(&vals); err != nil {
			return nil, err
		}
		for i, v := range vals {
			out[i] = cellText(v)
		}
	case '{':
		rec, err := readObject(dec)
		if err != nil {
			return nil, err
		}
		keys := rec.keys
		numeric := true
		for _, k := range keys {
			if _, err := strconv.Atoi(k); err != nil {
				numeric = false
				break
			}
		}
		if !numeric {
			sort.Strings(keys)
		}
		for i, k := range keys {
			idx := i
			if numeric {
				idx, _ = strconv.Atoi(k)
			}
			out[idx] = cellText(rec.vals[k])
		}
	default:
		return nil, ErrNotTabular
	}
	return out, nil
}

// ReadLines reads newline-delimited JSON objects.
func ReadLines(path string, opt ReaderOptions) (*dl.Table, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	dec := newDecoder(rc)
	var recs []record
	for {
		r, err := readObject(dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(recs)+1, err)
		}
		recs = append(recs, r)
	}
	return fromRecords(recs, opt.SampleRows), nil
}
