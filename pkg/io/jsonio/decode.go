package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// record is one JSON object with its keys in document order.
type record struct {
	keys []string
	vals map[string]any
}

// readObject decodes the next object from dec, keeping key order. Values use
// json.Number for numbers.
func readObject(dec *json.Decoder) (record, error) {
	tok, err := dec.Token()
	if err != nil {
		return record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return record{}, fmt.Errorf("expected object, got %v", tok)
	}
	rec := record{vals: map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return record{}, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return record{}, err
		}
		if _, dup := rec.vals[key]; !dup {
			rec.keys = append(rec.keys, key)
		}
		rec.vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return record{}, err
	}
	return rec, nil
}

// cellText renders a decoded JSON value as a text cell; null becomes "".
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// columnSet tracks column names in first-appearance order.
type columnSet struct {
	names []string
	index map[string]int
}

func (c *columnSet) add(keys []string) {
	if c.index == nil {
		c.index = map[string]int{}
	}
	for _, k := range keys {
		if _, ok := c.index[k]; !ok {
			c.index[k] = len(c.names)
			c.names = append(c.names, k)
		}
	}
}

func (c *columnSet) row(r record) []string {
	out := make([]string, len(c.names))
	for i, n := range c.names {
		if v, ok := r.vals[n]; ok {
			out[i] = cellText(v)
		}
	}
	return out
}

// fromRecords builds a table whose columns are the union of record keys and
// whose kinds are inferred from the first sample rows.
func fromRecords(recs []record, sample int) *dl.Table {
	var cols columnSet
	for _, r := range recs {
		cols.add(r.keys)
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = cols.row(r)
	}
	return fromRows(cols.names, rows, sample)
}

func fromRows(names []string, rows [][]string, sample int) *dl.Table {
	if sample <= 0 || sample > len(rows) {
		sample = len(rows)
	}
	kinds := dl.InferKinds(rows[:sample], len(names))
	schema := dl.Schema{Columns: make([]dl.ColumnSchema, len(names))}
	for i, n := range names {
		schema.Columns[i] = dl.ColumnSchema{Name: n, Type: kinds[i]}
	}
	t := dl.New(schema)
	for _, r := range rows {
		t.AppendRecord(r)
	}
	return t
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// firstByte returns the first non-space byte of b.
func firstByte(b []byte) byte {
	b = bytes.TrimLeft(b, " \t\r\n\ufeff")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
