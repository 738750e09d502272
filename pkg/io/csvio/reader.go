// Package csvio reads and writes delimited text tables.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	buf   [][]string
	ncols int
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file (gzip allowed, "-" for stdin) and returns a Reader
// and the closer of the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReaderSize(rc, 64*1024)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		opt.Delimiter = d
		r := NewReaderFrom(br, opt)
		r.r.LazyQuotes = lazy
		return r, rc, nil
	}
	return NewReaderFrom(br, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (dl.Schema, error) {
	rec, err := r.r.Read()
	if err != nil {
		return dl.Schema{}, err
	}
	var names []string
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		names = dedupeNames(names)
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		r.buf = append(r.buf, rec)
	}

	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(r.buf) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dl.Schema{}, err
		}
		r.buf = append(r.buf, rr)
	}

	kinds := dl.InferKinds(r.buf, len(names))
	schema := dl.Schema{Columns: make([]dl.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = dl.ColumnSchema{Name: names[i], Type: kinds[i]}
	}
	r.ncols = len(names)
	return schema, nil
}

// next returns the next record, buffered sample rows first.
func (r *Reader) next() ([]string, error) {
	if len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		return rec, nil
	}
	return r.r.Read()
}

func (r *Reader) check(rec []string) error {
	switch {
	case len(rec) < r.ncols:
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv short record: need %d fields, got %d", r.ncols, len(rec))
		}
	case len(rec) > r.ncols:
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record: need %d fields, got %d", r.ncols, len(rec))
		}
	}
	return nil
}

// ReadAll loads the rest of the CSV into a Table.
func (r *Reader) ReadAll(schema dl.Schema) (*dl.Table, error) {
	t := dl.New(schema)
	for {
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.check(rec); err != nil {
			return nil, err
		}
		t.AppendRecord(rec)
	}
	return t, nil
}

// Read opens path and loads it with an inferred schema.
func Read(path string, opt ReaderOptions) (*dl.Table, error) {
	r, c, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		return nil, err
	}
	return r.ReadAll(schema)
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// judge on the first line only so quoted text does not skew the count
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := strings.Count(string(sample), `"`)
	return rune(best), quoteCount%2 != 0
}

func dedupeNames(names []string) []string {
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			n = "col_" + strconv.Itoa(i)
		}
		if k := seen[n]; k > 0 {
			seen[n]++
			n = n + "." + strconv.Itoa(k)
		} else {
			seen[n] = 1
		}
		names[i] = n
	}
	return names
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
