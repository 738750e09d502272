// Package tableio imports and exports tables by file format, picking the
// reader or writer from an explicit format name or the file extension.
package tableio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/io/csvio"
	iox "github.com/wdm0006/datalib/pkg/io/ioutils"
	"github.com/wdm0006/datalib/pkg/io/jsonio"
	"github.com/wdm0006/datalib/pkg/io/parquetio"
	"github.com/wdm0006/datalib/pkg/io/xlsxio"
)

// Import and export failures. All are operational.
var (
	ErrNotFound          = fmt.Errorf("%w: file not found", dl.ErrOperational)
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", dl.ErrOperational)
	ErrEmpty             = fmt.Errorf("%w: no data", dl.ErrOperational)
	ErrParse             = fmt.Errorf("%w: parse failure", dl.ErrOperational)
	ErrWrite             = fmt.Errorf("%w: write failure", dl.ErrOperational)
)

// Canonical format names.
const (
	CSV     = "csv"
	TSV     = "tsv"
	JSON    = "json"
	JSONL   = "jsonl"
	Parquet = "parquet"
	XLSX    = "xlsx"
)

var aliases = map[string]string{
	"csv": CSV, "txt": CSV,
	"tsv": TSV, "tab": TSV,
	"json": JSON,
	"jsonl": JSONL, "ndjson": JSONL,
	"parquet": Parquet, "pq": Parquet,
	"xlsx": XLSX, "xls": XLSX, "excel": XLSX,
}

// Format resolves format, or the extension of path when format is empty,
// to a canonical format name.
func Format(path, format string) (string, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if name == "" {
		name = iox.Ext(path)
	}
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if name == "" {
		return "", fmt.Errorf("%w: cannot infer format of %s", ErrUnsupportedFormat, path)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Import reads path into a Table.
func Import(path, format string) (*dl.Table, error) {
	f, err := Format(path, format)
	if err != nil {
		return nil, err
	}
	if path != "-" {
		st, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case err != nil:
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		case st.IsDir():
			return nil, fmt.Errorf("%w: %s is a directory", ErrParse, path)
		case st.Size() == 0:
			return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
		}
	}
	t, err := read(path, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if t.Cols() == 0 {
		return nil, fmt.Errorf("%w: %s has no columns", ErrEmpty, path)
	}
	return t, nil
}

func read(path, format string) (*dl.Table, error) {
	switch format {
	case CSV:
		return csvio.Read(path, csvio.ReaderOptions{HasHeader: true})
	case TSV:
		return csvio.Read(path, csvio.ReaderOptions{HasHeader: true, Delimiter: '\t'})
	case JSON:
		return jsonio.ReadJSON(path, jsonio.ReaderOptions{})
	case JSONL:
		return jsonio.ReadLines(path, jsonio.ReaderOptions{})
	case Parquet:
		return parquetio.Read(path)
	case XLSX:
		return xlsxio.Read(path, xlsxio.ReaderOptions{})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

type ExportOptions struct {
	Delimiter rune          // csv only; default ','
	NoHeader  bool          // csv only
	Orient    jsonio.Orient // json only; default records
	Sheet     string        // xlsx only; default Sheet1
}

// Export writes t to path.
func Export(t *dl.Table, path, format string, opt ExportOptions) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", dl.ErrConfiguration)
	}
	f, err := Format(path, format)
	if err != nil {
		return err
	}
	if err := write(t, path, f, opt); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

func write(t *dl.Table, path, format string, opt ExportOptions) error {
	switch format {
	case CSV, TSV:
		d := opt.Delimiter
		if d == 0 && format == TSV {
			d = '\t'
		}
		return csvio.WriteAll(path, t, csvio.WriterOptions{Delimiter: d, NoHeader: opt.NoHeader})
	case JSON:
		orient := opt.Orient
		if orient == "" {
			orient = jsonio.Records
		}
		return jsonio.WriteJSON(path, t, orient)
	case JSONL:
		return jsonio.WriteLines(path, t)
	case Parquet:
		return parquetio.WriteAll(path, t)
	case XLSX:
		return xlsxio.Write(path, t, xlsxio.WriterOptions{Sheet: opt.Sheet})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
