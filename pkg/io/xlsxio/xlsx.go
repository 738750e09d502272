// Package xlsxio reads and writes Excel workbooks.
package xlsxio

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

const DefaultSheet = "Sheet1"

type ReaderOptions struct {
	Sheet      string // default: first sheet
	SampleRows int    // rows used for kind inference; 0 = all
}

// Read loads one sheet. The first row holds the column names.
func Read(path string, opt ReaderOptions) (*dl.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dl.New(dl.Schema{}), nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dl.New(dl.Schema{}), nil
	}
	names := rows[0]
	body := rows[1:]
	// GetRows trims trailing empty cells, so a row may be wider than the header
	for _, r := range body {
		for len(names) < len(r) {
			names = append(names, fmt.Sprintf("col_%d", len(names)))
		}
	}
	sample := body
	if opt.SampleRows > 0 && opt.SampleRows < len(body) {
		sample = body[:opt.SampleRows]
	}
	kinds := dl.InferKinds(sample, len(names))
	schema := dl.Schema{Columns: make([]dl.ColumnSchema, len(names))}
	for i, n := range names {
		schema.Columns[i] = dl.ColumnSchema{Name: n, Type: kinds[i]}
	}
	t := dl.New(schema)
	for _, r := range body {
		t.AppendRecord(r)
	}
	return t, nil
}

type WriterOptions struct {
	Sheet string // default Sheet1
}

// Write saves t as a single-sheet workbook with a header row. Missing cells
// are left blank and times are written as text.
func Write(path string, t *dl.Table, opt WriterOptions) error {
	sheet := opt.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := make([]any, t.Cols())
	for i, n := range t.Names() {
		header[i] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	cols := t.Columns()
	for r := 0; r < t.Rows(); r++ {
		vals := make([]any, len(cols))
		for i, c := range cols {
			v, ok := c.Value(r)
			switch {
			case !ok:
				vals[i] = nil
			case c.Kind() == dl.KindTime:
				vals[i], _ = dl.FormatCell(c, r)
			case c.Kind() == dl.KindFloat && (math.IsNaN(v.(float64)) || math.IsInf(v.(float64), 0)):
				vals[i] = nil
			default:
				vals[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
