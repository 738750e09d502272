package parquetio

import (
	"encoding/json"
	"fmt"
	"math"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func parquetSchemaJSON(s dl.Schema) string {
	// Build a minimal JSON schema for parquet-go JSONWriter
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case dl.KindFloat:
			tag += "DOUBLE"
		case dl.KindInt:
			tag += "INT64"
		case dl.KindBool:
			tag += "BOOLEAN"
		case dl.KindTime:
			tag += "INT64, logicaltype=TIMESTAMP, logicaltype.isadjustedtoutc=true, logicaltype.unit=MICROS"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes a Table to a Parquet file with one optional column per
// table column. Times are stored as UTC microsecond timestamps.
func WriteAll(path string, t *dl.Table) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(parquetSchemaJSON(t.Schema()), fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if serr := writer.WriteStop(); err == nil && serr != nil {
			err = fmt.Errorf("parquet finish: %w", serr)
		}
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()
	cols := t.Columns()
	for r := 0; r < t.Rows(); r++ {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			v, ok := c.Value(r)
			if !ok {
				continue
			}
			switch c.Kind() {
			case dl.KindTime:
				tc := c.(*dl.TimeColumn)
				tm, _ := tc.Get(r)
				v = tm.UnixMicro()
			case dl.KindFloat:
				if f := v.(float64); math.IsNaN(f) || math.IsInf(f, 0) {
					continue
				}
			}
			rec[c.Name()] = v
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("parquet encode row %d: %w", r, err)
		}
		if err := writer.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	return nil
}
