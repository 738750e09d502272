package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wdm0006/datalib/pkg/io/csvio"
	"github.com/wdm0006/datalib/pkg/io/jsonio"
	"github.com/wdm0006/datalib/pkg/io/parquetio"
	"github.com/wdm0006/datalib/pkg/io/tableio"
	"github.com/wdm0006/datalib/pkg/profile"
)

// profileFile streams formats that have a chunked reader and loads the rest
// whole.
func profileFile(path string, chunkSize, topK int) (*profile.Collector, error) {
	format, err := tableio.Format(path, "")
	if err != nil {
		return nil, err
	}
	var sr interface {
		profile.ChunkReader
		Close() error
	}
	switch format {
	case tableio.CSV:
		sr, err = csvio.NewStreamReader(path, csvio.ReaderOptions{HasHeader: true}, chunkSize)
	case tableio.TSV:
		sr, err = csvio.NewStreamReader(path, csvio.ReaderOptions{HasHeader: true, Delimiter: '\t'}, chunkSize)
	case tableio.JSONL:
		sr, err = jsonio.NewStreamReader(path, chunkSize, 0)
	case tableio.Parquet:
		sr, err = parquetio.NewStreamReader(path, chunkSize)
	default:
		t, err := tableio.Import(path, format)
		if err != nil {
			return nil, err
		}
		return profile.Table(t, topK), nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = sr.Close() }()
	return profile.Stream(sr, topK)
}

// writeProfile prints c as text, or as indented JSON when asJSON is set.
func writeProfile(w io.Writer, c *profile.Collector, asJSON bool) error {
	if !asJSON {
		_, err := io.WriteString(w, c.ReportText())
		return err
	}
	b, err := json.MarshalIndent(c.ReportJSON(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
