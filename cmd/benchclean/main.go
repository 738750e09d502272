package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/datalib/pkg/clean"
	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/logging"
)

var words = []string{" Alpha ", "beta!", "GAMMA", "delta?", " Epsilon"}

// generate builds a table of random cells, each missing with probability missp.
func generate(schema dl.Schema, rows int, missp float64, rnd *rand.Rand) *dl.Table {
	t := dl.New(schema)
	for i := 0; i < rows; i++ {
		t.AppendNullRow()
		for _, cs := range schema.Columns {
			if rnd.Float64() < missp {
				continue
			}
			switch cs.Type {
			case dl.KindFloat:
				v := rnd.NormFloat64()*10 + 50
				if rnd.Float64() < 0.01 {
					v *= 20
				}
				_ = t.SetCell(i, cs.Name, v)
			case dl.KindInt:
				_ = t.SetCell(i, cs.Name, int64(rnd.Intn(100)))
			case dl.KindString:
				_ = t.SetCell(i, cs.Name, words[rnd.Intn(len(words))])
			}
		}
	}
	return t
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "total rows to generate")
		fcols   = flag.Int("float-cols", 4, "number of float columns")
		icols   = flag.Int("int-cols", 2, "number of int columns")
		scols   = flag.Int("string-cols", 2, "number of string columns")
		missp   = flag.Float64("missing", 0.05, "probability of missing values in each cell")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	var cols []dl.ColumnSchema
	var floats, texts []string
	for i := 0; i < *fcols; i++ {
		cols = append(cols, dl.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: dl.KindFloat})
		floats = append(floats, fmt.Sprintf("f%d", i))
	}
	for i := 0; i < *icols; i++ {
		cols = append(cols, dl.ColumnSchema{Name: fmt.Sprintf("i%d", i), Type: dl.KindInt})
	}
	for i := 0; i < *scols; i++ {
		cols = append(cols, dl.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: dl.KindString})
		texts = append(texts, fmt.Sprintf("s%d", i))
	}
	t := generate(dl.Schema{Columns: cols}, *rows, *missp, rand.New(rand.NewSource(*seed)))

	cfg := clean.DefaultConfig()
	cfg.Strategy = "median"
	if len(floats) > 0 {
		cfg.OutlierColumns = floats[:1]
		cfg.NormalizeColumns = floats
	}
	cfg.TextColumns = texts
	cl := &clean.Cleaner{Logger: logging.Discard()}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, rep, err := cl.Apply(context.Background(), t, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	steps := make(map[string]int64, len(rep.Steps))
	for _, s := range rep.Steps {
		steps[s.Step] += s.Duration.Microseconds()
	}
	summary := map[string]any{
		"rows":                  *rows,
		"rows_out":              out.Rows(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"missing_prob":          *missp,
		"step_us":               steps,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d -> %d\n", *rows, out.Rows())
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
	for _, s := range rep.Steps {
		fmt.Printf("  %-18s %-6s %10s\n", s.Step, s.Column, s.Duration)
	}
}
