// Package clean runs the fixed cleaning sequence over a table or a file.
package clean

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/io/tableio"
	"github.com/wdm0006/datalib/pkg/transform/convert"
	"github.com/wdm0006/datalib/pkg/transform/dedupe"
	"github.com/wdm0006/datalib/pkg/transform/impute"
	"github.com/wdm0006/datalib/pkg/transform/normalize"
	"github.com/wdm0006/datalib/pkg/transform/outliers"
	"github.com/wdm0006/datalib/pkg/transform/standardize"
)

// Importer loads a table from source. An empty format means infer it.
type Importer interface {
	Import(ctx context.Context, source, format string) (*dl.Table, error)
}

type ImporterFunc func(ctx context.Context, source, format string) (*dl.Table, error)

func (f ImporterFunc) Import(ctx context.Context, source, format string) (*dl.Table, error) {
	return f(ctx, source, format)
}

// FileImporter reads local files through tableio.
var FileImporter = ImporterFunc(func(_ context.Context, source, format string) (*dl.Table, error) {
	return tableio.Import(source, format)
})

// Report describes one cleaning run.
type Report struct {
	RunID    uuid.UUID
	Source   string
	Started  time.Time
	Duration time.Duration
	RowsIn   int
	RowsOut  int
	Steps    []dl.StepResult
}

// Failed returns the steps that reported an error.
func (r *Report) Failed() []dl.StepResult {
	var out []dl.StepResult
	for _, s := range r.Steps {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Cleaner holds the collaborators of a run. The zero value imports local
// files and logs to slog.Default().
type Cleaner struct {
	Importer Importer
	Logger   *slog.Logger
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Run imports source and cleans it. When the import fails no step runs and
// the table is nil.
func (c *Cleaner) Run(ctx context.Context, source, format string, cfg Config) (*dl.Table, *Report, error) {
	rep := newReport(source)
	if err := cfg.Validate(); err != nil {
		return nil, rep, err
	}
	imp := c.Importer
	if imp == nil {
		imp = FileImporter
	}
	log := c.logger().With("run_id", rep.RunID.String())
	t, err := imp.Import(ctx, source, format)
	if err != nil {
		log.Error("import failed", "source", source, "error", err)
		rep.Duration = time.Since(rep.Started)
		return nil, rep, err
	}
	log.Info("imported", "source", source, "rows", t.Rows(), "cols", t.Cols())
	out, err := c.apply(ctx, t, cfg, rep, log)
	return out, rep, err
}

// Apply cleans t in the fixed order: missing values, outliers, normalization,
// type conversion, duplicates, text, recoding.
func (c *Cleaner) Apply(ctx context.Context, t *dl.Table, cfg Config) (*dl.Table, *Report, error) {
	rep := newReport("")
	if err := cfg.Validate(); err != nil {
		return nil, rep, err
	}
	out, err := c.apply(ctx, t, cfg, rep, c.logger().With("run_id", rep.RunID.String()))
	return out, rep, err
}

func (c *Cleaner) apply(ctx context.Context, t *dl.Table, cfg Config, rep *Report, log *slog.Logger) (*dl.Table, error) {
	rep.RowsIn = t.Rows()
	p := Steps(cfg).WithLogger(log)
	out, steps, err := p.RunReport(ctx, t)
	rep.Steps = steps
	rep.Duration = time.Since(rep.Started)
	if err != nil {
		log.Error("cleaning stopped", "error", err)
		return nil, err
	}
	rep.RowsOut = out.Rows()
	log.Info("cleaning done", "rows_in", rep.RowsIn, "rows_out", rep.RowsOut,
		"steps", len(steps), "failed", len(rep.Failed()), "duration", rep.Duration)
	return out, nil
}

// Steps builds the pipeline cfg describes without validating it.
func Steps(cfg Config) *dl.Pipeline {
	p := dl.NewPipeline()
	p.Add(&impute.Missing{
		Strategy:  impute.Strategy(cfg.Strategy),
		Columns:   cfg.MissingColumns,
		FillValue: cfg.FillValue,
	})
	for _, col := range cfg.OutlierColumns {
		p.Add(&outliers.IQR{Column: col, Factor: cfg.OutlierFactor})
	}
	if len(cfg.NormalizeColumns) > 0 {
		p.Add(&normalize.Scale{Columns: cfg.NormalizeColumns, Method: normalize.Method(cfg.NormalizeMethod)})
	}
	for _, cv := range cfg.Convert {
		p.Add(&convert.Column{Column: cv.Column, Type: cv.Type})
	}
	p.Add(&dedupe.Rows{Subset: cfg.DuplicateSubset, Keep: dedupe.Keep(cfg.DuplicateKeep)})
	for _, col := range cfg.TextColumns {
		p.Add(&standardize.Text{
			Column:        col,
			Lower:         cfg.TextLower,
			Strip:         cfg.TextStrip,
			RemoveSpecial: cfg.TextRemoveSpecial,
		})
	}
	cols := make([]string, 0, len(cfg.Recode))
	for col := range cfg.Recode {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		p.Add(&standardize.MapValues{Column: col, Map: cfg.Recode[col]})
	}
	return p
}

func newReport(source string) *Report {
	return &Report{RunID: uuid.New(), Source: source, Started: time.Now()}
}

// Run cleans source with a zero Cleaner.
func Run(ctx context.Context, source, format string, cfg Config) (*dl.Table, *Report, error) {
	return (&Cleaner{}).Run(ctx, source, format, cfg)
}

// Apply cleans t with a zero Cleaner.
func Apply(ctx context.Context, t *dl.Table, cfg Config) (*dl.Table, *Report, error) {
	return (&Cleaner{}).Apply(ctx, t, cfg)
}
