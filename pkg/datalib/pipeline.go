package datalib

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Transform is a mutation applied to a Table. Row-filtering transforms return
// a new Table; value rewrites may mutate t in place and return it.
type Transform interface {
	Name() string
	Apply(ctx context.Context, t *Table) (*Table, error)
}

// Targeted is implemented by transforms bound to a single column, so reports
// can say which one a step touched.
type Targeted interface {
	Target() string
}

// StepResult records one executed step.
type StepResult struct {
	Step     string
	Column   string
	RowsIn   int
	RowsOut  int
	Duration time.Duration
	Err      error
}

func (r StepResult) OK() bool { return r.Err == nil }

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps  []Transform
	logger *slog.Logger
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// WithLogger sets the logger used for step events; nil means slog.Default().
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	p.logger = l
	return p
}

func (p *Pipeline) Len() int { return len(p.steps) }

func (p *Pipeline) Run(ctx context.Context, t *Table) (*Table, error) {
	out, _, err := p.RunReport(ctx, t)
	return out, err
}

// RunReport applies every step in order. An operational error is logged and
// recorded and the run continues with the table the step returned (or its
// input when it returned nil). Any other error stops the run.
func (p *Pipeline) RunReport(ctx context.Context, t *Table) (*Table, []StepResult, error) {
	log := p.logger
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(p.steps))
	cur := t
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}
		res := StepResult{Step: step.Name(), RowsIn: cur.Rows()}
		if tg, ok := step.(Targeted); ok {
			res.Column = tg.Target()
		}
		start := time.Now()
		out, err := step.Apply(ctx, cur)
		res.Duration = time.Since(start)
		res.Err = err
		if err != nil && !errors.Is(err, ErrOperational) {
			res.RowsOut = res.RowsIn
			results = append(results, res)
			return nil, results, err
		}
		if out != nil {
			cur = out
		}
		res.RowsOut = cur.Rows()
		results = append(results, res)
		if err != nil {
			log.Warn("step failed; continuing", "step", res.Step, "column", res.Column, "error", err)
			continue
		}
		log.Debug("step done", "step", res.Step, "column", res.Column, "rows_in", res.RowsIn, "rows_out", res.RowsOut, "duration", res.Duration)
	}
	return cur, results, nil
}
