package datalib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

type noopTransform struct{}

func (n *noopTransform) Name() string { return "noop" }
func (n *noopTransform) Apply(ctx context.Context, t *Table) (*Table, error) {
	return t, nil
}

type failTransform struct{ err error }

func (f *failTransform) Name() string   { return "fail" }
func (f *failTransform) Target() string { return "a" }
func (f *failTransform) Apply(ctx context.Context, t *Table) (*Table, error) {
	return t, f.err
}

type dropFirst struct{}

func (d *dropFirst) Name() string { return "drop_first" }
func (d *dropFirst) Apply(ctx context.Context, t *Table) (*Table, error) {
	keep := make([]bool, t.Rows())
	for i := 1; i < len(keep); i++ {
		keep[i] = true
	}
	return t.Filter(keep), nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPipelineContinuesPastOperationalErrors(t *testing.T) {
	tb := makeTable(t)
	opErr := fmt.Errorf("%w: cast failed", ErrOperational)
	p := NewPipeline().WithLogger(quietLogger()).
		Add(&failTransform{err: opErr}).
		Add(&dropFirst{})
	out, results, err := p.RunReport(context.Background(), tb)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("rows = %d", out.Rows())
	}
	if len(results) != 2 || results[0].OK() || results[0].Column != "a" || !results[1].OK() {
		t.Fatalf("results = %+v", results)
	}
	if results[1].RowsIn != 3 || results[1].RowsOut != 2 {
		t.Fatalf("row counts = %+v", results[1])
	}
}

func TestPipelineStopsOnConfigurationErrors(t *testing.T) {
	tb := makeTable(t)
	cfgErr := fmt.Errorf("%w: bad method", ErrConfiguration)
	p := NewPipeline().WithLogger(quietLogger()).
		Add(&failTransform{err: cfgErr}).
		Add(&noopTransform{})
	out, results, err := p.RunReport(context.Background(), tb)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if out != nil || len(results) != 1 {
		t.Fatalf("pipeline should stop after first step: %v %+v", out, results)
	}
}

func TestPipelineHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewPipeline().Add(&noopTransform{}).RunReport(ctx, makeTable(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassOf(t *testing.T) {
	if ClassOf(nil) != ClassNone {
		t.Fatal("nil should be ClassNone")
	}
	wrapped := &StepError{Step: "x", Err: fmt.Errorf("%w: boom", ErrOperational)}
	if ClassOf(wrapped) != ClassOperational {
		t.Fatal("wrapped operational not classified")
	}
	if ClassOf(ErrUnknownColumn) != ClassConfiguration {
		t.Fatal("ErrUnknownColumn should be configuration class")
	}
	if ClassOf(io.EOF) != ClassUnknown {
		t.Fatal("foreign errors are unknown")
	}
}

func BenchmarkPipeline(b *testing.B) {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindFloat}, {Name: "b", Type: KindInt}, {Name: "s", Type: KindString}}}
	tb := New(s)
	for i := 0; i < 100000; i++ {
		_ = tb.AppendRow(float64(i%100), int64(i%10), "x")
	}
	p := NewPipeline().Add(&noopTransform{}).Add(&noopTransform{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(context.Background(), tb)
	}
}
