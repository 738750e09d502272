package clean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/io/tableio"
	"github.com/wdm0006/datalib/pkg/transform/convert"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func people() *dl.Table {
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "id", Type: dl.KindInt},
		{Name: "score", Type: dl.KindFloat},
		{Name: "name", Type: dl.KindString},
		{Name: "code", Type: dl.KindString},
	}})
	rows := [][]any{
		{int64(1), 10.0, " Alice! ", "5"},
		{int64(2), nil, "BOB", "6"},
		{int64(3), 12.0, "bob ", "x"},
		{int64(4), 11.0, "Carol", "7"},
	}
	for _, r := range rows {
		_ = tb.AppendRow(r...)
	}
	return tb
}

func staticImporter(t *dl.Table, err error) Importer {
	return ImporterFunc(func(context.Context, string, string) (*dl.Table, error) { return t, err })
}

func TestApply(t *testing.T) {
	Convey("Given a small people table", t, func() {
		c := &Cleaner{Logger: quiet()}
		cfg := DefaultConfig()

		Convey("the default config fills numeric gaps with the mean", func() {
			out, rep, err := c.Apply(context.Background(), people(), cfg)
			So(err, ShouldBeNil)
			So(out.Rows(), ShouldEqual, 4)
			v, ok := out.Cell(1, "score")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 11.0)
			So(len(rep.Steps), ShouldEqual, 2)
			So(rep.Failed(), ShouldBeEmpty)
		})

		Convey("text columns are lowercased, stripped and cleaned", func() {
			cfg.TextColumns = []string{"name"}
			out, _, err := c.Apply(context.Background(), people(), cfg)
			So(err, ShouldBeNil)
			want := []string{"alice", "bob", "bob", "carol"}
			for i, w := range want {
				v, _ := out.Cell(i, "name")
				So(v, ShouldEqual, w)
			}
		})

		Convey("a failed conversion does not block the next one", func() {
			cfg.Convert = []Conversion{{Column: "code", Type: "int"}, {Column: "id", Type: "text"}}
			out, rep, err := c.Apply(context.Background(), people(), cfg)
			So(err, ShouldBeNil)
			code, _ := out.ColumnByName("code")
			id, _ := out.ColumnByName("id")
			So(code.Kind(), ShouldEqual, dl.KindString)
			So(id.Kind(), ShouldEqual, dl.KindString)
			failed := rep.Failed()
			So(len(failed), ShouldEqual, 1)
			So(failed[0].Column, ShouldEqual, "code")
			So(errors.Is(failed[0].Err, convert.ErrConversion), ShouldBeTrue)
		})

		Convey("normalization and outlier removal run only when configured", func() {
			cfg.NormalizeColumns = []string{"score"}
			cfg.NormalizeMethod = "minmax"
			cfg.OutlierColumns = []string{"id"}
			out, rep, err := c.Apply(context.Background(), people(), cfg)
			So(err, ShouldBeNil)
			So(len(rep.Steps), ShouldEqual, 4)
			v, _ := out.Cell(0, "score")
			So(v, ShouldEqual, 0.0)
			v, _ = out.Cell(2, "score")
			So(v, ShouldEqual, 1.0)
		})

		Convey("recoding runs after text cleaning", func() {
			cfg.TextColumns = []string{"name"}
			cfg.Recode = map[string]map[string]string{"name": {"bob": "robert"}}
			out, _, err := c.Apply(context.Background(), people(), cfg)
			So(err, ShouldBeNil)
			v, _ := out.Cell(2, "name")
			So(v, ShouldEqual, "robert")
		})

		Convey("a configuration error in a step aborts the run", func() {
			cfg.OutlierColumns = []string{"name"}
			out, rep, err := c.Apply(context.Background(), people(), cfg)
			So(out, ShouldBeNil)
			So(dl.ClassOf(err), ShouldEqual, dl.ClassConfiguration)
			So(len(rep.Steps), ShouldEqual, 2)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given an importer", t, func() {
		cfg := DefaultConfig()

		Convey("an import failure runs no step and returns no table", func() {
			c := &Cleaner{Importer: staticImporter(nil, tableio.ErrNotFound), Logger: quiet()}
			out, rep, err := c.Run(context.Background(), "missing.csv", "", cfg)
			So(out, ShouldBeNil)
			So(errors.Is(err, tableio.ErrNotFound), ShouldBeTrue)
			So(rep.Steps, ShouldBeEmpty)
			So(rep.Source, ShouldEqual, "missing.csv")
		})

		Convey("a successful import is cleaned and reported", func() {
			c := &Cleaner{Importer: staticImporter(people(), nil), Logger: quiet()}
			out, rep, err := c.Run(context.Background(), "people.csv", "", cfg)
			So(err, ShouldBeNil)
			So(out.ColumnsWithNulls(), ShouldBeEmpty)
			So(rep.RowsIn, ShouldEqual, 4)
			So(rep.RowsOut, ShouldEqual, 4)
			So(rep.RunID.String(), ShouldNotBeEmpty)
		})

		Convey("an invalid config is rejected before importing", func() {
			called := false
			imp := ImporterFunc(func(context.Context, string, string) (*dl.Table, error) {
				called = true
				return people(), nil
			})
			cfg.Strategy = "interpolate"
			_, _, err := (&Cleaner{Importer: imp, Logger: quiet()}).Run(context.Background(), "x.csv", "", cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			So(called, ShouldBeFalse)
		})
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad strategy", func(c *Config) { c.Strategy = "zero" }, false},
		{"bad method", func(c *Config) { c.NormalizeMethod = "robust" }, false},
		{"bad keep", func(c *Config) { c.DuplicateKeep = "all" }, false},
		{"negative factor", func(c *Config) { c.OutlierFactor = -1 }, false},
		{"constant without fill", func(c *Config) { c.Strategy = "constant" }, false},
		{"constant with fill", func(c *Config) { c.Strategy = "constant"; c.FillValue = 0 }, true},
		{"conversion without type", func(c *Config) { c.Convert = []Conversion{{Column: "a"}} }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && dl.ClassOf(err) != dl.ClassConfiguration {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestRunFromFile(t *testing.T) {
	Convey("Given the file importer", t, func() {
		dir := t.TempDir()
		c := &Cleaner{Logger: quiet()}
		cfg := DefaultConfig()

		Convey("a missing file fails the import with no table", func() {
			out, rep, err := c.Run(context.Background(), filepath.Join(dir, "nope.csv"), "", cfg)
			So(out, ShouldBeNil)
			So(errors.Is(err, tableio.ErrNotFound), ShouldBeTrue)
			So(dl.ClassOf(err), ShouldEqual, dl.ClassOperational)
			So(rep.Steps, ShouldBeEmpty)
		})

		Convey("cells past the inference sample survive cleaning", func() {
			var b strings.Builder
			b.WriteString("qty,label\n")
			for i := 0; i < 150; i++ {
				fmt.Fprintf(&b, "%d,item\n", i)
			}
			b.WriteString("lots,  Item! \n")
			p := filepath.Join(dir, "stock.csv")
			So(os.WriteFile(p, []byte(b.String()), 0o644), ShouldBeNil)

			cfg.TextColumns = []string{"label"}
			cfg.DuplicateSubset = []string{"label"}
			out, rep, err := c.Run(context.Background(), p, "", cfg)
			So(err, ShouldBeNil)
			So(rep.Failed(), ShouldBeEmpty)
			So(out.Rows(), ShouldEqual, 2)
			v, _ := out.Cell(1, "qty")
			So(v, ShouldEqual, "lots")
			v, _ = out.Cell(1, "label")
			So(v, ShouldEqual, "item")
		})

		Convey("padded and blank text cells are imported as read", func() {
			p := filepath.Join(dir, "pad.csv")
			So(os.WriteFile(p, []byte("name\n a\na\n   \n"), 0o644), ShouldBeNil)
			out, _, err := c.Run(context.Background(), p, "", cfg)
			So(err, ShouldBeNil)
			So(out.Rows(), ShouldEqual, 3)
			v, _ := out.Cell(2, "name")
			So(v, ShouldEqual, "   ")
		})
	})
}
