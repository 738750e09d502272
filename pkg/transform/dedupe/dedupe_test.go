package dedupe

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func makeTable() *dl.Table {
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "k", Type: dl.KindString},
		{Name: "v", Type: dl.KindInt},
		{Name: "id", Type: dl.KindInt},
	}})
	rows := [][]any{
		{"a", int64(1), int64(0)},
		{"b", nil, int64(1)},
		{"a", int64(1), int64(2)},
		{"c", int64(3), int64(3)},
		{"b", nil, int64(4)},
	}
	for _, r := range rows {
		_ = tb.AppendRow(r...)
	}
	return tb
}

func ids(tb *dl.Table) []int64 {
	out := make([]int64, tb.Rows())
	for i := range out {
		v, _ := tb.Cell(i, "id")
		out[i] = v.(int64)
	}
	return out
}

func TestRows(t *testing.T) {
	Convey("Given rows duplicated on k and v", t, func() {
		subset := []string{"k", "v"}

		Convey("keep first retains the earliest of each group", func() {
			out, err := (&Rows{Subset: subset, Keep: KeepFirst}).Apply(context.Background(), makeTable())
			So(err, ShouldBeNil)
			So(ids(out), ShouldResemble, []int64{0, 1, 3})
		})

		Convey("keep last retains the latest of each group in original order", func() {
			out, err := (&Rows{Subset: subset, Keep: KeepLast}).Apply(context.Background(), makeTable())
			So(err, ShouldBeNil)
			So(ids(out), ShouldResemble, []int64{2, 3, 4})
		})

		Convey("keep none drops every duplicated row", func() {
			out, err := (&Rows{Subset: subset, Keep: KeepNone}).Apply(context.Background(), makeTable())
			So(err, ShouldBeNil)
			So(ids(out), ShouldResemble, []int64{3})
		})

		Convey("the default subset uses every column", func() {
			out, err := (&Rows{Keep: KeepFirst}).Apply(context.Background(), makeTable())
			So(err, ShouldBeNil)
			So(out.Rows(), ShouldEqual, 5)
		})

		Convey("an unknown keep policy is a configuration error", func() {
			_, err := (&Rows{Keep: "middle"}).Apply(context.Background(), makeTable())
			So(errors.Is(err, ErrInvalidKeep), ShouldBeTrue)
		})

		Convey("an unknown subset column is a configuration error", func() {
			_, err := (&Rows{Subset: []string{"zz"}, Keep: KeepFirst}).Apply(context.Background(), makeTable())
			So(dl.ClassOf(err), ShouldEqual, dl.ClassConfiguration)
		})
	})
}

func TestKindTaggedEquality(t *testing.T) {
	a := dl.NewIntColumn("x", 1)
	a.Set(0, 1)
	b := dl.NewStringColumn("x", 1)
	b.Set(0, "1")
	if rowKey([]dl.Column{a}, 0) == rowKey([]dl.Column{b}, 0) {
		t.Fatal("int 1 and string \"1\" must not be equal")
	}
}
