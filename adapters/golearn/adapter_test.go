package golearn

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func iris(t *testing.T) *dl.Table {
	tb := dl.New(dl.Schema{Columns: []dl.ColumnSchema{
		{Name: "sepal", Type: dl.KindFloat},
		{Name: "petals", Type: dl.KindInt},
		{Name: "species", Type: dl.KindString},
	}})
	for _, r := range [][]any{
		{5.1, int64(3), "setosa"},
		{nil, int64(4), "virginica"},
		{6.3, nil, "setosa"},
	} {
		if err := tb.AppendRow(r...); err != nil {
			t.Fatal(err)
		}
	}
	return tb
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a table with numeric and text columns", t, func() {
		tb := iris(t)

		Convey("It converts to instances with the class attribute set", func() {
			inst, err := ToDenseInstances(tb, "species")
			So(err, ShouldBeNil)
			cols, rows := inst.Size()
			So(cols, ShouldEqual, 3)
			So(rows, ShouldEqual, 3)
			So(inst.AllClassAttributes(), ShouldHaveLength, 1)
			So(inst.AllClassAttributes()[0].GetName(), ShouldEqual, "species")

			Convey("And back, keeping values and missing cells", func() {
				back, err := FromDenseInstances(inst)
				So(err, ShouldBeNil)
				So(back.Names(), ShouldResemble, []string{"sepal", "petals", "species"})
				v, ok := back.Cell(0, "sepal")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 5.1)
				_, ok = back.Cell(1, "sepal")
				So(ok, ShouldBeFalse)
				_, ok = back.Cell(2, "petals")
				So(ok, ShouldBeFalse)
				v, _ = back.Cell(1, "species")
				So(v, ShouldEqual, "virginica")
			})
		})

		Convey("An unknown class column is rejected", func() {
			_, err := ToDenseInstances(tb, "genus")
			So(err, ShouldNotBeNil)
			So(dl.ClassOf(err), ShouldEqual, dl.ClassConfiguration)
		})
	})
}
