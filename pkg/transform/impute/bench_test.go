package impute

import (
	"context"
	"testing"

	dl "github.com/wdm0006/datalib/pkg/datalib"
)

func makeLargeFloatTable(n int) *dl.Table {
	s := dl.Schema{Columns: []dl.ColumnSchema{{Name: "x", Type: dl.KindFloat}}}
	tb := dl.New(s)
	for i := 0; i < n; i++ {
		tb.AppendNullRow()
	}
	col, _ := tb.ColumnByName("x")
	c := col.(*dl.FloatColumn)
	for i := 0; i < n; i += 2 {
		c.Set(i, float64(i%10))
	}
	return tb
}

func BenchmarkImputeMean(b *testing.B) {
	base := makeLargeFloatTable(10000)
	for n := 0; n < b.N; n++ {
		tb := base.Clone()
		if _, err := (&Mean{Column: "x"}).Apply(context.Background(), tb); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkImputeMedian(b *testing.B) {
	base := makeLargeFloatTable(10000)
	for n := 0; n < b.N; n++ {
		tb := base.Clone()
		if _, err := (&Median{Column: "x"}).Apply(context.Background(), tb); err != nil {
			b.Fatal(err)
		}
	}
}
