package csvio

import (
	"io"
	"path/filepath"
	"testing"
)

func TestStreamReadCSV(t *testing.T) {
	p := writeFile(t, "iris_nulls.csv", irisNulls)
	sr, err := NewStreamReader(p, ReaderOptions{HasHeader: true}, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sr.Close() }()
	var sizes []int
	for {
		fr, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		sizes = append(sizes, fr.Rows())
	}
	if len(sizes) != 2 || sizes[0] != 3 || sizes[1] != 1 {
		t.Fatalf("chunk sizes = %v", sizes)
	}
}

func TestStreamWriterHeaderOnce(t *testing.T) {
	tb, err := Read(writeFile(t, "in.csv", irisNulls), ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "out.csv")
	sw, err := NewStreamWriter(dst, tb.Schema(), WriterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := sw.Write(tb); err != nil {
			t.Fatal(err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}
	back, err := Read(dst, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if back.Rows() != 8 {
		t.Fatalf("rows = %d, want 8", back.Rows())
	}
}
