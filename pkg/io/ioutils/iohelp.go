// Package ioutils opens and creates files that may be gzip compressed.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Ext returns the lowercased format extension of path without the dot,
// looking through a trailing ".gz".
func Ext(path string) string {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	return strings.TrimPrefix(filepath.Ext(p), ".")
}

// IsGzip reports whether path names a gzip file by extension.
func IsGzip(path string) bool { return strings.EqualFold(filepath.Ext(path), ".gz") }

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		br := bufio.NewReader(os.Stdin)
		if isGzipMagic(br) {
			return gzip.NewReader(br)
		}
		return io.NopCloser(br), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if IsGzip(path) || isGzipMagic(br) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return f.Close() }}, nil
	}
	return readCloser{Reader: br, closeFn: f.Close}, nil
}

func isGzipMagic(br *bufio.Reader) bool {
	b, err := br.Peek(2)
	return err == nil && b[0] == 0x1f && b[1] == 0x8b
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. If the path ends in .gz, the writer is gzip compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if IsGzip(path) {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			_ = w.closeFn()
			return err
		}
	}
	if w.closeFn != nil {
		return w.closeFn()
	}
	return errors.New("no closeFn")
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error {
	if bw, ok := n.Writer.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
