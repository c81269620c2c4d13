// Package testfile opens test inputs and answers, transparently decompressing
// zstd-compressed copies stored next to them as <name>.zst.
package testfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Ext is the suffix of compressed test files.
const Ext = ".zst"

// Resolve returns the path that actually holds the contents of path: path itself if it
// exists, otherwise path+".zst". It reports fs.ErrNotExist when neither does.
func Resolve(path string) (string, error) {
	if isRegular(path) {
		return path, nil
	}
	if isRegular(path + Ext) {
		return path + Ext, nil
	}
	return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
}

// Exists reports whether path or its compressed copy exists.
func Exists(path string) bool {
	_, err := Resolve(path)
	return err == nil
}

// Open opens path for reading, decompressing on the fly if only the .zst copy exists.
func Open(path string) (io.ReadCloser, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", resolved, err)
	}
	if resolved == path {
		return f, nil
	}

	d, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create zstd reader for %s: %w", resolved, err)
	}
	return &zstdFile{d: d, f: f}, nil
}

// ReadAll reads the full (decompressed) contents of path.
func ReadAll(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

type zstdFile struct {
	d *zstd.Decoder
	f *os.File
}

func (z *zstdFile) Read(p []byte) (int, error) {
	return z.d.Read(p)
}

func (z *zstdFile) Close() error {
	z.d.Close()
	return z.f.Close()
}

func isRegular(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return st.Mode().IsRegular()
}

// IsNotExist reports whether err means the test file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Materialize returns a plain file holding the contents of path, for programs that need a
// real path rather than a reader. A compressed copy is decompressed into a temporary file
// which cleanup removes. cleanup is never nil.
func Materialize(path string) (plain string, cleanup func(), err error) {
	cleanup = func() {}
	resolved, err := Resolve(path)
	if err != nil {
		return "", cleanup, err
	}
	if resolved == path {
		return path, cleanup, nil
	}

	r, err := Open(path)
	if err != nil {
		return "", cleanup, err
	}
	defer r.Close()

	tmp, err := os.CreateTemp("", "grader-*-"+filepath.Base(path))
	if err != nil {
		return "", cleanup, fmt.Errorf("failed to create temporary file: %w", err)
	}
	remove := func() { _ = os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		remove()
		return "", cleanup, fmt.Errorf("failed to decompress %s: %w", resolved, err)
	}
	if err := tmp.Close(); err != nil {
		remove()
		return "", cleanup, fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), remove, nil
}
