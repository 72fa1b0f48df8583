package extended

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Source is a readable, byte-addressable medium probed by sniffers and handed
// to extractors. The bridge never writes to it.
type Source interface {
	io.ReaderAt

	// Size returns the total length in bytes, or -1 with a nil error if the
	// length is not known.
	Size() (int64, error)
}

// BytesSource is a Source over an in-memory buffer.
type BytesSource struct {
	r *bytes.Reader
}

// NewBytesSource wraps data. The slice must not be modified afterwards.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{r: bytes.NewReader(data)}
}

// ReadAt implements io.ReaderAt.
func (s *BytesSource) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

// Size returns the buffer length.
func (s *BytesSource) Size() (int64, error) {
	return s.r.Size(), nil
}

// FileSource is a Source backed by an open file.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path read-only as a Source.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := fi.Size()
	if !fi.Mode().IsRegular() {
		size = -1
	}
	return &FileSource{f: f, size: size}, nil
}

// ReadAt implements io.ReaderAt.
func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the file size, or -1 for non-regular files.
func (s *FileSource) Size() (int64, error) {
	return s.size, nil
}

// Name returns the file name as passed to OpenFile.
func (s *FileSource) Name() string {
	return s.f.Name()
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// peek reads up to n bytes from the start of src. A short source is not an
// error; the returned slice is simply shorter.
func peek(src Source, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := src.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
