package elf

import (
	"fmt"

	"github.com/spf13/afero"
)

// Buffer holds the full contents of one input file. It is never mutated
// after construction.
type Buffer struct {
	data []byte
}

// NewBuffer creates a buffer over a private copy of data
func NewBuffer(data []byte) *Buffer {
	b := make([]byte, len(data))
	copy(b, data)
	return &Buffer{data: b}
}

// LoadFile reads the whole file at path from fs into a Buffer.
// A nonzero maxSize rejects files larger than maxSize bytes.
func LoadFile(fs afero.Fs, path string, maxSize int64) (*Buffer, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%s is %d bytes, exceeds limit of %d", path, info.Size(), maxSize)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &Buffer{data: data}, nil
}

// Len returns the number of bytes in the buffer
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns a copy of the buffer contents
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Cursor returns a new cursor positioned at the start of the buffer
func (b *Buffer) Cursor() *Cursor {
	return &Cursor{buf: b}
}
