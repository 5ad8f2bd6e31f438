package elf

import (
	"errors"
	"fmt"
)

// ErrInvalidReadWidth is returned for a Read outside {1, 2, 4} bytes
var ErrInvalidReadWidth = errors.New("invalid read width")

// MaxRead is the largest number of bytes a single Read may return
const MaxRead = 4

// Cursor tracks a read position into a Buffer. Every successful read
// advances the position by exactly the number of bytes returned; a short
// read fails with TruncatedInput and leaves the position unchanged.
type Cursor struct {
	buf *Buffer
	pos int
}

// Pos returns the current read position
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return c.buf.Len() - c.pos
}

// Read returns exactly the next n raw bytes, n in {1, 2, 4}. A zero n
// reads one byte. Any other width fails without moving the cursor;
// callers needing more than MaxRead bytes issue several reads.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n <= 0 {
		n = 1
	}
	if n != 1 && n != 2 && n != MaxRead {
		return nil, fmt.Errorf("%w: %d bytes at offset 0x%x", ErrInvalidReadWidth, n, c.pos)
	}
	if c.Remaining() < n {
		return nil, truncated(c.pos, n, c.Remaining())
	}

	out := make([]byte, n)
	copy(out, c.buf.data[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadByte reads a single byte
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads two bytes and decodes them little-endian
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return DecodeLE16(b), nil
}

// ReadUint32 reads four bytes and decodes them little-endian
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return DecodeLE32(b), nil
}

// Skip discards n bytes using reads of 4, 2 or 1 bytes
func (c *Cursor) Skip(n int) error {
	if c.Remaining() < n {
		return truncated(c.pos, n, c.Remaining())
	}
	for n > 0 {
		step := 1
		switch {
		case n >= MaxRead:
			step = MaxRead
		case n >= 2:
			step = 2
		}
		if _, err := c.Read(step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Seek moves the cursor to an absolute position. Positions past the end
// of the buffer are TruncatedInput.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.buf.Len() {
		return &DecodeError{
			Kind:     KindTruncatedInput,
			Offset:   pos,
			Expected: uint64(pos),
			Actual:   uint64(c.buf.Len()),
			Detail:   "seek beyond end of input",
		}
	}
	c.pos = pos
	return nil
}
