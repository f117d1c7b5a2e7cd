// Package vcs decodes fixed-layout records of compiled shader files into
// KV3 object trees.
package vcs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortBuffer is returned when a read runs past the end of the data.
var ErrShortBuffer = errors.New("vcs: short buffer")

// nameSize is the length of fixed, zero padded name fields.
const nameSize = 64

// Reader reads little-endian values from a byte slice, tracking its position.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Seek moves to an absolute offset.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return fmt.Errorf("%w: seek to %d of %d", ErrShortBuffer, offset, len(r.data))
	}

	r.pos = offset
	return nil
}

// Skip advances by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ReadBytes returns the next n bytes. The slice aliases the underlying data.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadU16 reads an unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a 32-bit float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadFixedString reads an n byte field and returns the text before the first zero.
func (r *Reader) ReadFixedString(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}

	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b), nil
}

// ReadName reads a 64 byte padded name.
func (r *Reader) ReadName() (string, error) {
	return r.ReadFixedString(nameSize)
}

// ReadNullTermString reads up to and including a zero byte.
func (r *Reader) ReadNullTermString() (string, error) {
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		return "", fmt.Errorf("%w: unterminated string at %d", ErrShortBuffer, r.pos)
	}

	s := string(r.data[r.pos : r.pos+i])
	r.pos += i + 1

	return s, nil
}

// take returns the next n bytes and advances.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrShortBuffer, n, r.pos, r.Len())
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// putU32 writes a 32-bit integer to b.
func putU32(b []byte, v uint32) {
	if len(b) < 4 {
		return
	}

	binary.LittleEndian.PutUint32(b, v)
}

// putName writes s as a zero padded fixed field.
func putName(b []byte, s string) error {
	if len(s) >= nameSize {
		return fmt.Errorf("name %q longer than %d bytes", s, nameSize-1)
	}
	if len(b) < nameSize {
		return errors.New("buffer too small for name")
	}

	clear(b[:nameSize])
	copy(b, s)

	return nil
}
