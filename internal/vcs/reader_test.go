package vcs

import (
	"errors"
	"testing"
)

func TestReaderLittleEndian(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0x34, 0x12, 0x78, 0x56, 0x34, 0x12, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x80, 0x3F})

	u16, err := r.ReadU16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("u16=%#x err=%v", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("u32=%#x err=%v", u32, err)
	}
	i32, err := r.ReadI32()
	if err != nil || i32 != -1 {
		t.Fatalf("i32=%d err=%v", i32, err)
	}
	f32, err := r.ReadF32()
	if err != nil || f32 != 1 {
		t.Fatalf("f32=%v err=%v", f32, err)
	}

	if r.Len() != 0 || r.Pos() != 14 {
		t.Fatalf("len=%d pos=%d", r.Len(), r.Pos())
	}
	if _, err := r.ReadU16(); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("read past end: err=%v", err)
	}
}

func TestReaderStrings(t *testing.T) {
	t.Parallel()

	data := make([]byte, nameSize)
	copy(data, "g_vColor")
	data = append(data, "abc\x00def"...)

	r := NewReader(data)
	name, err := r.ReadName()
	if err != nil || name != "g_vColor" {
		t.Fatalf("name=%q err=%v", name, err)
	}

	s, err := r.ReadNullTermString()
	if err != nil || s != "abc" {
		t.Fatalf("s=%q err=%v", s, err)
	}
	if _, err := r.ReadNullTermString(); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("unterminated: err=%v", err)
	}
}

func TestReaderSeekSkip(t *testing.T) {
	t.Parallel()

	r := NewReader(make([]byte, 8))
	if err := r.Seek(6); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if err := r.Skip(1); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("skip past end: err=%v", err)
	}
	if err := r.Seek(9); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("seek past end: err=%v", err)
	}
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("negative read: err=%v", err)
	}
}

func TestPutName(t *testing.T) {
	t.Parallel()

	buf := make([]byte, nameSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	if err := putName(buf, "x"); err != nil {
		t.Fatalf("putName: %v", err)
	}
	if buf[0] != 'x' || buf[1] != 0 || buf[nameSize-1] != 0 {
		t.Fatalf("padding not cleared: % X", buf[:4])
	}

	long := make([]byte, nameSize)
	for i := range long {
		long[i] = 'a'
	}
	if err := putName(buf, string(long)); err == nil {
		t.Fatalf("expected error for oversized name")
	}
}
