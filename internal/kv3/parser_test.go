package kv3

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()

	f, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return f
}

func TestParseScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		typ  Type
		want any
	}{
		{name: "negative int", src: `{ n = -12 }`, typ: TypeInt64, want: int64(-12)},
		{name: "double", src: `{ n = 3.5 }`, typ: TypeDouble, want: 3.5},
		{name: "exponent", src: `{ n = 1.5e3 }`, typ: TypeDouble, want: 1500.0},
		{name: "uint64 overflow", src: `{ n = 18446744073709551615 }`, typ: TypeUInt64, want: uint64(18446744073709551615)},
		{name: "true", src: `{ n = true }`, typ: TypeBoolean, want: true},
		{name: "false", src: `{ n = false }`, typ: TypeBoolean, want: false},
		{name: "null", src: `{ n = null }`, typ: TypeNull, want: nil},
		{name: "string", src: `{ n = "hello world" }`, typ: TypeString, want: "hello world"},
		{name: "escapes", src: `{ n = "a\"b\\c\nd\te\q" }`, typ: TypeString, want: "a\"b\\c\nd\teq"},
		{name: "number before brace", src: `{ n = 7}`, typ: TypeInt64, want: int64(7)},
		{name: "no spaces", src: `{n=5}`, typ: TypeInt64, want: int64(5)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := mustParse(t, tt.src)
			v, ok := f.Root.Property("n")
			if !ok {
				t.Fatalf("property n missing")
			}
			if v.Type != tt.typ {
				t.Fatalf("type=%s want %s", v.Type, tt.typ)
			}
			if v.Value != tt.want {
				t.Fatalf("value=%#v want %#v", v.Value, tt.want)
			}
		})
	}
}

func TestParseEmptyContainers(t *testing.T) {
	t.Parallel()

	obj := mustParse(t, "{}").Root
	if obj.IsArray || obj.Count() != 0 {
		t.Fatalf("{} -> IsArray=%v Count=%d", obj.IsArray, obj.Count())
	}

	arr := mustParse(t, "[]").Root
	if !arr.IsArray || arr.Count() != 0 {
		t.Fatalf("[] -> IsArray=%v Count=%d", arr.IsArray, arr.Count())
	}
}

func TestParseMultilineTrimming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "surrounding newlines", src: "{ s = \"\"\"\nHello\n\"\"\" }", want: "Hello"},
		{name: "inline", src: `{ s = """Hello""" }`, want: "Hello"},
		{name: "crlf", src: "{ s = \"\"\"\r\nA\r\nB\r\n\"\"\" }", want: "A\r\nB"},
		{name: "inner quotes", src: "{ s = \"\"\"\nsay \"hi\"\n\"\"\" }", want: `say "hi"`},
		{name: "no escapes", src: "{ s = \"\"\"\na\\nb\n\"\"\" }", want: `a\nb`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := mustParse(t, tt.src).Root
			if got := GetProperty[string](root, "s"); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestParseFlaggedValue(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{ path = resource:"models/foo.vmdl" }`).Root
	v, ok := root.Property("path")
	if !ok {
		t.Fatalf("property path missing")
	}
	if v.Type != TypeString || v.Flag != FlagResource || v.Value != "models/foo.vmdl" {
		t.Fatalf("got %+v", v)
	}

	if got := FormatValue(v, nil); got != `resource:"models/foo.vmdl"` {
		t.Fatalf("serialized %q", got)
	}
}

func TestParseFlaggedInArray(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{ sounds = [soundevent:"a.b", panorama:"c",subclass:"d"] }`).Root
	arr := GetProperty[*Object](root, "sounds")
	if arr == nil || arr.Count() != 3 {
		t.Fatalf("sounds=%v", arr)
	}

	want := []struct {
		flag Flag
		s    string
	}{
		{FlagSoundEvent, "a.b"},
		{FlagPanorama, "c"},
		{FlagSubClass, "d"},
	}
	i := 0
	for v := range arr.Elements() {
		if v.Flag != want[i].flag || v.Value != want[i].s {
			t.Fatalf("element %d = %+v", i, v)
		}
		i++
	}
}

func TestParseBinaryBlob(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "{ data = #[DEADBEEF] spaced = #[\n\t01 02\n\t03\n] }").Root

	v, _ := root.Property("data")
	if v.Type != TypeBinaryBlob {
		t.Fatalf("type=%s", v.Type)
	}
	if got, _ := v.Value.([]byte); !bytes.Equal(got, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("data=% X", got)
	}

	spaced, err := GetArray[byte](root, "spaced")
	if err != nil {
		t.Fatalf("GetArray: %v", err)
	}
	if !bytes.Equal(spaced, []byte{1, 2, 3}) {
		t.Fatalf("spaced=% X", spaced)
	}
}

func TestParseNestedStructure(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{ root = { list = [ { a = 1 } { a = 2 } ] } }`).Root

	inner := GetProperty[*Object](root, "root")
	if inner == nil || inner.IsArray {
		t.Fatalf("root property: %v", inner)
	}

	list := GetProperty[*Object](inner, "list")
	if list == nil || !list.IsArray || list.Count() != 2 {
		t.Fatalf("list: %v", list)
	}

	for i, k := range list.Keys() {
		el := GetProperty[*Object](list, k)
		if el == nil || el.Count() != 1 {
			t.Fatalf("element %s: %v", k, el)
		}
		if el.Key != k {
			t.Fatalf("element key %q want %q", el.Key, k)
		}
		if got := GetProperty[int64](el, "a"); got != int64(i+1) {
			t.Fatalf("element %d a=%d", i, got)
		}
	}
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	src := "// leading\n{ /* block */ a = 1 // trailing\n b = [1, /* inside */ 2] /**/ }\n// after\n"
	root := mustParse(t, src).Root

	if got := GetProperty[int64](root, "a"); got != 1 {
		t.Fatalf("a=%d", got)
	}

	b, err := GetArray[int](root, "b")
	if err != nil {
		t.Fatalf("GetArray: %v", err)
	}
	if len(b) != 2 || b[0] != 1 || b[1] != 2 {
		t.Fatalf("b=%v", b)
	}
}

func TestParseQuotedKeys(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{ "my key" = 1 "say \"x\"" = 2 plain.key_1 = 3 }`).Root

	want := []string{"my key", `say "x"`, "plain.key_1"}
	got := root.Keys()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("keys=%q want %q", got, want)
	}
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{ a = 1 b = 2 a = 3 }`).Root
	if root.Count() != 2 {
		t.Fatalf("count=%d", root.Count())
	}
	if keys := root.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("keys=%v", keys)
	}
	if got := GetProperty[int64](root, "a"); got != 3 {
		t.Fatalf("a=%d", got)
	}
}

func TestParseArrayKeys(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `[ "x", 2, { a = 1 }, [ 3 ], null, ]`).Root
	if !root.IsArray || root.Count() != 5 {
		t.Fatalf("IsArray=%v count=%d", root.IsArray, root.Count())
	}

	for i, k := range root.Keys() {
		if k != string(rune('0'+i)) {
			t.Fatalf("key %d = %q", i, k)
		}
	}
}

func TestParseBOM(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "\xEF\xBB\xBF{ a = 1 }").Root
	if got := GetProperty[int64](root, "a"); got != 1 {
		t.Fatalf("a=%d", got)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		offset int64
		eof    bool
		msg    string
	}{
		{name: "missing value", src: `{ a = }`, offset: 6, msg: "expected value"},
		{name: "unknown flag", src: `{ a = foo:"x" }`, offset: 9, msg: "unknown flag"},
		{name: "bare word", src: `{ a = hello }`, offset: 11, msg: "expected value"},
		{name: "bad number", src: `{ a = 1.2.3 }`, offset: 11, msg: "invalid number"},
		{name: "scalar root", src: `42`, offset: 0, msg: "root value"},
		{name: "data after root", src: `{} {}`, offset: 3, msg: "after root"},
		{name: "array in struct", src: `{ [ }`, offset: 2, msg: "property name"},
		{name: "colon in array", src: `[ : ]`, offset: 2, msg: "malformed array"},
		{name: "odd blob", src: `{ b = #[ABC] }`, offset: 11, msg: "binary blob"},
		{name: "unclosed object", src: `{ a = 1`, offset: 7, eof: true, msg: "unclosed"},
		{name: "unclosed string", src: `{ a = "x`, offset: 8, eof: true, msg: "unclosed"},
		{name: "unterminated comment", src: `{ } /* x`, offset: 8, eof: true, msg: "block comment"},
		{name: "empty", src: "  \n", offset: 3, eof: true, msg: "no root"},
		{name: "unterminated header", src: `<!-- kv3`, offset: 8, eof: true, msg: "header"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error %v does not wrap ErrParse", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Offset != tt.offset {
				t.Fatalf("offset=%d want %d (%v)", pe.Offset, tt.offset, err)
			}
			if pe.EOF != tt.eof {
				t.Fatalf("eof=%v want %v (%v)", pe.EOF, tt.eof, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestParseBinaryRejected(t *testing.T) {
	t.Parallel()

	for _, magic := range []string{"VKV\x03", "\x033VK"} {
		_, err := Parse([]byte(magic + "\x00\x00\x00\x00"))
		if !errors.Is(err, ErrBinaryKV3) {
			t.Fatalf("magic %q: err=%v", magic, err)
		}
	}
}
