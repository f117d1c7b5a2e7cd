package kv3

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const textHeader = "<!-- kv3 encoding:text:version{e21c7f3c-8a33-41c5-9977-a76d3a32aa0d} format:generic:version{7412167c-06e9-4698-aff2-e63eb59037e7} -->"

func TestFileHeader(t *testing.T) {
	t.Parallel()

	src := textHeader + "\n{\n\ta = 1\n}\n"
	f := mustParse(t, src)

	if f.Encoding.Name != "text" || f.Encoding.Version.String() != "e21c7f3c-8a33-41c5-9977-a76d3a32aa0d" {
		t.Fatalf("encoding=%v", f.Encoding)
	}
	if f.Format.Name != "generic" || f.Format != DefaultFormat() {
		t.Fatalf("format=%v", f.Format)
	}

	if got := f.String(); got != src {
		t.Fatalf("got %q want %q", got, src)
	}
}

func TestFileCustomFormat(t *testing.T) {
	t.Parallel()

	src := "<!-- kv3 encoding:text:version{e21c7f3c-8a33-41c5-9977-a76d3a32aa0d} format:vpcf36:version{d15c9157-10e0-47bc-9333-1ac81da07b8d} -->\n{}"
	f := mustParse(t, src)

	if f.Format.Name != "vpcf36" {
		t.Fatalf("format=%v", f.Format)
	}
	if !strings.Contains(f.Header(), "format:vpcf36:version{d15c9157-10e0-47bc-9333-1ac81da07b8d}") {
		t.Fatalf("header=%q", f.Header())
	}
}

func TestFileHeaderKeepsGUIDCase(t *testing.T) {
	t.Parallel()

	header := "<!-- kv3 encoding:text:version{E21C7F3C-8A33-41C5-9977-A76D3A32AA0D} format:generic:version{7412167C-06E9-4698-AFF2-E63EB59037E7} -->"
	f := mustParse(t, header+"\n{}")

	if f.Header() != header {
		t.Fatalf("header=%q want %q", f.Header(), header)
	}
	if f.Encoding.Version != DefaultEncoding().Version {
		t.Fatalf("encoding version=%v", f.Encoding.Version)
	}

	id := f.Format
	id.Version = DefaultEncoding().Version
	if got := id.String(); got != "generic:version{e21c7f3c-8a33-41c5-9977-a76d3a32aa0d}" {
		t.Fatalf("reassigned version = %q", got)
	}
}

func TestFileWithoutHeader(t *testing.T) {
	t.Parallel()

	f := mustParse(t, "{ a = 1 }")
	if !f.Encoding.IsZero() || !f.Format.IsZero() {
		t.Fatalf("identifiers should be zero: %v %v", f.Encoding, f.Format)
	}
	if !strings.HasPrefix(f.String(), textHeader+"\n") {
		t.Fatalf("default header missing: %q", f.String())
	}
}

func TestFileBadHeaderGUID(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("<!-- kv3 encoding:text:version{1234} format:generic:version{7412167c-06e9-4698-aff2-e63eb59037e7} -->\n{}"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseIdentifier(t *testing.T) {
	t.Parallel()

	id, err := ParseIdentifier(EncodingBinaryLZ4)
	if err != nil {
		t.Fatalf("ParseIdentifier: %v", err)
	}
	if id.Name != "binary_lz4" || id.String() != EncodingBinaryLZ4 {
		t.Fatalf("id=%v", id)
	}

	for _, bad := range []string{"", "text", "text:version{nope}", "text:version{1234}"} {
		if _, err := ParseIdentifier(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseFileWrapsPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.kv3")
	if err := os.WriteFile(good, []byte("{ a = 1 }"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ParseFile(good); err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	bad := filepath.Join(dir, "bad.kv3")
	if err := os.WriteFile(bad, []byte("{ a = }"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ParseFile(bad)
	if !errors.Is(err, ErrParse) || !strings.Contains(err.Error(), "bad.kv3") {
		t.Fatalf("err=%v", err)
	}
}

func TestEncodeOptions(t *testing.T) {
	t.Parallel()

	root := NewObject("")
	root.AddProperty("a", Int64(1))

	var b strings.Builder
	if err := NewFile(root).Encode(&b, &WriteOptions{Indent: "    "}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := textHeader + "\n{\n    a = 1\n}\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}
