package kv3

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Well-known header identifiers.
const (
	EncodingText              = "text:version{e21c7f3c-8a33-41c5-9977-a76d3a32aa0d}"
	EncodingBinary            = "binary:version{1b860500-f7d8-40c1-ad82-75a48267e714}"
	EncodingBinaryBC          = "binary_bc:version{95791a46-95bc-4f6c-a70b-05bca1b7dfd2}"
	EncodingBinaryLZ4         = "binary_lz4:version{6847348a-63a1-4f5c-a197-53806fd9b119}"
	FormatGeneric             = "generic:version{7412167c-06e9-4698-aff2-e63eb59037e7}"
	headerPrefix              = "<!-- kv3"
	headerSuffix              = "-->"
	identifierVersionTemplate = "%s:version{%s}"
)

var (
	headerEncodingRE = regexp.MustCompile(`encoding:([\w-]+):version\{([0-9A-Fa-f-]+)\}`)
	headerFormatRE   = regexp.MustCompile(`format:([\w-]+):version\{([0-9A-Fa-f-]+)\}`)
	identifierRE     = regexp.MustCompile(`^([\w-]+):version\{([0-9A-Fa-f-]+)\}$`)
)

// Identifier is an encoding or format name with its version GUID.
type Identifier struct {
	Name    string    // e.g. "text" or "generic"
	Version uuid.UUID // version GUID
	guid    string    // GUID as written in the source
}

// ParseIdentifier parses "name:version{GUID}".
func ParseIdentifier(s string) (Identifier, error) {
	m := identifierRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Identifier{}, fmt.Errorf("invalid identifier %q", s)
	}

	return newIdentifier(m[1], m[2])
}

// newIdentifier validates the GUID part of an identifier.
func newIdentifier(name, guid string) (Identifier, error) {
	id, err := uuid.Parse(guid)
	if err != nil {
		return Identifier{}, fmt.Errorf("identifier %s: %w", name, err)
	}

	return Identifier{Name: name, Version: id, guid: guid}, nil
}

// mustIdentifier parses a compile-time identifier constant.
func mustIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}

	return id
}

// DefaultEncoding returns the text encoding identifier.
func DefaultEncoding() Identifier {
	return mustIdentifier(EncodingText)
}

// DefaultFormat returns the generic format identifier.
func DefaultFormat() Identifier {
	return mustIdentifier(FormatGeneric)
}

// IsZero reports whether the identifier is unset.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Version == uuid.Nil
}

// String formats the identifier as "name:version{GUID}". A parsed GUID keeps
// its source spelling unless Version has been reassigned.
func (id Identifier) String() string {
	guid := id.Version.String()
	if src, err := uuid.Parse(id.guid); err == nil && src == id.Version {
		guid = id.guid
	}

	return fmt.Sprintf(identifierVersionTemplate, id.Name, guid)
}

// File is a KV3 document: header identifiers and a root object or array.
type File struct {
	Root     *Object    // root object or array
	Encoding Identifier // zero when the header lacks it
	Format   Identifier // zero when the header lacks it
}

// NewFile wraps root with the default text encoding and generic format.
func NewFile(root *Object) *File {
	return &File{
		Root:     root,
		Encoding: DefaultEncoding(),
		Format:   DefaultFormat(),
	}
}

// Parse parses KV3 text from bytes.
func Parse(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// ParseFile parses a KV3 text file.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	kf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return kf, nil
}

// Decode parses KV3 text from a reader.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	if hdr, _ := br.Peek(4); sniff(hdr) == KindBinary {
		return nil, ErrBinaryKV3
	}

	p := newParser(br)
	if err := p.run(); err != nil {
		return nil, err
	}

	f := &File{Root: p.root}
	if err := f.parseHeader(p.header); err != nil {
		return nil, err
	}

	return f, nil
}

// parseHeader extracts encoding and format identifiers. Missing fields stay zero.
func (f *File) parseHeader(header string) error {
	if header == "" {
		return nil
	}

	if m := headerEncodingRE.FindStringSubmatch(header); m != nil {
		id, err := newIdentifier(m[1], m[2])
		if err != nil {
			return fmt.Errorf("%w: header encoding: %w", ErrParse, err)
		}
		f.Encoding = id
	}

	if m := headerFormatRE.FindStringSubmatch(header); m != nil {
		id, err := newIdentifier(m[1], m[2])
		if err != nil {
			return fmt.Errorf("%w: header format: %w", ErrParse, err)
		}
		f.Format = id
	}

	return nil
}

// Header returns the header line, substituting defaults for unset identifiers.
func (f *File) Header() string {
	enc, format := f.Encoding, f.Format
	if enc.IsZero() {
		enc = DefaultEncoding()
	}
	if format.IsZero() {
		format = DefaultFormat()
	}

	return fmt.Sprintf("%s encoding:%s format:%s %s", headerPrefix, enc, format, headerSuffix)
}

// WriteText writes the header and root with default options.
func (f *File) WriteText(w io.Writer) error {
	return f.Encode(w, nil)
}

// Encode writes the header and root using opt.
func (f *File) Encode(w io.Writer, opt *WriteOptions) error {
	var b bytes.Buffer
	b.WriteString(f.Header())
	b.WriteByte('\n')

	tw := newTextWriter(&b, opt.normalize())
	tw.writeRoot(f.Root)
	b.WriteByte('\n')

	_, err := w.Write(b.Bytes())
	return err
}

// Bytes returns the serialized file.
func (f *File) Bytes(opt *WriteOptions) []byte {
	var b bytes.Buffer
	_ = f.Encode(&b, opt)
	return b.Bytes()
}

// String returns the serialized file with default options.
func (f *File) String() string {
	return string(f.Bytes(nil))
}
