package kv3

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Kind is the detected encoding of KV3 data.
type Kind string

const (
	// KindText is KV3 text, with or without a header.
	KindText Kind = "text"
	// KindBinary is one of the binary KV3 encodings.
	KindBinary Kind = "binary"
	// KindUnknown is anything else.
	KindUnknown Kind = "unknown"
)

// binaryMagics are the leading bytes of binary KV3 blocks, oldest first.
var binaryMagics = [][]byte{
	[]byte("VKV\x03"),
	[]byte("\x013VK"),
	[]byte("\x023VK"),
	[]byte("\x033VK"),
	[]byte("\x043VK"),
	[]byte("\x053VK"),
}

// sniffLimit bounds how far past leading whitespace Sniff looks.
const sniffLimit = 512

// DetectFile reads the start of a file and reports whether it is KV3 text.
// It returns ok=true for text, ok=false otherwise, and the detected kind.
func DetectFile(path string) (ok bool, kind Kind, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	kind, err = Sniff(f)
	if err != nil {
		return false, "", err
	}

	return kind == KindText, kind, nil
}

// Sniff classifies the data at the start of r.
func Sniff(r io.Reader) (Kind, error) {
	buf := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}

	return sniff(buf[:n]), nil
}

// sniff classifies a prefix of KV3 data.
func sniff(b []byte) Kind {
	for _, m := range binaryMagics {
		if bytes.HasPrefix(b, m) {
			return KindBinary
		}
	}

	b = bytes.TrimPrefix(b, utf8BOM)
	b = bytes.TrimLeft(b, " \t\r\n")
	switch {
	case bytes.HasPrefix(b, []byte(headerPrefix)):
		return KindText
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return KindText
	case bytes.HasPrefix(b, []byte("//")) || bytes.HasPrefix(b, []byte("/*")):
		return KindText
	default:
		return KindUnknown
	}
}
