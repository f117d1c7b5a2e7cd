package kv3

import (
	"bytes"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

const (
	defaultIndent           = "\t"
	defaultBlobBytesPerLine = 32
)

// WriteOptions controls text serialization. The zero value means defaults.
type WriteOptions struct {
	Indent           string // indentation unit, tab by default
	BlobBytesPerLine int    // hex pairs per binary blob line, 32 by default
}

// normalize fills in defaults.
func (o *WriteOptions) normalize() WriteOptions {
	out := WriteOptions{Indent: defaultIndent, BlobBytesPerLine: defaultBlobBytesPerLine}
	if o == nil {
		return out
	}

	if o.Indent != "" {
		out.Indent = o.Indent
	}
	if o.BlobBytesPerLine > 0 {
		out.BlobBytesPerLine = o.BlobBytesPerLine
	}

	return out
}

// FormatValue renders a single value as KV3 text, nested values starting at depth zero.
func FormatValue(v Value, opt *WriteOptions) string {
	var b bytes.Buffer
	tw := newTextWriter(&b, opt.normalize())
	tw.writeValue(v, false)
	return b.String()
}

// textWriter serializes an object tree depth first.
type textWriter struct {
	w     io.Writer
	opt   WriteOptions
	depth int
}

// newTextWriter creates a writer. w is expected to be an in-memory sink.
func newTextWriter(w io.Writer, opt WriteOptions) *textWriter {
	return &textWriter{w: w, opt: opt}
}

// writeRoot writes the top-level object without a leading line break.
func (t *textWriter) writeRoot(o *Object) {
	if o == nil {
		o = NewObject("")
	}

	t.writeValue(ObjectValue(o), false)
}

// writeValue writes v at the current position. Containers that are the
// value of an object property start on their own line.
func (t *textWriter) writeValue(v Value, property bool) {
	if kw := v.Flag.Keyword(); kw != "" {
		t.str(kw)
		t.str(":")
	}

	switch v.Type {
	case TypeNull:
		t.str("null")

	case TypeBoolean:
		if b, _ := v.Value.(bool); b {
			t.str("true")
		} else {
			t.str("false")
		}

	case TypeDouble, TypeFloat:
		f, _ := v.Float64()
		t.str(strconv.FormatFloat(f, 'f', 6, 64))

	case TypeInt64, TypeInt32, TypeInt16, TypeUInt32, TypeUInt16:
		n, _ := v.Int()
		t.str(strconv.FormatInt(n, 10))

	case TypeUInt64:
		n, _ := v.Value.(uint64)
		t.str(strconv.FormatUint(n, 10))

	case TypeString, TypeStringMulti:
		s, _ := v.Value.(string)
		t.writeString(s, v.Flag != FlagNone)

	case TypeBinaryBlob:
		b, _ := v.Value.([]byte)
		t.writeBlob(b)

	case TypeObject, TypeArray, TypeArrayTyped:
		o, ok := v.Object()
		if !ok {
			t.str("null")
			return
		}
		if property {
			t.str("\n")
			t.indent()
		}
		if o.IsArray {
			t.writeArray(o)
		} else {
			t.writeObject(o)
		}

	default:
		t.str("null")
	}
}

// writeObject writes { key = value ... }.
func (t *textWriter) writeObject(o *Object) {
	t.str("{\n")
	t.depth++
	for k, v := range o.Properties() {
		t.indent()
		t.str(formatKey(k))
		t.str(" = ")
		t.writeValue(v, true)
		t.str("\n")
	}
	t.depth--
	t.indent()
	t.str("}")
}

// writeArray writes [ value, ... ].
func (t *textWriter) writeArray(o *Object) {
	t.str("[\n")
	t.depth++
	for v := range o.Elements() {
		t.indent()
		t.writeValue(v, false)
		t.str(",\n")
	}
	t.depth--
	t.indent()
	t.str("]")
}

// writeString writes a quoted string, or a triple-quoted block when s spans
// lines. Flagged values and text holding a block delimiter stay on one line.
func (t *textWriter) writeString(s string, flagged bool) {
	if !flagged && strings.Contains(s, "\n") && !strings.Contains(s, `"""`) {
		t.str(`"""`)
		t.str("\n")
		t.str(s)
		t.str("\n")
		t.str(`"""`)
		return
	}

	t.str(`"`)
	t.str(escapeString(s))
	t.str(`"`)
}

// writeBlob writes #[ ... ] with uppercase hex pairs.
func (t *textWriter) writeBlob(b []byte) {
	t.str("#[\n")
	t.depth++
	per := t.opt.BlobBytesPerLine
	for start := 0; start < len(b); start += per {
		end := min(start+per, len(b))
		t.indent()
		for i, c := range b[start:end] {
			if i > 0 {
				t.str(" ")
			}
			t.str(strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
		t.str("\n")
	}
	t.depth--
	t.indent()
	t.str("]")
}

func (t *textWriter) indent() {
	for range t.depth {
		t.str(t.opt.Indent)
	}
}

func (t *textWriter) str(s string) {
	_, _ = io.WriteString(t.w, s)
}
