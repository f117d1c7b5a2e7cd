package kv3

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON implements json.Marshaler with key order preserved.
// Blobs become uppercase hex strings and flags are dropped.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSONObject(&b, o); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

func writeJSONObject(b *bytes.Buffer, o *Object) error {
	if o == nil {
		b.WriteString("null")
		return nil
	}

	open, closing := byte('{'), byte('}')
	if o.IsArray {
		open, closing = '[', ']'
	}

	b.WriteByte(open)
	i := 0
	for k, v := range o.Properties() {
		if i > 0 {
			b.WriteByte(',')
		}
		i++

		if !o.IsArray {
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteByte(':')
		}

		if err := writeJSONValue(b, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	b.WriteByte(closing)

	return nil
}

func writeJSONValue(b *bytes.Buffer, v Value) error {
	switch v.Type {
	case TypeBoolean:
		bv, _ := v.Value.(bool)
		b.WriteString(strconv.FormatBool(bv))

	case TypeInt64, TypeInt32, TypeInt16, TypeUInt32, TypeUInt16:
		n, _ := v.Int()
		b.WriteString(strconv.FormatInt(n, 10))

	case TypeUInt64:
		n, _ := v.Value.(uint64)
		b.WriteString(strconv.FormatUint(n, 10))

	case TypeDouble, TypeFloat:
		f, _ := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v has no JSON representation", ErrConvert, f)
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))

	case TypeString, TypeStringMulti:
		s, _ := v.Value.(string)
		out, err := json.Marshal(s)
		if err != nil {
			return err
		}
		b.Write(out)

	case TypeBinaryBlob:
		raw, _ := v.Value.([]byte)
		b.WriteByte('"')
		b.WriteString(strings.ToUpper(hex.EncodeToString(raw)))
		b.WriteByte('"')

	case TypeObject, TypeArray, TypeArrayTyped:
		o, _ := v.Object()
		return writeJSONObject(b, o)

	default:
		b.WriteString("null")
	}

	return nil
}
