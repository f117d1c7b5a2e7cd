package kv3

// Value is a typed KV3 value. Type decides which Go type Value holds:
//
//	TypeNull                          nil
//	TypeBoolean                       bool
//	TypeInt64, TypeInt32, TypeInt16   int64, int32, int16
//	TypeUInt64, TypeUInt32, TypeUInt16 uint64, uint32, uint16
//	TypeDouble, TypeFloat             float64, float32
//	TypeString, TypeStringMulti       string
//	TypeBinaryBlob                    []byte
//	TypeArray, TypeArrayTyped, TypeObject *Object
//
// Flag is only set on string values.
type Value struct {
	Value any  // underlying Go value
	Type  Type // logical type
	Flag  Flag // semantic annotation for strings
}

// NewValue builds a value of the given type. The caller keeps v consistent with t.
func NewValue(t Type, v any) Value {
	return Value{Type: t, Value: v}
}

// NewFlaggedValue builds a flagged string value.
func NewFlaggedValue(flag Flag, s string) Value {
	return Value{Type: TypeString, Flag: flag, Value: s}
}

// Null returns the null value.
func Null() Value {
	return Value{Type: TypeNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Type: TypeBoolean, Value: b}
}

// Int64 returns a signed 64-bit integer value.
func Int64(n int64) Value {
	return Value{Type: TypeInt64, Value: n}
}

// UInt64 returns an unsigned 64-bit integer value.
func UInt64(n uint64) Value {
	return Value{Type: TypeUInt64, Value: n}
}

// Int32 returns a signed 32-bit integer value.
func Int32(n int32) Value {
	return Value{Type: TypeInt32, Value: n}
}

// UInt32 returns an unsigned 32-bit integer value.
func UInt32(n uint32) Value {
	return Value{Type: TypeUInt32, Value: n}
}

// Double returns a 64-bit floating value.
func Double(f float64) Value {
	return Value{Type: TypeDouble, Value: f}
}

// Float returns a 32-bit floating value.
func Float(f float32) Value {
	return Value{Type: TypeFloat, Value: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{Type: TypeString, Value: s}
}

// Blob returns a binary blob value.
func Blob(b []byte) Value {
	return Value{Type: TypeBinaryBlob, Value: b}
}

// ObjectValue wraps an object or array. The value type follows o.IsArray.
func ObjectValue(o *Object) Value {
	if o != nil && o.IsArray {
		return Value{Type: TypeArray, Value: o}
	}

	return Value{Type: TypeObject, Value: o}
}

// Object returns the nested object for container values.
func (v Value) Object() (*Object, bool) {
	if !v.Type.IsContainer() {
		return nil, false
	}

	o, ok := v.Value.(*Object)
	return o, ok && o != nil
}

// Str returns the string for string values.
func (v Value) Str() (string, bool) {
	if v.Type != TypeString && v.Type != TypeStringMulti {
		return "", false
	}

	s, ok := v.Value.(string)
	return s, ok
}

// Int returns any integer value widened to int64.
func (v Value) Int() (int64, bool) {
	switch n := v.Value.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// Float64 returns any numeric value as float64.
func (v Value) Float64() (float64, bool) {
	switch n := v.Value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}

	if i, ok := v.Int(); ok {
		return float64(i), true
	}

	return 0, false
}

// typeMatches reports whether the Go representation agrees with the type tag.
func (v Value) typeMatches() bool {
	switch v.Type {
	case TypeNull:
		return v.Value == nil
	case TypeBoolean:
		_, ok := v.Value.(bool)
		return ok
	case TypeInt64:
		_, ok := v.Value.(int64)
		return ok
	case TypeUInt64:
		_, ok := v.Value.(uint64)
		return ok
	case TypeInt32:
		_, ok := v.Value.(int32)
		return ok
	case TypeUInt32:
		_, ok := v.Value.(uint32)
		return ok
	case TypeInt16:
		_, ok := v.Value.(int16)
		return ok
	case TypeUInt16:
		_, ok := v.Value.(uint16)
		return ok
	case TypeDouble:
		_, ok := v.Value.(float64)
		return ok
	case TypeFloat:
		_, ok := v.Value.(float32)
		return ok
	case TypeString, TypeStringMulti:
		_, ok := v.Value.(string)
		return ok
	case TypeBinaryBlob:
		_, ok := v.Value.([]byte)
		return ok
	case TypeArray, TypeArrayTyped, TypeObject:
		o, ok := v.Value.(*Object)
		return ok && o != nil && o.IsArray == (v.Type != TypeObject)
	default:
		return false
	}
}
