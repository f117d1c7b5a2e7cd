package kv3

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Object is an ordered property bag, or an array when IsArray is set.
// Array members are keyed by their decimal insertion index.
type Object struct {
	props   map[string]Value // values by key
	Key     string           // name under which the object is attached to its parent
	keys    []string         // keys in insertion order
	IsArray bool             // array mode
}

// NewObject creates an empty object.
func NewObject(key string) *Object {
	return &Object{Key: key, props: map[string]Value{}}
}

// NewArray creates an empty array.
func NewArray(key string) *Object {
	return &Object{Key: key, IsArray: true, props: map[string]Value{}}
}

// AddProperty appends a property. In array mode name is ignored and the
// element index is used instead. Adding an existing key replaces its value
// and keeps its first position.
func (o *Object) AddProperty(name string, v Value) {
	if o.props == nil {
		o.props = map[string]Value{}
	}

	if o.IsArray {
		name = strconv.Itoa(len(o.keys))
	}

	if _, ok := o.props[name]; !ok {
		o.keys = append(o.keys, name)
	}

	o.props[name] = v
}

// Append adds an element to an array. On an object it adds a property under
// the lowest decimal key from Count upward that is not already taken.
func (o *Object) Append(v Value) {
	if o.IsArray {
		o.AddProperty("", v)
		return
	}

	n := len(o.keys)
	for o.ContainsKey(strconv.Itoa(n)) {
		n++
	}
	o.AddProperty(strconv.Itoa(n), v)
}

// Count returns the number of properties.
func (o *Object) Count() int {
	return len(o.keys)
}

// Keys returns a copy of the property keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// ContainsKey reports whether a property exists.
func (o *Object) ContainsKey(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Property returns the value stored under name.
func (o *Object) Property(name string) (Value, bool) {
	v, ok := o.props[name]
	return v, ok
}

// Properties iterates over properties in insertion order.
func (o *Object) Properties() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.keys {
			if !yield(k, o.props[k]) {
				return
			}
		}
	}
}

// Elements iterates over property values in insertion order.
func (o *Object) Elements() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, k := range o.keys {
			if !yield(o.props[k]) {
				return
			}
		}
	}
}

// Lookup walks a dotted path such as "m_Children.0.m_sName".
// Array elements are addressed by index.
func (o *Object) Lookup(path string) (Value, bool) {
	if path == "" {
		return ObjectValue(o), true
	}

	cur := o
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur.props[p]
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}

		next, ok := v.Object()
		if !ok {
			return Value{}, false
		}
		cur = next
	}

	return Value{}, false
}

// GetProperty returns the property converted to T, or the zero T when the
// property is absent or cannot be represented as T.
func GetProperty[T any](o *Object, name string) T {
	var zero T
	if o == nil {
		return zero
	}

	v, ok := o.props[name]
	if !ok {
		return zero
	}

	out, _ := convert[T](v)
	return out
}

// GetArray projects an array property onto []T. A binary blob is returned
// as is when T is byte.
func GetArray[T any](o *Object, name string) ([]T, error) {
	if o == nil {
		return nil, nil
	}

	v, ok := o.Property(name)
	if !ok {
		return nil, nil
	}

	if v.Type == TypeBinaryBlob {
		if out, ok := any(v.Value).([]T); ok {
			return out, nil
		}

		return nil, fmt.Errorf("%w: property %q is %s, not an array of %T", ErrTypeMismatch, name, v.Type, *new(T))
	}

	arr, ok := v.Object()
	if !ok || !arr.IsArray {
		return nil, fmt.Errorf("%w: property %q is %s, not an array", ErrTypeMismatch, name, v.Type)
	}

	out := make([]T, 0, arr.Count())
	for i, k := range arr.keys {
		el, ok := convert[T](arr.props[k])
		if !ok {
			return nil, fmt.Errorf("%w: element %d of %q is %s, not %T", ErrTypeMismatch, i, name, arr.props[k].Type, el)
		}
		out = append(out, el)
	}

	return out, nil
}

// convert coerces a value to T, widening and narrowing numbers when they fit.
func convert[T any](v Value) (T, bool) {
	var out T
	if t, ok := v.Value.(T); ok {
		return t, true
	}

	switch p := any(&out).(type) {
	case *Value:
		*p = v
		return out, true

	case *int64:
		n, ok := v.Int()
		*p = n
		return out, ok

	case *int:
		n, ok := v.Int()
		*p = int(n)
		return out, ok

	case *int32:
		n, ok := v.Int()
		if !ok || n < -1<<31 || n > 1<<31-1 {
			return out, false
		}
		*p = int32(n)
		return out, true

	case *int16:
		n, ok := v.Int()
		if !ok || n < -1<<15 || n > 1<<15-1 {
			return out, false
		}
		*p = int16(n)
		return out, true

	case *uint64:
		n, ok := v.uint()
		*p = n
		return out, ok

	case *uint32:
		n, ok := v.uint()
		if !ok || n > 1<<32-1 {
			return out, false
		}
		*p = uint32(n)
		return out, true

	case *uint16:
		n, ok := v.uint()
		if !ok || n > 1<<16-1 {
			return out, false
		}
		*p = uint16(n)
		return out, true

	case *byte:
		n, ok := v.uint()
		if !ok || n > 0xFF {
			return out, false
		}
		*p = byte(n)
		return out, true

	case *float64:
		f, ok := v.Float64()
		*p = f
		return out, ok

	case *float32:
		f, ok := v.Float64()
		*p = float32(f)
		return out, ok
	}

	return out, false
}

// uint returns any non-negative integer value as uint64.
func (v Value) uint() (uint64, bool) {
	if n, ok := v.Value.(uint64); ok {
		return n, true
	}

	n, ok := v.Int()
	if !ok || n < 0 {
		return 0, false
	}

	return uint64(n), true
}
