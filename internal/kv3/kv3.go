// Package kv3 provides reading and writing of KeyValues3 text files and the
// ordered key/value object model they decode into.
package kv3

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is wrapped by every error returned for malformed KV3 text.
	ErrParse = errors.New("kv3 parse error")

	// ErrTypeMismatch is returned when a property does not have the requested shape.
	ErrTypeMismatch = errors.New("kv3 type mismatch")

	// ErrBinaryKV3 is returned when binary KV3 data is passed to the text parser.
	ErrBinaryKV3 = errors.New("binary kv3 is not supported")
)

// Type is the logical type of a value.
type Type int

const (
	// TypeNull is the null literal.
	TypeNull Type = iota
	// TypeBoolean holds a bool.
	TypeBoolean
	// TypeInt64 holds an int64.
	TypeInt64
	// TypeUInt64 holds a uint64.
	TypeUInt64
	// TypeDouble holds a float64.
	TypeDouble
	// TypeFloat holds a float32.
	TypeFloat
	// TypeString holds a string.
	TypeString
	// TypeStringMulti holds a string written as a triple-quoted block.
	TypeStringMulti
	// TypeBinaryBlob holds a []byte.
	TypeBinaryBlob
	// TypeArray holds an *Object with IsArray set.
	TypeArray
	// TypeArrayTyped holds an *Object with IsArray set whose elements share one type.
	TypeArrayTyped
	// TypeObject holds an *Object.
	TypeObject
	// TypeInt32 holds an int32.
	TypeInt32
	// TypeUInt32 holds a uint32.
	TypeUInt32
	// TypeInt16 holds an int16.
	TypeInt16
	// TypeUInt16 holds a uint16.
	TypeUInt16
)

var typeNames = [...]string{
	TypeNull:        "null",
	TypeBoolean:     "boolean",
	TypeInt64:       "int64",
	TypeUInt64:      "uint64",
	TypeDouble:      "double",
	TypeFloat:       "float",
	TypeString:      "string",
	TypeStringMulti: "string_multi",
	TypeBinaryBlob:  "binary_blob",
	TypeArray:       "array",
	TypeArrayTyped:  "array_typed",
	TypeObject:      "object",
	TypeInt32:       "int32",
	TypeUInt32:      "uint32",
	TypeInt16:       "int16",
	TypeUInt16:      "uint16",
}

// String returns the type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}

	return typeNames[t]
}

// IsContainer reports whether values of this type hold an *Object.
func (t Type) IsContainer() bool {
	return t == TypeArray || t == TypeArrayTyped || t == TypeObject
}

// Flag is a semantic annotation on a string value.
type Flag int

const (
	// FlagNone means the value is not annotated.
	FlagNone Flag = iota
	// FlagResource marks a resource path.
	FlagResource
	// FlagResourceName marks a resource name.
	FlagResourceName
	// FlagPanorama marks a panorama path.
	FlagPanorama
	// FlagSoundEvent marks a sound event name.
	FlagSoundEvent
	// FlagSubClass marks a subclass name.
	FlagSubClass
	// FlagEntityName marks an entity name.
	FlagEntityName
)

var flagKeywords = [...]string{
	FlagNone:         "",
	FlagResource:     "resource",
	FlagResourceName: "resource_name",
	FlagPanorama:     "panorama",
	FlagSoundEvent:   "soundevent",
	FlagSubClass:     "subclass",
	FlagEntityName:   "entity_name",
}

// String returns the keyword used in text, or "none".
func (f Flag) String() string {
	if f == FlagNone {
		return "none"
	}
	if f < 0 || int(f) >= len(flagKeywords) {
		return fmt.Sprintf("flag(%d)", int(f))
	}

	return flagKeywords[f]
}

// Keyword returns the text prefix for a flag without the colon.
func (f Flag) Keyword() string {
	if f <= FlagNone || int(f) >= len(flagKeywords) {
		return ""
	}

	return flagKeywords[f]
}

// ParseFlag maps a flag keyword to a Flag.
func ParseFlag(s string) (Flag, bool) {
	for i := FlagResource; int(i) < len(flagKeywords); i++ {
		if flagKeywords[i] == s {
			return i, true
		}
	}

	return FlagNone, false
}
