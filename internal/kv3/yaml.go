package kv3

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConvert is wrapped by errors converting between KV3 and other formats.
var ErrConvert = errors.New("kv3 conversion error")

const (
	yamlTagNull   = "!!null"
	yamlTagBool   = "!!bool"
	yamlTagInt    = "!!int"
	yamlTagFloat  = "!!float"
	yamlTagStr    = "!!str"
	yamlTagBinary = "!!binary"
)

// MarshalYAML implements yaml.Marshaler with key order preserved.
// Flagged strings carry a local tag named after the flag, e.g. !resource.
func (o *Object) MarshalYAML() (any, error) {
	return ToYAMLNode(o), nil
}

// ToYAMLNode converts a tree to a yaml.v3 node.
func ToYAMLNode(o *Object) *yaml.Node {
	if o == nil {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	if o.IsArray {
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for v := range o.Elements() {
			n.Content = append(n.Content, valueToYAML(v))
		}
		return n
	}

	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range o.Properties() {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTagStr, Value: k},
			valueToYAML(v),
		)
	}

	return n
}

// valueToYAML converts a single value.
func valueToYAML(v Value) *yaml.Node {
	scalar := func(tag, s string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
	}

	switch v.Type {
	case TypeBoolean:
		b, _ := v.Value.(bool)
		return scalar(yamlTagBool, strconv.FormatBool(b))

	case TypeInt64, TypeInt32, TypeInt16, TypeUInt32, TypeUInt16:
		n, _ := v.Int()
		return scalar(yamlTagInt, strconv.FormatInt(n, 10))

	case TypeUInt64:
		n, _ := v.Value.(uint64)
		return scalar(yamlTagInt, strconv.FormatUint(n, 10))

	case TypeDouble, TypeFloat:
		f, _ := v.Float64()
		return scalar(yamlTagFloat, formatYAMLFloat(f))

	case TypeString, TypeStringMulti:
		s, _ := v.Value.(string)
		n := scalar(yamlTagStr, s)
		if kw := v.Flag.Keyword(); kw != "" {
			n.Tag = "!" + kw
		}
		if strings.Contains(s, "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n

	case TypeBinaryBlob:
		b, _ := v.Value.([]byte)
		return scalar(yamlTagBinary, base64.StdEncoding.EncodeToString(b))

	case TypeObject, TypeArray, TypeArrayTyped:
		if o, ok := v.Object(); ok {
			return ToYAMLNode(o)
		}
	}

	return scalar(yamlTagNull, "null")
}

// formatYAMLFloat keeps a fraction so the scalar resolves back to a float.
func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// FromYAML builds a tree from a YAML document whose root is a mapping or sequence.
func FromYAML(data []byte) (*Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty yaml document", ErrConvert)
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)

	if root.Kind != yaml.MappingNode && root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: yaml line %d: root must be a mapping or sequence", ErrConvert, root.Line)
	}

	v, err := yamlToValue(root, "")
	if err != nil {
		return nil, err
	}

	o, _ := v.Object()
	return o, nil
}

// yamlToValue converts a node. key names the object the node becomes, if any.
func yamlToValue(n *yaml.Node, key string) (Value, error) {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.MappingNode:
		o := NewObject(key)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolveAlias(n.Content[i])
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("%w: yaml line %d: mapping key must be a scalar", ErrConvert, k.Line)
			}

			v, err := yamlToValue(n.Content[i+1], k.Value)
			if err != nil {
				return Value{}, err
			}
			o.AddProperty(k.Value, v)
		}
		return ObjectValue(o), nil

	case yaml.SequenceNode:
		a := NewArray(key)
		for _, item := range n.Content {
			v, err := yamlToValue(item, strconv.Itoa(a.Count()))
			if err != nil {
				return Value{}, err
			}
			a.Append(v)
		}
		return ObjectValue(a), nil

	case yaml.ScalarNode:
		return yamlScalar(n)

	default:
		return Value{}, fmt.Errorf("%w: yaml line %d: unsupported node", ErrConvert, n.Line)
	}
}

// yamlScalar converts a scalar by its resolved tag.
func yamlScalar(n *yaml.Node) (Value, error) {
	tag := n.ShortTag()
	fail := func(err error) (Value, error) {
		return Value{}, fmt.Errorf("%w: yaml line %d: %s %q: %w", ErrConvert, n.Line, tag, n.Value, err)
	}

	switch tag {
	case yamlTagNull:
		return Null(), nil

	case yamlTagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return fail(err)
		}
		return Bool(b), nil

	case yamlTagInt:
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int64(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return fail(err)
		}
		return UInt64(u), nil

	case yamlTagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return fail(err)
		}
		return Double(f), nil

	case yamlTagStr:
		return String(n.Value), nil

	case yamlTagBinary:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return fail(err)
		}
		return Blob(b), nil
	}

	if strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") {
		flag, ok := ParseFlag(tag[1:])
		if !ok {
			return fail(errors.New("unknown flag tag"))
		}
		return NewFlaggedValue(flag, n.Value), nil
	}

	return fail(errors.New("unsupported tag"))
}

// resolveAlias follows alias nodes to their anchors.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}
