package kv3

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalid is wrapped by every problem reported by Validate.
var ErrInvalid = errors.New("invalid kv3 tree")

// Validate checks a tree against the model invariants:
// flags only on strings, array keys equal to their index,
// Go representations matching type tags, and no shared objects.
// It reports every problem found, joined.
func Validate(root *Object) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrInvalid)
	}

	v := validator{seen: map[*Object]struct{}{}}
	v.object(root, "")

	return errors.Join(v.errs...)
}

// validator accumulates problems while walking a tree.
type validator struct {
	seen map[*Object]struct{}
	errs []error
}

// object validates o and its descendants. path is the dotted location of o.
func (v *validator) object(o *Object, path string) {
	if _, dup := v.seen[o]; dup {
		v.fail(path, "object is attached more than once")
		return
	}
	v.seen[o] = struct{}{}

	if len(o.keys) != len(o.props) {
		v.fail(path, fmt.Sprintf("count %d does not match %d stored values", len(o.keys), len(o.props)))
	}

	for i, k := range o.keys {
		child := joinPath(path, k)
		if o.IsArray && k != strconv.Itoa(i) {
			v.fail(child, fmt.Sprintf("array key %q at index %d", k, i))
		}

		val, ok := o.props[k]
		if !ok {
			v.fail(child, "key without value")
			continue
		}

		if val.Flag != FlagNone && val.Type != TypeString {
			v.fail(child, fmt.Sprintf("flag %s on %s value", val.Flag, val.Type))
		}
		if !val.typeMatches() {
			v.fail(child, fmt.Sprintf("%s value holds %T", val.Type, val.Value))
			continue
		}

		if nested, ok := val.Object(); ok {
			v.object(nested, child)
		}
	}
}

// fail records a problem at path.
func (v *validator) fail(path, msg string) {
	if path == "" {
		path = "<root>"
	}

	v.errs = append(v.errs, fmt.Errorf("%w: %s: %s", ErrInvalid, path, msg))
}

// joinPath appends key to a dotted path.
func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
