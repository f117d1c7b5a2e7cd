package kv3

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	tree := sampleTree()
	tree.AddProperty("multi", String("a\nb"))
	tree.AddProperty("whole", Double(2))
	tree.AddProperty("big", UInt64(1<<63))

	out, err := yaml.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	text := string(out)
	for _, want := range []string{"!resource models/box.vmdl", "!!binary 3q2+7w==", "whole: 2.0", "multi: |-"} {
		if !strings.Contains(text, want) {
			t.Fatalf("yaml missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "name:") > strings.Index(text, "count:") {
		t.Fatalf("key order lost:\n%s", text)
	}

	back, err := FromYAML(out)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	assertSameTree(t, "", tree, back)
}

func TestFromYAMLSequenceRoot(t *testing.T) {
	t.Parallel()

	root, err := FromYAML([]byte("- 1\n- {a: x}\n- [true, null]\n"))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if !root.IsArray || root.Count() != 3 {
		t.Fatalf("root=%v", root.Keys())
	}
	if err := Validate(root); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	v, ok := root.Lookup("1.a")
	if !ok || v.Value != "x" {
		t.Fatalf("1.a=%+v", v)
	}
}

func TestFromYAMLAliases(t *testing.T) {
	t.Parallel()

	root, err := FromYAML([]byte("base: &b {x: 1}\ncopy: *b\n"))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if got, ok := root.Lookup("copy.x"); !ok || got.Value != int64(1) {
		t.Fatalf("copy.x=%+v", got)
	}
}

func TestFromYAMLErrors(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"42\n", "a: !unknown x\n", "a: [\n", ""} {
		if _, err := FromYAML([]byte(src)); !errors.Is(err, ErrConvert) {
			t.Fatalf("%q: err=%v", src, err)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(sampleTree())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"name":"box","count":2,"scale":1.5,"model":"models/box.vmdl","list":[1,true],"data":"DEADBEEF","none":null}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}
