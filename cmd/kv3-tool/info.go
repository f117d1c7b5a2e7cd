package main

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type infoCmd struct {
	Args struct {
		Input string `positional-arg-name:"IN" required:"true" description:"Input KV3 file"`
	} `positional-args:"true"`
}

// Execute prints header identifiers and tree statistics.
func (c *infoCmd) Execute(_ []string) error {
	f, err := kv3.ParseFile(c.Args.Input)
	if err != nil {
		return err
	}

	printInfo(os.Stdout, c.Args.Input, f)

	return nil
}

// treeStats counts containers and values in a tree.
type treeStats struct {
	Objects int
	Arrays  int
	Values  int
	Depth   int
}

// collect walks o at the given depth.
func (s *treeStats) collect(o *kv3.Object, depth int) {
	if o.IsArray {
		s.Arrays++
	} else {
		s.Objects++
	}
	s.Depth = max(s.Depth, depth)

	for v := range o.Elements() {
		s.Values++
		if child, ok := v.Object(); ok {
			s.collect(child, depth+1)
		}
	}
}

// printInfo prints file information.
func printInfo(w io.Writer, path string, f *kv3.File) {
	var st treeStats
	st.collect(f.Root, 1)

	kind := "object"
	if f.Root.IsArray {
		kind = "array"
	}

	identifier := func(id kv3.Identifier) string {
		if id.IsZero() {
			return "(none)"
		}
		return id.String()
	}

	_, _ = fmt.Fprintf(w, "file:        %s\n", path)
	_, _ = fmt.Fprintf(w, "encoding:    %s\n", identifier(f.Encoding))
	_, _ = fmt.Fprintf(w, "format:      %s\n", identifier(f.Format))
	_, _ = fmt.Fprintf(w, "root:        %s (%d entries)\n", kind, f.Root.Count())
	_, _ = fmt.Fprintf(w, "objects:     %d\n", st.Objects)
	_, _ = fmt.Fprintf(w, "arrays:      %d\n", st.Arrays)
	_, _ = fmt.Fprintf(w, "values:      %d\n", st.Values)
	_, _ = fmt.Fprintf(w, "depth:       %d\n", st.Depth)
	_, _ = fmt.Fprintf(w, "fingerprint: %016x\n", kv3.Fingerprint(f.Root))
}
