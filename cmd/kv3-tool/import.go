package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type importCmd struct {
	commonOptions

	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Input YAML or JSON file"`
		Output string `positional-arg-name:"OUT" description:"Output KV3 file (default: stdout)"`
	} `positional-args:"true"`
}

// Execute converts a YAML or JSON document to KV3 text.
func (c *importCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	root, err := kv3.FromYAML(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Args.Input, err)
	}

	f := kv3.NewFile(root)
	if err := cfg.stamp(f); err != nil {
		return err
	}

	c.logf("import: %s (%d properties)", c.Args.Input, root.Count())

	return writeOutput(c.Args.Output, f.Bytes(cfg.writeOptions()))
}
