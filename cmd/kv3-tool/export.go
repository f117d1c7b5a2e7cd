package main

import (
	"strings"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type exportCmd struct {
	commonOptions

	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Input KV3 file"`
		Output string `positional-arg-name:"OUT" description:"Output file (default: stdout)"`
	} `positional-args:"true"`

	Format string `short:"f" long:"format" choice:"yaml" choice:"json" description:"Output format (default: config or yaml)"`
}

// Execute exports a KV3 tree to YAML or JSON.
func (c *exportCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	format := strings.ToLower(c.Format)
	if format == "" {
		format = cfg.Export
	}
	if format == "" {
		format = "yaml"
	}

	f, err := kv3.ParseFile(c.Args.Input)
	if err != nil {
		return err
	}

	out, err := encodeTree(f.Root, format)
	if err != nil {
		return err
	}

	c.logf("export: %s (%s)", c.Args.Input, format)

	return writeOutput(c.Args.Output, out)
}
