package main

import (
	"fmt"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type getCmd struct {
	commonOptions

	Args struct {
		Input string `positional-arg-name:"IN" required:"true" description:"Input KV3 file"`
		Path  string `positional-arg-name:"PATH" required:"true" description:"Dotted path, array elements by index (e.g. m_Children.0.m_sName)"`
	} `positional-args:"true"`
}

// Execute prints the value at a path as KV3 text.
func (c *getCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	f, err := kv3.ParseFile(c.Args.Input)
	if err != nil {
		return err
	}

	v, ok := f.Root.Lookup(c.Args.Path)
	if !ok {
		return fmt.Errorf("%s: path %q not found", c.Args.Input, c.Args.Path)
	}

	c.logf("get: %s (%s)", c.Args.Path, v.Type)
	fmt.Println(kv3.FormatValue(v, cfg.writeOptions()))

	return nil
}
