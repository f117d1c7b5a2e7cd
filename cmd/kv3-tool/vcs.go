package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/kv3-tool/internal/kv3"
	"github.com/woozymasta/kv3-tool/internal/vcs"
)

type vcsBufferCmd struct {
	commonOptions

	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Compiled shader file"`
		Output string `positional-arg-name:"OUT" description:"Output KV3 file (default: stdout)"`
	} `positional-args:"true"`

	Offset  int `short:"o" long:"offset" default:"0" description:"Byte offset of the first buffer block"`
	Version int `short:"V" long:"vcs-version" default:"65" description:"Shader file version"`
	Count   int `short:"n" long:"count" default:"1" description:"Number of consecutive blocks"`
}

// Execute decodes buffer blocks and writes them as KV3 text.
func (c *vcsBufferCmd) Execute(_ []string) error {
	if c.Count < 1 {
		return errors.New("count must be at least 1")
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return err
	}

	blocks, err := vcs.DecodeBufferBlocks(data, c.Offset, c.Version, c.Count)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Args.Input, err)
	}

	f := kv3.NewFile(blockTree(blocks))
	if err := cfg.stamp(f); err != nil {
		return err
	}

	for _, b := range blocks {
		c.logf("block: %s (offset %d, %d params)", b.Name, b.Offset, len(b.Params))
	}

	return writeOutput(c.Args.Output, f.Bytes(cfg.writeOptions()))
}

// blockTree returns a single block as the root, or an array of all blocks.
func blockTree[P vcs.Producer](items []P) *kv3.Object {
	if len(items) == 1 {
		return items[0].KVObject()
	}

	arr := kv3.NewArray("")
	for _, it := range items {
		arr.Append(kv3.ObjectValue(it.KVObject()))
	}

	return arr
}
