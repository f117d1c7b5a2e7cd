package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type fmtCmd struct {
	commonOptions

	Args struct {
		Paths []string `positional-arg-name:"PATH" required:"1" description:"KV3 files or directories"`
	} `positional-args:"true"`

	List  bool `short:"l" long:"list" description:"List files whose formatting differs"`
	Write bool `short:"w" long:"write" description:"Rewrite files in place"`
}

// Execute reformats KV3 text files.
func (c *fmtCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	files, err := collectFiles(c.Args.Paths, &c.commonOptions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no kv3 files found")
	}

	var changed int
	for _, path := range files {
		diff, err := c.formatFile(path, cfg)
		if err != nil {
			return err
		}
		if diff {
			changed++
		}
	}

	c.logf("summary: files=%d changed=%d", len(files), changed)

	return nil
}

// formatFile formats one file and reports whether its text changed.
func (c *fmtCmd) formatFile(path string, cfg toolConfig) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	f, err := kv3.Parse(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.stamp(f); err != nil {
		return false, err
	}

	out := f.Bytes(cfg.writeOptions())
	changed := !kv3.SameText(data, out)

	if c.List && changed {
		fmt.Println(path)
	}

	if c.Write {
		if !changed {
			c.logf("skip: %s (unchanged)", path)
			return false, nil
		}
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return false, err
		}
		c.logf("fmt: %s", path)
		return true, nil
	}

	if !c.List {
		if _, err := os.Stdout.Write(out); err != nil {
			return false, err
		}
	}

	return changed, nil
}
