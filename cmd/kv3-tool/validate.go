package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

type validateCmd struct {
	commonOptions

	Args struct {
		Paths []string `positional-arg-name:"PATH" required:"1" description:"KV3 files or directories"`
	} `positional-args:"true"`
}

// Execute parses and validates each file, reporting every failure.
func (c *validateCmd) Execute(_ []string) error {
	files, err := collectFiles(c.Args.Paths, &c.commonOptions)
	if err != nil {
		return err
	}

	var failed int
	for _, path := range files {
		if err := validateFile(path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		c.logf("ok: %s", path)
	}

	c.logf("summary: files=%d failed=%d", len(files), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(files))
	}

	return nil
}

// validateFile parses a file and checks its tree.
func validateFile(path string) error {
	f, err := kv3.ParseFile(path)
	if err != nil {
		return err
	}

	return kv3.Validate(f.Root)
}
