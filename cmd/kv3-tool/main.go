// Command kv3-tool provides CLI utilities for KeyValues3 text files.
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/kv3-tool/internal/vars"
)

type rootCmd struct {
	Version   versionCmd   `command:"version" description:"Show version information"`
	Fmt       fmtCmd       `command:"fmt" description:"Reformat KV3 text files"`
	Export    exportCmd    `command:"export" description:"Export a KV3 file to YAML or JSON"`
	Import    importCmd    `command:"import" description:"Convert YAML or JSON to a KV3 file"`
	Get       getCmd       `command:"get" description:"Print the value at a dotted path"`
	Validate  validateCmd  `command:"validate" description:"Parse and validate KV3 files"`
	Info      infoCmd      `command:"info" description:"Show header identifiers and tree statistics"`
	VCSBuffer vcsBufferCmd `command:"vcs-buffer" description:"Decode compiled shader buffer blocks to KV3"`
}

func main() {
	var root rootCmd
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	vars.Print()
	return nil
}
