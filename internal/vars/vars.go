// Package vars holds build metadata injected with -ldflags.
package vars

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
)

// Set at build time:
//
//	-ldflags "-X github.com/woozymasta/kv3-tool/internal/vars.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
	URL       = "https://github.com/woozymasta/kv3-tool"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
	URL       string
}

// Get returns build metadata, falling back to module build info for unset fields.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		URL:       URL,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}

	return info
}

// Print writes build metadata to stdout.
func Print() {
	Fprint(os.Stdout)
}

// Fprint writes build metadata to w.
func Fprint(w io.Writer) {
	info := Get()
	_, _ = fmt.Fprintf(w, "version:  %s\n", info.Version)
	if info.Commit != "" {
		_, _ = fmt.Fprintf(w, "commit:   %s\n", info.Commit)
	}
	if info.BuildTime != "" {
		_, _ = fmt.Fprintf(w, "built:    %s\n", info.BuildTime)
	}
	_, _ = fmt.Fprintf(w, "go:       %s\n", info.GoVersion)
	_, _ = fmt.Fprintf(w, "platform: %s\n", info.Platform)
	_, _ = fmt.Fprintf(w, "url:      %s\n", info.URL)
}
