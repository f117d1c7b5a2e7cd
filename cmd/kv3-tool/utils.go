package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/yaml"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

// commonOptions are shared by commands that read config or report progress.
type commonOptions struct {
	Config  string `short:"c" long:"config" description:"Tool config file (yaml/json)"`
	Verbose bool   `short:"v" long:"verbose" description:"Verbose per-file output"`
}

// toolConfig is the optional tool config file.
type toolConfig struct {
	Indent           string `json:"indent,omitempty"`
	BlobBytesPerLine int    `json:"blob_bytes_per_line,omitempty"`
	Encoding         string `json:"encoding,omitempty"`
	Format           string `json:"format,omitempty"`
	Export           string `json:"export,omitempty"`
}

// load reads the config file when one is set.
func (o *commonOptions) load() (toolConfig, error) {
	if o.Config == "" {
		return toolConfig{}, nil
	}

	return readConfig(o.Config)
}

// logf writes a progress line to stderr in verbose mode.
func (o *commonOptions) logf(format string, args ...any) {
	if o.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// readConfig reads the config from the file.
func readConfig(path string) (toolConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return toolConfig{}, err
	}

	var cfg toolConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return toolConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.BlobBytesPerLine < 0 {
		return toolConfig{}, fmt.Errorf("%s: blob_bytes_per_line must not be negative", path)
	}
	if cfg.Export != "" && cfg.Export != "yaml" && cfg.Export != "json" {
		return toolConfig{}, fmt.Errorf("%s: unknown export format: %s", path, cfg.Export)
	}

	return cfg, nil
}

// writeOptions returns serializer options from the config.
func (c toolConfig) writeOptions() *kv3.WriteOptions {
	return &kv3.WriteOptions{Indent: c.Indent, BlobBytesPerLine: c.BlobBytesPerLine}
}

// stamp overrides header identifiers with the configured ones.
func (c toolConfig) stamp(f *kv3.File) error {
	if c.Encoding != "" {
		id, err := kv3.ParseIdentifier(c.Encoding)
		if err != nil {
			return fmt.Errorf("config encoding: %w", err)
		}
		f.Encoding = id
	}

	if c.Format != "" {
		id, err := kv3.ParseIdentifier(c.Format)
		if err != nil {
			return fmt.Errorf("config format: %w", err)
		}
		f.Format = id
	}

	return nil
}

// encodeTree encodes a tree as ordered YAML or indented JSON.
func encodeTree(root *kv3.Object, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yamlv3.Marshal(root)
	case "json":
		out, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// collectFiles expands paths into KV3 text files. Explicit files are kept as
// given; directories are walked and filtered by content.
func collectFiles(paths []string, opt *commonOptions) ([]string, error) {
	var (
		out  []string
		seen = map[string]struct{}{}
	)

	add := func(p string) {
		key := cleanAbs(p)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				opt.logf("skip: %s (walk error)", path)
				return nil
			}
			if d.IsDir() {
				return nil
			}

			ok, kind, err := kv3.DetectFile(path)
			if err != nil {
				opt.logf("skip: %s (header read error)", path)
				return nil
			}
			if !ok {
				switch kind {
				case kv3.KindBinary:
					opt.logf("skip: %s (binary kv3)", path)
				default:
					opt.logf("skip: %s (not kv3)", path)
				}
				return nil
			}

			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// cleanAbs cleans a path and returns it as an absolute path.
func cleanAbs(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}

	return filepath.Clean(p)
}
