// Package emitter writes a finished swagger document to disk.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/crudswag/internal/swagger"
)

// Format names an output rendition.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatOpenAPI3 Format = "openapi3"
)

var fileNames = map[Format]string{
	FormatJSON:     "swagger.json",
	FormatYAML:     "swagger.yaml",
	FormatOpenAPI3: "openapi.json",
}

// KnownFormats lists the supported formats in a stable order.
func KnownFormats() []Format { return []Format{FormatJSON, FormatYAML, FormatOpenAPI3} }

// ParseFormats splits a comma separated list, ignoring blanks and duplicates.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(list, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" || seen[f] {
			continue
		}
		if _, ok := fileNames[f]; !ok {
			return nil, fmt.Errorf("unknown format %q", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// Options controls what Emit writes.
type Options struct {
	OutDir  string   // required; target directory
	Formats []Format // defaults to json
	Force   bool     // overwrite into a non-empty directory
	DryRun  bool     // don't write, only plan
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Format  Format
	Size    int
	Mode    os.FileMode
}

// Result lists the planned files in path order.
type Result struct {
	Planned []PlannedFile
}

// Emit renders doc in each requested format and writes the files to OutDir.
func Emit(ctx context.Context, doc *swagger.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("emitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON}
	}

	files := map[string][]byte{}
	byPath := map[string]Format{}
	for _, f := range formats {
		name, ok := fileNames[f]
		if !ok {
			return nil, fmt.Errorf("emitter: unknown format %q", f)
		}
		data, err := render(ctx, doc, f)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		files[name] = data
		byPath[name] = f
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, p)
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Format: byPath[rel], Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Planned: planned}, nil
}

func render(ctx context.Context, doc *swagger.Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		out, err := doc.ToJSON(true)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatYAML:
		return doc.ToYAML()
	case FormatOpenAPI3:
		v3, err := doc.ToOpenAPI3(ctx)
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(v3, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("emitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}
