package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample crudswag configuration and model catalog",
		Long:  "Scaffold a commented crudswag configuration file and, next to it, a sample model catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{OutputPath: out, Force: force})
		},
	}

	cmd.Flags().String("out", "crudswag.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target files if they already exist")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "crudswag.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}
	modelsPath := filepath.Join(filepath.Dir(absPath), "models.yaml")

	if !cfg.Force {
		for _, p := range []string{absPath, modelsPath} {
			if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
				return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", p))
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	if err := writeAtomic(absPath, strings.TrimSpace(sampleConfigYAML)+"\n"); err != nil {
		return err
	}
	if err := writeAtomic(modelsPath, strings.TrimSpace(sampleModelsYAML)+"\n"); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	fmt.Fprintf(os.Stdout, "Wrote sample models to %s\n", modelsPath)
	return nil
}

func writeAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", path, err))
	}
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# crudswag configuration (YAML)
# Precedence: defaults < environment (CRUDSWAG_*) < this file < command-line flags.

# Path or URL to the model catalog (http/https or local file).
models: ./models.yaml

# API metadata placed in the document's info block.
title: Sample API
version: "1.0.0"
# description: CRUD endpoints for the sample models

# Base path every generated path is relative to.
# basePath: /api

# serve: listen address.
# addr: :8080

# dump: output directory and formats (json|yaml|openapi3, comma-separated or list).
# out: ./docs
# format: [json, yaml]

# dump: preview planned outputs without writing files.
# dryRun: false

# dump: write into a non-empty output directory.
# force: false

# Logging: debug|info|warn|error. verbose forces debug.
# logLevel: info
# verbose: false
`

// sampleModelsYAML is a small catalog showing scalar columns, a foreign key
// relationship and per-model registration options.
const sampleModelsYAML = `models:
  - name: User
    table: users
    doc: A registered customer.
    methods: [GET, POST, DELETE]
    urlPrefix: /api
    excludeColumns: [password_hash]
    columns:
      - {name: id, type: INTEGER, doc: Primary key}
      - {name: email, type: VARCHAR(255)}
      - {name: password_hash, type: TEXT}
      - {name: created_at, type: DATETIME}
      - {name: orders, relation: Order}
  - name: Order
    table: orders
    methods: [GET, PATCH]
    urlPrefix: /api
    columns:
      - {name: id, type: INTEGER}
      - {name: total, type: "NUMERIC(10, 2)"}
      - {name: user_id, type: INTEGER}
      - {name: user, relation: User, doc: Buyer}
`
