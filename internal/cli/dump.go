package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/crudswag/internal/emitter"
)

var dumpRunner = runDump

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the generated Swagger document to files",
		Long: "Build a Swagger 2.0 document from a model catalog and write it as swagger.json, " +
			"swagger.yaml and/or openapi.json.",
		Example: strings.TrimSpace(`  crudswag dump --models models.yaml --out ./docs --format json,yaml
  crudswag --config crudswag.yaml dump --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.validateDump(); err != nil {
				return err
			}
			return dumpRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addDocumentFlags(flags)
	flags.String("out", "", "Output directory")
	flags.StringSlice("format", nil, "Formats to write (json|yaml|openapi3); defaults to json")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Write into a non-empty output directory")

	return cmd
}

func runDump(ctx context.Context, cfg *Config) error {
	logger, err := setupLogging(os.Stderr, cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return newUsageError("dump: " + err.Error())
	}
	formats, err := emitter.ParseFormats(strings.Join(cfg.Formats, ","))
	if err != nil {
		return newUsageError("dump: " + err.Error())
	}
	doc, err := buildDocument(ctx, cfg, logger)
	if err != nil {
		return err
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	res, err := emitter.Emit(ctx, doc, emitter.Options{
		OutDir:  cfg.Out,
		Formats: formats,
		Force:   cfg.Force,
		DryRun:  cfg.DryRun,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}
	if cfg.DryRun {
		printPlan(absOut, res.Planned)
		return nil
	}
	logger.Info("wrote document", "out", absOut, "files", len(res.Planned))
	return nil
}

func printPlan(outDir string, planned []emitter.PlannedFile) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, len(planned))
	for _, p := range planned {
		fmt.Fprintf(os.Stdout, "- %s (%d bytes)\n", p.RelPath, p.Size)
	}
}

func wrapOutputError(err error, outDir string) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}
