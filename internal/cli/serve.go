package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/crudswag/internal/server"
)

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated Swagger document and UI over HTTP",
		Long: "Build a Swagger 2.0 document from a model catalog and serve it at /swagger.json, " +
			"/swagger.yaml and /openapi.json together with a Swagger UI at /swagger.",
		Example: strings.TrimSpace(`  crudswag serve --models models.yaml --addr :8080 --title "Shop API" --version 1.0
  crudswag --config crudswag.yaml serve`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.validateServe(); err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addDocumentFlags(flags)
	flags.String("addr", "", "Listen address (host:port); defaults to :8080")
	flags.Bool("trust-proxy-headers", false, "Take the document host from X-Forwarded-Host")

	return cmd
}

func addDocumentFlags(flags *pflag.FlagSet) {
	flags.String("models", "", "Path or URL to the model catalog (YAML or JSON)")
	flags.String("title", "", "API title")
	flags.String("version", "", "API version")
	flags.String("description", "", "API description")
	flags.String("base-path", "", "Base path of the generated API; defaults to /api")
}

func runServe(ctx context.Context, cfg *Config) error {
	logger, err := setupLogging(os.Stderr, cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return newUsageError("serve: " + err.Error())
	}
	doc, err := buildDocument(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(doc,
		server.WithAddr(cfg.Addr),
		server.WithLogger(logger),
		server.WithTrustProxyHeaders(cfg.TrustProxyHeaders),
	)
	return srv.Run(ctx)
}
