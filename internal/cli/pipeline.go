package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/crudswag/internal/catalog"
	"github.com/mark3labs/crudswag/internal/swagger"
)

// buildDocument loads the model catalog and registers every model on a fresh
// builder in declaration order.
func buildDocument(ctx context.Context, cfg *Config, logger *slog.Logger) (*swagger.Document, error) {
	cat, err := catalog.Load(ctx, cfg.Models)
	if err != nil {
		var ce *catalog.Error
		if errors.As(err, &ce) {
			msg := fmt.Sprintf("models: %s", ce.Message)
			if ce.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, ce.Location)
			}
			return nil, wrapUsageError(err, msg)
		}
		return nil, err
	}

	registrar := swagger.RegistrarFunc(func(ctx context.Context, m swagger.Model, opts swagger.RegisterOptions) error {
		logger.InfoContext(ctx, "exposing model",
			"model", m.Name(), "table", m.TableName(), "methods", opts.Methods, "prefix", opts.URLPrefix)
		return nil
	})
	b := swagger.New(swagger.WithRegistrar(registrar), swagger.WithLogger(logger))
	b.SetTitle(cfg.Title)
	b.SetVersion(cfg.Version)
	b.SetDescription(cfg.Description)
	b.SetBasePath(cfg.BasePath)

	for _, m := range cat.Models() {
		if err := b.Register(ctx, m, m.RegisterOptions()...); err != nil {
			return nil, fmt.Errorf("register %s: %w", m.Name(), err)
		}
	}

	if err := b.Validate(ctx); err != nil {
		logger.WarnContext(ctx, "document does not validate as OpenAPI 3", "err", err)
	}
	return b.Document(), nil
}
