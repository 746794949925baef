package swagger

import (
	"context"
	"log/slog"
)

// Builder owns one Swagger document and fills it as models are registered.
// Registration is not safe for concurrent use; readers should take a
// Document snapshot once registration is complete.
type Builder struct {
	doc       *Document
	registrar Registrar
	logger    *slog.Logger
	// Which info fields have been set, so an explicit "" reads back as set.
	set struct{ title, version, description bool }
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

func WithRegistrar(r Registrar) BuilderOption { return func(b *Builder) { b.registrar = r } }
func WithLogger(l *slog.Logger) BuilderOption { return func(b *Builder) { b.logger = l } }

// New returns a Builder with a freshly allocated document.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{doc: newDocument()}
	for _, opt := range opts {
		opt(b)
	}
	if b.registrar == nil {
		b.registrar = RegistrarFunc(func(context.Context, Model, RegisterOptions) error { return nil })
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Register exposes the model through the registrar, then adds its
// definitions and paths, in that order. Unknown methods are rejected before
// the registrar runs; any later failure leaves earlier mutations in place.
func (b *Builder) Register(ctx context.Context, model Model, opts ...Option) error {
	o := newRegisterOptions(opts)
	if _, err := normalizeMethods(model.Name(), o.Methods); err != nil {
		return err
	}
	if err := b.registrar.CreateAPI(ctx, model, o); err != nil {
		return &Error{Code: RegistrationFailed, Model: model.Name(), Cause: err}
	}
	if err := b.AddDefinition(model, opts...); err != nil {
		return err
	}
	if err := b.AddPath(model, opts...); err != nil {
		return err
	}
	b.logger.Info("model registered", "model", model.Name(), "table", model.TableName())
	return nil
}

func (b *Builder) Title() (string, bool)       { return b.doc.Info.Title, b.set.title }
func (b *Builder) SetTitle(v string)           { b.doc.Info.Title, b.set.title = v, true }
func (b *Builder) Version() (string, bool)     { return b.doc.Info.Version, b.set.version }
func (b *Builder) SetVersion(v string)         { b.doc.Info.Version, b.set.version = v, true }
func (b *Builder) Description() (string, bool) { return b.doc.Info.Description, b.set.description }
func (b *Builder) SetDescription(v string)     { b.doc.Info.Description, b.set.description = v, true }
func (b *Builder) BasePath() string            { return b.doc.BasePath }

// SetBasePath changes the base path stripped from subsequently added paths.
// Paths already added keep their keys.
func (b *Builder) SetBasePath(v string) { b.doc.BasePath = v }

// Document returns a deep copy of the current document.
func (b *Builder) Document() *Document { return b.doc.Clone() }

// ToJSON renders the current document.
func (b *Builder) ToJSON(indent bool) ([]byte, error) { return b.doc.ToJSON(indent) }

// ToYAML renders the current document.
func (b *Builder) ToYAML() ([]byte, error) { return b.doc.ToYAML() }

func (b *Builder) String() string {
	out, err := b.ToJSON(true)
	if err != nil {
		return ""
	}
	return string(out)
}
