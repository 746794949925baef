package swagger

import (
	"context"
	"strings"
)

// Column describes one mapped column of a model as reported by the
// introspection collaborator.
type Column struct {
	Name string
	Type string // declared SQL type, e.g. "VARCHAR(255)"; empty for pure relationships
	Doc  string
}

// Model is the introspection contract the builder consumes. Columns must be
// returned in declaration order.
type Model interface {
	Name() string
	TableName() string
	Doc() string
	Columns() []Column
	// Related resolves the model a relationship column points at.
	Related(column string) (Model, bool)
}

// Registrar exposes the CRUD endpoints for a model. It is the REST framework
// side of a registration and is invoked before any document mutation.
type Registrar interface {
	CreateAPI(ctx context.Context, model Model, opts RegisterOptions) error
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(ctx context.Context, model Model, opts RegisterOptions) error

func (f RegistrarFunc) CreateAPI(ctx context.Context, model Model, opts RegisterOptions) error {
	return f(ctx, model, opts)
}

// RegisterOptions carries the per-model registration settings shared by the
// registrar, the definition builder and the path builder.
type RegisterOptions struct {
	URLPrefix      string
	Methods        []string
	ExcludeColumns []string
}

// Option mutates RegisterOptions.
type Option func(*RegisterOptions)

func WithURLPrefix(prefix string) Option { return func(o *RegisterOptions) { o.URLPrefix = prefix } }

func WithMethods(methods ...string) Option {
	return func(o *RegisterOptions) { o.Methods = append([]string(nil), methods...) }
}

func WithExcludeColumns(columns ...string) Option {
	return func(o *RegisterOptions) { o.ExcludeColumns = append([]string(nil), columns...) }
}

func newRegisterOptions(opts []Option) RegisterOptions {
	o := RegisterOptions{Methods: []string{"GET"}}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.Methods) == 0 {
		o.Methods = []string{"GET"}
	}
	return o
}

func (o RegisterOptions) excluded() map[string]struct{} {
	if len(o.ExcludeColumns) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(o.ExcludeColumns))
	for _, c := range o.ExcludeColumns {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}
