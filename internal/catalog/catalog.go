// Package catalog provides declarative model descriptions that satisfy the
// swagger.Model introspection contract.
package catalog

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mark3labs/crudswag/internal/swagger"
)

// File is the on-disk catalog layout.
type File struct {
	Models []ModelSpec `yaml:"models" json:"models"`
}

// ModelSpec declares one model and how it is registered.
type ModelSpec struct {
	Name           string       `yaml:"name" json:"name"`
	Table          string       `yaml:"table" json:"table"`
	Doc            string       `yaml:"doc,omitempty" json:"doc,omitempty"`
	Methods        []string     `yaml:"methods,omitempty" json:"methods,omitempty"`
	URLPrefix      string       `yaml:"urlPrefix,omitempty" json:"urlPrefix,omitempty"`
	ExcludeColumns []string     `yaml:"excludeColumns,omitempty" json:"excludeColumns,omitempty"`
	Columns        []ColumnSpec `yaml:"columns" json:"columns"`
}

// ColumnSpec declares a column. Relation names the target model of a
// relationship column.
type ColumnSpec struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Doc      string `yaml:"doc,omitempty" json:"doc,omitempty"`
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty"`
}

var httpMethods = []interface{}{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

func (s ModelSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Table, validation.Required),
		validation.Field(&s.Methods, validation.Each(validation.By(upperIn(httpMethods)))),
		validation.Field(&s.Columns),
	)
}

func (c ColumnSpec) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

func upperIn(allowed []interface{}) validation.RuleFunc {
	rule := validation.In(allowed...)
	return func(value interface{}) error {
		s, _ := value.(string)
		return rule.Validate(strings.ToUpper(strings.TrimSpace(s)))
	}
}

// Catalog is a validated set of models.
type Catalog struct {
	models []*Model
	byName map[string]*Model
}

// New validates specs and builds a catalog. Model names must be unique and
// every relation must name a declared model.
func New(specs []ModelSpec) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Model, len(specs))}
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("model %d (%s): %w", i, spec.Name, err)
		}
		if _, dup := c.byName[spec.Name]; dup {
			return nil, fmt.Errorf("model %q declared more than once", spec.Name)
		}
		m := &Model{spec: spec, catalog: c}
		c.models = append(c.models, m)
		c.byName[spec.Name] = m
	}
	for _, m := range c.models {
		seen := make(map[string]struct{}, len(m.spec.Columns))
		for _, col := range m.spec.Columns {
			if _, dup := seen[col.Name]; dup {
				return nil, fmt.Errorf("model %q: column %q declared more than once", m.spec.Name, col.Name)
			}
			seen[col.Name] = struct{}{}
			if col.Relation == "" {
				continue
			}
			if _, ok := c.byName[col.Relation]; !ok {
				return nil, fmt.Errorf("model %q: column %q relates to unknown model %q", m.spec.Name, col.Name, col.Relation)
			}
		}
	}
	return c, nil
}

// Models returns the models in declaration order.
func (c *Catalog) Models() []*Model { return append([]*Model(nil), c.models...) }

// Lookup returns the model with the given name.
func (c *Catalog) Lookup(name string) (*Model, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Model implements swagger.Model over a ModelSpec.
type Model struct {
	spec    ModelSpec
	catalog *Catalog
}

var _ swagger.Model = (*Model)(nil)

func (m *Model) Name() string      { return m.spec.Name }
func (m *Model) TableName() string { return m.spec.Table }
func (m *Model) Doc() string       { return strings.TrimSpace(m.spec.Doc) }

func (m *Model) Columns() []swagger.Column {
	cols := make([]swagger.Column, 0, len(m.spec.Columns))
	for _, c := range m.spec.Columns {
		cols = append(cols, swagger.Column{Name: c.Name, Type: c.Type, Doc: strings.TrimSpace(c.Doc)})
	}
	return cols
}

func (m *Model) Related(column string) (swagger.Model, bool) {
	for _, c := range m.spec.Columns {
		if c.Name != column || c.Relation == "" {
			continue
		}
		rel, ok := m.catalog.byName[c.Relation]
		if !ok {
			return nil, false
		}
		return rel, true
	}
	return nil, false
}

// RegisterOptions returns the registration options declared for the model.
func (m *Model) RegisterOptions() []swagger.Option {
	var opts []swagger.Option
	if len(m.spec.Methods) > 0 {
		opts = append(opts, swagger.WithMethods(m.spec.Methods...))
	}
	if m.spec.URLPrefix != "" {
		opts = append(opts, swagger.WithURLPrefix(m.spec.URLPrefix))
	}
	if len(m.spec.ExcludeColumns) > 0 {
		opts = append(opts, swagger.WithExcludeColumns(m.spec.ExcludeColumns...))
	}
	return opts
}
