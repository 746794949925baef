package swagger

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Document is a Swagger 2.0 specification as produced by the Builder.
// Response status codes are always string keys ("200").
type Document struct {
	Swagger     string                 `json:"swagger" yaml:"swagger"`
	Info        Info                   `json:"info" yaml:"info"`
	Host        string                 `json:"host,omitempty" yaml:"host,omitempty"`
	Schemes     []string               `json:"schemes" yaml:"schemes"`
	BasePath    string                 `json:"basePath" yaml:"basePath"`
	Consumes    []string               `json:"consumes" yaml:"consumes"`
	Produces    []string               `json:"produces" yaml:"produces"`
	Paths       map[string]PathItem    `json:"paths" yaml:"paths"`
	Definitions map[string]*Definition `json:"definitions" yaml:"definitions"`
	Tags        []Tag                  `json:"tags" yaml:"tags"`
}

type Info struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Tag struct {
	Name string `json:"name" yaml:"name"`
}

// PathItem maps a lowercase HTTP method to its operation.
type PathItem map[string]*Operation

type Operation struct {
	Tags        []string            `json:"tags" yaml:"tags"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []Parameter         `json:"parameters" yaml:"parameters"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string  `json:"format,omitempty" yaml:"format,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

type Response struct {
	Description string  `json:"description" yaml:"description"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is the subset of a Swagger schema object used by operations: either
// a reference or a titled array of references.
type Schema struct {
	Ref   string  `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title string  `json:"title,omitempty" yaml:"title,omitempty"`
	Type  string  `json:"type,omitempty" yaml:"type,omitempty"`
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`
}

// Definition is the object schema of one model.
type Definition struct {
	Type       string               `json:"type" yaml:"type"`
	Properties map[string]*Property `json:"properties" yaml:"properties"`
}

// Property is either scalar (Format and Type), a bare reference (Ref) or a
// reference wrapped under Schema when the model carries a parallel
// "<column>_id" foreign key column.
type Property struct {
	Format      string  `json:"format,omitempty" yaml:"format,omitempty"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Ref         string  `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsReference reports whether p points at another definition.
func (p *Property) IsReference() bool {
	return p.Ref != "" || (p.Schema != nil && p.Schema.Ref != "")
}

// Target returns the referenced definition pointer, if any.
func (p *Property) Target() string {
	if p.Ref != "" {
		return p.Ref
	}
	if p.Schema != nil {
		return p.Schema.Ref
	}
	return ""
}

func newDocument() *Document {
	return &Document{
		Swagger:     "2.0",
		Schemes:     []string{"http", "https"},
		BasePath:    "/api",
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Paths:       make(map[string]PathItem),
		Definitions: make(map[string]*Definition),
		Tags:        []Tag{},
	}
}

// ToJSON renders d, indented with four spaces when indent is set.
func (d *Document) ToJSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(d, "", "    ")
	}
	return json.Marshal(d)
}

func (d *Document) ToYAML() ([]byte, error) { return yaml.Marshal(d) }

// WithHost returns a shallow copy of d with Host set. Nested maps are shared,
// so the copy must be treated as read-only.
func (d *Document) WithHost(host string) *Document {
	c := *d
	c.Host = host
	return &c
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Schemes = append([]string(nil), d.Schemes...)
	c.Consumes = append([]string(nil), d.Consumes...)
	c.Produces = append([]string(nil), d.Produces...)
	c.Tags = append([]Tag{}, d.Tags...)

	c.Paths = make(map[string]PathItem, len(d.Paths))
	for path, item := range d.Paths {
		ci := make(PathItem, len(item))
		for method, op := range item {
			ci[method] = op.clone()
		}
		c.Paths[path] = ci
	}

	c.Definitions = make(map[string]*Definition, len(d.Definitions))
	for name, defn := range d.Definitions {
		cd := &Definition{Type: defn.Type, Properties: make(map[string]*Property, len(defn.Properties))}
		for col, prop := range defn.Properties {
			cp := *prop
			cp.Schema = prop.Schema.clone()
			cd.Properties[col] = &cp
		}
		c.Definitions[name] = cd
	}
	return &c
}

func (op *Operation) clone() *Operation {
	c := *op
	c.Tags = append([]string(nil), op.Tags...)
	c.Parameters = make([]Parameter, len(op.Parameters))
	for i, p := range op.Parameters {
		p.Schema = p.Schema.clone()
		c.Parameters[i] = p
	}
	c.Responses = make(map[string]Response, len(op.Responses))
	for code, r := range op.Responses {
		r.Schema = r.Schema.clone()
		c.Responses[code] = r
	}
	return &c
}

func (s *Schema) clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = s.Items.clone()
	return &c
}
