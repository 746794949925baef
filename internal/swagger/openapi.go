package swagger

import (
	"context"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// ToOpenAPI2 converts d into kin-openapi's Swagger 2.0 model. Wrapped
// foreign-key references are flattened to plain references since the
// Swagger schema object has no "schema" member.
func (d *Document) ToOpenAPI2() *openapi2.T {
	doc := &openapi2.T{
		Swagger: d.Swagger,
		Info: openapi3.Info{
			Title:       d.Info.Title,
			Version:     d.Info.Version,
			Description: d.Info.Description,
		},
		Schemes:     append([]string(nil), d.Schemes...),
		Consumes:    append([]string(nil), d.Consumes...),
		Produces:    append([]string(nil), d.Produces...),
		Host:        d.Host,
		BasePath:    d.BasePath,
		Paths:       make(map[string]*openapi2.PathItem, len(d.Paths)),
		Definitions: make(map[string]*openapi3.SchemaRef, len(d.Definitions)),
	}
	for _, t := range d.Tags {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: t.Name})
	}

	for name, defn := range d.Definitions {
		props := make(openapi3.Schemas, len(defn.Properties))
		for col, p := range defn.Properties {
			if p.IsReference() {
				props[col] = &openapi3.SchemaRef{Ref: p.Target()}
				continue
			}
			props[col] = &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type:        p.Type,
				Format:      p.Format,
				Description: p.Description,
			}}
		}
		doc.Definitions[name] = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: defn.Type, Properties: props}}
	}

	for path, item := range d.Paths {
		pi := &openapi2.PathItem{}
		for method, op := range item {
			setOpenAPI2Operation(pi, method, op.toOpenAPI2())
		}
		doc.Paths[path] = pi
	}
	return doc
}

func setOpenAPI2Operation(pi *openapi2.PathItem, method string, op *openapi2.Operation) {
	switch strings.ToLower(method) {
	case "get":
		pi.Get = op
	case "post":
		pi.Post = op
	case "put":
		pi.Put = op
	case "patch":
		pi.Patch = op
	case "delete":
		pi.Delete = op
	case "head":
		pi.Head = op
	case "options":
		pi.Options = op
	}
}

func (op *Operation) toOpenAPI2() *openapi2.Operation {
	out := &openapi2.Operation{
		Tags:        append([]string(nil), op.Tags...),
		Description: op.Description,
		Responses:   make(map[string]*openapi2.Response, len(op.Responses)),
	}
	for _, p := range op.Parameters {
		out.Parameters = append(out.Parameters, &openapi2.Parameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.Required,
			Type:        p.Type,
			Format:      p.Format,
			Schema:      p.Schema.toSchemaRef(),
		})
	}
	for code, r := range op.Responses {
		out.Responses[code] = &openapi2.Response{Description: r.Description, Schema: r.Schema.toSchemaRef()}
	}
	return out
}

func (s *Schema) toSchemaRef() *openapi3.SchemaRef {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		return &openapi3.SchemaRef{Ref: s.Ref}
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Title: s.Title,
		Type:  s.Type,
		Items: s.Items.toSchemaRef(),
	}}
}

// ToOpenAPI3 converts d to an OpenAPI 3 document with every internal
// reference resolved. A done ctx stops the conversion before it starts.
func (d *Document) ToOpenAPI3(ctx context.Context) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Code: ConversionFailed, Cause: err}
	}
	v3, err := openapi2conv.ToV3(d.ToOpenAPI2())
	if err != nil {
		return nil, &Error{Code: ConversionFailed, Cause: err}
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	if err := loader.ResolveRefsIn(v3, nil); err != nil {
		return nil, &Error{Code: ConversionFailed, Detail: "resolve refs", Cause: err}
	}
	return v3, nil
}

// Validate converts the current document to OpenAPI 3 and validates it. An
// unset title or version fails validation.
func (b *Builder) Validate(ctx context.Context) error {
	v3, err := b.doc.ToOpenAPI3(ctx)
	if err != nil {
		return err
	}
	if err := v3.Validate(ctx); err != nil {
		return &Error{Code: ConversionFailed, Detail: "validate", Cause: err}
	}
	return nil
}

// ToOpenAPI3 converts the current document to OpenAPI 3.
func (b *Builder) ToOpenAPI3(ctx context.Context) (*openapi3.T, error) {
	return b.doc.ToOpenAPI3(ctx)
}
