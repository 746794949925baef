package swagger

import (
	"fmt"
	"strings"
)

var knownMethods = map[string]struct{}{
	"get":     {},
	"post":    {},
	"put":     {},
	"patch":   {},
	"delete":  {},
	"head":    {},
	"options": {},
}

// AddPath adds the collection and item paths for model. Methods default to
// GET; WithURLPrefix prepends a prefix before the base path is stripped.
// Operations are merged into existing path entries.
func (b *Builder) AddPath(model Model, opts ...Option) error {
	o := newRegisterOptions(opts)
	methods, err := normalizeMethods(model.Name(), o.Methods)
	if err != nil {
		return err
	}

	table := model.TableName()
	schema := model.Name()
	path := b.collectionPath(o.URLPrefix, table)
	idParam := strings.ToLower(schema) + "Id"
	idPath := fmt.Sprintf("%s/{%s}", path, idParam)
	ref := definitionRef(schema)
	doc := model.Doc()

	b.addTag(schema)

	for _, method := range methods {
		switch method {
		case "get":
			b.setOperation(path, method, &Operation{
				Tags:        []string{schema},
				Description: doc,
				Parameters: []Parameter{{
					Name:        "q",
					In:          "query",
					Description: "searchjson",
					Type:        "string",
				}},
				Responses: map[string]Response{
					"200": {
						Description: "List " + table,
						Schema: &Schema{
							Title: table,
							Type:  "array",
							Items: &Schema{Ref: ref},
						},
					},
				},
			})
			b.setOperation(idPath, method, &Operation{
				Tags:        []string{schema},
				Description: doc,
				Parameters:  []Parameter{idParameter(schema, idParam)},
				Responses: map[string]Response{
					"200": {Description: "Success " + table, Schema: &Schema{Ref: ref}},
				},
			})
		case "delete":
			b.setOperation(idPath, method, &Operation{
				Tags:        []string{schema},
				Description: doc,
				Parameters:  []Parameter{idParameter(schema, idParam)},
				Responses:   map[string]Response{"200": {Description: "Success"}},
			})
		default:
			b.setOperation(path, method, &Operation{
				Tags:        []string{schema},
				Description: doc,
				Parameters: []Parameter{{
					Name:        table,
					In:          "body",
					Description: schema,
					Required:    true,
					Schema:      &Schema{Ref: ref},
				}},
				Responses: map[string]Response{"200": {Description: "Success"}},
			})
		}
	}
	b.logger.Debug("paths added", "model", schema, "path", path, "methods", methods)
	return nil
}

func idParameter(schema, name string) Parameter {
	return Parameter{
		Name:        name,
		In:          "path",
		Description: "ID of " + schema,
		Required:    true,
		Type:        "integer",
		Format:      "int64",
	}
}

// collectionPath joins prefix and table and strips a leading base path. The
// base path only matches on a segment boundary.
func (b *Builder) collectionPath(prefix, table string) string {
	path := prefix + "/" + table
	base := strings.TrimSuffix(b.doc.BasePath, "/")
	if base == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, base); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return path
}

func (b *Builder) setOperation(path, method string, op *Operation) {
	item, ok := b.doc.Paths[path]
	if !ok {
		item = make(PathItem)
		b.doc.Paths[path] = item
	}
	item[method] = op
}

func (b *Builder) addTag(name string) {
	for _, t := range b.doc.Tags {
		if t.Name == name {
			return
		}
	}
	b.doc.Tags = append(b.doc.Tags, Tag{Name: name})
}

func normalizeMethods(model string, methods []string) ([]string, error) {
	out := make([]string, 0, len(methods))
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		m = strings.ToLower(strings.TrimSpace(m))
		if _, ok := knownMethods[m]; !ok {
			return nil, &Error{Code: UnsupportedMethod, Model: model, Detail: fmt.Sprintf("%q", m)}
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}
