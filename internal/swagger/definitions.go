package swagger

const definitionsPrefix = "#/definitions/"

func definitionRef(name string) string { return definitionsPrefix + name }

// AddDefinition builds the definition of model and, transitively, of every
// model it relates to that is not defined yet. An existing definition with the
// same name is overwritten. A model with an unmapped column is not stored. Only WithExcludeColumns is consulted; excluded
// columns emit no property and are not followed.
func (b *Builder) AddDefinition(model Model, opts ...Option) error {
	o := newRegisterOptions(opts)
	return b.addDefinition(model, o.excluded())
}

func (b *Builder) addDefinition(model Model, exclude map[string]struct{}) error {
	name := model.Name()
	defn := &Definition{Type: "object", Properties: make(map[string]*Property)}

	columns := model.Columns()
	declared := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		declared[c.Name] = struct{}{}
	}

	var pending []Model
	for _, col := range columns {
		if _, skip := exclude[col.Name]; skip {
			continue
		}
		prop, related, err := columnProperty(model, col, declared)
		if err != nil {
			return err
		}
		if related != nil {
			pending = append(pending, related)
		}
		defn.Properties[col.Name] = prop
	}
	// Stored only once complete, and before recursing so cycles terminate.
	b.doc.Definitions[name] = defn
	b.logger.Debug("definition built", "model", name, "properties", len(defn.Properties), "related", len(pending))

	for _, rel := range pending {
		if _, ok := b.doc.Definitions[rel.Name()]; ok {
			continue
		}
		if err := b.addDefinition(rel, nil); err != nil {
			return err
		}
	}
	return nil
}

// columnProperty classifies col as scalar or relationship. The related model
// is returned so the caller can define it once the current model is complete.
func columnProperty(model Model, col Column, declared map[string]struct{}) (*Property, Model, error) {
	if tf, ok := LookupType(NormalizeType(col.Type)); ok {
		return &Property{Format: tf.Format, Type: tf.Type, Description: col.Doc}, nil, nil
	}

	related, ok := model.Related(col.Name)
	if !ok || related == nil {
		detail := "no related model"
		if col.Type != "" {
			detail = "unknown type " + col.Type + " and no related model"
		}
		return nil, nil, &Error{Code: UnmappedColumn, Model: model.Name(), Column: col.Name, Detail: detail}
	}

	ref := definitionRef(related.Name())
	prop := &Property{Description: col.Doc}
	if _, fk := declared[col.Name+"_id"]; fk {
		prop.Schema = &Schema{Ref: ref}
	} else {
		prop.Ref = ref
	}
	return prop, related, nil
}
