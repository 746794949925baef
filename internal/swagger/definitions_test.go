package swagger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDefinitionScalars(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Widget"]))

	defn := b.doc.Definitions["Widget"]
	require.NotNil(t, defn)
	assert.Equal(t, "object", defn.Type)
	assert.Equal(t, &Property{Format: "int32", Type: "integer", Description: "Primary key"}, defn.Properties["id"])
	assert.Equal(t, &Property{Format: "string", Type: "string"}, defn.Properties["name"])
	assert.Equal(t, &Property{Format: "float", Type: "number"}, defn.Properties["price"])
	assert.Len(t, b.doc.Definitions, 1)
}

func TestAddDefinitionExcludeColumns(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Widget"], WithExcludeColumns("secret")))
	assert.NotContains(t, b.doc.Definitions["Widget"].Properties, "secret")
	assert.Contains(t, b.doc.Definitions["Widget"].Properties, "name")
}

func TestAddDefinitionExcludedRelationshipIsNotFollowed(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Order"], WithExcludeColumns("widget")))
	assert.NotContains(t, b.doc.Definitions["Order"].Properties, "widget")
	assert.NotContains(t, b.doc.Definitions, "Widget")
	assert.Contains(t, b.doc.Definitions, "User")
}

func TestAddDefinitionReferenceShapes(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Order"]))
	props := b.doc.Definitions["Order"].Properties

	// user_id exists next to user, so the reference is wrapped.
	assert.Equal(t, &Property{Schema: &Schema{Ref: "#/definitions/User"}, Description: "Buyer"}, props["user"])
	assert.Equal(t, &Property{Ref: "#/definitions/Widget"}, props["widget"])
	assert.True(t, props["user"].IsReference())
	assert.Equal(t, "#/definitions/Widget", props["widget"].Target())
	assert.False(t, props["id"].IsReference())
}

func TestAddDefinitionFollowsRelationships(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Order"]))
	assert.ElementsMatch(t, []string{"Order", "User", "Widget"}, definitionNames(b))

	for name, defn := range b.doc.Definitions {
		for col, p := range defn.Properties {
			if !p.IsReference() {
				continue
			}
			target := p.Target()[len(definitionsPrefix):]
			assert.Contains(t, b.doc.Definitions, target, "%s.%s dangles", name, col)
		}
	}
}

func TestAddDefinitionSelfReferenceTerminates(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Category"]))
	assert.Equal(t, []string{"Category"}, definitionNames(b))
	assert.Equal(t, "#/definitions/Category", b.doc.Definitions["Category"].Properties["parent"].Target())
}

func TestAddDefinitionMutualReferenceTerminates(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["User"]))
	assert.ElementsMatch(t, []string{"User", "Order", "Widget"}, definitionNames(b))
	assert.Equal(t, &Property{Ref: "#/definitions/Order"}, b.doc.Definitions["User"].Properties["orders"])
}

func TestAddDefinitionUnmappedColumn(t *testing.T) {
	r := registry{}
	m := r.add(&fakeModel{
		name: "Blob", table: "blobs",
		columns: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "payload", Type: "JSONB"},
		},
	})
	b := New()

	err := b.AddDefinition(m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedColumn))

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, UnmappedColumn, se.Code)
	assert.Equal(t, "Blob", se.Model)
	assert.Equal(t, "payload", se.Column)
	assert.Contains(t, err.Error(), "JSONB")
	assert.NotContains(t, b.doc.Definitions, "Blob")
}

func TestAddDefinitionUnknownRelationTarget(t *testing.T) {
	r := registry{}
	m := r.add(&fakeModel{
		name: "Post", table: "posts",
		columns:   []Column{{Name: "author"}},
		relations: map[string]string{"author": "Missing"},
	})

	err := New().AddDefinition(m)
	assert.ErrorIs(t, err, ErrUnmappedColumn)
}

func TestAddDefinitionOverwrites(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddDefinition(models["Widget"]))
	require.NoError(t, b.AddDefinition(models["Widget"], WithExcludeColumns("name", "secret")))
	assert.Len(t, b.doc.Definitions["Widget"].Properties, 2)
}

func definitionNames(b *Builder) []string {
	names := make([]string, 0, len(b.doc.Definitions))
	for name := range b.doc.Definitions {
		names = append(names, name)
	}
	return names
}
