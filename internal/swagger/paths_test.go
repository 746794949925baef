package swagger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPathDefaultGet(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["Widget"]))

	require.Contains(t, b.doc.Paths, "/widgets")
	require.Contains(t, b.doc.Paths, "/widgets/{widgetId}")

	list := b.doc.Paths["/widgets"]["get"]
	require.NotNil(t, list)
	assert.Equal(t, []string{"Widget"}, list.Tags)
	assert.Equal(t, "A thing for sale.", list.Description)
	assert.Equal(t, []Parameter{{Name: "q", In: "query", Description: "searchjson", Type: "string"}}, list.Parameters)
	assert.Equal(t, Response{
		Description: "List widgets",
		Schema: &Schema{
			Title: "widgets",
			Type:  "array",
			Items: &Schema{Ref: "#/definitions/Widget"},
		},
	}, list.Responses["200"])

	item := b.doc.Paths["/widgets/{widgetId}"]["get"]
	require.NotNil(t, item)
	assert.Equal(t, []Parameter{{
		Name:        "widgetId",
		In:          "path",
		Description: "ID of Widget",
		Required:    true,
		Type:        "integer",
		Format:      "int64",
	}}, item.Parameters)
	assert.Equal(t, Response{Description: "Success widgets", Schema: &Schema{Ref: "#/definitions/Widget"}}, item.Responses["200"])

	assert.Equal(t, []Tag{{Name: "Widget"}}, b.doc.Tags)
}

func TestAddPathStripsBasePath(t *testing.T) {
	models := shopModels()
	b := New()
	require.Equal(t, "/api", b.BasePath())

	require.NoError(t, b.AddPath(models["Widget"], WithURLPrefix("/api")))
	assert.Contains(t, b.doc.Paths, "/widgets")
	assert.Contains(t, b.doc.Paths, "/widgets/{widgetId}")
	assert.NotContains(t, b.doc.Paths, "/api/widgets")
}

func TestAddPathKeepsMismatchedPrefix(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["Widget"], WithURLPrefix("/v2")))
	assert.Contains(t, b.doc.Paths, "/v2/widgets")

	require.NoError(t, b.AddPath(models["User"], WithURLPrefix("/apiary")))
	assert.Contains(t, b.doc.Paths, "/apiary/users")
}

func TestAddPathGetAndDelete(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["Widget"], WithMethods("GET", "DELETE")))

	item := b.doc.Paths["/widgets/{widgetId}"]
	assert.Contains(t, item, "get")
	assert.Contains(t, item, "delete")
	assert.Equal(t, Response{Description: "Success"}, item["delete"].Responses["200"])

	collection := b.doc.Paths["/widgets"]
	assert.Len(t, collection, 1)
	assert.Contains(t, collection, "get")
}

func TestAddPathWriteMethods(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["Widget"], WithMethods("post", "Put", "PATCH")))

	collection := b.doc.Paths["/widgets"]
	for _, m := range []string{"post", "put", "patch"} {
		op := collection[m]
		require.NotNil(t, op, m)
		assert.Equal(t, []Parameter{{
			Name:        "widgets",
			In:          "body",
			Description: "Widget",
			Required:    true,
			Schema:      &Schema{Ref: "#/definitions/Widget"},
		}}, op.Parameters)
		assert.Equal(t, map[string]Response{"200": {Description: "Success"}}, op.Responses)
	}
	assert.NotContains(t, b.doc.Paths, "/widgets/{widgetId}")
}

func TestAddPathAccumulatesMethods(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["Widget"]))
	require.NoError(t, b.AddPath(models["Widget"], WithMethods("DELETE", "POST")))

	assert.Len(t, b.doc.Paths["/widgets/{widgetId}"], 2)
	assert.Len(t, b.doc.Paths["/widgets"], 2)
	assert.Equal(t, []Tag{{Name: "Widget"}}, b.doc.Tags)
}

func TestAddPathNoDescriptionWithoutDoc(t *testing.T) {
	models := shopModels()
	b := New()

	require.NoError(t, b.AddPath(models["User"], WithMethods("GET", "DELETE", "POST")))
	for _, item := range b.doc.Paths {
		for _, op := range item {
			assert.Empty(t, op.Description)
		}
	}
}

func TestAddPathUnsupportedMethod(t *testing.T) {
	models := shopModels()
	b := New()

	err := b.AddPath(models["Widget"], WithMethods("GET", "FETCH"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))
	assert.Empty(t, b.doc.Paths)
	assert.Empty(t, b.doc.Tags)
}
