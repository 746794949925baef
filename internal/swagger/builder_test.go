package swagger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

func TestNewDocumentDefaults(t *testing.T) {
	b := New()
	doc := b.Document()

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, []string{"http", "https"}, doc.Schemes)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, []string{"application/json"}, doc.Consumes)
	assert.Equal(t, []string{"application/json"}, doc.Produces)
	assert.Empty(t, doc.Paths)
	assert.Empty(t, doc.Definitions)
	assert.Empty(t, doc.Tags)
	assert.Empty(t, doc.Host)
}

func TestBuildersDoNotShareState(t *testing.T) {
	models := shopModels()
	a, b := New(), New()

	require.NoError(t, a.Register(context.Background(), models["Widget"]))
	a.SetTitle("A")

	assert.Empty(t, b.doc.Paths)
	assert.Empty(t, b.doc.Definitions)
	_, ok := b.Title()
	assert.False(t, ok)
}

func TestMetadataAccessors(t *testing.T) {
	b := New()

	_, ok := b.Title()
	assert.False(t, ok)
	_, ok = b.Version()
	assert.False(t, ok)
	_, ok = b.Description()
	assert.False(t, ok)

	b.SetTitle("Shop API")
	b.SetVersion("1.2.3")
	b.SetDescription("Generated CRUD endpoints")
	b.SetBasePath("/v1")

	title, ok := b.Title()
	assert.True(t, ok)
	assert.Equal(t, "Shop API", title)
	version, _ := b.Version()
	assert.Equal(t, "1.2.3", version)
	desc, _ := b.Description()
	assert.Equal(t, "Generated CRUD endpoints", desc)
	assert.Equal(t, "/v1", b.BasePath())
}

func TestMetadataEmptyValueReadsBackAsSet(t *testing.T) {
	b := New()
	b.SetTitle("")
	b.SetDescription("")

	title, ok := b.Title()
	assert.True(t, ok)
	assert.Equal(t, "", title)
	_, ok = b.Description()
	assert.True(t, ok)
	_, ok = b.Version()
	assert.False(t, ok)
}

func TestRegisterOrder(t *testing.T) {
	models := shopModels()
	var calls []string
	var seen RegisterOptions

	var b *Builder
	b = New(WithRegistrar(RegistrarFunc(func(_ context.Context, m Model, opts RegisterOptions) error {
		calls = append(calls, m.Name())
		seen = opts
		// Nothing is written before the framework exposed the model.
		assert.NotContains(t, b.doc.Definitions, m.Name())
		return nil
	})))

	err := b.Register(context.Background(), models["Order"],
		WithMethods("GET", "POST"), WithURLPrefix("/api"), WithExcludeColumns("widget"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Order"}, calls)
	assert.Equal(t, RegisterOptions{URLPrefix: "/api", Methods: []string{"GET", "POST"}, ExcludeColumns: []string{"widget"}}, seen)
	assert.Contains(t, b.doc.Definitions, "Order")
	assert.NotContains(t, b.doc.Definitions, "Widget")
	assert.Contains(t, b.doc.Paths["/orders"], "post")
}

func TestRegisterRegistrarFailure(t *testing.T) {
	models := shopModels()
	boom := errors.New("boom")
	b := New(WithRegistrar(RegistrarFunc(func(context.Context, Model, RegisterOptions) error { return boom })))

	err := b.Register(context.Background(), models["Widget"])
	assert.ErrorIs(t, err, ErrRegistrationFailed)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, b.doc.Definitions)
	assert.Empty(t, b.doc.Paths)
}

func TestRegisterRejectsUnknownMethodFirst(t *testing.T) {
	models := shopModels()
	called := false
	b := New(WithRegistrar(RegistrarFunc(func(context.Context, Model, RegisterOptions) error {
		called = true
		return nil
	})))

	err := b.Register(context.Background(), models["Widget"], WithMethods("GET", "FETCH"))
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.False(t, called)
	assert.Empty(t, b.doc.Definitions)
}

func TestRegisterUnmappedStopsBeforePaths(t *testing.T) {
	r := registry{}
	m := r.add(&fakeModel{name: "Bad", table: "bads", columns: []Column{{Name: "x", Type: "GEOMETRY"}}})
	b := New()

	err := b.Register(context.Background(), m)
	assert.ErrorIs(t, err, ErrUnmappedColumn)
	assert.NotContains(t, b.doc.Definitions, "Bad")
	assert.Empty(t, b.doc.Paths)
}

func TestToJSONRoundTrip(t *testing.T) {
	models := shopModels()
	b := New()
	b.SetTitle("Shop")
	b.SetVersion("1.0")
	ctx := context.Background()
	require.NoError(t, b.Register(ctx, models["Order"], WithMethods("GET", "DELETE", "POST")))
	require.NoError(t, b.Register(ctx, models["Category"]))

	for _, indent := range []bool{false, true} {
		out, err := b.ToJSON(indent)
		require.NoError(t, err)

		var decoded Document
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, b.doc, &decoded)
	}
	assert.JSONEq(t, mustJSON(t, b), b.String())
}

func TestToJSONStatusKeysAreStrings(t *testing.T) {
	models := shopModels()
	b := New()
	require.NoError(t, b.Register(context.Background(), models["Widget"], WithMethods("GET", "DELETE")))

	out, err := b.ToJSON(false)
	require.NoError(t, err)

	v, err := fastjson.ParseBytes(out)
	require.NoError(t, err)
	assert.Equal(t, "List widgets", string(v.GetStringBytes("paths", "/widgets", "get", "responses", "200", "description")))
	assert.Equal(t, "#/definitions/Widget", string(v.GetStringBytes("paths", "/widgets/{widgetId}", "get", "responses", "200", "schema", "$ref")))
	assert.Equal(t, "Success", string(v.GetStringBytes("paths", "/widgets/{widgetId}", "delete", "responses", "200", "description")))
	assert.Equal(t, "Widget", string(v.GetStringBytes("tags", "0", "name")))
	assert.False(t, v.Exists("host"))
	assert.True(t, v.Exists("definitions", "Widget", "properties", "id"))
}

func TestToYAML(t *testing.T) {
	models := shopModels()
	b := New()
	b.SetTitle("Shop")
	require.NoError(t, b.Register(context.Background(), models["Category"], WithMethods("GET", "DELETE")))

	out, err := b.ToYAML()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(out, &raw))
	assert.Equal(t, "2.0", raw["swagger"])

	var decoded Document
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, b.doc, &decoded)

	paths := raw["paths"].(map[string]any)
	responses := paths["/categories"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	assert.Contains(t, responses, "200")
}

func TestDocumentSnapshotIsIndependent(t *testing.T) {
	models := shopModels()
	b := New()
	require.NoError(t, b.Register(context.Background(), models["Order"]))

	snap := b.Document()
	assert.Equal(t, b.doc, snap)

	snap.Definitions["Order"].Properties["id"].Type = "string"
	snap.Paths["/orders"]["get"].Tags[0] = "changed"
	assert.Equal(t, "integer", b.doc.Definitions["Order"].Properties["id"].Type)
	assert.Equal(t, "Order", b.doc.Paths["/orders"]["get"].Tags[0])

	withHost := snap.WithHost("example.com:8080")
	assert.Equal(t, "example.com:8080", withHost.Host)
	assert.Empty(t, snap.Host)
}

func mustJSON(t *testing.T, b *Builder) string {
	t.Helper()
	out, err := b.ToJSON(false)
	require.NoError(t, err)
	return string(out)
}
