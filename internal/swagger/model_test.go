package swagger

// fakeModel is an in-memory Model; relations are resolved through the
// registry it belongs to.
type fakeModel struct {
	name, table, doc string
	columns          []Column
	relations        map[string]string
	registry         map[string]*fakeModel
}

func (m *fakeModel) Name() string      { return m.name }
func (m *fakeModel) TableName() string { return m.table }
func (m *fakeModel) Doc() string       { return m.doc }
func (m *fakeModel) Columns() []Column { return m.columns }

func (m *fakeModel) Related(column string) (Model, bool) {
	target, ok := m.relations[column]
	if !ok {
		return nil, false
	}
	rel, ok := m.registry[target]
	if !ok {
		return nil, false
	}
	return rel, true
}

type registry map[string]*fakeModel

func (r registry) add(m *fakeModel) *fakeModel {
	m.registry = r
	r[m.name] = m
	return m
}

// shopModels returns User <-> Order (mutual), Order -> Widget and a
// self-referencing Category.
func shopModels() registry {
	r := registry{}
	r.add(&fakeModel{
		name: "Widget", table: "widgets", doc: "A thing for sale.",
		columns: []Column{
			{Name: "id", Type: "INTEGER", Doc: "Primary key"},
			{Name: "name", Type: "VARCHAR(255)"},
			{Name: "price", Type: "numeric(10, 2)"},
			{Name: "secret", Type: "TEXT"},
		},
	})
	r.add(&fakeModel{
		name: "User", table: "users",
		columns: []Column{
			{Name: "id", Type: "BIGINT"},
			{Name: "email", Type: "VARCHAR(120)"},
			{Name: "orders"},
		},
		relations: map[string]string{"orders": "Order"},
	})
	r.add(&fakeModel{
		name: "Order", table: "orders", doc: "A placed order.",
		columns: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "user_id", Type: "INTEGER"},
			{Name: "user", Doc: "Buyer"},
			{Name: "widget"},
		},
		relations: map[string]string{"user": "User", "widget": "Widget"},
	})
	r.add(&fakeModel{
		name: "Category", table: "categories",
		columns: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "parent_id", Type: "INTEGER"},
			{Name: "parent"},
		},
		relations: map[string]string{"parent": "Category"},
	})
	return r
}
