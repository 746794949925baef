package swagger

import (
	"sort"
	"strings"
)

// TypeFormat is the Swagger (format, type) pair a SQL column type maps to.
type TypeFormat struct {
	Format string `json:"format" yaml:"format"`
	Type   string `json:"type" yaml:"type"`
}

var sqlTypes = map[string]TypeFormat{
	"INTEGER":   {Format: "int32", Type: "integer"},
	"SMALLINT":  {Format: "int32", Type: "integer"},
	"BIGINT":    {Format: "int64", Type: "integer"},
	"NUMERIC":   {Format: "float", Type: "number"},
	"DECIMAL":   {Format: "float", Type: "number"},
	"FLOAT":     {Format: "float", Type: "number"},
	"REAL":      {Format: "double", Type: "number"},
	"VARCHAR":   {Format: "string", Type: "string"},
	"TEXT":      {Format: "string", Type: "string"},
	"ENUM":      {Format: "string", Type: "string"},
	"DATE":      {Format: "date", Type: "string"},
	"DATETIME":  {Format: "date-time", Type: "string"},
	"INTERVAL":  {Format: "date-time", Type: "string"},
	"BOOLEAN":   {Format: "bool", Type: "boolean"},
	"BLOB":      {Format: "binary", Type: "string"},
	"BYTEA":     {Format: "binary", Type: "string"},
	"BINARY":    {Format: "binary", Type: "string"},
	"VARBINARY": {Format: "binary", Type: "string"},
}

// NormalizeType uppercases a declared SQL type and strips any length or
// precision suffix: "varchar(255)" becomes "VARCHAR".
func NormalizeType(raw string) string {
	t := raw
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return strings.ToUpper(strings.TrimSpace(t))
}

// LookupType maps a normalized SQL type name. A miss means the column is not
// a scalar and should be resolved as a relationship.
func LookupType(normalized string) (TypeFormat, bool) {
	tf, ok := sqlTypes[normalized]
	return tf, ok
}

// SupportedTypes lists the normalized SQL type names known to LookupType.
func SupportedTypes() []string {
	names := make([]string, 0, len(sqlTypes))
	for name := range sqlTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
