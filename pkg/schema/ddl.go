package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// TableDDL returns the CREATE TABLE statement of the catalog.
func (p Project) TableDDL() string {
	return generateDDL(p, p.TableName())
}

// IndexDDL returns the catalog indexes. The unique index is what the
// upsert of a project relies on.
func (p Project) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_ns_name_tag " +
			"ON projects(namespace, name, tag);",
		"CREATE INDEX IF NOT EXISTS idx_projects_namespace ON projects(namespace);",
	}
}
