package importer

import "fmt"

// Validate checks the confirmed mapping and every data row against the
// schema's required fields. It never stops at the first problem: the whole
// error list is collected so the user can fix the file in one pass.
//
// Two error classes are produced, in order:
//   - one "<field> is required" entry per required field absent from the
//     mapping's value set, regardless of row count;
//   - one "Row N: <field> is missing" entry per data row whose mapped
//     required cell is empty.
//
// An empty return value means the session may advance past the mapping step.
func Validate(schema *EntitySchema, mapping ColumnMapping, table *Table) []string {
	errs := []string{}

	for _, field := range schema.RequiredFields() {
		if MappedColumn(mapping, table.Headers, field.Canonical) == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field.Label))
		}
	}

	for i, row := range table.Rows {
		for _, field := range schema.RequiredFields() {
			column := MappedColumn(mapping, table.Headers, field.Canonical)
			if column == "" {
				continue
			}
			if row[column] == "" {
				errs = append(errs, fmt.Sprintf("Row %d: %s is missing", i+1, field.Label))
			}
		}
	}

	return errs
}
