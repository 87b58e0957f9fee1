package importer

import "strconv"

// Record is one canonical entity produced by the transformer, keyed by
// canonical field names. Absent keys mean the source had no usable value.
type Record map[string]any

// Transform applies the confirmed mapping to every raw row and builds
// canonical records with per-field coercions. Records that end up without a
// non-empty value for any required field are dropped; the validator should
// have caught those rows already, this is a defensive re-check. The output
// is therefore never longer than the input.
func Transform(schema *EntitySchema, mapping ColumnMapping, table *Table) []Record {
	out := make([]Record, 0, len(table.Rows))

	for _, row := range table.Rows {
		rec := make(Record)
		for _, column := range table.Headers {
			canonical := mapping[column]
			if canonical == "" {
				continue
			}
			field := schema.Field(canonical)
			if field == nil {
				continue
			}
			raw, ok := row[column]
			if !ok {
				continue
			}
			if value, keep := coerce(field, raw); keep {
				rec[canonical] = value
			}
		}
		if hasRequired(schema, rec) {
			out = append(out, rec)
		}
	}

	return out
}

func coerce(field *FieldSpec, raw string) (any, bool) {
	switch field.Coerce {
	case CoerceID:
		if raw == "" {
			return nil, false
		}
		return raw, true
	case CoerceForeignID:
		// "-" is the legacy export sentinel for "no parent".
		if raw == "-" || raw == "" {
			return nil, false
		}
		return raw, true
	case CoerceNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case CoerceNumberOrZero:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0.0, true
		}
		return n, true
	case CoerceBool:
		return raw == "true" || raw == "1", true
	default:
		if raw == "" {
			return nil, false
		}
		return raw, true
	}
}

func hasRequired(schema *EntitySchema, rec Record) bool {
	for _, field := range schema.RequiredFields() {
		if String(rec, field.Canonical) == "" {
			return false
		}
	}
	return true
}

// String reads a record field as a string, "" when absent or non-string.
func String(rec Record, canonical string) string {
	v, ok := rec[canonical]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Float reads a record field as a float64 with an ok flag.
func Float(rec Record, canonical string) (float64, bool) {
	v, ok := rec[canonical]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Bool reads a record field as a bool, false when absent.
func Bool(rec Record, canonical string) bool {
	v, ok := rec[canonical]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
