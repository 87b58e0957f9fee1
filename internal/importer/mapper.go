package importer

import (
	"sort"
	"strings"
)

// ColumnMapping associates an original column name with a canonical field
// name. An empty value means the column is ignored.
type ColumnMapping map[string]string

// MappingResult is the proposed mapping for a header set, plus the columns
// the classifier could not settle on its own.
type MappingResult struct {
	Mapping ColumnMapping
	// Ambiguous lists, per unresolved column, the canonical fields that tied
	// for the best score. These columns are left unmapped for the user.
	Ambiguous map[string][]string
}

// InferMapping proposes a column-to-field mapping for the given headers.
// Each header is scored against every field's match substrings; the score of
// a field is the length of its longest substring contained in the header, so
// more specific names win over generic ones ("parent_id" beats "id"). A tie
// between distinct fields is reported instead of silently resolved by rule
// order. Deterministic and side-effect free.
func InferMapping(schema *EntitySchema, headers []string) MappingResult {
	result := MappingResult{
		Mapping:   make(ColumnMapping, len(headers)),
		Ambiguous: make(map[string][]string),
	}

	for _, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if normalized == "" {
			continue
		}

		bestScore := 0
		var winners []string
		for _, field := range schema.Fields {
			score := 0
			for _, sub := range field.Match {
				if strings.Contains(normalized, sub) && len(sub) > score {
					score = len(sub)
				}
			}
			if score == 0 {
				continue
			}
			switch {
			case score > bestScore:
				bestScore = score
				winners = []string{field.Canonical}
			case score == bestScore:
				winners = append(winners, field.Canonical)
			}
		}

		switch {
		case len(winners) == 1:
			result.Mapping[header] = winners[0]
		case len(winners) > 1:
			sort.Strings(winners)
			result.Ambiguous[header] = winners
		}
	}

	return result
}

// MappedColumn returns the first column (in header order) mapped to the
// given canonical field, or "" when none is.
func MappedColumn(mapping ColumnMapping, headers []string, canonical string) string {
	for _, h := range headers {
		if mapping[h] == canonical {
			return h
		}
	}
	return ""
}
