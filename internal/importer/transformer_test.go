package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magasinMapping() ColumnMapping {
	return ColumnMapping{
		"magasin_id":        "magasin_id",
		"nom_magasin":       "nom_magasin",
		"surface":           "surface",
		"zones_configurees": "zones_configurees",
		"adresse":           "adresse",
	}
}

func TestTransformMagasinRow(t *testing.T) {
	table := &Table{
		Headers: []string{"magasin_id", "nom_magasin", "surface", "zones_configurees", "adresse"},
		Rows: []RawRecord{
			{"magasin_id": "MAG001", "nom_magasin": "Carrefour", "surface": "450.5", "zones_configurees": "true", "adresse": "12 rue du Port"},
		},
	}

	records := Transform(MagasinSchema, magasinMapping(), table)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "MAG001", String(rec, "magasin_id"))
	assert.Equal(t, "Carrefour", String(rec, "nom_magasin"))
	surface, ok := Float(rec, "surface")
	require.True(t, ok)
	assert.Equal(t, 450.5, surface)
	assert.True(t, Bool(rec, "zones_configurees"))
	assert.Equal(t, "12 rue du Port", String(rec, "adresse"))
}

func TestTransformNumberOrZeroFallsBack(t *testing.T) {
	table := &Table{
		Headers: []string{"magasin_id", "nom_magasin", "surface"},
		Rows: []RawRecord{
			{"magasin_id": "MAG001", "nom_magasin": "Carrefour", "surface": "n/a"},
		},
	}
	mapping := ColumnMapping{"magasin_id": "magasin_id", "nom_magasin": "nom_magasin", "surface": "surface"}

	records := Transform(MagasinSchema, mapping, table)
	require.Len(t, records, 1)

	surface, ok := Float(records[0], "surface")
	require.True(t, ok)
	assert.Equal(t, 0.0, surface)
}

func TestTransformNumberDroppedWhenUnparseable(t *testing.T) {
	table := &Table{
		Headers: []string{"categorie_id", "nom", "niveau"},
		Rows: []RawRecord{
			{"categorie_id": "C1", "nom": "Epicerie", "niveau": "deux"},
		},
	}
	mapping := ColumnMapping{"categorie_id": "categorie_id", "nom": "nom", "niveau": "niveau"}

	records := Transform(CategorieSchema, mapping, table)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0], "niveau")
}

func TestTransformParentSentinelDropped(t *testing.T) {
	table := &Table{
		Headers: []string{"categorie_id", "nom", "parent_id"},
		Rows: []RawRecord{
			{"categorie_id": "C1", "nom": "Epicerie", "parent_id": "-"},
			{"categorie_id": "C2", "nom": "Conserves", "parent_id": "C1"},
			{"categorie_id": "C3", "nom": "Surgelés", "parent_id": ""},
		},
	}
	mapping := ColumnMapping{"categorie_id": "categorie_id", "nom": "nom", "parent_id": "parent_id"}

	records := Transform(CategorieSchema, mapping, table)
	require.Len(t, records, 3)
	assert.NotContains(t, records[0], "parent_id")
	assert.Equal(t, "C1", String(records[1], "parent_id"))
	assert.NotContains(t, records[2], "parent_id")
}

func TestTransformBoolLiterals(t *testing.T) {
	rows := []RawRecord{
		{"magasin_id": "M1", "nom_magasin": "A", "zones_configurees": "true"},
		{"magasin_id": "M2", "nom_magasin": "B", "zones_configurees": "1"},
		{"magasin_id": "M3", "nom_magasin": "C", "zones_configurees": "yes"},
		{"magasin_id": "M4", "nom_magasin": "D", "zones_configurees": "false"},
	}
	table := &Table{Headers: []string{"magasin_id", "nom_magasin", "zones_configurees"}, Rows: rows}
	mapping := ColumnMapping{"magasin_id": "magasin_id", "nom_magasin": "nom_magasin", "zones_configurees": "zones_configurees"}

	records := Transform(MagasinSchema, mapping, table)
	require.Len(t, records, 4)
	assert.True(t, Bool(records[0], "zones_configurees"))
	assert.True(t, Bool(records[1], "zones_configurees"))
	assert.False(t, Bool(records[2], "zones_configurees"))
	assert.False(t, Bool(records[3], "zones_configurees"))
}

func TestTransformDropsRowsMissingRequired(t *testing.T) {
	table := &Table{
		Headers: []string{"magasin_id", "nom_magasin"},
		Rows: []RawRecord{
			{"magasin_id": "MAG001", "nom_magasin": "Carrefour"},
			{"magasin_id": "", "nom_magasin": "Fantôme"},
		},
	}
	mapping := ColumnMapping{"magasin_id": "magasin_id", "nom_magasin": "nom_magasin"}

	records := Transform(MagasinSchema, mapping, table)
	require.Len(t, records, 1)
	assert.Equal(t, "MAG001", String(records[0], "magasin_id"))
}

func TestTransformIgnoresUnmappedColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"magasin_id", "nom_magasin", "commentaire"},
		Rows: []RawRecord{
			{"magasin_id": "MAG001", "nom_magasin": "Carrefour", "commentaire": "à ignorer"},
		},
	}
	mapping := ColumnMapping{"magasin_id": "magasin_id", "nom_magasin": "nom_magasin"}

	records := Transform(MagasinSchema, mapping, table)
	require.Len(t, records, 1)
	assert.Len(t, records[0], 2)
}

func TestRecordAccessorsOnAbsentKeys(t *testing.T) {
	rec := Record{}
	assert.Equal(t, "", String(rec, "nope"))
	_, ok := Float(rec, "nope")
	assert.False(t, ok)
	assert.False(t, Bool(rec, "nope"))
}
