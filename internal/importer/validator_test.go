package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCleanTable(t *testing.T) {
	table := &Table{
		Headers: []string{"magasin_id", "nom_magasin"},
		Rows: []RawRecord{
			{"magasin_id": "MAG001", "nom_magasin": "Carrefour"},
		},
	}
	mapping := ColumnMapping{"magasin_id": "magasin_id", "nom_magasin": "nom_magasin"}

	assert.Empty(t, Validate(MagasinSchema, mapping, table))
}

func TestValidateUnmappedRequiredFieldReportedOnce(t *testing.T) {
	table := &Table{
		Headers: []string{"nom_magasin"},
		Rows: []RawRecord{
			{"nom_magasin": "Carrefour"},
			{"nom_magasin": "Auchan"},
			{"nom_magasin": "Monoprix"},
		},
	}
	mapping := ColumnMapping{"nom_magasin": "nom_magasin"}

	errs := Validate(MagasinSchema, mapping, table)
	assert.Equal(t, []string{"Store ID is required"}, errs)
}

func TestValidateCollectsEveryRowError(t *testing.T) {
	table := &Table{
		Headers: []string{"zone_id", "nom_zone", "magasin_id"},
		Rows: []RawRecord{
			{"zone_id": "Z1", "nom_zone": "Entree", "magasin_id": "MAG001"},
			{"zone_id": "", "nom_zone": "Caisse", "magasin_id": "MAG001"},
			{"zone_id": "Z3", "nom_zone": "", "magasin_id": ""},
		},
	}
	mapping := ColumnMapping{"zone_id": "zone_id", "nom_zone": "nom_zone", "magasin_id": "magasin_id"}

	errs := Validate(ZoneSchema, mapping, table)
	assert.Equal(t, []string{
		"Row 2: Zone ID is missing",
		"Row 3: Zone name is missing",
		"Row 3: Store ID is missing",
	}, errs)
}

func TestValidateRowNumbersAreDataOrdinals(t *testing.T) {
	table := &Table{
		Headers: []string{"categorie_id", "nom"},
		Rows: []RawRecord{
			{"categorie_id": "C1", "nom": ""},
		},
	}
	mapping := ColumnMapping{"categorie_id": "categorie_id", "nom": "nom"}

	errs := Validate(CategorieSchema, mapping, table)
	assert.Equal(t, []string{"Row 1: Category name is missing"}, errs)
}
