package planogram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanogramJSON = `{
	"planogram_info": {
		"planogram_id": "plano-001",
		"nom_planogram": "Rayon épicerie",
		"statut": "actif",
		"magasin_id": "MAG001"
	},
	"furniture": [
		{
			"furniture_id": "F1",
			"furniture_type_id": 1,
			"faces": 2,
			"largeur": 120,
			"hauteur": 180,
			"profondeur": 60,
			"nb_etageres_front_back": 3,
			"nb_colonnes_front_back": 4
		}
	],
	"product_positions": [
		{"position_id": "pos-1", "furniture_id": "F1", "produit_id": "P1", "face": "front", "etagere": 1, "colonne": 2, "quantite": 3}
	]
}`

func TestParseImportFileValid(t *testing.T) {
	doc, err := ParseImportFile(strings.NewReader(validPlanogramJSON))
	require.NoError(t, err)

	assert.Equal(t, "plano-001", doc.PlanogramInfo.PlanogramID)
	require.Len(t, doc.Furniture, 1)
	require.Len(t, doc.ProductPositions, 1)
}

func TestParseImportFileMissingTopLevelKey(t *testing.T) {
	noPositions := `{"planogram_info": {"planogram_id": "p"}, "furniture": []}`
	_, err := ParseImportFile(strings.NewReader(noPositions))
	assert.ErrorIs(t, err, ErrInvalidPlanogramFile)
}

func TestParseImportFileMalformedJSON(t *testing.T) {
	_, err := ParseImportFile(strings.NewReader("{not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPlanogramFile)
}

func TestParseImportFileUnknownFurnitureReference(t *testing.T) {
	doc := strings.Replace(validPlanogramJSON, `"furniture_id": "F1", "produit_id"`, `"furniture_id": "F404", "produit_id"`, 1)
	_, err := ParseImportFile(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown furniture")
}

func TestParseImportFileOutOfGridPosition(t *testing.T) {
	doc := strings.Replace(validPlanogramJSON, `"etagere": 1`, `"etagere": 9`, 1)
	_, err := ParseImportFile(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestToModelConvertsCentimetersToMeters(t *testing.T) {
	doc, err := ParseImportFile(strings.NewReader(validPlanogramJSON))
	require.NoError(t, err)

	m := doc.Furniture[0].ToModel()
	assert.Equal(t, 1.2, m.Largeur)
	assert.Equal(t, 1.8, m.Hauteur)
	assert.Equal(t, 0.6, m.Profondeur)
	assert.Equal(t, 2, m.Faces)
}
