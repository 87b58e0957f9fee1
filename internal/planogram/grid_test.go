package planogram

import (
	"testing"

	"merchandising-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gondola() *models.Furniture {
	return &models.Furniture{
		FurnitureID:         "F1",
		Faces:               2,
		NbEtageresFrontBack: 3,
		NbColonnesFrontBack: 4,
	}
}

func TestFacesFromFaceCount(t *testing.T) {
	assert.Equal(t, []Face{FaceFront}, Faces(&models.Furniture{Faces: 1}))
	assert.Equal(t, []Face{FaceFront}, Faces(&models.Furniture{Faces: 0}))
	assert.Equal(t, []Face{FaceFront, FaceBack}, Faces(&models.Furniture{Faces: 2}))
	assert.Equal(t, []Face{FaceFront, FaceBack, FaceLeft, FaceRight}, Faces(&models.Furniture{Faces: 4}))
}

func TestGridSizePerFace(t *testing.T) {
	f := &models.Furniture{
		Faces:                4,
		NbEtageresFrontBack:  5,
		NbColonnesFrontBack:  6,
		NbEtageresLeftRight:  2,
		NbColonnesLeftRight:  1,
		NbEtageresUniqueFace: 9,
		NbColonnesUniqueFace: 9,
	}

	rows, cols := GridSize(f, FaceFront)
	assert.Equal(t, 5, rows)
	assert.Equal(t, 6, cols)

	rows, cols = GridSize(f, FaceLeft)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, cols)

	single := &models.Furniture{Faces: 1, NbEtageresUniqueFace: 4, NbColonnesUniqueFace: 3}
	rows, cols = GridSize(single, FaceFront)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
}

func TestBuildCellsCountAndIDs(t *testing.T) {
	cells := BuildCells(gondola())

	// 2 faces of 3x4.
	require.Len(t, cells, 24)
	assert.Equal(t, "F1-front-0-0", cells[0].ID)
	assert.Equal(t, FaceFront, cells[0].Face)
	assert.Equal(t, "F1-back-2-3", cells[23].ID)

	for _, cell := range cells {
		assert.Empty(t, cell.ProduitID)
	}
}

func TestCellIndexOneBased(t *testing.T) {
	cells := BuildCells(gondola())

	idx := CellIndex(cells, FaceFront, 1, 1)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 0, cells[idx].X)
	assert.Equal(t, 0, cells[idx].Y)

	idx = CellIndex(cells, FaceBack, 3, 4)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 3, cells[idx].X)
	assert.Equal(t, 2, cells[idx].Y)

	assert.Equal(t, -1, CellIndex(cells, FaceFront, 4, 1))
	assert.Equal(t, -1, CellIndex(cells, FaceLeft, 1, 1))
}

func TestApplyPositionsPlacesProducts(t *testing.T) {
	f := gondola()
	cells := BuildCells(f)

	positions := []models.ProductPosition{
		{FurnitureID: "F1", ProduitID: "P1", Face: "front", Etagere: 1, Colonne: 2, Quantite: 3},
		{FurnitureID: "F1", ProduitID: "P2", Face: "back", Etagere: 3, Colonne: 4},
		{FurnitureID: "AUTRE", ProduitID: "P9", Face: "front", Etagere: 99, Colonne: 99},
	}
	require.NoError(t, ApplyPositions(f, cells, positions))

	idx := CellIndex(cells, FaceFront, 1, 2)
	assert.Equal(t, "P1", cells[idx].ProduitID)
	assert.Equal(t, 3, cells[idx].Quantite)

	// Quantity defaults to 1.
	idx = CellIndex(cells, FaceBack, 3, 4)
	assert.Equal(t, "P2", cells[idx].ProduitID)
	assert.Equal(t, 1, cells[idx].Quantite)
}

func TestApplyPositionsLastWriteWins(t *testing.T) {
	f := gondola()
	cells := BuildCells(f)

	positions := []models.ProductPosition{
		{FurnitureID: "F1", ProduitID: "P1", Face: "front", Etagere: 1, Colonne: 1, Quantite: 2},
		{FurnitureID: "F1", ProduitID: "P2", Face: "front", Etagere: 1, Colonne: 1, Quantite: 5},
	}
	require.NoError(t, ApplyPositions(f, cells, positions))

	idx := CellIndex(cells, FaceFront, 1, 1)
	assert.Equal(t, "P2", cells[idx].ProduitID)
	assert.Equal(t, 5, cells[idx].Quantite)
}

func TestApplyPositionsOutOfGridFails(t *testing.T) {
	f := gondola()
	cells := BuildCells(f)

	err := ApplyPositions(f, cells, []models.ProductPosition{
		{FurnitureID: "F1", ProduitID: "P1", Face: "front", Etagere: 4, Colonne: 1},
	})
	assert.Error(t, err)
}

func TestApplyPositionsEmptyFaceDefaultsToFront(t *testing.T) {
	f := gondola()
	cells := BuildCells(f)

	require.NoError(t, ApplyPositions(f, cells, []models.ProductPosition{
		{FurnitureID: "F1", ProduitID: "P1", Etagere: 2, Colonne: 2},
	}))
	idx := CellIndex(cells, FaceFront, 2, 2)
	assert.Equal(t, "P1", cells[idx].ProduitID)
}
