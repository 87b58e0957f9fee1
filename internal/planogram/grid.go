package planogram

import (
	"fmt"

	"merchandising-service/internal/models"
)

// Face identifies one side of a fixture.
type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
	FaceLeft  Face = "left"
	FaceRight Face = "right"
)

// PlacementCell is one slot of a fixture face grid. X is the column, Y the
// shelf row (both zero-based). ProduitID is empty while the cell is free.
type PlacementCell struct {
	ID        string `json:"id"`
	Face      Face   `json:"face"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	ProduitID string `json:"produit_id,omitempty"`
	Quantite  int    `json:"quantite"`
}

// Faces returns the faces a fixture exposes, derived from its face count.
func Faces(f *models.Furniture) []Face {
	switch {
	case f.Faces >= 4:
		return []Face{FaceFront, FaceBack, FaceLeft, FaceRight}
	case f.Faces == 2:
		return []Face{FaceFront, FaceBack}
	default:
		return []Face{FaceFront}
	}
}

// GridSize returns the shelf-row and column counts of one face. Single-face
// fixtures use the unique-face counts, front/back and left/right pairs each
// carry their own counts.
func GridSize(f *models.Furniture, face Face) (rows, cols int) {
	if f.Faces <= 1 {
		return f.NbEtageresUniqueFace, f.NbColonnesUniqueFace
	}
	switch face {
	case FaceLeft, FaceRight:
		return f.NbEtageresLeftRight, f.NbColonnesLeftRight
	default:
		return f.NbEtageresFrontBack, f.NbColonnesFrontBack
	}
}

// BuildCells (re)creates the full cell set for a fixture. Callers rebuild
// whenever row/column counts change; prior placements are discarded unless
// re-applied with ApplyPositions.
func BuildCells(f *models.Furniture) []PlacementCell {
	var cells []PlacementCell
	for _, face := range Faces(f) {
		rows, cols := GridSize(f, face)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				cells = append(cells, PlacementCell{
					ID:   fmt.Sprintf("%s-%s-%d-%d", f.FurnitureID, face, y, x),
					Face: face,
					X:    x,
					Y:    y,
				})
			}
		}
	}
	return cells
}

// CellIndex locates the cell for a (face, etagere, colonne) position,
// returning -1 when the position falls outside the fixture's grid. Etagere
// and colonne are one-based, matching the export format.
func CellIndex(cells []PlacementCell, face Face, etagere, colonne int) int {
	for i, cell := range cells {
		if cell.Face == face && cell.Y == etagere-1 && cell.X == colonne-1 {
			return i
		}
	}
	return -1
}

// ApplyPositions places product positions onto a freshly built grid. A
// position referencing a cell outside the grid is an error; a position on an
// occupied cell overwrites it, last write wins, as the editor does.
func ApplyPositions(f *models.Furniture, cells []PlacementCell, positions []models.ProductPosition) error {
	for _, pos := range positions {
		if pos.FurnitureID != f.FurnitureID {
			continue
		}
		face := Face(pos.Face)
		if face == "" {
			face = FaceFront
		}
		idx := CellIndex(cells, face, pos.Etagere, pos.Colonne)
		if idx < 0 {
			return fmt.Errorf("position %s/%s: shelf %d column %d outside %s grid of furniture %s",
				pos.ProduitID, pos.Face, pos.Etagere, pos.Colonne, face, f.FurnitureID)
		}
		cells[idx].ProduitID = pos.ProduitID
		qty := pos.Quantite
		if qty <= 0 {
			qty = 1
		}
		cells[idx].Quantite = qty
	}
	return nil
}
