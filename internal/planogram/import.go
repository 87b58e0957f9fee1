package planogram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"merchandising-service/internal/models"
)

// Imported planogram files carry fixture dimensions in centimeters; the
// internal model is in meters.
const cmPerMeter = 100

// ErrInvalidPlanogramFile is returned when the JSON lacks one of the three
// required top-level keys.
var ErrInvalidPlanogramFile = errors.New("invalid planogram file: planogram_info, furniture and product_positions are required")

// ImportedPlanogramInfo is the descriptive block of an imported planogram.
type ImportedPlanogramInfo struct {
	PlanogramID  string `json:"planogram_id"`
	NomPlanogram string `json:"nom_planogram"`
	Statut       string `json:"statut"`
	DateCreation string `json:"date_creation"`
	MagasinID    string `json:"magasin_id"`
	CategorieID  string `json:"categorie_id"`
}

// ImportedFurniture is one fixture entry of an imported planogram, with
// physical dimensions in centimeters.
type ImportedFurniture struct {
	FurnitureID          string   `json:"furniture_id"`
	FurnitureTypeID      int      `json:"furniture_type_id"`
	FurnitureTypeName    string   `json:"furniture_type_name"`
	Faces                int      `json:"faces"`
	AvailableFaces       []string `json:"available_faces"`
	Largeur              float64  `json:"largeur"`
	Hauteur              float64  `json:"hauteur"`
	Profondeur           float64  `json:"profondeur"`
	ImageURL             *string  `json:"imageUrl,omitempty"`
	NbEtageresUniqueFace int      `json:"nb_etageres_unique_face"`
	NbColonnesUniqueFace int      `json:"nb_colonnes_unique_face"`
	NbEtageresFrontBack  int      `json:"nb_etageres_front_back"`
	NbColonnesFrontBack  int      `json:"nb_colonnes_front_back"`
	NbEtageresLeftRight  int      `json:"nb_etageres_left_right"`
	NbColonnesLeftRight  int      `json:"nb_colonnes_left_right"`
}

// ImportedPosition is one product placement of an imported planogram.
type ImportedPosition struct {
	PositionID  string `json:"position_id"`
	FurnitureID string `json:"furniture_id"`
	ProduitID   string `json:"produit_id"`
	Face        string `json:"face"`
	Etagere     int    `json:"etagere"`
	Colonne     int    `json:"colonne"`
	Quantite    int    `json:"quantite"`
}

// ImportedPlanogram is the AI-assisted planogram exchange format.
type ImportedPlanogram struct {
	PlanogramInfo    *ImportedPlanogramInfo `json:"planogram_info"`
	Furniture        []ImportedFurniture    `json:"furniture"`
	ProductPositions []ImportedPosition     `json:"product_positions"`
}

// ParseImportFile decodes and validates an imported planogram JSON document:
// the three top-level keys must be present, and every product position must
// reference a declared fixture and land inside its face grid.
func ParseImportFile(r io.Reader) (*ImportedPlanogram, error) {
	var doc ImportedPlanogram
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse planogram file: %w", err)
	}
	if doc.PlanogramInfo == nil || doc.Furniture == nil || doc.ProductPositions == nil {
		return nil, ErrInvalidPlanogramFile
	}

	byID := make(map[string]*ImportedFurniture, len(doc.Furniture))
	for i := range doc.Furniture {
		byID[doc.Furniture[i].FurnitureID] = &doc.Furniture[i]
	}
	for _, pos := range doc.ProductPositions {
		imported, ok := byID[pos.FurnitureID]
		if !ok {
			return nil, fmt.Errorf("position %s references unknown furniture %s", pos.PositionID, pos.FurnitureID)
		}
		f := imported.ToModel()
		face := Face(pos.Face)
		if face == "" {
			face = FaceFront
		}
		rows, cols := GridSize(&f, face)
		if pos.Etagere < 1 || pos.Etagere > rows || pos.Colonne < 1 || pos.Colonne > cols {
			return nil, fmt.Errorf("position %s: shelf %d column %d outside %s grid of furniture %s",
				pos.PositionID, pos.Etagere, pos.Colonne, face, pos.FurnitureID)
		}
	}

	return &doc, nil
}

// ToModel converts an imported fixture to the internal model, converting
// centimeter dimensions to meters.
func (f *ImportedFurniture) ToModel() models.Furniture {
	faces := make(models.JSONArray, 0, len(f.AvailableFaces))
	for _, face := range f.AvailableFaces {
		faces = append(faces, face)
	}
	return models.Furniture{
		FurnitureID:          f.FurnitureID,
		FurnitureTypeID:      f.FurnitureTypeID,
		FurnitureTypeName:    f.FurnitureTypeName,
		Faces:                f.Faces,
		AvailableFaces:       faces,
		Largeur:              f.Largeur / cmPerMeter,
		Hauteur:              f.Hauteur / cmPerMeter,
		Profondeur:           f.Profondeur / cmPerMeter,
		ImageURL:             f.ImageURL,
		NbEtageresUniqueFace: f.NbEtageresUniqueFace,
		NbColonnesUniqueFace: f.NbColonnesUniqueFace,
		NbEtageresFrontBack:  f.NbEtageresFrontBack,
		NbColonnesFrontBack:  f.NbColonnesFrontBack,
		NbEtageresLeftRight:  f.NbEtageresLeftRight,
		NbColonnesLeftRight:  f.NbColonnesLeftRight,
	}
}
