package models

import (
	"time"

	"github.com/google/uuid"
)

// FurnitureType is a catalog entry for a physical display unit kind
// (gondola, shelf wall, refrigerator, ...).
type FurnitureType struct {
	ID          int    `json:"furniture_type_id" gorm:"primaryKey;column:furniture_type_id"`
	Nom         string `json:"nom" gorm:"not null"`
	NombreFaces int    `json:"nombre_faces" gorm:"not null;default:1"`
}

// Planogram is a saved arrangement of products onto fixtures within a store
// zone.
type Planogram struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanogramID  string    `json:"planogram_id" gorm:"not null;index"`
	NomPlanogram string    `json:"nom_planogram" gorm:"not null"`
	Statut       string    `json:"statut" gorm:"not null;default:'actif'"`
	MagasinID    string    `json:"magasin_id" gorm:"not null;index"`
	ZoneID       *string   `json:"zone_id,omitempty" gorm:"index"`
	CategorieID  *string   `json:"categorie_id,omitempty"`
	DateCreation time.Time `json:"date_creation" gorm:"autoCreateTime"`

	Furniture []Furniture `json:"furniture,omitempty" gorm:"foreignKey:PlanogramRef;references:ID"`
}

// Furniture is one fixture instance inside a planogram. Physical dimensions
// are stored in meters; per-face shelf/column counts drive the placement
// grid.
type Furniture struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanogramRef         uuid.UUID `json:"planogram_ref" gorm:"type:uuid;index"`
	FurnitureID          string    `json:"furniture_id" gorm:"not null;index"`
	FurnitureTypeID      int       `json:"furniture_type_id" gorm:"not null"`
	FurnitureTypeName    string    `json:"furniture_type_name"`
	Faces                int       `json:"faces" gorm:"not null;default:1"`
	AvailableFaces       JSONArray `json:"available_faces" gorm:"type:jsonb"`
	Largeur              float64   `json:"largeur"`
	Hauteur              float64   `json:"hauteur"`
	Profondeur           float64   `json:"profondeur"`
	ImageURL             *string   `json:"imageUrl,omitempty"`
	NbEtageresUniqueFace int       `json:"nb_etageres_unique_face"`
	NbColonnesUniqueFace int       `json:"nb_colonnes_unique_face"`
	NbEtageresFrontBack  int       `json:"nb_etageres_front_back"`
	NbColonnesFrontBack  int       `json:"nb_colonnes_front_back"`
	NbEtageresLeftRight  int       `json:"nb_etageres_left_right"`
	NbColonnesLeftRight  int       `json:"nb_colonnes_left_right"`
}

// ProductPosition places a product on one cell of a fixture face.
type ProductPosition struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PositionID  string    `json:"position_id" gorm:"index"`
	FurnitureID string    `json:"furniture_id" gorm:"not null;index"`
	ProduitID   string    `json:"produit_id" gorm:"not null"`
	Face        string    `json:"face" gorm:"not null;default:'front'"`
	Etagere     int       `json:"etagere" gorm:"not null"`
	Colonne     int       `json:"colonne" gorm:"not null"`
	Quantite    int       `json:"quantite" gorm:"not null;default:1"`
}

// Tache is the optional implementation task attached to a composite
// planogram creation.
type Tache struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanogramRef  uuid.UUID  `json:"planogram_ref" gorm:"type:uuid;index"`
	IDUtilisateur int        `json:"id_utilisateur"`
	Statut        string     `json:"statut" gorm:"not null;default:'a_faire'"`
	Type          string     `json:"type"`
	DateDebut     *time.Time `json:"date_debut,omitempty"`
	DateFin       *time.Time `json:"date_fin,omitempty"`
}

// PlanogramInfoInput is the descriptive part of a composite create request.
type PlanogramInfoInput struct {
	PlanogramID  string  `json:"planogram_id"`
	NomPlanogram string  `json:"nom_planogram" binding:"required"`
	Statut       string  `json:"statut"`
	MagasinID    string  `json:"magasin_id" binding:"required"`
	ZoneID       *string `json:"zone_id,omitempty"`
	CategorieID  *string `json:"categorie_id,omitempty"`
}

// FurnitureInput describes one fixture in a composite create request.
// Dimensions are expected in meters.
type FurnitureInput struct {
	FurnitureID          string   `json:"furniture_id" binding:"required"`
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

// ProductPositionInput places one product in a composite create request.
type ProductPositionInput struct {
	PositionID  string `json:"position_id"`
	FurnitureID string `json:"furniture_id" binding:"required"`
	ProduitID   string `json:"produit_id" binding:"required"`
	Face        string `json:"face"`
	Etagere     int    `json:"etagere"`
	Colonne     int    `json:"colonne"`
	Quantite    int    `json:"quantite"`
}

// TacheInput is the optional task of a composite create request.
type TacheInput struct {
	IDUtilisateur int        `json:"id_utilisateur"`
	Statut        string     `json:"statut"`
	Type          string     `json:"type"`
	DateDebut     *time.Time `json:"date_debut,omitempty"`
	DateFin       *time.Time `json:"date_fin,omitempty"`
}

// CreateFullPlanogramRequest is the composite create body: planogram info,
// fixtures, product positions and an optional implementation task.
type CreateFullPlanogramRequest struct {
	PlanogramInfo    PlanogramInfoInput     `json:"planogram_info" binding:"required"`
	Furniture        []FurnitureInput       `json:"furniture" binding:"required,min=1"`
	ProductPositions []ProductPositionInput `json:"product_positions"`
	Tache            *TacheInput            `json:"tache,omitempty"`
}

// FurnitureTypeListResponse represents the furniture type catalog response.
type FurnitureTypeListResponse struct {
	Success bool            `json:"success"`
	Data    []FurnitureType `json:"data"`
}

// TableName returns the table name for the FurnitureType model
func (FurnitureType) TableName() string {
	return "furniture_types"
}

// TableName returns the table name for the Planogram model
func (Planogram) TableName() string {
	return "planograms"
}

// TableName returns the table name for the Furniture model
func (Furniture) TableName() string {
	return "furniture"
}

// TableName returns the table name for the ProductPosition model
func (ProductPosition) TableName() string {
	return "product_positions"
}

// TableName returns the table name for the Tache model
func (Tache) TableName() string {
	return "taches"
}
