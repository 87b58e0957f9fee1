package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categorie represents a product category. ParentID references another
// category's natural key; nil means a root category (legacy exports use the
// "-" sentinel for that, which the import pipeline strips).
type Categorie struct {
	ID                     uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategorieID            string          `json:"categorie_id" gorm:"not null;index"`
	Nom                    string          `json:"nom" gorm:"not null"`
	ParentID               *string         `json:"parent_id,omitempty" gorm:"index"`
	Niveau                 *int            `json:"niveau,omitempty"`
	Saisonnalite           *string         `json:"saisonnalite,omitempty"`
	Priorite               *int            `json:"priorite,omitempty"`
	ZoneExpositionPreferee *string         `json:"zone_exposition_preferee,omitempty"`
	TemperatureExposition  *string         `json:"temperature_exposition,omitempty"`
	Conditionnement        *string         `json:"conditionnement,omitempty"`
	ClienteleCiblee        *string         `json:"clientele_ciblee,omitempty"`
	MagasinID              *string         `json:"magasin_id,omitempty" gorm:"index"`
	DateCreation           time.Time       `json:"date_creation" gorm:"autoCreateTime"`
	DateModification       time.Time       `json:"date_modification" gorm:"autoUpdateTime"`
	DeletedAt              *gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// CategorieListResponse represents a list of categories response.
type CategorieListResponse struct {
	Success bool        `json:"success"`
	Data    []Categorie `json:"data"`
}

// TableName returns the table name for the Categorie model
func (Categorie) TableName() string {
	return "categories"
}
