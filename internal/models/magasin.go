package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Magasin represents a retail store. MagasinID is the natural key carried by
// spreadsheet exports; uniqueness is intentionally not enforced at the
// schema level, duplicate handling happens at import time under the
// session's duplicate policy.
type Magasin struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MagasinID        string          `json:"magasin_id" gorm:"not null;index"`
	NomMagasin       string          `json:"nom_magasin" gorm:"not null"`
	Surface          *float64        `json:"surface,omitempty"`
	Longueur         *float64        `json:"longueur,omitempty"`
	Largeur          *float64        `json:"largeur,omitempty"`
	ZonesConfigurees bool            `json:"zones_configurees" gorm:"default:false"`
	Adresse          *string         `json:"adresse,omitempty"`
	DateCreation     time.Time       `json:"date_creation" gorm:"autoCreateTime"`
	DateModification time.Time       `json:"date_modification" gorm:"autoUpdateTime"`
	DeletedAt        *gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// CreateMagasinRequest represents a request to create a single store.
type CreateMagasinRequest struct {
	MagasinID        string   `json:"magasin_id" binding:"required"`
	NomMagasin       string   `json:"nom_magasin" binding:"required"`
	Surface          *float64 `json:"surface,omitempty"`
	Longueur         *float64 `json:"longueur,omitempty"`
	Largeur          *float64 `json:"largeur,omitempty"`
	ZonesConfigurees *bool    `json:"zones_configurees,omitempty"`
	Adresse          *string  `json:"adresse,omitempty"`
}

// MagasinListResponse represents a list of stores response.
type MagasinListResponse struct {
	Success bool      `json:"success"`
	Data    []Magasin `json:"data"`
}

// TableName returns the table name for the Magasin model
func (Magasin) TableName() string {
	return "magasins"
}
