package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Zone represents a merchandising zone inside a store.
type Zone struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ZoneID           string          `json:"zone_id" gorm:"not null;index"`
	NomZone          string          `json:"nom_zone" gorm:"not null"`
	MagasinID        string          `json:"magasin_id" gorm:"not null;index"`
	Description      *string         `json:"description,omitempty"`
	Emplacement      *string         `json:"emplacement,omitempty"`
	DateCreation     time.Time       `json:"date_creation" gorm:"autoCreateTime"`
	DateModification time.Time       `json:"date_modification" gorm:"autoUpdateTime"`
	DeletedAt        *gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ZoneListResponse represents a list of zones response.
type ZoneListResponse struct {
	Success bool   `json:"success"`
	Data    []Zone `json:"data"`
}

// TableName returns the table name for the Zone model
func (Zone) TableName() string {
	return "zones"
}
