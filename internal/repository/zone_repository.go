package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"merchandising-service/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const ZoneListCacheTTL = 15 * time.Minute

var ErrZoneNotFound = errors.New("zone not found")

type ZoneRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewZoneRepository(db *gorm.DB, redis *redis.Client) *ZoneRepository {
	return &ZoneRepository{
		db:    db,
		redis: redis,
	}
}

func (r *ZoneRepository) invalidateCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	keys, _ := r.redis.Keys(ctx, "merch:zones:*").Result()
	if len(keys) > 0 {
		r.redis.Del(ctx, keys...)
	}
}

// GetZonesByMagasin retrieves the zones of one store, with a read-through
// cache keyed per store.
func (r *ZoneRepository) GetZonesByMagasin(magasinID string) ([]models.Zone, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("merch:zones:magasin:%s", magasinID)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var zones []models.Zone
			if err := json.Unmarshal([]byte(val), &zones); err == nil {
				return zones, nil
			}
		}
	}

	var zones []models.Zone
	if err := r.db.Where("magasin_id = ?", magasinID).Order("nom_zone").Find(&zones).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(zones); err == nil {
			r.redis.Set(ctx, cacheKey, data, ZoneListCacheTTL)
		}
	}

	return zones, nil
}

// BulkCreate creates multiple zones in a transaction. Every zone must
// reference an existing store; per-item failures do not abort the batch
// unless nothing succeeds.
func (r *ZoneRepository) BulkCreate(zones []*models.Zone) (*BulkResult, error) {
	result := &BulkResult{Total: len(zones)}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, zone := range zones {
			if zone.ZoneID == "" || zone.NomZone == "" || zone.MagasinID == "" {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "REQUIRED_FIELD",
					Message: "zone_id, nom_zone and magasin_id are required",
				})
				continue
			}

			var magasinCount int64
			if err := tx.Model(&models.Magasin{}).Where("magasin_id = ?", zone.MagasinID).Count(&magasinCount).Error; err != nil {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "DB_ERROR",
					Message: "failed to validate referenced magasin",
				})
				continue
			}
			if magasinCount == 0 {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "INVALID_MAGASIN",
					Message: fmt.Sprintf("magasin %s not found", zone.MagasinID),
				})
				continue
			}

			if err := tx.Create(zone).Error; err != nil {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "CREATE_FAILED",
					Message: err.Error(),
				})
				continue
			}
			result.CreatedIDs = append(result.CreatedIDs, zone.ZoneID)
		}

		result.Success = len(result.CreatedIDs)
		result.Failed = len(result.Errors)
		if result.Success == 0 && result.Total > 0 {
			return fmt.Errorf("all %d zones failed to create", result.Total)
		}
		return nil
	})

	if err != nil && result.Success == 0 {
		return result, err
	}

	if result.Success > 0 {
		r.invalidateCaches(context.Background())
	}
	return result, nil
}
