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

// Cache TTL constants
const (
	MagasinListCacheTTL = 15 * time.Minute
)

var (
	ErrMagasinNotFound = errors.New("magasin not found")
)

type MagasinRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewMagasinRepository(db *gorm.DB, redis *redis.Client) *MagasinRepository {
	return &MagasinRepository{
		db:    db,
		redis: redis,
	}
}

func (r *MagasinRepository) invalidateCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	keys, _ := r.redis.Keys(ctx, "merch:magasins:*").Result()
	if len(keys) > 0 {
		r.redis.Del(ctx, keys...)
	}
}

// Create creates a new store
func (r *MagasinRepository) Create(magasin *models.Magasin) error {
	err := r.db.Create(magasin).Error
	if err == nil {
		r.invalidateCaches(context.Background())
	}
	return err
}

// GetAll retrieves every store, with a read-through cache.
func (r *MagasinRepository) GetAll() ([]models.Magasin, error) {
	ctx := context.Background()
	cacheKey := "merch:magasins:list"

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var magasins []models.Magasin
			if err := json.Unmarshal([]byte(val), &magasins); err == nil {
				return magasins, nil
			}
		}
	}

	var magasins []models.Magasin
	if err := r.db.Order("nom_magasin").Find(&magasins).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(magasins); err == nil {
			r.redis.Set(ctx, cacheKey, data, MagasinListCacheTTL)
		}
	}

	return magasins, nil
}

// GetByMagasinID retrieves the first store carrying the given natural key.
func (r *MagasinRepository) GetByMagasinID(magasinID string) (*models.Magasin, error) {
	var magasin models.Magasin
	err := r.db.Where("magasin_id = ?", magasinID).First(&magasin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMagasinNotFound
		}
		return nil, err
	}
	return &magasin, nil
}

// ExistsByMagasinID checks whether any store carries the natural key.
func (r *MagasinRepository) ExistsByMagasinID(magasinID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Magasin{}).Where("magasin_id = ?", magasinID).Count(&count).Error
	return count > 0, err
}

// BulkCreate creates multiple stores in a transaction, accumulating
// per-item errors. Natural-key duplicates are allowed: the import pipeline
// decides duplicate handling before the batch reaches the database.
func (r *MagasinRepository) BulkCreate(magasins []*models.Magasin) (*BulkResult, error) {
	result := &BulkResult{Total: len(magasins)}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, magasin := range magasins {
			if magasin.MagasinID == "" || magasin.NomMagasin == "" {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "REQUIRED_FIELD",
					Message: "magasin_id and nom_magasin are required",
				})
				continue
			}
			if err := tx.Create(magasin).Error; err != nil {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "CREATE_FAILED",
					Message: err.Error(),
				})
				continue
			}
			result.CreatedIDs = append(result.CreatedIDs, magasin.MagasinID)
		}

		result.Success = len(result.CreatedIDs)
		result.Failed = len(result.Errors)
		if result.Success == 0 && result.Total > 0 {
			return fmt.Errorf("all %d magasins failed to create", result.Total)
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
