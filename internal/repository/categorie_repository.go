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

const CategorieListCacheTTL = 30 * time.Minute

var ErrCategorieNotFound = errors.New("categorie not found")

type CategorieRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCategorieRepository(db *gorm.DB, redis *redis.Client) *CategorieRepository {
	return &CategorieRepository{
		db:    db,
		redis: redis,
	}
}

func (r *CategorieRepository) invalidateCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	keys, _ := r.redis.Keys(ctx, "merch:categories:*").Result()
	if len(keys) > 0 {
		r.redis.Del(ctx, keys...)
	}
}

// GetAll retrieves every category, cached. Categories change rarely.
func (r *CategorieRepository) GetAll() ([]models.Categorie, error) {
	ctx := context.Background()
	cacheKey := "merch:categories:list"

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var categories []models.Categorie
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var categories []models.Categorie
	if err := r.db.Order("nom").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			r.redis.Set(ctx, cacheKey, data, CategorieListCacheTTL)
		}
	}

	return categories, nil
}

// BulkCreate creates multiple categories in a transaction with per-item
// error accumulation.
func (r *CategorieRepository) BulkCreate(categories []*models.Categorie) (*BulkResult, error) {
	result := &BulkResult{Total: len(categories)}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, categorie := range categories {
			if categorie.CategorieID == "" || categorie.Nom == "" {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "REQUIRED_FIELD",
					Message: "categorie_id and nom are required",
				})
				continue
			}
			if err := tx.Create(categorie).Error; err != nil {
				result.Errors = append(result.Errors, BulkItemError{
					Index:   i,
					Code:    "CREATE_FAILED",
					Message: err.Error(),
				})
				continue
			}
			result.CreatedIDs = append(result.CreatedIDs, categorie.CategorieID)
		}

		result.Success = len(result.CreatedIDs)
		result.Failed = len(result.Errors)
		if result.Success == 0 && result.Total > 0 {
			return fmt.Errorf("all %d categories failed to create", result.Total)
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
