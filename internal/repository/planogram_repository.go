package repository

import (
	"errors"

	"merchandising-service/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrPlanogramNotFound = errors.New("planogram not found")

type PlanogramRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewPlanogramRepository(db *gorm.DB, redis *redis.Client) *PlanogramRepository {
	return &PlanogramRepository{
		db:    db,
		redis: redis,
	}
}

// CreateFull persists a composite planogram (planogram, fixtures, product
// positions, optional task) in a single transaction. All or nothing.
func (r *PlanogramRepository) CreateFull(planogram *models.Planogram, furniture []*models.Furniture, positions []*models.ProductPosition, tache *models.Tache) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(planogram).Error; err != nil {
			return err
		}
		for _, f := range furniture {
			f.PlanogramRef = planogram.ID
			if err := tx.Create(f).Error; err != nil {
				return err
			}
		}
		for _, pos := range positions {
			if err := tx.Create(pos).Error; err != nil {
				return err
			}
		}
		if tache != nil {
			tache.PlanogramRef = planogram.ID
			if err := tx.Create(tache).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByPlanogramID loads a planogram with its fixtures by natural key.
func (r *PlanogramRepository) GetByPlanogramID(planogramID string) (*models.Planogram, error) {
	var planogram models.Planogram
	err := r.db.Preload("Furniture").Where("planogram_id = ?", planogramID).First(&planogram).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanogramNotFound
		}
		return nil, err
	}
	return &planogram, nil
}

// GetAllFurnitureTypes returns the fixture-kind catalog.
func (r *PlanogramRepository) GetAllFurnitureTypes() ([]models.FurnitureType, error) {
	var types []models.FurnitureType
	if err := r.db.Order("furniture_type_id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
