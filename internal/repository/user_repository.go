package repository

import (
	"errors"

	"merchandising-service/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername loads an account by login name.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID loads an account by primary key.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByMagasin lists the accounts assigned to one store.
func (r *UserRepository) GetByMagasin(magasinID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("magasin_id = ?", magasinID).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
