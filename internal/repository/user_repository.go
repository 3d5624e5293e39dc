package repository

import (
	"github.com/BlazingTwister/finalflow/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSupervisees lists the students supervised by a lecturer
func (r *GormUserRepository) ListSupervisees(lecturerID uint64) ([]models.User, error) {
	var students []models.User
	err := r.db.
		Where("supervisor_id = ? AND role = ?", lecturerID, models.RoleStudent).
		Order("username ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
