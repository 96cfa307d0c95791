package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

// GormAdminRepository implements AdminRepository using GORM.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GORM-based admin repository.
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByEmail retrieves an admin account by email.
func (r *GormAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUserModel, error) {
	var model domain.AdminUserModel
	result := r.db.WithContext(ctx).First(&model, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &model, nil
}

// Count returns the number of admin accounts.
func (r *GormAdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.AdminUserModel{}).Count(&count)
	return count, result.Error
}

// Create inserts a new admin account.
func (r *GormAdminRepository) Create(ctx context.Context, admin *domain.AdminUserModel) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
