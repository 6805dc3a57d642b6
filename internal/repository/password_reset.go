package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sumeetprajapati1996/food-order-backend/internal/models"
)

// PasswordResets provides access to forgot-password records.
type PasswordResets struct {
	DB *gorm.DB
}

// NewPasswordResets constructs a PasswordResets repository.
func NewPasswordResets(db *gorm.DB) *PasswordResets {
	return &PasswordResets{DB: db}
}

// Create inserts a new reset record.
func (r *PasswordResets) Create(ctx context.Context, reset *models.PasswordReset) error {
	return r.DB.WithContext(ctx).Create(reset).Error
}

// FindByToken loads a reset record by its opaque token.
func (r *PasswordResets) FindByToken(ctx context.Context, token string) (models.PasswordReset, error) {
	var reset models.PasswordReset

	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PasswordReset{}, ErrNotFound
		}
		return models.PasswordReset{}, err
	}

	return reset, nil
}

// Save writes the full reset record back.
func (r *PasswordResets) Save(ctx context.Context, reset *models.PasswordReset) error {
	return r.DB.WithContext(ctx).Save(reset).Error
}

// ExpireActiveByPhone invalidates every unused reset for the phone so only
// the newest token can complete the flow.
func (r *PasswordResets) ExpireActiveByPhone(ctx context.Context, phone string) error {
	return r.DB.WithContext(ctx).Model(&models.PasswordReset{}).
		Where("phone = ? AND used_at IS NULL", phone).
		Update("expires_at", time.Now()).Error
}
