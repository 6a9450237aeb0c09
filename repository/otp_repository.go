package repository

import (
	"context"

	"cafe-backend/entity"

	"gorm.io/gorm"
)

type OTPDeviceRepository struct {
	DB *gorm.DB
}

func NewOTPDeviceRepository(db *gorm.DB) *OTPDeviceRepository {
	return &OTPDeviceRepository{DB: db}
}

func (r *OTPDeviceRepository) HasConfirmed(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&entity.OTPDevice{}).
		Where("user_id = ? AND confirmed = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *OTPDeviceRepository) ListConfirmed(ctx context.Context, userID uint) ([]entity.OTPDevice, error) {
	var out []entity.OTPDevice
	err := r.DB.WithContext(ctx).Where("user_id = ? AND confirmed = ?", userID, true).Find(&out).Error
	return out, err
}

// FindPending returns the latest unconfirmed device of a user.
func (r *OTPDeviceRepository) FindPending(ctx context.Context, userID uint) (*entity.OTPDevice, error) {
	var d entity.OTPDevice
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND confirmed = ?", userID, false).
		Order("id DESC").
		First(&d).Error
	if err != nil {
		return nil, notFound(err, "pending device")
	}
	return &d, nil
}

// ReplacePending drops earlier unconfirmed devices and stores the new one.
func (r *OTPDeviceRepository) ReplacePending(ctx context.Context, d *entity.OTPDevice) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ? AND confirmed = ?", d.UserID, false).
			Delete(&entity.OTPDevice{}).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(d).Error
	})
}

func (r *OTPDeviceRepository) Confirm(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&entity.OTPDevice{}).Where("id = ?", id).Update("confirmed", true).Error
}
