package repository

import (
	"context"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

// UserRepository talks to the users and customer_profiles tables.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// CountByUsernameOrEmail is used to reject duplicate registrations.
func (r *UserRepository) CountByUsernameOrEmail(ctx context.Context, username, email string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&entity.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count, err
}

// Create inserts the user and an empty profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile := user.Profile
		if profile == nil {
			profile = &entity.CustomerProfile{}
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, userID uint, updates map[string]any) error {
	return r.DB.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) List(ctx context.Context, userID *uint, p paging.Params) ([]entity.CustomerProfile, int64, error) {
	var total int64
	q := r.DB.WithContext(ctx).Model(&entity.CustomerProfile{}).Scopes(ownedBy("user_id", userID))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.CustomerProfile
	err := q.Order("id ASC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uint, userID *uint) (*entity.CustomerProfile, error) {
	var profile entity.CustomerProfile
	if err := r.DB.WithContext(ctx).Scopes(ownedBy("user_id", userID)).First(&profile, id).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint) (*entity.CustomerProfile, error) {
	var profile entity.CustomerProfile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *entity.CustomerProfile, updates map[string]any) error {
	return r.DB.WithContext(ctx).Model(profile).Updates(updates).Error
}
