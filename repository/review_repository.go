package repository

import (
	"context"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

type ReviewFilter struct {
	CustomerID *uint
	MenuItemID uint
}

func (r *ReviewRepository) List(ctx context.Context, f ReviewFilter, p paging.Params) ([]entity.Review, int64, error) {
	q := r.DB.WithContext(ctx).Model(&entity.Review{}).Scopes(ownedBy("customer_id", f.CustomerID))
	if f.MenuItemID != 0 {
		q = q.Where("menu_item_id = ?", f.MenuItemID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.Review
	err := q.Order("created_at DESC, id DESC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint, customerID *uint) (*entity.Review, error) {
	var rv entity.Review
	if err := r.DB.WithContext(ctx).Scopes(ownedBy("customer_id", customerID)).First(&rv, id).Error; err != nil {
		return nil, notFound(err, "review")
	}
	return &rv, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, customerID, menuItemID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&entity.Review{}).
		Where("customer_id = ? AND menu_item_id = ?", customerID, menuItemID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	return r.DB.WithContext(ctx).Omit("Customer", "MenuItem").Create(rv).Error
}

func (r *ReviewRepository) Update(ctx context.Context, rv *entity.Review, updates map[string]any) error {
	return r.DB.WithContext(ctx).Model(rv).Updates(updates).Error
}

// Delete hard-deletes so the (customer, item) pair can be reviewed again.
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Unscoped().Delete(&entity.Review{}, id).Error
}
