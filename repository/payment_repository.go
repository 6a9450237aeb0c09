package repository

import (
	"context"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// scoped joins orders so a customer only sees payments of their own orders.
func (r *PaymentRepository) scoped(ctx context.Context, customerID *uint) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&entity.Payment{})
	if customerID != nil {
		q = q.Joins("JOIN orders ON orders.id = payments.order_id AND orders.deleted_at IS NULL").
			Where("orders.customer_id = ?", *customerID)
	}
	return q
}

func (r *PaymentRepository) List(ctx context.Context, customerID *uint, p paging.Params) ([]entity.Payment, int64, error) {
	q := r.scoped(ctx, customerID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.Payment
	err := q.Select("payments.*").Order("payments.id DESC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint, customerID *uint) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.scoped(ctx, customerID).Select("payments.*").Where("payments.id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return &p, nil
}

func (r *PaymentRepository) ExistsForOrder(tx *gorm.DB, orderID uint) (bool, error) {
	var count int64
	err := tx.Model(&entity.Payment{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) Create(tx *gorm.DB, p *entity.Payment) error {
	return tx.Omit("Order").Create(p).Error
}

// UpdateStatusGuard is a compare-and-set on the payment status.
func (r *PaymentRepository) UpdateStatusGuard(tx *gorm.DB, paymentID uint, from, to entity.PaymentStatus) (int64, error) {
	res := tx.Model(&entity.Payment{}).
		Where("id = ? AND status = ?", paymentID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
