package repository

import (
	"context"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Writes (always inside the caller's tx) ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Omit("Items", "Payment", "Customer").Create(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Omit("Order", "MenuItem").Create(oi).Error
}

func (r *OrderRepository) CreatePayment(tx *gorm.DB, p *entity.Payment) error {
	return tx.Omit("Order").Create(p).Error
}

// UpdateStatusGuard moves an order from one status to another only if it is
// still in the expected status. Zero rows affected means the order moved on.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// ---------------- Reads ----------------

type OrderFilter struct {
	CustomerID *uint
	Status     entity.OrderStatus
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter, p paging.Params) ([]entity.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&entity.Order{}).Scopes(ownedBy("customer_id", f.CustomerID))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []entity.Order
	err := q.Order("order_date DESC, id DESC").Scopes(paginate(p)).Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepository) detail(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem").
		Preload("Payment")
}

// FindByID loads an order with items and payment. A non-nil customerID hides
// other customers' orders.
func (r *OrderRepository) FindByID(ctx context.Context, id uint, customerID *uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.detail(ctx).Scopes(ownedBy("customer_id", customerID)).First(&o, id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number string, customerID *uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.detail(ctx).Scopes(ownedBy("customer_id", customerID)).
		Where("order_number = ?", number).First(&o).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&entity.Payment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "order")
		}
		return nil
	})
}

// ---------------- Order items (read-only) ----------------

func (r *OrderRepository) itemsQuery(ctx context.Context, customerID *uint) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&entity.OrderItem{})
	if customerID != nil {
		q = q.Where("order_id IN (?)",
			r.DB.Model(&entity.Order{}).Select("id").Where("customer_id = ?", *customerID))
	}
	return q
}

func (r *OrderRepository) ListItems(ctx context.Context, customerID *uint, orderID uint, p paging.Params) ([]entity.OrderItem, int64, error) {
	q := r.itemsQuery(ctx, customerID)
	if orderID != 0 {
		q = q.Where("order_id = ?", orderID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []entity.OrderItem
	err := q.Preload("MenuItem").Order("id ASC").Scopes(paginate(p)).Find(&items).Error
	return items, total, err
}

func (r *OrderRepository) FindItem(ctx context.Context, id uint, customerID *uint) (*entity.OrderItem, error) {
	var item entity.OrderItem
	if err := r.itemsQuery(ctx, customerID).Preload("MenuItem").First(&item, id).Error; err != nil {
		return nil, notFound(err, "order item")
	}
	return &item, nil
}
