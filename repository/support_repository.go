package repository

import (
	"context"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

type SupportRepository struct {
	DB *gorm.DB
}

func NewSupportRepository(db *gorm.DB) *SupportRepository {
	return &SupportRepository{DB: db}
}

// ---------------- Requests ----------------

func (r *SupportRepository) Create(ctx context.Context, req *entity.SupportRequest) error {
	return r.DB.WithContext(ctx).Omit("Customer", "AssignedTo", "Messages").Create(req).Error
}

type SupportFilter struct {
	CustomerID *uint
	Status     entity.SupportStatus
}

func (r *SupportRepository) List(ctx context.Context, f SupportFilter, p paging.Params) ([]entity.SupportRequest, int64, error) {
	q := r.DB.WithContext(ctx).Model(&entity.SupportRequest{}).Scopes(ownedBy("customer_id", f.CustomerID))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.SupportRequest
	err := q.Preload("Customer").Preload("AssignedTo").
		Order("created_at DESC, id DESC").
		Scopes(paginate(p)).
		Find(&out).Error
	return out, total, err
}

// FindByID is unscoped; permission checks happen in the service.
func (r *SupportRepository) FindByID(ctx context.Context, id uint) (*entity.SupportRequest, error) {
	var req entity.SupportRequest
	if err := r.DB.WithContext(ctx).Preload("Customer").Preload("AssignedTo").First(&req, id).Error; err != nil {
		return nil, notFound(err, "support request")
	}
	return &req, nil
}

// UpdateGuard applies updates only while the request is in one of the given
// statuses and reports how many rows changed.
func (r *SupportRepository) UpdateGuard(tx *gorm.DB, id uint, from []entity.SupportStatus, updates map[string]any) (int64, error) {
	res := tx.Model(&entity.SupportRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *SupportRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	return r.DB.WithContext(ctx).Model(&entity.SupportRequest{}).Where("id = ?", id).Updates(updates).Error
}

func (r *SupportRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("support_request_id = ?", id).Delete(&entity.SupportMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.SupportRequest{}, id).Error
	})
}

// ---------------- Messages ----------------

func (r *SupportRepository) CreateMessage(tx *gorm.DB, msg *entity.SupportMessage) error {
	return tx.Omit("SupportRequest", "Sender").Create(msg).Error
}

// Messages returns a thread oldest first.
func (r *SupportRepository) Messages(ctx context.Context, requestID uint) ([]entity.SupportMessage, error) {
	var msgs []entity.SupportMessage
	err := r.DB.WithContext(ctx).
		Preload("Sender").
		Where("support_request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListMessages backs the REST listing. Customers see messages of their own
// requests only.
func (r *SupportRepository) ListMessages(ctx context.Context, customerID *uint, requestID uint, p paging.Params) ([]entity.SupportMessage, int64, error) {
	q := r.messagesQuery(ctx, customerID)
	if requestID != 0 {
		q = q.Where("support_request_id = ?", requestID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.SupportMessage
	err := q.Preload("Sender").Order("created_at ASC, id ASC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (r *SupportRepository) FindMessage(ctx context.Context, id uint, customerID *uint) (*entity.SupportMessage, error) {
	var msg entity.SupportMessage
	if err := r.messagesQuery(ctx, customerID).Preload("Sender").First(&msg, id).Error; err != nil {
		return nil, notFound(err, "support message")
	}
	return &msg, nil
}

func (r *SupportRepository) messagesQuery(ctx context.Context, customerID *uint) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&entity.SupportMessage{})
	if customerID != nil {
		q = q.Where("support_request_id IN (?)",
			r.DB.Model(&entity.SupportRequest{}).Select("id").Where("customer_id = ?", *customerID))
	}
	return q
}
