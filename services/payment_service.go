package services

import (
	"context"
	"errors"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/metrics"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB     *gorm.DB
	Repo   *repository.PaymentRepository
	Orders *repository.OrderRepository
	Log    *zap.Logger

	now func() time.Time
}

func NewPaymentService(db *gorm.DB, repo *repository.PaymentRepository, orders *repository.OrderRepository, log *zap.Logger) *PaymentService {
	return &PaymentService{DB: db, Repo: repo, Orders: orders, Log: log, now: time.Now}
}

type PaymentInput struct {
	OrderID       uint                 `json:"orderId" binding:"required"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        entity.PaymentMethod `json:"paymentMethod" binding:"required"`
	TransactionID string               `json:"transactionId"`
}

// Create records a payment for an order the actor can see. The amount must
// equal the order total exactly.
func (s *PaymentService) Create(ctx context.Context, actor Actor, in PaymentInput) (*entity.Payment, error) {
	if !in.Method.Valid() {
		return nil, apperr.Validation("paymentMethod", "Invalid payment method")
	}
	order, err := s.Orders.FindByID(ctx, in.OrderID, actor.Scope())
	if err != nil {
		return nil, err
	}
	if !in.Amount.Equal(order.TotalAmount) {
		return nil, apperr.Validation("amount", "Payment amount must match order total")
	}

	p := &entity.Payment{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Method:        in.Method,
		Status:        entity.PaymentPending,
		TransactionID: in.TransactionID,
		PaymentDate:   s.now(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.Repo.ExistsForOrder(tx, order.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Validation("orderId", "This order already has a payment")
		}
		if err := s.Repo.Create(tx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Validation("orderId", "This order already has a payment")
			}
			return err
		}
		return nil
	})
	metrics.RecordOperation("payment", err == nil)
	if err != nil {
		return nil, err
	}
	s.Log.Info("payment recorded",
		zap.Uint("order_id", order.ID),
		zap.String("method", string(p.Method)),
		zap.String("user", actor.Username),
	)
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, actor Actor, p paging.Params) ([]entity.Payment, int64, error) {
	return s.Repo.List(ctx, actor.Scope(), p)
}

func (s *PaymentService) Get(ctx context.Context, actor Actor, id uint) (*entity.Payment, error) {
	return s.Repo.FindByID(ctx, id, actor.Scope())
}

// UpdateStatus is a staff operation following the payment state machine.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor Actor, id uint, to entity.PaymentStatus) (*entity.Payment, error) {
	if err := requireStaff(actor, "only staff can change payment status"); err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, apperr.Validation("status", "Invalid payment status")
	}
	p, err := s.Repo.FindByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransitionTo(to) {
		return nil, apperr.Conflict("cannot move payment from " + string(p.Status) + " to " + string(to))
	}
	affected, err := s.Repo.UpdateStatusGuard(s.DB.WithContext(ctx), id, p.Status, to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.Conflict("payment status changed, reload and retry")
	}
	metrics.RecordOperation("payment_"+string(to), true)
	return s.Repo.FindByID(ctx, id, nil)
}
