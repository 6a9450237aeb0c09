package services

import (
	"context"
	"errors"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ----- Staff actions -----

// Transition moves an order along PENDING -> PROCESSING -> COMPLETED, or to
// CANCELLED from either open state.
func (s *OrderService) Transition(ctx context.Context, actor Actor, orderID uint, to entity.OrderStatus) (*entity.Order, error) {
	if err := requireStaff(actor, "only staff can change order status"); err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, apperr.Validation("status", "Invalid order status")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o entity.Order
		if err := tx.Select("id", "status").First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Wrap(apperr.NotFound("order"), err)
			}
			return err
		}
		if !o.Status.CanTransitionTo(to) {
			return apperr.Conflict("cannot move order from " + string(o.Status) + " to " + string(to))
		}
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("order status changed, reload and retry")
		}
		return nil
	})
	metrics.RecordOperation("order_"+string(to), err == nil)
	if err != nil {
		return nil, err
	}
	s.Log.Info("order status changed", zap.Uint("order_id", orderID), zap.String("to", string(to)), zap.String("by", actor.Username))
	return s.Repo.FindByID(ctx, orderID, nil)
}

func (s *OrderService) StartProcessing(ctx context.Context, actor Actor, orderID uint) (*entity.Order, error) {
	return s.Transition(ctx, actor, orderID, entity.OrderProcessing)
}

func (s *OrderService) Complete(ctx context.Context, actor Actor, orderID uint) (*entity.Order, error) {
	return s.Transition(ctx, actor, orderID, entity.OrderCompleted)
}

func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uint) (*entity.Order, error) {
	return s.Transition(ctx, actor, orderID, entity.OrderCancelled)
}
