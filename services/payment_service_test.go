package services

import (
	"context"
	"testing"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func paymentFixture(t *testing.T) (*gorm.DB, *PaymentService, Actor, Actor, *entity.Order) {
	t.Helper()
	db := setupDB(t)
	alice := createUser(t, db, "alice", false)
	staff := createUser(t, db, "barista", true)
	espresso := createMenuItem(t, db, "Espresso", "2.50", true)
	latte := createMenuItem(t, db, "Latte", "3.75", true)

	orders := newOrderService(db, newMemCartStore())
	order, err := orders.CreateOrder(context.Background(), alice, CreateOrderInput{
		Items: []OrderLineInput{{MenuItemID: espresso.ID, Quantity: 2}, {MenuItemID: latte.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	svc := NewPaymentService(db, repository.NewPaymentRepository(db), repository.NewOrderRepository(db), zap.NewNop())
	return db, svc, alice, staff, order
}

func TestPayment_AmountMustMatchTotal(t *testing.T) {
	db, svc, alice, _, order := paymentFixture(t)

	_, err := svc.Create(context.Background(), alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.74"), Method: entity.PaymentCash,
	})
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "Payment amount must match order total", e.Message)

	var count int64
	db.Model(&entity.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestPayment_CreateAndRejectSecond(t *testing.T) {
	_, svc, alice, _, order := paymentFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.750"), Method: entity.PaymentCreditCard, TransactionID: "tx-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, p.Status)
	assert.Equal(t, "8.75", p.Amount.StringFixed(2))

	_, err = svc.Create(ctx, alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.75"), Method: entity.PaymentCash,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPayment_OtherCustomersOrderIsNotFound(t *testing.T) {
	db, svc, _, _, order := paymentFixture(t)
	bob := createUser(t, db, "bob", false)

	_, err := svc.Create(context.Background(), bob, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.75"), Method: entity.PaymentCash,
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPayment_InvalidMethod(t *testing.T) {
	_, svc, alice, _, order := paymentFixture(t)
	_, err := svc.Create(context.Background(), alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.75"), Method: "BITCOIN",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPayment_StatusTransitions(t *testing.T) {
	_, svc, alice, staff, order := paymentFixture(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.75"), Method: entity.PaymentCash,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, alice, p.ID, entity.PaymentCaptured)
	assert.True(t, apperr.Is(err, apperr.KindPermission))

	_, err = svc.UpdateStatus(ctx, staff, p.ID, entity.PaymentRefunded)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := svc.UpdateStatus(ctx, staff, p.ID, entity.PaymentCaptured)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCaptured, got.Status)

	got, err = svc.UpdateStatus(ctx, staff, p.ID, entity.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRefunded, got.Status)
}

func TestPayment_ListScoped(t *testing.T) {
	db, svc, alice, staff, order := paymentFixture(t)
	bob := createUser(t, db, "bob", false)
	ctx := context.Background()
	_, err := svc.Create(ctx, alice, PaymentInput{
		OrderID: order.ID, Amount: decimal.RequireFromString("8.75"), Method: entity.PaymentCash,
	})
	require.NoError(t, err)

	params := pageOne()
	_, n, err := svc.List(ctx, alice, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, n, err = svc.List(ctx, bob, params)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, n, err = svc.List(ctx, staff, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
