package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB, carts CartStore) *OrderService {
	return NewOrderService(db, repository.NewOrderRepository(db), repository.NewMenuItemRepository(db), carts, zap.NewNop())
}

func TestCheckout_CreatesOrderItemsAndPayment(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "alice", false)
	espresso := createMenuItem(t, db, "Espresso", "2.50", true)
	latte := createMenuItem(t, db, "Latte", "3.75", true)

	carts := newMemCartStore()
	cartSvc := NewCartService(carts, repository.NewMenuItemRepository(db))
	ctx := context.Background()
	_, err := cartSvc.Add(ctx, "s1", espresso.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.Add(ctx, "s1", latte.ID, 1)
	require.NoError(t, err)

	// a later price change must not affect the order
	require.NoError(t, db.Model(&entity.MenuItem{}).Where("id = ?", espresso.ID).
		Update("price", decimal.RequireFromString("9.00")).Error)

	svc := newOrderService(db, carts)
	order, err := svc.Checkout(ctx, "s1", customer, CheckoutInput{Notes: "no sugar"})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, "8.75", order.TotalAmount.StringFixed(2))
	require.NotNil(t, order.Payment)
	assert.Equal(t, entity.PaymentPending, order.Payment.Status)
	assert.True(t, order.Payment.Amount.Equal(order.TotalAmount))
	assert.NotContains(t, carts.carts, "s1")
	assert.Equal(t, 1, carts.deletes)

	loaded, err := svc.GetByNumber(ctx, customer, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.True(t, loaded.ItemsTotal().Equal(loaded.TotalAmount))
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, "2.50", loaded.Items[0].Price.StringFixed(2))
	assert.Equal(t, "5.00", loaded.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "no sugar", loaded.Notes)

	// repricing the catalog after checkout leaves the stored order alone
	require.NoError(t, db.Model(&entity.MenuItem{}).Where("id IN ?", []uint{espresso.ID, latte.ID}).
		Update("price", decimal.RequireFromString("42.00")).Error)

	reloaded, err := svc.GetByNumber(ctx, customer, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, "2.50", reloaded.Items[0].Price.StringFixed(2))
	assert.Equal(t, "5.00", reloaded.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "3.75", reloaded.Items[1].Price.StringFixed(2))
	assert.Equal(t, "3.75", reloaded.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "8.75", reloaded.TotalAmount.StringFixed(2))
	assert.True(t, reloaded.ItemsTotal().Equal(reloaded.TotalAmount))
	require.NotNil(t, reloaded.Payment)
	assert.True(t, reloaded.Payment.Amount.Equal(reloaded.TotalAmount))
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "alice", false)
	svc := newOrderService(db, newMemCartStore())

	_, err := svc.Checkout(context.Background(), "nothing", customer, CheckoutInput{})
	assert.True(t, apperr.Is(err, apperr.KindEmptyCart))

	var count int64
	db.Model(&entity.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCheckout_RollsBackAndKeepsCartWhenPaymentFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	carts := newMemCartStore()
	cart := entity.NewCart()
	cart.Add(entity.MenuItem{Model: gorm.Model{ID: 1}, Name: "Espresso", Price: decimal.RequireFromString("2.50")}, 2)
	require.NoError(t, carts.Save(context.Background(), "s1", cart))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	svc := newOrderService(gormDB, carts)
	_, err = svc.Checkout(context.Background(), "s1", Actor{ID: 1, Username: "alice"}, CheckoutInput{})
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, carts.deletes)
	kept, _ := carts.Get(context.Background(), "s1")
	require.NotNil(t, kept)
	assert.Equal(t, "5.00", kept.Total().StringFixed(2))
}

func TestCreateOrder_UsesLivePrices(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "bob", false)
	mocha := createMenuItem(t, db, "Mocha", "4.25", true)
	scone := createMenuItem(t, db, "Scone", "2.50", true)
	svc := newOrderService(db, newMemCartStore())

	order, err := svc.CreateOrder(context.Background(), customer, CreateOrderInput{
		Items: []OrderLineInput{{MenuItemID: mocha.ID, Quantity: 2}, {MenuItemID: scone.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "11.00", order.TotalAmount.StringFixed(2))
	assert.Nil(t, order.Payment)
	assert.Len(t, order.Items, 2)
}

func TestCreateOrder_UnavailableItemWritesNothing(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "bob", false)
	ok := createMenuItem(t, db, "Mocha", "4.25", true)
	gone := createMenuItem(t, db, "Cold Brew", "4.00", false)
	svc := newOrderService(db, newMemCartStore())

	_, err := svc.CreateOrder(context.Background(), customer, CreateOrderInput{
		Items: []OrderLineInput{{MenuItemID: ok.ID, Quantity: 1}, {MenuItemID: gone.ID, Quantity: 1}},
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var count int64
	db.Model(&entity.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrders_ScopedToOwner(t *testing.T) {
	db := setupDB(t)
	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	staff := createUser(t, db, "barista", true)
	item := createMenuItem(t, db, "Latte", "3.75", true)
	svc := newOrderService(db, newMemCartStore())
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, alice, CreateOrderInput{Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.GetByNumber(ctx, bob, order.OrderNumber)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.Get(ctx, bob, order.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, total, err := svc.List(ctx, bob, "", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = svc.List(ctx, staff, "", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = svc.GetByNumber(ctx, alice, "not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOrderTransitions(t *testing.T) {
	db := setupDB(t)
	alice := createUser(t, db, "alice", false)
	staff := createUser(t, db, "barista", true)
	item := createMenuItem(t, db, "Latte", "3.75", true)
	svc := newOrderService(db, newMemCartStore())
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, alice, CreateOrderInput{Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.StartProcessing(ctx, alice, order.ID)
	assert.True(t, apperr.Is(err, apperr.KindPermission))

	_, err = svc.Complete(ctx, staff, order.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "PENDING cannot jump to COMPLETED")

	o, err := svc.StartProcessing(ctx, staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderProcessing, o.Status)

	o, err = svc.Complete(ctx, staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCompleted, o.Status)

	_, err = svc.Cancel(ctx, staff, order.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Cancel(ctx, staff, 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
