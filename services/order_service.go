package services

import (
	"context"
	"strings"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/metrics"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	Items    *repository.MenuItemRepository
	Carts    CartStore
	Log      *zap.Logger
	Notifier OrderNotifier

	now func() time.Time
}

// OrderNotifier is told about orders after they are committed.
type OrderNotifier interface {
	OrderPlaced(o *entity.Order)
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	items *repository.MenuItemRepository,
	carts CartStore,
	log *zap.Logger,
) *OrderService {
	return &OrderService{DB: db, Repo: repo, Items: items, Carts: carts, Log: log, now: time.Now}
}

// ----- DTOs from Controller -----

type CheckoutInput struct {
	Notes         string               `json:"notes"`
	PaymentMethod entity.PaymentMethod `json:"paymentMethod"`
}

type OrderLineInput struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1,max=99"`
}

type CreateOrderInput struct {
	Items []OrderLineInput `json:"orderItems" binding:"required,min=1,dive"`
	Notes string           `json:"notes"`
}

type orderLine struct {
	menuItemID uint
	quantity   int
	price      decimal.Decimal
}

// ----- Checkout -----

// Checkout turns the session cart into an order with its items and a pending
// payment, all in one transaction. The cart is cleared only after commit.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, actor Actor, in CheckoutInput) (*entity.Order, error) {
	cart, err := s.Carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, apperr.EmptyCart()
	}

	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentOnline
	}
	if !method.Valid() {
		return nil, apperr.Validation("paymentMethod", "Invalid payment method")
	}

	// snapshot prices from the cart, never the live catalog
	lines := make([]orderLine, 0, len(cart.Items))
	for _, l := range cart.Lines() {
		if l.Quantity > entity.MaxLineQuantity {
			return nil, quantityTooLarge()
		}
		lines = append(lines, orderLine{menuItemID: l.MenuItemID, quantity: l.Quantity, price: l.Price})
	}
	total := cart.Total()

	var order *entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.writeOrder(tx, actor.ID, lines, total, in.Notes)
		if err != nil {
			return err
		}
		p := entity.Payment{
			OrderID:       o.ID,
			Amount:        total,
			Method:        method,
			Status:        entity.PaymentPending,
			TransactionID: "TXN-" + o.OrderNumber,
			PaymentDate:   s.now(),
		}
		if err := s.Repo.CreatePayment(tx, &p); err != nil {
			return err
		}
		o.Payment = &p
		order = o
		return nil
	})
	metrics.RecordOperation("checkout", err == nil)
	if err != nil {
		s.Log.Error("checkout failed", zap.Uint("customer_id", actor.ID), zap.Error(err))
		return nil, err
	}

	if err := s.Carts.Delete(ctx, sessionID); err != nil {
		// the order exists; a stale cart is only an annoyance
		s.Log.Warn("clear cart after checkout", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	s.Log.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("customer_id", actor.ID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	if s.Notifier != nil {
		s.Notifier.OrderPlaced(order)
	}
	return order, nil
}

// writeOrder inserts the order and its items inside tx.
func (s *OrderService) writeOrder(tx *gorm.DB, customerID uint, lines []orderLine, total decimal.Decimal, notes string) (*entity.Order, error) {
	order := entity.Order{
		OrderNumber: uuid.NewString(),
		OrderDate:   s.now(),
		Status:      entity.OrderPending,
		TotalAmount: total,
		Notes:       strings.TrimSpace(notes),
		CustomerID:  customerID,
	}
	if err := s.Repo.CreateOrder(tx, &order); err != nil {
		return nil, err
	}
	for _, l := range lines {
		oi := entity.OrderItem{
			OrderID:    order.ID,
			MenuItemID: l.menuItemID,
			Quantity:   l.quantity,
			Price:      l.price,
		}
		if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
			return nil, err
		}
		oi.Subtotal = oi.LineTotal()
		order.Items = append(order.Items, oi)
	}
	return &order, nil
}

// ----- Create (REST) -----

// CreateOrder prices lines at the current catalog price. No payment is created.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("orderItems", "At least one item is required")
	}

	lines := make([]orderLine, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Validation("quantity", "Ensure this value is greater than or equal to 1")
		}
		if it.Quantity > entity.MaxLineQuantity {
			return nil, quantityTooLarge()
		}
		item, err := s.Items.FindAvailable(ctx, it.MenuItemID)
		if err != nil {
			return nil, err
		}
		l := orderLine{menuItemID: item.ID, quantity: it.Quantity, price: item.Price}
		total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
		lines = append(lines, l)
	}

	var order *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.writeOrder(tx, actor.ID, lines, total, in.Notes)
		order = o
		return err
	})
	metrics.RecordOperation("create_order", err == nil)
	if err != nil {
		return nil, err
	}
	s.Log.Info("order created via api", zap.String("order_number", order.OrderNumber), zap.String("user", actor.Username))
	if s.Notifier != nil {
		s.Notifier.OrderPlaced(order)
	}
	return order, nil
}

// ----- List & Detail -----

func (s *OrderService) List(ctx context.Context, actor Actor, status entity.OrderStatus, p paging.Params) ([]entity.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status", "Invalid order status")
	}
	return s.Repo.List(ctx, repository.OrderFilter{CustomerID: actor.Scope(), Status: status}, p)
}

func (s *OrderService) Get(ctx context.Context, actor Actor, id uint) (*entity.Order, error) {
	return s.Repo.FindByID(ctx, id, actor.Scope())
}

// GetByNumber is the customer-facing lookup. Other customers' orders are
// reported as not found.
func (s *OrderService) GetByNumber(ctx context.Context, actor Actor, number string) (*entity.Order, error) {
	if _, err := uuid.Parse(number); err != nil {
		return nil, apperr.NotFound("order")
	}
	return s.Repo.FindByNumber(ctx, number, actor.Scope())
}

// UpdateNotes is the only field a customer may change after checkout.
func (s *OrderService) UpdateNotes(ctx context.Context, actor Actor, id uint, notes string) (*entity.Order, error) {
	o, err := s.Repo.FindByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(o).Update("notes", strings.TrimSpace(notes)).Error; err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id, actor.Scope())
}

func (s *OrderService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := requireStaff(actor, "only staff can delete orders"); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *OrderService) ListItems(ctx context.Context, actor Actor, orderID uint, p paging.Params) ([]entity.OrderItem, int64, error) {
	return s.Repo.ListItems(ctx, actor.Scope(), orderID, p)
}

func (s *OrderService) GetItem(ctx context.Context, actor Actor, id uint) (*entity.OrderItem, error) {
	return s.Repo.FindItem(ctx, id, actor.Scope())
}
