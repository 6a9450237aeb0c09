package services

import (
	"context"
	"strconv"
	"strings"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/repository"
)

// CartStore persists session carts. Get returns nil when the session has no
// cart yet.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*entity.Cart, error)
	Save(ctx context.Context, sessionID string, cart *entity.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type CartService struct {
	Store CartStore
	Items *repository.MenuItemRepository
}

func NewCartService(store CartStore, items *repository.MenuItemRepository) *CartService {
	return &CartService{Store: store, Items: items}
}

// ParseQuantity validates a raw form or query value.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("quantity", "A valid integer is required")
	}
	if n > entity.MaxLineQuantity {
		return 0, quantityTooLarge()
	}
	return n, nil
}

func quantityTooLarge() error {
	return apperr.Validation("quantity", "Ensure this value is less than or equal to "+strconv.Itoa(entity.MaxLineQuantity))
}

// GetOrCreate returns the session cart, storing an empty one if needed.
func (s *CartService) GetOrCreate(ctx context.Context, sessionID string) (*entity.Cart, error) {
	cart, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = entity.NewCart()
	if err := s.Store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Add puts an available menu item into the cart.
func (s *CartService) Add(ctx context.Context, sessionID string, menuItemID uint, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity", "Quantity must be a positive integer")
	}
	if quantity > entity.MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	item, err := s.Items.FindAvailable(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	cart, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// both operands are capped, so the sum cannot overflow
	if cart.Quantity(item.ID)+quantity > entity.MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	cart.Add(*item, quantity)
	if err := s.Store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Update overwrites a line's quantity. Zero or less removes it.
func (s *CartService) Update(ctx context.Context, sessionID string, menuItemID uint, quantity int) (*entity.Cart, error) {
	if quantity > entity.MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	cart, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Update(menuItemID, quantity)
	if err := s.Store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(ctx context.Context, sessionID string, menuItemID uint) (*entity.Cart, error) {
	cart, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Remove(menuItemID)
	if err := s.Store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// CartView is the cart page payload.
type CartView struct {
	Items []entity.CartLine `json:"items"`
	Count int               `json:"count"`
	Total string            `json:"total"`
}

func NewCartView(cart *entity.Cart) CartView {
	return CartView{Items: cart.Lines(), Count: cart.Count(), Total: cart.Total().StringFixed(2)}
}
