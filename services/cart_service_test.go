package services

import (
	"context"
	"math"
	"testing"

	"cafe-backend/pkg/apperr"
	"cafe-backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddUpdateRemove(t *testing.T) {
	db := setupDB(t)
	espresso := createMenuItem(t, db, "Espresso", "2.50", true)
	latte := createMenuItem(t, db, "Latte", "3.75", true)
	svc := NewCartService(newMemCartStore(), repository.NewMenuItemRepository(db))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", espresso.ID, 2)
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "s1", latte.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "8.75", cart.Total().StringFixed(2))

	cart, err = svc.Update(ctx, "s1", espresso.ID, 0)
	require.NoError(t, err)
	assert.False(t, cart.Has(espresso.ID))

	cart, err = svc.Remove(ctx, "s1", 999)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_AddRejectsUnavailableAndMissing(t *testing.T) {
	db := setupDB(t)
	soldOut := createMenuItem(t, db, "Cold Brew", "4.00", false)
	svc := NewCartService(newMemCartStore(), repository.NewMenuItemRepository(db))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", soldOut.ID, 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Add(ctx, "s1", 12345, 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCartService_AddRejectsNonPositiveQuantity(t *testing.T) {
	db := setupDB(t)
	item := createMenuItem(t, db, "Espresso", "2.50", true)
	store := newMemCartStore()
	svc := NewCartService(store, repository.NewMenuItemRepository(db))

	_, err := svc.Add(context.Background(), "s1", item.ID, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, store.carts)
}

func TestCartService_QuantityIsCapped(t *testing.T) {
	db := setupDB(t)
	item := createMenuItem(t, db, "Espresso", "2.50", true)
	store := newMemCartStore()
	svc := NewCartService(store, repository.NewMenuItemRepository(db))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", item.ID, math.MaxInt)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	cart, err := svc.Add(ctx, "s1", item.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 99, cart.Quantity(item.ID))

	// adding onto a full line must not wrap or grow past the cap
	_, err = svc.Add(ctx, "s1", item.ID, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, 99, store.carts["s1"].Quantity(item.ID))
	assert.True(t, store.carts["s1"].Total().IsPositive())

	_, err = svc.Update(ctx, "s1", item.ID, 100)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, 99, store.carts["s1"].Quantity(item.ID))
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = ParseQuantity("two")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	n, err = ParseQuantity("99")
	require.NoError(t, err)
	assert.Equal(t, 99, n)

	for _, raw := range []string{"100", "9223372036854775807", "99999999999999999999"} {
		_, err = ParseQuantity(raw)
		assert.True(t, apperr.Is(err, apperr.KindValidation), raw)
	}
}

func TestCartService_GetOrCreatePersistsEmptyCart(t *testing.T) {
	store := newMemCartStore()
	svc := NewCartService(store, nil)

	cart, err := svc.GetOrCreate(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Contains(t, store.carts, "fresh")
}
