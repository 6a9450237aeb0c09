package entity_test

import (
	"encoding/json"
	"testing"

	"cafe-backend/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func menuItem(id uint, name, price string) entity.MenuItem {
	return entity.MenuItem{
		Model:       gorm.Model{ID: id},
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
}

func TestCart_AddTwiceIncrementsAndKeepsSnapshot(t *testing.T) {
	cart := entity.NewCart()
	latte := menuItem(3, "Latte", "3.75")

	cart.Add(latte, 1)
	latte.Price = decimal.RequireFromString("9.99")
	latte.Name = "Renamed"
	cart.Add(latte, 2)

	require.Len(t, cart.Items, 1)
	line := cart.Items["3"]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "Latte", line.Name)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("3.75")))
}

func TestCart_TotalUsesSnapshots(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(menuItem(1, "Espresso", "2.50"), 2)
	cart.Add(menuItem(2, "Latte", "3.75"), 1)

	assert.Equal(t, "8.75", cart.Total().StringFixed(2))
	assert.Equal(t, 3, cart.Count())
}

func TestCart_UpdateNonPositiveRemoves(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(menuItem(1, "Espresso", "2.50"), 2)

	cart.Update(1, 5)
	assert.Equal(t, 5, cart.Items["1"].Quantity)

	cart.Update(1, 0)
	assert.False(t, cart.Has(1))

	cart.Add(menuItem(1, "Espresso", "2.50"), 1)
	cart.Update(1, -3)
	assert.True(t, cart.IsEmpty())
}

func TestCart_UpdateMissingIsNoop(t *testing.T) {
	cart := entity.NewCart()
	cart.Update(42, 3)
	assert.True(t, cart.IsEmpty())
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(menuItem(1, "Espresso", "2.50"), 1)
	cart.Remove(99)
	assert.Len(t, cart.Items, 1)
	cart.Remove(1)
	assert.True(t, cart.IsEmpty())
}

func TestCart_LinesOrderedByID(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(menuItem(10, "Scone", "2.50"), 1)
	cart.Add(menuItem(2, "Latte", "3.75"), 1)
	cart.Add(menuItem(7, "Mocha", "4.25"), 1)

	lines := cart.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []uint{2, 7, 10}, []uint{lines[0].MenuItemID, lines[1].MenuItemID, lines[2].MenuItemID})
}

func TestCart_JSONKeepsStringKeysAndExactPrices(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(menuItem(4, "Mocha", "4.25"), 2)

	raw, err := json.Marshal(cart)
	require.NoError(t, err)

	var back entity.Cart
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "8.50", back.Total().StringFixed(2))
	assert.Contains(t, back.Items, "4")
}
