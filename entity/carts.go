package entity

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one item in a cart or order.
const MaxLineQuantity = 99

// CartLine keeps the name and price seen when the item was added.
type CartLine struct {
	MenuItemID uint            `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart lives in the session store, not in SQL. Items is keyed by the menu item
// id as a decimal string.
type Cart struct {
	Items     map[string]CartLine `json:"items"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func NewCart() *Cart {
	return &Cart{Items: map[string]CartLine{}}
}

func cartKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// Add increments an existing line, keeping its snapshot, or inserts a new line
// priced at the item's current price.
func (c *Cart) Add(item MenuItem, quantity int) {
	if c.Items == nil {
		c.Items = map[string]CartLine{}
	}
	key := cartKey(item.ID)
	if line, ok := c.Items[key]; ok {
		line.Quantity += quantity
		c.Items[key] = line
		return
	}
	c.Items[key] = CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   quantity,
	}
}

// Update overwrites the quantity; zero or less removes the line. Missing lines
// are left alone.
func (c *Cart) Update(menuItemID uint, quantity int) {
	key := cartKey(menuItemID)
	line, ok := c.Items[key]
	if !ok {
		return
	}
	if quantity <= 0 {
		delete(c.Items, key)
		return
	}
	line.Quantity = quantity
	c.Items[key] = line
}

func (c *Cart) Remove(menuItemID uint) {
	delete(c.Items, cartKey(menuItemID))
}

// Quantity is the current quantity of a line, zero when absent.
func (c *Cart) Quantity(menuItemID uint) int {
	return c.Items[cartKey(menuItemID)].Quantity
}

func (c *Cart) Has(menuItemID uint) bool {
	_, ok := c.Items[cartKey(menuItemID)]
	return ok
}

func (c *Cart) Clear() {
	c.Items = map[string]CartLine{}
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// Total uses the snapshot prices only.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns the lines ordered by menu item id.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.Items))
	for _, l := range c.Items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MenuItemID < out[j].MenuItemID })
	return out
}
