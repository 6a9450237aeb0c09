package configs

import (
	"errors"
	"fmt"

	"cafe-backend/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first staff account from ADMIN_* env vars.
func SeedAdmin(database *gorm.DB, log *zap.Logger) error {
	username := getEnv("ADMIN_USERNAME", "admin")
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := database.Model(&entity.User{}).Where("email = ? OR username = ?", email, username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := entity.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		IsStaff:   true,
		Profile:   &entity.CustomerProfile{},
	}
	return database.Create(&admin).Error
}

type seedItem struct {
	name, description, price string
}

var seedMenu = []struct {
	category    string
	description string
	items       []seedItem
}{
	{"Coffee", "Freshly brewed coffee drinks", []seedItem{
		{"Espresso", "Strong, concentrated coffee served in a small cup", "2.50"},
		{"Cappuccino", "Espresso with steamed milk and a deep layer of foam", "3.50"},
		{"Latte", "Espresso with a lot of steamed milk and a light layer of foam", "3.75"},
		{"Mocha", "Espresso with chocolate and steamed milk", "4.25"},
		{"Cold Brew", "Coffee steeped in cold water for 12 hours", "4.00"},
	}},
	{"Tea", "Hot and iced teas", []seedItem{
		{"Earl Grey", "Black tea flavored with oil of bergamot", "3.00"},
		{"Green Tea", "Light and refreshing Japanese green tea", "3.00"},
		{"Chamomile", "Soothing herbal tea with chamomile flowers", "3.25"},
		{"Chai Latte", "Spiced black tea with steamed milk", "4.00"},
	}},
	{"Pastries", "Freshly baked every morning", []seedItem{
		{"Croissant", "Buttery, flaky French pastry", "2.75"},
		{"Pain au Chocolat", "Croissant dough filled with dark chocolate", "3.25"},
		{"Cinnamon Roll", "Sweet roll with cinnamon and icing", "3.50"},
		{"Scone", "Classic British scone served with jam and clotted cream", "2.50"},
	}},
	{"Sandwiches", "Made to order", []seedItem{
		{"Avocado Toast", "Smashed avocado on sourdough with chili flakes", "7.50"},
		{"Chicken Panini", "Grilled chicken, mozzarella and pesto on ciabatta", "8.25"},
		{"Vegetarian Wrap", "Hummus, roasted vegetables and feta in a tortilla", "7.75"},
		{"Club Sandwich", "Triple-decker with turkey, bacon, lettuce and tomato", "9.00"},
	}},
	{"Desserts", "Sweet treats", []seedItem{
		{"Chocolate Cake", "Rich chocolate cake with ganache", "5.50"},
		{"Cheesecake", "New York style cheesecake with berry compote", "5.75"},
		{"Tiramisu", "Coffee-soaked ladyfingers layered with mascarpone", "6.00"},
		{"Apple Pie", "Homemade apple pie with a flaky crust", "5.25"},
	}},
}

// SeedMenu loads the sample café menu. Existing categories and items are left
// untouched, so it is safe to run on every start.
func SeedMenu(database *gorm.DB, log *zap.Logger) error {
	return database.Transaction(func(tx *gorm.DB) error {
		created := 0
		for _, group := range seedMenu {
			cat := entity.Category{Name: group.category}
			if err := tx.Where(entity.Category{Name: group.category}).
				Attrs(entity.Category{Description: group.description}).
				FirstOrCreate(&cat).Error; err != nil {
				return err
			}
			for _, it := range group.items {
				var existing entity.MenuItem
				err := tx.Where("name = ? AND category_id = ?", it.name, cat.ID).First(&existing).Error
				if err == nil {
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				item := entity.MenuItem{
					Name:        it.name,
					Description: it.description,
					Price:       decimal.RequireFromString(it.price),
					IsAvailable: true,
					CategoryID:  cat.ID,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				created++
			}
		}
		log.Info("menu seeded", zap.Int("created", created))
		return nil
	})
}
