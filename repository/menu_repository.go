package repository

import (
	"context"
	"strings"

	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]entity.Category, error) {
	var cats []entity.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) List(ctx context.Context, p paging.Params) ([]entity.Category, int64, error) {
	var total int64
	q := r.DB.WithContext(ctx).Model(&entity.Category{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cats []entity.Category
	err := q.Order("name ASC").Scopes(paginate(p)).Find(&cats).Error
	return cats, total, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var cat entity.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *entity.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *entity.Category) error {
	return r.DB.WithContext(ctx).Save(cat).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&entity.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

// MenuFilter narrows menu listings. Zero values mean "no filter".
type MenuFilter struct {
	CategoryID    uint
	Search        string
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	AvailableOnly bool
	Ordering      string
}

var menuOrderings = map[string]string{
	"name":        "name ASC",
	"-name":       "name DESC",
	"price":       "price ASC",
	"-price":      "price DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

type MenuItemRepository struct {
	DB *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{DB: db}
}

func (f MenuFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	return q
}

func (r *MenuItemRepository) List(ctx context.Context, f MenuFilter, p paging.Params) ([]entity.MenuItem, int64, error) {
	var total int64
	base := f.apply(r.DB.WithContext(ctx).Model(&entity.MenuItem{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := menuOrderings[f.Ordering]
	if !ok {
		order = "category_id ASC, name ASC"
	}
	var items []entity.MenuItem
	err := f.apply(r.DB.WithContext(ctx)).
		Preload("Category").
		Order(order).
		Scopes(paginate(p)).
		Find(&items).Error
	return items, total, err
}

func (r *MenuItemRepository) FindByID(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, notFound(err, "menu item")
	}
	return &item, nil
}

// FindAvailable only returns items that can currently be ordered.
func (r *MenuItemRepository) FindAvailable(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.WithContext(ctx).Preload("Category").Where("is_available = ?", true).First(&item, id).Error; err != nil {
		return nil, notFound(err, "menu item")
	}
	return &item, nil
}

func (r *MenuItemRepository) Featured(ctx context.Context, n int) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&items).Error
	return items, err
}

// Related returns other available items from the same category.
func (r *MenuItemRepository) Related(ctx context.Context, item *entity.MenuItem, n int) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_available = ?", item.CategoryID, item.ID, true).
		Order("name ASC").
		Limit(n).
		Find(&items).Error
	return items, err
}

func (r *MenuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *MenuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Omit("Category").Save(item).Error
}

func (r *MenuItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&entity.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "menu item")
	}
	return nil
}
