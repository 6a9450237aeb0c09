package services

import (
	"context"
	"strings"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"github.com/shopspring/decimal"
)

const (
	featuredCount = 6
	relatedCount  = 4
)

// CatalogService serves categories and menu items.
type CatalogService struct {
	Categories *repository.CategoryRepository
	Items      *repository.MenuItemRepository
}

func NewCatalogService(cats *repository.CategoryRepository, items *repository.MenuItemRepository) *CatalogService {
	return &CatalogService{Categories: cats, Items: items}
}

type HomePage struct {
	Categories    []entity.Category `json:"categories"`
	FeaturedItems []entity.MenuItem `json:"featuredItems"`
}

func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	cats, err := s.Categories.All(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := s.Items.Featured(ctx, featuredCount)
	if err != nil {
		return nil, err
	}
	return &HomePage{Categories: cats, FeaturedItems: featured}, nil
}

type MenuPage struct {
	Categories     []entity.Category `json:"categories"`
	ActiveCategory *entity.Category  `json:"activeCategory"`
	MenuItems      []entity.MenuItem `json:"menuItems"`
}

// MenuPage lists available items matching f. An unknown category in the
// filter is ignored rather than reported.
func (s *CatalogService) MenuPage(ctx context.Context, f repository.MenuFilter) (*MenuPage, error) {
	page := &MenuPage{}
	if f.CategoryID != 0 {
		cat, err := s.Categories.FindByID(ctx, f.CategoryID)
		switch {
		case err == nil:
			page.ActiveCategory = cat
		case apperr.Is(err, apperr.KindNotFound):
			f.CategoryID = 0
		default:
			return nil, err
		}
	}
	return s.fillMenuPage(ctx, page, f)
}

// CategoryPage is the menu page for one category; the category must exist.
func (s *CatalogService) CategoryPage(ctx context.Context, id uint, f repository.MenuFilter) (*MenuPage, error) {
	cat, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.CategoryID = id
	return s.fillMenuPage(ctx, &MenuPage{ActiveCategory: cat}, f)
}

func (s *CatalogService) fillMenuPage(ctx context.Context, page *MenuPage, f repository.MenuFilter) (*MenuPage, error) {
	cats, err := s.Categories.All(ctx)
	if err != nil {
		return nil, err
	}
	f.AvailableOnly = true
	f.Ordering = ""
	items, _, err := s.Items.List(ctx, f, paging.Params{Page: 1, Limit: paging.MaxLimit})
	if err != nil {
		return nil, err
	}
	page.Categories = cats
	page.MenuItems = items
	return page, nil
}

type MenuItemPage struct {
	MenuItem     *entity.MenuItem  `json:"menuItem"`
	RelatedItems []entity.MenuItem `json:"relatedItems"`
}

// MenuItemPage only shows items that are currently available.
func (s *CatalogService) MenuItemPage(ctx context.Context, id uint) (*MenuItemPage, error) {
	item, err := s.Items.FindAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.Items.Related(ctx, item, relatedCount)
	if err != nil {
		return nil, err
	}
	return &MenuItemPage{MenuItem: item, RelatedItems: related}, nil
}

// ----- Categories -----

func (s *CatalogService) ListCategories(ctx context.Context, p paging.Params) ([]entity.Category, int64, error) {
	return s.Categories.List(ctx, p)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*entity.Category, error) {
	return s.Categories.FindByID(ctx, id)
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name", "This field is required")
	}
	if len(in.Name) > 100 {
		return apperr.Validation("name", "Ensure this field has no more than 100 characters")
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*entity.Category, error) {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	cat := &entity.Category{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.Categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, actor Actor, id uint, in CategoryInput) (*entity.Category, error) {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	cat, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = strings.TrimSpace(in.Name)
	cat.Description = in.Description
	if err := s.Categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor Actor, id uint) error {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return err
	}
	return s.Categories.Delete(ctx, id)
}

// ----- Menu items -----

func (s *CatalogService) ListMenuItems(ctx context.Context, f repository.MenuFilter, p paging.Params) ([]entity.MenuItem, int64, error) {
	return s.Items.List(ctx, f, p)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*entity.MenuItem, error) {
	return s.Items.FindByID(ctx, id)
}

type MenuItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CategoryID  uint            `json:"categoryId"`
	IsAvailable *bool           `json:"isAvailable"`
}

func (in MenuItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name", "This field is required")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("price", "Ensure this value is greater than or equal to 0")
	}
	if in.Price.Exponent() < -2 {
		return apperr.Validation("price", "Ensure that there are no more than 2 decimal places")
	}
	if in.Price.GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return apperr.Validation("price", "Ensure that there are no more than 6 digits in total")
	}
	if in.CategoryID == 0 {
		return apperr.Validation("categoryId", "This field is required")
	}
	return nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, actor Actor, in MenuItemInput) (*entity.MenuItem, error) {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	item := &entity.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.Items.FindByID(ctx, item.ID)
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, actor Actor, id uint, in MenuItemInput) (*entity.MenuItem, error) {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.Items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != item.CategoryID {
		if _, err := s.Categories.FindByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = in.Price
	item.Image = in.Image
	item.CategoryID = in.CategoryID
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.Items.FindByID(ctx, id)
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, actor Actor, id uint) error {
	if err := requireStaff(actor, "only staff can manage the menu"); err != nil {
		return err
	}
	return s.Items.Delete(ctx, id)
}
