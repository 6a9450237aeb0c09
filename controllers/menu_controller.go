package controllers

import (
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/repository"
	"cafe-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MenuController struct {
	Svc *services.CatalogService
}

func NewMenuController(s *services.CatalogService) *MenuController {
	return &MenuController{Svc: s}
}

func menuFilter(c *gin.Context) repository.MenuFilter {
	f := repository.MenuFilter{
		CategoryID: queryID(c, "category"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}
	if v, err := decimal.NewFromString(c.Query("price_min")); err == nil {
		f.PriceMin = &v
	}
	if v, err := decimal.NewFromString(c.Query("price_max")); err == nil {
		f.PriceMax = &v
	}
	return f
}

// ----- Pages -----

// GET /
func (ctl *MenuController) Home(c *gin.Context) {
	page, err := ctl.Svc.Home(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, page)
}

// GET /menu/?category=&search=&price_min=&price_max=
func (ctl *MenuController) Menu(c *gin.Context) {
	page, err := ctl.Svc.MenuPage(c.Request.Context(), menuFilter(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, page)
}

// GET /menu/category/:id/
func (ctl *MenuController) Category(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, err := ctl.Svc.CategoryPage(c.Request.Context(), id, menuFilter(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, page)
}

// GET /menu/item/:id/
func (ctl *MenuController) ItemDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, err := ctl.Svc.MenuItemPage(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, page)
}

// ----- API: categories -----

// GET /api/categories
func (ctl *MenuController) ListCategories(c *gin.Context) {
	p := paging.FromQuery(c)
	cats, total, err := ctl.Svc.ListCategories(c.Request.Context(), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, cats, paging.NewMeta(p, total))
}

// GET /api/categories/:id
func (ctl *MenuController) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := ctl.Svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cat)
}

// POST /api/categories (staff)
func (ctl *MenuController) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := ctl.Svc.CreateCategory(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, cat)
}

// PUT|PATCH /api/categories/:id (staff)
func (ctl *MenuController) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := ctl.Svc.UpdateCategory(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cat)
}

// DELETE /api/categories/:id (staff)
func (ctl *MenuController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.Svc.DeleteCategory(c.Request.Context(), actorFrom(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.NoContent(c)
}

// ----- API: menu items -----

// GET /api/menu-items?category=&search=&price_min=&price_max=&ordering=
func (ctl *MenuController) ListItems(c *gin.Context) {
	p := paging.FromQuery(c)
	f := menuFilter(c)
	f.AvailableOnly = c.Query("available") == "true"
	items, total, err := ctl.Svc.ListMenuItems(c.Request.Context(), f, p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, items, paging.NewMeta(p, total))
}

// GET /api/menu-items/:id
func (ctl *MenuController) GetItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := ctl.Svc.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}

// POST /api/menu-items (staff)
func (ctl *MenuController) CreateItem(c *gin.Context) {
	var in services.MenuItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := ctl.Svc.CreateMenuItem(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, item)
}

// PUT|PATCH /api/menu-items/:id (staff)
func (ctl *MenuController) UpdateItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.MenuItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := ctl.Svc.UpdateMenuItem(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /api/menu-items/:id (staff)
func (ctl *MenuController) DeleteItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.Svc.DeleteMenuItem(c.Request.Context(), actorFrom(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.NoContent(c)
}
