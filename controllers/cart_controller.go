package controllers

import (
	"cafe-backend/pkg/resp"
	"cafe-backend/services"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /cart/
func (h *CartController) View(c *gin.Context) {
	cart, err := h.Svc.GetOrCreate(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, services.NewCartView(cart))
}

// POST /cart/add/:id/  quantity defaults to 1
func (h *CartController) Add(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	qty, err := services.ParseQuantity(formValue(c, "quantity"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	cart, err := h.Svc.Add(c.Request.Context(), utils.SessionID(c), id, qty)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, services.NewCartView(cart))
}

// POST /cart/update/:id/  quantity <= 0 removes the line
func (h *CartController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	qty, err := services.ParseQuantity(formValue(c, "quantity"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	cart, err := h.Svc.Update(c.Request.Context(), utils.SessionID(c), id, qty)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, services.NewCartView(cart))
}

// POST /cart/remove/:id/
func (h *CartController) Remove(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cart, err := h.Svc.Remove(c.Request.Context(), utils.SessionID(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, services.NewCartView(cart))
}
