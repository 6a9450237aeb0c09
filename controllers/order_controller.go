package controllers

import (
	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Svc   *services.OrderService
	Carts *services.CartService
}

func NewOrderController(s *services.OrderService, carts *services.CartService) *OrderController {
	return &OrderController{Svc: s, Carts: carts}
}

// ----- Pages -----

// GET /checkout/  shows what would be ordered
func (h *OrderController) CheckoutSummary(c *gin.Context) {
	cart, err := h.Carts.GetOrCreate(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	if cart.IsEmpty() {
		resp.Error(c, apperr.EmptyCart())
		return
	}
	resp.OK(c, services.NewCartView(cart))
}

// POST /checkout/  notes, payment_method
func (h *OrderController) Checkout(c *gin.Context) {
	in := services.CheckoutInput{
		Notes:         formValue(c, "notes"),
		PaymentMethod: entity.PaymentMethod(formValue(c, "payment_method")),
	}
	order, err := h.Svc.Checkout(c.Request.Context(), utils.SessionID(c), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders/  the caller's own history, newest first
func (h *OrderController) MyOrders(c *gin.Context) {
	p := paging.FromQuery(c)
	orders, total, err := h.Svc.List(c.Request.Context(), self(c), "", p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, orders, paging.NewMeta(p, total))
}

// GET /orders/:order_number/
func (h *OrderController) MyOrder(c *gin.Context) {
	order, err := h.Svc.GetByNumber(c.Request.Context(), self(c), c.Param("order_number"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// ----- API -----

// GET /api/orders?status=
func (h *OrderController) List(c *gin.Context) {
	p := paging.FromQuery(c)
	orders, total, err := h.Svc.List(c.Request.Context(), actorFrom(c), entity.OrderStatus(c.Query("status")), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, orders, paging.NewMeta(p, total))
}

// GET /api/orders/:id
func (h *OrderController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// POST /api/orders
func (h *OrderController) Create(c *gin.Context) {
	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := h.Svc.CreateOrder(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// PATCH /api/orders/:id  only notes are editable
func (h *OrderController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := h.Svc.UpdateNotes(c.Request.Context(), actorFrom(c), id, body.Notes)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// PATCH /api/orders/:id/status (staff)
func (h *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status entity.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := h.Svc.Transition(c.Request.Context(), actorFrom(c), id, body.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// DELETE /api/orders/:id (staff)
func (h *OrderController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.NoContent(c)
}

// GET /api/order-items?order=
func (h *OrderController) ListItems(c *gin.Context) {
	p := paging.FromQuery(c)
	items, total, err := h.Svc.ListItems(c.Request.Context(), actorFrom(c), queryID(c, "order"), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, items, paging.NewMeta(p, total))
}

// GET /api/order-items/:id
func (h *OrderController) GetItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Svc.GetItem(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}
