package controllers

import (
	"cafe-backend/entity"
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: s}
}

// GET /api/payments
func (h *PaymentController) List(c *gin.Context) {
	p := paging.FromQuery(c)
	payments, total, err := h.Svc.List(c.Request.Context(), actorFrom(c), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, payments, paging.NewMeta(p, total))
}

// GET /api/payments/:id
func (h *PaymentController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.Svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, payment)
}

// POST /api/payments  amount must equal the order total
func (h *PaymentController) Create(c *gin.Context) {
	var in services.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	payment, err := h.Svc.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, payment)
}

// PATCH /api/payments/:id/status (staff)
func (h *PaymentController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status entity.PaymentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	payment, err := h.Svc.UpdateStatus(c.Request.Context(), actorFrom(c), id, body.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, payment)
}
