package controllers

import (
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct{ Svc *services.ReviewService }

func NewReviewController(s *services.ReviewService) *ReviewController {
	return &ReviewController{Svc: s}
}

// GET /api/reviews?menu_item=
func (h *ReviewController) List(c *gin.Context) {
	p := paging.FromQuery(c)
	reviews, total, err := h.Svc.List(c.Request.Context(), queryID(c, "menu_item"), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, reviews, paging.NewMeta(p, total))
}

// GET /api/reviews/:id
func (h *ReviewController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rv, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rv)
}

// POST /api/reviews
func (h *ReviewController) Create(c *gin.Context) {
	var in services.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rv, err := h.Svc.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, rv)
}

// PUT|PATCH /api/reviews/:id
func (h *ReviewController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rv, err := h.Svc.Update(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rv)
}

// DELETE /api/reviews/:id
func (h *ReviewController) Delete(c *gin.Context) {
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
