package controllers

import (
	"cafe-backend/entity"
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"

	"github.com/gin-gonic/gin"
)

type SupportController struct{ Svc *services.SupportService }

func NewSupportController(s *services.SupportService) *SupportController {
	return &SupportController{Svc: s}
}

// ----- Pages -----

// GET /support/  staff see every ticket, customers their own
func (h *SupportController) Page(c *gin.Context) {
	p := paging.FromQuery(c)
	reqs, total, err := h.Svc.List(c.Request.Context(), actorFrom(c), "", p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, reqs, paging.NewMeta(p, total))
}

// POST /support/create/
func (h *SupportController) CreatePage(c *gin.Context) {
	in := services.SupportRequestInput{
		Subject:     formValue(c, "subject"),
		Description: formValue(c, "description"),
	}
	req, err := h.Svc.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, req)
}

// GET /support/:id/  request with its messages, oldest first
func (h *SupportController) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	thread, err := h.Svc.Thread(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, thread)
}

// POST /support/:id/  message
func (h *SupportController) Reply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.Svc.PostMessage(c.Request.Context(), actorFrom(c), id, formValue(c, "message"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, msg)
}

// POST /support/:id/update/  status and/or assign
func (h *SupportController) UpdatePage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := actorFrom(c)
	status := formValue(c, "status")
	_, assign := c.GetPostForm("assign")
	if isJSON(c) {
		assign = formValue(c, "assign") == "true"
	}

	var (
		req *entity.SupportRequest
		err error
	)
	if status != "" {
		if req, err = h.Svc.SetStatus(ctx, actor, id, entity.SupportStatus(status)); err != nil {
			resp.Error(c, err)
			return
		}
	}
	if assign && actor.IsStaff {
		if req, err = h.Svc.Assign(ctx, actor, id); err != nil {
			resp.Error(c, err)
			return
		}
	}
	if req == nil {
		if req, err = h.Svc.Get(ctx, actor, id); err != nil {
			resp.Error(c, err)
			return
		}
	}
	resp.OK(c, req)
}

// ----- API: support requests -----

// GET /api/support-requests?status=
func (h *SupportController) List(c *gin.Context) {
	p := paging.FromQuery(c)
	reqs, total, err := h.Svc.List(c.Request.Context(), actorFrom(c), entity.SupportStatus(c.Query("status")), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, reqs, paging.NewMeta(p, total))
}

// GET /api/support-requests/:id
func (h *SupportController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	req, err := h.Svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, req)
}

// POST /api/support-requests
func (h *SupportController) Create(c *gin.Context) {
	var in services.SupportRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	req, err := h.Svc.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, req)
}

// PATCH /api/support-requests/:id  subject/description, owner only
func (h *SupportController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.SupportRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	req, err := h.Svc.UpdateDetails(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, req)
}

// DELETE /api/support-requests/:id (staff)
func (h *SupportController) Delete(c *gin.Context) {
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

type supportAction func(svc *services.SupportService, c *gin.Context, id uint) (*entity.SupportRequest, error)

func (h *SupportController) action(fn supportAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		req, err := fn(h.Svc, c, id)
		if err != nil {
			resp.Error(c, err)
			return
		}
		resp.OK(c, req)
	}
}

// POST /api/support-requests/:id/assign
func (h *SupportController) Assign() gin.HandlerFunc {
	return h.action(func(svc *services.SupportService, c *gin.Context, id uint) (*entity.SupportRequest, error) {
		return svc.Assign(c.Request.Context(), actorFrom(c), id)
	})
}

// POST /api/support-requests/:id/resolve
func (h *SupportController) Resolve() gin.HandlerFunc {
	return h.action(func(svc *services.SupportService, c *gin.Context, id uint) (*entity.SupportRequest, error) {
		return svc.Resolve(c.Request.Context(), actorFrom(c), id)
	})
}

// POST /api/support-requests/:id/close
func (h *SupportController) Close() gin.HandlerFunc {
	return h.action(func(svc *services.SupportService, c *gin.Context, id uint) (*entity.SupportRequest, error) {
		return svc.Close(c.Request.Context(), actorFrom(c), id)
	})
}

// ----- API: support messages -----

// GET /api/support-messages?support_request=
func (h *SupportController) ListMessages(c *gin.Context) {
	p := paging.FromQuery(c)
	msgs, total, err := h.Svc.ListMessages(c.Request.Context(), actorFrom(c), queryID(c, "support_request"), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, msgs, paging.NewMeta(p, total))
}

// GET /api/support-messages/:id
func (h *SupportController) GetMessage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.Svc.GetMessage(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, msg)
}

// POST /api/support-messages
func (h *SupportController) CreateMessage(c *gin.Context) {
	var body struct {
		SupportRequestID uint   `json:"supportRequestId" binding:"required"`
		Message          string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	msg, err := h.Svc.PostMessage(c.Request.Context(), actorFrom(c), body.SupportRequestID, body.Message)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, msg)
}
