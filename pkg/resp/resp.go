package resp

import (
	"net/http"

	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
func Page(c *gin.Context, items any, meta paging.Meta) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": items, "meta": meta})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// Error renders domain errors with their own status; anything else is a 500.
func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		body := gin.H{"ok": false, "error": e.Message, "kind": e.Kind}
		if e.Field != "" {
			body["field"] = e.Field
		}
		c.JSON(e.Code, body)
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
}
