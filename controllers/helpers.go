package controllers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"cafe-backend/pkg/resp"
	"cafe-backend/services"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		ID:       utils.CurrentUserID(c),
		Username: utils.CurrentUsername(c),
		IsStaff:  utils.IsStaff(c),
	}
}

// self is the actor restricted to its own records, used by customer pages
// where staff see the same view as everybody else.
func self(c *gin.Context) services.Actor {
	a := actorFrom(c)
	a.IsStaff = false
	return a
}

// idParam parses a positive numeric path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query filter; garbage counts as absent.
func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEJSON)
}

// formValue reads a single field from either a form post or a JSON body, as
// browser pages submit forms while API clients send JSON. JSON numbers come
// back exactly as written, never reformatted through float64.
func formValue(c *gin.Context, key string) string {
	if !isJSON(c) {
		return c.PostForm(key)
	}
	var body map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		return ""
	}
	raw := bytes.TrimSpace(body[key])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
