package controllers

import (
	"net/mail"
	"strings"

	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/resp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewsletterController acknowledges signups. Addresses are logged, not stored.
type NewsletterController struct{ Log *zap.Logger }

func NewNewsletterController(log *zap.Logger) *NewsletterController {
	return &NewsletterController{Log: log}
}

// POST /newsletter-signup/
func (h *NewsletterController) Signup(c *gin.Context) {
	email := strings.TrimSpace(formValue(c, "email"))
	if _, err := mail.ParseAddress(email); email == "" || err != nil {
		resp.Error(c, apperr.Validation("email", "Please enter a valid email address."))
		return
	}
	h.Log.Info("newsletter signup", zap.String("email", email))
	resp.OK(c, gin.H{"message": "Thank you for signing up for our newsletter!"})
}
