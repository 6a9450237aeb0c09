package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs_ThroughWrapping(t *testing.T) {
	base := Validation("amount", "Payment amount must match order total")
	wrapped := fmt.Errorf("create payment: %w", base)

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Code)
	assert.Equal(t, "amount", e.Field)
	assert.True(t, Is(wrapped, KindValidation))
	assert.False(t, Is(wrapped, KindNotFound))
}

func TestWrap_KeepsCauseAndOriginal(t *testing.T) {
	cause := errors.New("record not found")
	nf := NotFound("order")
	w := Wrap(nf, cause)

	assert.ErrorIs(t, w, cause)
	assert.Nil(t, nf.Err)
	assert.Equal(t, "order not found: record not found", w.Error())
}

func TestEmptyCart(t *testing.T) {
	e := EmptyCart()
	assert.Equal(t, KindEmptyCart, e.Kind)
	assert.Equal(t, "Your cart is empty", e.Message)
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}
