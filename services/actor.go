package services

import "cafe-backend/pkg/apperr"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID       uint
	Username string
	IsStaff  bool
}

// Scope returns the customer filter for list/detail queries: staff see
// everything, everyone else only their own rows.
func (a Actor) Scope() *uint {
	if a.IsStaff {
		return nil
	}
	id := a.ID
	return &id
}

func requireStaff(a Actor, msg string) error {
	if !a.IsStaff {
		return apperr.Permission(msg)
	}
	return nil
}
