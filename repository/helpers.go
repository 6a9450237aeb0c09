package repository

import (
	"errors"

	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"

	"gorm.io/gorm"
)

// notFound turns gorm's missing-row error into a domain not-found error.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound(what), err)
	}
	return err
}

// ownedBy restricts a query to one customer. A nil id means no restriction.
func ownedBy(column string, customerID *uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if customerID == nil {
			return q
		}
		return q.Where(column+" = ?", *customerID)
	}
}

func paginate(p paging.Params) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Offset(p.Offset()).Limit(p.Limit)
	}
}
