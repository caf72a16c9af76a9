package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles to usecases. Repositories receive the
// handle explicitly so the same call works inside and outside a transaction.
type Transactor interface {
	// DB returns a handle bound to ctx.
	DB(ctx context.Context) *gorm.DB
	// WithTransaction runs fn in a transaction, committing when fn returns nil.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
