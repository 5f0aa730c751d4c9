package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out request-scoped store sessions. Repositories receive
// the *gorm.DB it returns, so the same repository code runs inside or
// outside a transaction.
type Transactor interface {
	// DB returns a session bound to ctx.
	DB(ctx context.Context) *gorm.DB
	// WithinTransaction runs fn in a transaction that is committed when fn
	// returns nil and rolled back on error or panic.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
