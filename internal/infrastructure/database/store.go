package database

import (
	"context"

	"clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

// NewTransactor wraps the connection pool in a repository.Transactor.
func NewTransactor(db *gorm.DB) repository.Transactor {
	return &store{db: db}
}

func (s *store) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// WithinTransaction delegates to gorm's Transaction, which commits when fn
// returns nil and rolls back on error or panic.
func (s *store) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
