package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Transactor runs fn inside one transaction. Returning an error from fn rolls
// everything back; on Postgres each transaction gets a lock timeout so a
// blocked row lock fails instead of waiting forever.
type Transactor struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewTransactor(db *gorm.DB, lockTimeout time.Duration) *Transactor {
	return &Transactor{db: db, lockTimeout: lockTimeout}
}

// DB returns the non-transactional handle for read-only queries.
func (t *Transactor) DB(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

func (t *Transactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			// SET LOCAL does not accept bind parameters.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(tx)
	})
}
