package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"rpsarena/internal/app/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txCtxKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// dbFor returns the transaction bound to ctx, or base scoped to ctx.
func dbFor(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx runs fn in one serializable transaction so the check-then-put in
// StartGame cannot interleave with another caller's. The loser of such a race
// gets ports.ErrConflict; nothing is retried.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL SERIALIZABLE").Error; err != nil {
			return ports.WrapStorage("set isolation", err)
		}
		return fn(withTx(ctx, tx))
	})
	return conflictErr(err)
}

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// conflictErr reports a postgres serialization failure or deadlock as
// ports.ErrConflict. Other errors are returned unchanged.
func conflictErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return fmt.Errorf("%w: %s", ports.ErrConflict, pgErr.Message)
	}
	return err
}
