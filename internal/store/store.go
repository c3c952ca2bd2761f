package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Beginner starts transactions. *pgxpool.Conn and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxStore implements pgetl.Store on a single connection.
// It is NOT safe for concurrent use.
type TxStore struct {
	db Beginner
}

// New creates a TxStore.
// Panics if db is nil.
func New(db Beginner) *TxStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &TxStore{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// The rollback runs even when ctx is already cancelled.
func (s *TxStore) WithinTransaction(ctx context.Context, fn func(pgetl.RowWriter) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", pgetl.ErrLoadFailed, err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(newWriter(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w: %w", pgetl.ErrLoadFailed, err)
	}
	return nil
}

var _ pgetl.Store = (*TxStore)(nil)
