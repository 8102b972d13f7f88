package uow

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/logger"
)

type txKey struct{}

// WithTx stores a transaction in ctx.
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction in ctx, or nil. Its signature
// matches the txGetter repositories accept.
func TxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// Transactor runs work inside a transaction and applies the tracked index
// changes only after a successful commit.
type Transactor struct {
	db    *sqlx.DB
	index Indexer
}

// NewTransactor creates a Transactor. index may be nil, in which case
// tracked changes are dropped.
func NewTransactor(db *sqlx.DB, index Indexer) *Transactor {
	return &Transactor{db: db, index: index}
}

// WithinTx begins a transaction, runs fn with a context carrying the
// transaction and a fresh UnitOfWork, and commits when fn returns nil.
// A failed fn or commit rolls back and leaves the index untouched. Index
// failures after commit are logged and not returned: the store of record
// already holds the data. A panic in fn rolls back and is re-raised.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}

	u := New()
	txCtx := WithUnitOfWork(WithTx(ctx, tx), u)

	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			panic(rec)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	changes := u.Snapshot()

	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return err
	}

	t.apply(ctx, changes)
	return nil
}

func (t *Transactor) apply(ctx context.Context, changes Changes) {
	if changes.Empty() {
		return
	}
	if t.index == nil {
		logger.Log.Warnw("index not configured, dropping changes",
			"added", len(changes.Added), "updated", len(changes.Updated), "deleted", len(changes.Deleted))
		return
	}
	if err := changes.Apply(ctx, t.index); err != nil {
		logger.Log.Warnw("failed to apply index changes", "error", err)
	}
}
