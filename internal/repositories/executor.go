package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// TxGetter returns the transaction bound to ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

// base is embedded by every repository. Statements run on the transaction
// from txGetter when there is one, on the pool otherwise.
type base struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func (b base) executor(ctx context.Context) sqlx.ExtContext {
	if b.txGetter != nil {
		if tx := b.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return b.db
}

func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
