package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"paper_bot/internal/models"
	"paper_bot/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS trade_journal (
	id            BIGSERIAL PRIMARY KEY,
	symbol        TEXT NOT NULL,
	side          TEXT NOT NULL,
	quantity      DOUBLE PRECISION NOT NULL,
	fill_price    DOUBLE PRECISION NOT NULL,
	quote_balance DOUBLE PRECISION NOT NULL,
	reason        TEXT NOT NULL DEFAULT '',
	skipped       BOOLEAN NOT NULL DEFAULT FALSE,
	executed_at   TIMESTAMPTZ NOT NULL
)`

// Journal — append-only журнал сделок. Движок от него не зависит:
// при пустом DSN сервиса нет вовсе, методы безопасны на nil.
type Journal struct {
	txm *db.PgTxManager
}

func New(ctx context.Context, txm *db.PgTxManager) (*Journal, error) {
	j := &Journal{txm: txm}
	if err := txm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "journal schema")
	}
	return j, nil
}

func (j *Journal) Record(ctx context.Context, rec models.TradeRecord) error {
	if j == nil {
		return nil
	}
	return j.txm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO trade_journal
			 (symbol, side, quantity, fill_price, quote_balance, reason, skipped, executed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.Symbol, string(rec.Side), rec.Quantity, rec.FillPrice,
			rec.QuoteBalance, rec.Reason, rec.Skipped, rec.At,
		)
		return errors.Wrap(err, "insert trade_journal")
	})
}
