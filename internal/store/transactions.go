package store

import (
	"context"
	"fmt"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	_queryTransactions = `SELECT id, user_id, book, broker, date, type, ticker, asset_type,
							quantity, price, currency, fee, created_at
						FROM transactions
						WHERE user_id = $1 AND book = $2
						ORDER BY date, created_at, id`
	_queryBooks = "SELECT DISTINCT book FROM transactions WHERE user_id = $1 ORDER BY book"

	_insertTransaction = `INSERT INTO transactions (
								id,
								user_id,
								book,
								broker,
								date,
								type,
								ticker,
								asset_type,
								quantity,
								price,
								currency,
								fee
							) VALUES (
								:id, :user_id, :book, :broker, :date, :type, :ticker,
								:asset_type, :quantity, :price, :currency, :fee
							)
							RETURNING created_at`
)

// Store persists the append-only transaction log in postgres.
type Store struct {
	db     *sqlx.DB
	logger logger.Logger
}

func NewStore(db *sqlx.DB, logger logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func (s *Store) Insert(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	rows, err := s.db.NamedQueryContext(ctx, _insertTransaction, tx)
	if err != nil {
		return tx, fmt.Errorf("%w: can't insert transaction", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&tx.CreatedAt); err != nil {
			return tx, fmt.Errorf("%w: can't scan created_at", err)
		}
	}
	if err := rows.Err(); err != nil {
		return tx, fmt.Errorf("%w: can't insert transaction", err)
	}

	s.logger.Debugf("inserted transaction %s into %s", tx.ID, tx.Key())
	return tx, nil
}

func (s *Store) List(ctx context.Context, key model.BookKey) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0)
	if err := s.db.SelectContext(ctx, &txs, _queryTransactions, key.UserID, key.Book); err != nil {
		return nil, fmt.Errorf("%w: can't query transactions of %s", err, key)
	}
	return txs, nil
}

func (s *Store) Books(ctx context.Context, userID string) ([]string, error) {
	books := make([]string, 0)
	if err := s.db.SelectContext(ctx, &books, _queryBooks, userID); err != nil {
		return nil, fmt.Errorf("%w: can't query books of %s", err, userID)
	}
	return books, nil
}
