package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

// Memory keeps transaction logs in process. It backs offline evaluation, where
// there is no database and no change feed.
type Memory struct {
	mu    sync.RWMutex
	books map[model.BookKey][]model.Transaction
}

func NewMemory() *Memory {
	return &Memory{books: make(map[model.BookKey][]model.Transaction)}
}

func (m *Memory) Insert(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.CreatedAt = time.Now().UTC()
	m.books[tx.Key()] = append(m.books[tx.Key()], tx)
	return tx, nil
}

func (m *Memory) List(_ context.Context, key model.BookKey) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := slices.Clone(m.books[key])
	if txs == nil {
		txs = make([]model.Transaction, 0)
	}
	return txs, nil
}

func (m *Memory) Books(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make([]string, 0)
	for key := range m.books {
		if key.UserID == userID {
			books = append(books, key.Book)
		}
	}
	sort.Strings(books)
	return books, nil
}
