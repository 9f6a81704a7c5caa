package store

import (
	"context"
	"testing"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	personal := model.BookKey{UserID: "alice", Book: "personal"}
	empresa := model.BookKey{UserID: "alice", Book: "empresa"}

	for _, tx := range []model.Transaction{
		{ID: "1", UserID: "alice", Book: "personal", Ticker: "MELI"},
		{ID: "2", UserID: "alice", Book: "empresa", Ticker: "BMA"},
		{ID: "3", UserID: "alice", Book: "personal", Ticker: "AAPL"},
		{ID: "4", UserID: "bob", Book: "personal", Ticker: "GOOGL"},
	} {
		stored, err := m.Insert(ctx, tx)
		require.NoError(t, err)
		assert.False(t, stored.CreatedAt.IsZero())
	}

	txs, err := m.List(ctx, personal)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "1", txs[0].ID)
	assert.Equal(t, "3", txs[1].ID)

	txs[0].Ticker = "changed"
	again, err := m.List(ctx, personal)
	require.NoError(t, err)
	assert.Equal(t, "MELI", again[0].Ticker, "List returns a copy")

	txs, err = m.List(ctx, empresa)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	txs, err = m.List(ctx, model.BookKey{UserID: "carol", Book: "personal"})
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)

	books, err := m.Books(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"empresa", "personal"}, books)
}
