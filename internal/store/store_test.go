package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotification(t *testing.T) {
	tests := []struct {
		name     string
		n        *pq.Notification
		expected model.BookKey
		ok       bool
	}{
		{name: "reconnect", n: nil, expected: model.BookKey{}, ok: true},
		{name: "book", n: &pq.Notification{Extra: "alice/personal"}, expected: model.BookKey{UserID: "alice", Book: "personal"}, ok: true},
		{name: "book with slash", n: &pq.Notification{Extra: "alice/empresa/2024"}, expected: model.BookKey{UserID: "alice", Book: "empresa/2024"}, ok: true},
		{name: "garbage", n: &pq.Notification{Extra: "alice"}, ok: false},
		{name: "empty book", n: &pq.Notification{Extra: "alice/"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := parseNotification(tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, key)
		})
	}
}

// TestStore_Postgres runs against a real database when POSTGRES_HOST is set.
func TestStore_Postgres(t *testing.T) {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST is not set")
	}

	cfg := postgres.Config{}.WithEnv()
	require.NoError(t, cfg.ValidateAndSetup())
	db, err := postgres.NewDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, postgres.Migrate(db))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listener, err := NewListener(cfg.String(), postgres.ChangesChannel, logger.NewNopLogger())
	require.NoError(t, err)
	go listener.Run(ctx)

	s := NewStore(db, logger.NewNopLogger())
	key := model.BookKey{UserID: "test-" + uuid.NewString(), Book: "personal"}

	for i, tx := range []model.Transaction{
		{Type: model.Sell, Ticker: "X", Quantity: 5, Price: 120, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Type: model.Buy, Ticker: "X", Quantity: 10, Price: 100, Fee: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	} {
		tx.ID = uuid.NewString()
		tx.UserID, tx.Book = key.UserID, key.Book
		tx.Currency = "ARS"
		tx.AssetType = model.Share
		inserted, err := s.Insert(ctx, tx)
		require.NoError(t, err, "insert %d", i)
		assert.False(t, inserted.CreatedAt.IsZero())
	}

	txs, err := s.List(ctx, key)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.Buy, txs[0].Type)
	assert.Equal(t, 1.0, txs[0].Fee)

	books, err := s.Books(ctx, key.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"personal"}, books)

	select {
	case changed := <-listener.Changes():
		assert.Equal(t, key, changed)
	case <-ctx.Done():
		t.Fatal("no change notification")
	}
}
