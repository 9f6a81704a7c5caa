package portfolio

import (
	"testing"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_Evaluate(t *testing.T) {
	cfg := Config{BaseCurrency: base}
	txs := []model.Transaction{buy(1, "X", 10, 100)}
	snapshot := model.Snapshot{
		Prices: map[string]model.MoneyValue{"X": price(150, base)},
		Rates:  map[string]float64{"USD_ARS": 1000},
	}

	memo := NewMemo()

	first, hit, err := memo.Evaluate(cfg, txs, snapshot)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), memo.Hits())
	assert.Equal(t, int64(1), memo.Misses())

	second, hit, err := memo.Evaluate(cfg, txs, snapshot)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), memo.Hits())

	t.Run("new transaction invalidates", func(t *testing.T) {
		more := append(txs[:1:1], buy(2, "X", 10, 200))
		report, _, err := memo.Evaluate(cfg, more, snapshot)
		require.NoError(t, err)
		assert.Equal(t, int64(2), memo.Misses())
		require.Len(t, report.Positions, 1)
		assert.Equal(t, 20.0, report.Positions[0].Quantity)
	})

	t.Run("new price invalidates", func(t *testing.T) {
		moved := model.Snapshot{
			Prices: map[string]model.MoneyValue{"X": price(160, base)},
			Rates:  snapshot.Rates,
		}
		report, _, err := memo.Evaluate(cfg, txs, moved)
		require.NoError(t, err)
		assert.Equal(t, int64(3), memo.Misses())
		assert.InDelta(t, 1600, report.Totals.TotalMarketValue, 1e-9)
	})

	t.Run("config change invalidates", func(t *testing.T) {
		_, _, err := memo.Evaluate(Config{BaseCurrency: base, OversellPolicy: Clamp}, txs, snapshot)
		require.NoError(t, err)
		assert.Equal(t, int64(4), memo.Misses())
	})
}

func TestMemo_BenchmarksDoNotInvalidate(t *testing.T) {
	cfg := Config{BaseCurrency: base}
	txs := []model.Transaction{buy(1, "X", 1, 1)}

	memo := NewMemo()
	_, _, err := memo.Evaluate(cfg, txs, model.Snapshot{})
	require.NoError(t, err)
	_, _, err = memo.Evaluate(cfg, txs, model.Snapshot{
		Benchmarks: []model.Benchmark{{Name: "Merval"}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), memo.Hits())
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	txs := []model.Transaction{
		buy(1, "X", 1, 100),
		sell(2, "X", 2, 100),
	}
	cfg := Config{BaseCurrency: base, OversellPolicy: Reject}

	memo := NewMemo()
	for range 2 {
		_, hit, err := memo.Evaluate(cfg, txs, model.Snapshot{})
		assert.ErrorIs(t, err, ErrOversell)
		assert.False(t, hit)
	}
	assert.Zero(t, memo.Hits())
	assert.Equal(t, int64(2), memo.Misses())
}

func TestFingerprint_MapOrderIndependent(t *testing.T) {
	cfg := Config{BaseCurrency: base}
	a := model.Snapshot{Rates: map[string]float64{"USD_ARS": 1000, "EUR_ARS": 1100, "BRL_ARS": 200}}
	b := model.Snapshot{Rates: map[string]float64{"BRL_ARS": 200, "EUR_ARS": 1100, "USD_ARS": 1000}}

	ka, err := Fingerprint(cfg, nil, a)
	require.NoError(t, err)
	kb, err := Fingerprint(cfg, nil, b)
	require.NoError(t, err)

	assert.Equal(t, ka, kb)
}
