package portfolio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
)

// Memo remembers the last evaluation and returns it again while the
// transactions, snapshot and config are unchanged. Returned reports are shared
// and must be treated as read-only.
type Memo struct {
	mu     sync.Mutex
	key    uint64
	valid  bool
	report model.Report

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemo() *Memo {
	return &Memo{}
}

// Evaluate returns the report for the given inputs. hit tells whether it came
// from the remembered evaluation.
func (m *Memo) Evaluate(cfg Config, txs []model.Transaction, snapshot model.Snapshot) (report model.Report, hit bool, err error) {
	key, err := Fingerprint(cfg, txs, snapshot)
	if err != nil {
		m.misses.Add(1)
		report, err = Evaluate(cfg, txs, snapshot)
		return report, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		m.hits.Add(1)
		return m.report, true, nil
	}

	m.misses.Add(1)
	report, err = Evaluate(cfg, txs, snapshot)
	if err != nil {
		m.valid = false
		return model.Report{}, false, err
	}
	m.key, m.report, m.valid = key, report, true

	return report, false, nil
}

func (m *Memo) Hits() int64 {
	return m.hits.Load()
}

func (m *Memo) Misses() int64 {
	return m.misses.Load()
}

// Fingerprint hashes the evaluation inputs by value. Map keys are sorted
// before hashing so equal tables always give the same key.
func Fingerprint(cfg Config, txs []model.Transaction, snapshot model.Snapshot) (uint64, error) {
	payload := struct {
		Config       Config
		Transactions []model.Transaction
		Prices       map[string]model.MoneyValue
		Rates        map[string]float64
	}{cfg, txs, snapshot.Prices, snapshot.Rates}

	raw, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("%w: can't encode evaluation inputs", err)
	}

	return xxhash.Sum64(raw), nil
}
