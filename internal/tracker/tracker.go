package tracker

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/metrics"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/portfolio"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
)

const (
	_refreshIntervalDefault    = 5 * time.Minute
	_recomputePerSecondDefault = 10
)

type Store interface {
	Insert(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	List(ctx context.Context, key model.BookKey) ([]model.Transaction, error)
	Books(ctx context.Context, userID string) ([]string, error)
}

type SnapshotSource interface {
	Snapshot() model.Snapshot
	LoadedAt() time.Time
}

type Config struct {
	Evaluation         portfolio.Config
	RefreshInterval    time.Duration
	RecomputePerSecond int
}

// book is the in-memory copy of one transaction log. txs is replaced, never
// appended to, so readers can keep a slice without holding the lock.
type book struct {
	txs  []model.Transaction
	memo *portfolio.Memo
}

type Tracker struct {
	store     Store
	snapshots SnapshotSource
	cfg       Config
	validate  *validator.Validate
	limiter   ratelimit.Limiter
	now       func() time.Time

	logger logger.Logger

	mu    sync.RWMutex
	books map[model.BookKey]*book
}

func New(cfg Config, store Store, snapshots SnapshotSource, logger logger.Logger) (*Tracker, error) {
	if err := cfg.Evaluation.Validate(); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = _refreshIntervalDefault
	}
	cfg.RecomputePerSecond = cmp.Or(max(cfg.RecomputePerSecond, 0), _recomputePerSecondDefault)

	return &Tracker{
		store:     store,
		snapshots: snapshots,
		cfg:       cfg,
		validate:  newValidator(),
		limiter:   ratelimit.New(cfg.RecomputePerSecond),
		now:       time.Now,
		logger:    logger,
		books:     make(map[model.BookKey]*book),
	}, nil
}

// RecordTransaction validates rec and appends it to the store. The in-memory
// log is left alone: the stored row comes back through the change feed.
func (t *Tracker) RecordTransaction(ctx context.Context, key model.BookKey, rec model.TransactionRecord) (model.Transaction, error) {
	tx, err := t.build(key, rec)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationFailures.Inc()
		}
		return model.Transaction{}, err
	}

	tx, err = t.store.Insert(ctx, tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: can't record transaction", err)
	}

	metrics.TransactionsRecorded.WithLabelValues(string(tx.Type)).Inc()
	t.logger.Infof("recorded %s %g %s @ %g %s into %s", tx.Type, tx.Quantity, tx.Ticker, tx.Price, tx.Currency, key)

	return tx, nil
}

func (t *Tracker) build(key model.BookKey, rec model.TransactionRecord) (model.Transaction, error) {
	rec.Type = strings.TrimSpace(rec.Type)
	rec.Ticker = strings.TrimSpace(rec.Ticker)

	verr := &ValidationError{}
	if !key.Valid() {
		verr.add("book", "is invalid")
	}
	if err := collect(t.validate.Struct(rec), verr); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: can't validate transaction", err)
	}

	txType, err := model.ParseTransactionType(rec.Type)
	if err != nil && rec.Type != "" {
		verr.add("type", "must be buy or sell")
	}
	if len(verr.Fields) > 0 {
		return model.Transaction{}, verr
	}

	date := t.now().UTC()
	if rec.Date != nil {
		date = rec.Date.UTC()
	}
	var fee float64
	if rec.Fee != nil {
		fee = *rec.Fee
	}

	return model.Transaction{
		ID:        uuid.NewString(),
		UserID:    key.UserID,
		Book:      key.Book,
		Broker:    strings.TrimSpace(rec.Broker),
		Date:      date,
		Type:      txType,
		Ticker:    strings.ToUpper(rec.Ticker),
		AssetType: cmp.Or(model.AssetType(strings.ToLower(rec.AssetType)), model.Share),
		Quantity:  *rec.Quantity,
		Price:     *rec.Price,
		Currency:  strings.ToUpper(cmp.Or(strings.TrimSpace(rec.Currency), t.cfg.Evaluation.BaseCurrency)),
		Fee:       fee,
	}, nil
}

// Report evaluates the book against the current snapshot, loading the book
// from the store on first use.
func (t *Tracker) Report(ctx context.Context, key model.BookKey) (model.Report, error) {
	b, err := t.book(ctx, key)
	if err != nil {
		return model.Report{}, err
	}

	start := time.Now()
	report, hit, err := b.memo.Evaluate(t.cfg.Evaluation, b.txs, t.snapshots.Snapshot())
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.Evaluations.WithLabelValues("error").Inc()
		return model.Report{}, fmt.Errorf("%w: can't evaluate %s", err, key)
	case hit:
		metrics.Evaluations.WithLabelValues("cached").Inc()
	default:
		metrics.Evaluations.WithLabelValues("ok").Inc()
	}

	return report, nil
}

func (t *Tracker) Transactions(ctx context.Context, key model.BookKey) ([]model.HistoryEntry, error) {
	b, err := t.book(ctx, key)
	if err != nil {
		return nil, err
	}
	return portfolio.History(b.txs), nil
}

func (t *Tracker) Performance(ctx context.Context, key model.BookKey) ([]model.PerformancePoint, error) {
	report, err := t.Report(ctx, key)
	if err != nil {
		return nil, err
	}
	return portfolio.ComparePerformance(report.Totals.TotalGainLossPercent, t.snapshots.Snapshot().Benchmarks), nil
}

func (t *Tracker) Snapshot() model.Snapshot {
	return t.snapshots.Snapshot()
}

func (t *Tracker) SnapshotLoadedAt() time.Time {
	return t.snapshots.LoadedAt()
}

// Books lists the books userID has recorded transactions in.
func (t *Tracker) Books(ctx context.Context, userID string) ([]string, error) {
	if !(model.BookKey{UserID: userID, Book: "-"}).Valid() {
		return nil, &ValidationError{Fields: map[string]string{"user": "is invalid"}}
	}

	books, err := t.store.Books(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: can't list books", err)
	}
	return books, nil
}

func (t *Tracker) book(ctx context.Context, key model.BookKey) (book, error) {
	if !key.Valid() {
		return book{}, &ValidationError{Fields: map[string]string{"book": "is invalid"}}
	}

	if b, ok := t.cached(key); ok {
		return b, nil
	}

	if err := t.Reload(ctx, key); err != nil {
		return book{}, err
	}

	b, _ := t.cached(key)
	return b, nil
}

func (t *Tracker) cached(key model.BookKey) (book, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.books[key]
	if !ok {
		return book{}, false
	}
	return *b, true
}

// Reload replaces the in-memory log of key with the stored one.
func (t *Tracker) Reload(ctx context.Context, key model.BookKey) error {
	txs, err := t.store.List(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: can't load %s", err, key)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.books[key]; ok {
		b.txs = txs
	} else {
		t.books[key] = &book{txs: txs, memo: portfolio.NewMemo()}
		metrics.LoadedBooks.Set(float64(len(t.books)))
	}

	t.logger.Debugf("loaded %d transactions of %s", len(txs), key)
	return nil
}

func (t *Tracker) loaded() []model.BookKey {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]model.BookKey, 0, len(t.books))
	for key := range t.books {
		keys = append(keys, key)
	}
	return keys
}

func (t *Tracker) reloadAll(ctx context.Context, reason string) {
	for _, key := range t.loaded() {
		if ctx.Err() != nil {
			return
		}
		t.limiter.Take()
		if err := t.Reload(ctx, key); err != nil {
			t.logger.Errorf("%s: error reloading book", err)
			continue
		}
		metrics.BookReloads.WithLabelValues(reason).Inc()
	}
}

func (t *Tracker) isLoaded(key model.BookKey) bool {
	_, ok := t.cached(key)
	return ok
}

// Run applies change notifications until ctx is done. A zero key reloads every
// loaded book, changes to books nobody asked for yet are ignored. All loaded
// books are also refreshed every refresh interval.
func (t *Tracker) Run(ctx context.Context, changes <-chan model.BookKey) {
	refresh := time.NewTicker(t.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if key == (model.BookKey{}) {
				t.reloadAll(ctx, "notify")
				continue
			}
			if !t.isLoaded(key) {
				continue
			}
			t.limiter.Take()
			if err := t.Reload(ctx, key); err != nil {
				t.logger.Errorf("%s: error reloading book", err)
				continue
			}
			metrics.BookReloads.WithLabelValues("notify").Inc()
		case <-refresh.C:
			t.reloadAll(ctx, "refresh")
		}
	}
}
