package market

import (
	"context"
	"sync"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

// Source keeps the current snapshot and reloads it from disk. Snapshot
// returns the value loaded last; callers never see a half-read file.
type Source struct {
	logger logger.Logger

	path           string
	reloadInterval time.Duration

	mu       sync.RWMutex
	snapshot model.Snapshot
	loadedAt time.Time
}

func NewSource(path string, reloadInterval time.Duration, logger logger.Logger) *Source {
	return &Source{
		logger:         logger,
		path:           path,
		reloadInterval: reloadInterval,
	}
}

// NewStaticSource serves a fixed snapshot, Reload is a no-op.
func NewStaticSource(snapshot model.Snapshot) *Source {
	return &Source{
		logger:   logger.NewNopLogger(),
		snapshot: snapshot,
		loadedAt: time.Now(),
	}
}

func (s *Source) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Source) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}

	snapshot, err := LoadSnapshot(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debugf("loaded snapshot %s: %d prices, %d rates", s.path, len(snapshot.Prices), len(snapshot.Rates))
	return nil
}

// Run reloads the snapshot every reload interval until ctx is done. A failed
// reload keeps the previous snapshot.
func (s *Source) Run(ctx context.Context) {
	if s.path == "" || s.reloadInterval <= 0 {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reloadInterval):
			if err := s.Reload(); err != nil {
				s.logger.Errorf("%s: error reloading snapshot", err)
			}
		}
	}
}
