package store

import (
	"context"
	"fmt"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/lib/pq"
)

const (
	_minReconnectInterval = 1 * time.Second
	_maxReconnectInterval = 1 * time.Minute
	_pingInterval         = 90 * time.Second
)

// Listener turns postgres notifications into book change events. After a
// reconnect it emits the zero BookKey: notifications may have been lost and
// every book has to be reloaded.
type Listener struct {
	l       *pq.Listener
	channel string
	changes chan model.BookKey

	logger logger.Logger
}

func NewListener(conninfo, channel string, logger logger.Logger) (*Listener, error) {
	l := pq.NewListener(conninfo, _minReconnectInterval, _maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			switch event {
			case pq.ListenerEventConnected:
				logger.Infof("listening on %s", channel)
			case pq.ListenerEventDisconnected:
				logger.Warnf("%v: listener disconnected", err)
			case pq.ListenerEventReconnected:
				logger.Infof("listener reconnected")
			case pq.ListenerEventConnectionAttemptFailed:
				logger.Errorf("%v: listener connection attempt failed", err)
			}
		})

	if err := l.Listen(channel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("%w: can't listen on %s", err, channel)
	}

	return &Listener{
		l:       l,
		channel: channel,
		changes: make(chan model.BookKey, 64),
		logger:  logger,
	}, nil
}

func (l *Listener) Changes() <-chan model.BookKey {
	return l.changes
}

// Run forwards notifications to Changes until ctx is done, then closes both
// the connection and the channel.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.changes)
	defer func() {
		if err := l.l.Close(); err != nil {
			l.logger.Errorf("%s: can't close listener", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.l.Notify:
			key, ok := parseNotification(n)
			if !ok {
				l.logger.Warnf("skipping notification with payload %q", n.Extra)
				continue
			}
			select {
			case l.changes <- key:
			case <-ctx.Done():
				return
			}
		case <-time.After(_pingInterval):
			if err := l.l.Ping(); err != nil {
				l.logger.Errorf("%s: listener ping failed", err)
			}
		}
	}
}

func parseNotification(n *pq.Notification) (model.BookKey, bool) {
	if n == nil {
		return model.BookKey{}, true
	}
	key, err := model.ParseBookKey(n.Extra)
	if err != nil {
		return model.BookKey{}, false
	}
	return key, true
}
