// Package poll runs the periodic new-posting check: scrape the newest
// posting, skip it if already announced, otherwise persist and broadcast.
package poll

import (
	"context"
	"sync/atomic"

	"jobwatch/internal/notify"
	"jobwatch/internal/scrape"
	"jobwatch/internal/store"
	"jobwatch/pkg/logx"
)

// Source yields the newest posting (nil when the index is empty or the
// newest posting could not be extracted).
type Source interface {
	Latest(ctx context.Context) (*scrape.Posting, error)
}

// Broadcaster fans an announcement out to all recipients.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) notify.Summary
}

type Loop struct {
	source   Source
	seen     store.Store
	notifier Broadcaster
	log      logx.Logger

	// polling guards against overlapping cycles: a tick that arrives while
	// one is in flight is dropped, not queued.
	polling atomic.Bool
}

func NewLoop(source Source, seen store.Store, notifier Broadcaster, log logx.Logger) *Loop {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loop{source: source, seen: seen, notifier: notifier, log: log}
}

// Tick runs one poll cycle to completion. Every failure inside a cycle is
// scoped to that cycle; the next tick starts fresh.
func (l *Loop) Tick(ctx context.Context) {
	if !l.polling.CompareAndSwap(false, true) {
		l.log.Debug("poll already in flight; tick dropped")
		return
	}
	defer l.polling.Store(false)

	p, err := l.source.Latest(ctx)
	if err != nil {
		l.log.Warn("poll: source unavailable", logx.Err(err))
		return
	}
	if p == nil {
		l.log.Debug("poll: no postings")
		return
	}
	if l.seen.Contains(p.URL) {
		l.log.Debug("poll: newest posting already announced", logx.String("url", p.URL))
		return
	}

	// Record before notifying. A failed flush does not block the
	// announcement: a duplicate after a crash is the accepted tradeoff.
	l.seen.Add(p.URL)
	if err := l.seen.Flush(ctx); err != nil {
		l.log.Warn("poll: seen-set flush failed; notifying anyway", logx.String("url", p.URL), logx.Err(err))
	}

	l.log.Info("new posting", logx.String("url", p.URL), logx.String("title", p.Title))
	l.notifier.Broadcast(ctx, notify.Render(*p))
}
