package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Watcher polls a Versioned store and reports keys whose version changed or
// that disappeared since the previous poll. Writes from this process are
// reported too; observers treat every report as "re-read".
type Watcher struct {
	store    Versioned
	interval time.Duration
	onChange func(key string)
	logger   *zap.SugaredLogger
	last     map[string]int64
}

func NewWatcher(store Versioned, interval time.Duration, onChange func(key string), logger *zap.SugaredLogger) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		store:    store,
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// Run polls until ctx is done. The first poll only records a baseline.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll compares the current versions with the previous poll.
func (w *Watcher) Poll() {
	current, err := w.store.Versions()
	if err != nil {
		w.logger.Warnw("storage watch failed", "error", err)
		return
	}
	if w.last == nil {
		w.last = current
		return
	}
	for key, version := range current {
		if prev, ok := w.last[key]; !ok || prev != version {
			w.onChange(key)
		}
	}
	for key := range w.last {
		if _, ok := current[key]; !ok {
			w.onChange(key)
		}
	}
	w.last = current
}
