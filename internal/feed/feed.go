// Package feed implements the polling change propagation that keeps
// the customer, kitchen and admin views consistent. There is no push
// channel: each subscription re-reads its collection on a fixed
// interval and fires only when the serialized content differs from
// the last observation, so views may lag the true state by up to one
// interval.
package feed

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"cafesync-order-service/internal/store"

	"go.uber.org/zap"
)

// DefaultInterval matches the 3s poll the kitchen display runs at.
const DefaultInterval = 3 * time.Second

type Feed struct {
	kv     store.KeyValueStore
	logger *zap.Logger
}

func New(kv store.KeyValueStore, logger *zap.Logger) *Feed {
	return &Feed{kv: kv, logger: logger}
}

// Subscribe polls one collection and invokes onChange with the raw
// blob whenever its content changes. The first observation always
// fires. When the collection has never been written, defaultValue is
// observed instead. Ticks never overlap: a slow onChange delays the
// next poll by its own duration. The returned cancel func stops the
// subscription; no callback runs after it returns aside from one
// already in flight.
func (f *Feed) Subscribe(key string, interval time.Duration, defaultValue []byte, onChange func(raw []byte)) (cancel func()) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	sub := &subscription{
		feed:         f,
		key:          key,
		interval:     interval,
		defaultValue: defaultValue,
		onChange:     onChange,
		done:         make(chan struct{}),
	}
	sub.active.Store(true)
	go sub.loop()

	return func() {
		if sub.active.CompareAndSwap(true, false) {
			close(sub.done)
		}
	}
}

type subscription struct {
	feed         *Feed
	key          string
	interval     time.Duration
	defaultValue []byte
	onChange     func(raw []byte)

	active atomic.Bool
	done   chan struct{}

	lastSeen []byte
	seen     bool
}

func (s *subscription) loop() {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-timer.C:
		}

		s.tick()

		// Re-check the flag before rescheduling so cancel during a
		// slow tick stops the loop immediately.
		if !s.active.Load() {
			return
		}
		timer.Reset(s.interval)
	}
}

func (s *subscription) tick() {
	raw, err := s.feed.kv.GetItem(context.Background(), s.key)
	if err != nil {
		// A failed poll never stops the loop; the next tick retries.
		s.feed.logger.Warn("change feed poll failed",
			zap.String("collection", s.key),
			zap.Error(err),
		)
		return
	}
	if raw == nil {
		raw = s.defaultValue
	}

	if s.seen && bytes.Equal(raw, s.lastSeen) {
		return
	}
	s.lastSeen = raw
	s.seen = true

	if !s.active.Load() {
		return
	}
	s.onChange(raw)
}
