package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[idempotency.Fingerprint]entry

	ttl time.Duration
	now func() time.Time
}

type entry struct {
	rec      idempotency.Record
	storedAt time.Time
}

type Option func(*Store)

// WithTTL hides records older than ttl. now defaults to time.Now.
func WithTTL(ttl time.Duration, now func() time.Time) Option {
	return func(s *Store) {
		s.ttl = ttl
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		m:   make(map[idempotency.Fingerprint]entry),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[fp]
	if !ok || s.expired(e) {
		return idempotency.Record{}, false, nil
	}
	rec := e.rec
	rec.Body = append([]byte(nil), e.rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Body = append([]byte(nil), rec.Body...)
	s.m[fp] = entry{rec: rec, storedAt: s.now()}
	return nil
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.storedAt) >= s.ttl
}
