package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/clock"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryTable is a TTL map. Values are stored serialized so callers never share state.
type memoryTable struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clock.Clock
}

func newMemoryTable(c clock.Clock) *memoryTable {
	return &memoryTable{entries: make(map[string]memoryEntry), clock: c}
}

func (t *memoryTable) get(key string) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !t.clock.Now().Before(e.expiresAt) {
		delete(t.entries, key)
		return nil, false
	}
	return e.value, true
}

func (t *memoryTable) set(key string, value []byte, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = t.clock.Now().Add(ttl)
	}
	t.entries[key] = e
}

func (t *memoryTable) del(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// MemoryTokenStore is the single-instance replacement for RedisTokenStore.
type MemoryTokenStore struct {
	table  *memoryTable
	logger *slog.Logger
}

func NewMemoryTokenStore(c clock.Clock, logger *slog.Logger) *MemoryTokenStore {
	return &MemoryTokenStore{table: newMemoryTable(c), logger: logger}
}

func (s *MemoryTokenStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.table.get(key)
	if !ok {
		return "", infra.WrapRepoErr(s.logger, infra.KindNotFound, "session token not found", nil)
	}
	return string(v), nil
}

func (s *MemoryTokenStore) Set(_ context.Context, key, token string, ttl time.Duration) error {
	s.table.set(key, []byte(token), ttl)
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context, key string) error {
	s.table.del(key)
	return nil
}

// MemoryCheckoutRepository is the single-instance replacement for RedisCheckoutRepository.
type MemoryCheckoutRepository struct {
	table  *memoryTable
	logger *slog.Logger
}

func NewMemoryCheckoutRepository(c clock.Clock, logger *slog.Logger) *MemoryCheckoutRepository {
	return &MemoryCheckoutRepository{table: newMemoryTable(c), logger: logger}
}

func (r *MemoryCheckoutRepository) Get(_ context.Context, id string) (*checkout.Session, error) {
	data, ok := r.table.get(id)
	if !ok {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "checkout session not found", nil)
	}
	var s checkout.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to decode checkout session", err)
	}
	return &s, nil
}

func (r *MemoryCheckoutRepository) Save(_ context.Context, s *checkout.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to encode checkout session", err)
	}
	r.table.set(s.ID, data, ttl)
	return nil
}

func (r *MemoryCheckoutRepository) Delete(_ context.Context, id string) error {
	r.table.del(id)
	return nil
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is a keyed mutex that gives up after a bounded wait. The ttl is ignored:
// a holder cannot outlive the process that owns the lock.
type MemoryLocker struct {
	mu     sync.Mutex
	locks  map[string]*lockEntry
	wait   time.Duration
	logger *slog.Logger
}

func NewMemoryLocker(logger *slog.Logger) *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*lockEntry), wait: defaultLockWait, logger: logger}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.unref(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, e)
		return nil, infra.WrapRepoErr(l.logger, infra.KindLocked, "lock "+key+" is held", ctx.Err())
	case <-timer.C:
		l.unref(key, e)
		return nil, infra.WrapRepoErr(l.logger, infra.KindLocked, "lock "+key+" is held", nil)
	}
}

func (l *MemoryLocker) unref(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
