// Package repo – key-value stores.
//
// KV is the string-only key-value contract the services persist through. Two
// implementations exist:
//
//   - MemoryStore: process-local, partitioned by scope, and scopes idle for
//     longer than the TTL are dropped. It stands in for per-tab session
//     storage: state lives as long as the session keeps talking to us.
//   - SQLStore: durable rows in the kv_entries table, partitioned the same
//     way. It stands in for client-side local storage.
//
// Both hand out scoped views via Scope(name); callers never see other scopes.
package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// KV is a scoped string key-value store.
type KV interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Namespaced hands out KV views partitioned by scope.
type Namespaced interface {
	Scope(scope string) KV
}

// ErrEmptyScope is returned when a scoped view was created with a blank name.
var ErrEmptyScope = errors.New("kv: empty scope")

// ---------------------------------------------------------------------------
// MemoryStore

type memScope struct {
	values   map[string]string
	lastSeen time.Time
}

// MemoryStore is an in-memory Namespaced store whose scopes expire after a
// period of inactivity. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	scopes map[string]*memScope
	ttl    time.Duration
	now    func() time.Time
	sweepN uint64
}

// NewMemoryStore returns a MemoryStore that forgets a scope once it has not
// been touched for ttl. A ttl <= 0 keeps scopes for the life of the process.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		scopes: make(map[string]*memScope),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Scope returns the KV view for scope.
func (m *MemoryStore) Scope(scope string) KV { return memKV{m: m, scope: scope} }

// Len reports the number of live scopes.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scopes)
}

// Sweep drops every expired scope and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

func (m *MemoryStore) sweepLocked(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	n := 0
	for k, s := range m.scopes {
		if now.Sub(s.lastSeen) >= m.ttl {
			delete(m.scopes, k)
			n++
		}
	}
	return n
}

// scopeLocked returns the live scope, creating it when create is true.
// Sweeping runs before the lookup so an expired scope is never revived.
func (m *MemoryStore) scopeLocked(name string, create bool) *memScope {
	now := m.now()
	m.sweepN++
	if m.sweepN >= 1000 {
		m.sweepLocked(now)
		m.sweepN = 0
	}
	s, ok := m.scopes[name]
	if ok && m.ttl > 0 && now.Sub(s.lastSeen) >= m.ttl {
		delete(m.scopes, name)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		s = &memScope{values: make(map[string]string)}
		m.scopes[name] = s
	}
	s.lastSeen = now
	return s
}

type memKV struct {
	m     *MemoryStore
	scope string
}

func (kv memKV) Get(_ context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(kv.scope) == "" {
		return "", false, ErrEmptyScope
	}
	kv.m.mu.Lock()
	defer kv.m.mu.Unlock()
	s := kv.m.scopeLocked(kv.scope, false)
	if s == nil {
		return "", false, nil
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (kv memKV) Set(_ context.Context, key, value string) error {
	if strings.TrimSpace(kv.scope) == "" {
		return ErrEmptyScope
	}
	kv.m.mu.Lock()
	defer kv.m.mu.Unlock()
	kv.m.scopeLocked(kv.scope, true).values[key] = value
	return nil
}

func (kv memKV) Delete(_ context.Context, key string) error {
	if strings.TrimSpace(kv.scope) == "" {
		return ErrEmptyScope
	}
	kv.m.mu.Lock()
	defer kv.m.mu.Unlock()
	if s := kv.m.scopeLocked(kv.scope, false); s != nil {
		delete(s.values, key)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SQLStore

// SQLStore is a durable Namespaced store over the kv_entries table.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore wraps db. The kv_entries table must already be migrated.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{DB: db} }

// Scope returns the KV view for scope.
func (s *SQLStore) Scope(scope string) KV { return sqlKV{db: s.DB, scope: scope} }

type sqlKV struct {
	db    *gorm.DB
	scope string
}

func (kv sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(kv.scope) == "" {
		return "", false, ErrEmptyScope
	}
	var e domain.KVEntry
	err := kv.db.WithContext(ctx).
		Where("scope = ? AND key = ?", kv.scope, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (kv sqlKV) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(kv.scope) == "" {
		return ErrEmptyScope
	}
	e := &domain.KVEntry{Scope: kv.scope, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return kv.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(e).Error
}

func (kv sqlKV) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(kv.scope) == "" {
		return ErrEmptyScope
	}
	return kv.db.WithContext(ctx).
		Where("scope = ? AND key = ?", kv.scope, key).
		Delete(&domain.KVEntry{}).Error
}
