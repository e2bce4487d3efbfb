package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-exitpage-backend/internal/farewellapi"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// fakeClock advances instantly on Sleep and records every requested delay.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock { return &fakeClock{now: t0} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

var errBoom = errors.New("boom")

// fakeBackend answers through genFn/pingFn; nil functions mean success.
type fakeBackend struct {
	mu        sync.Mutex
	genFn     func(ctx context.Context, n int) (string, error)
	pingFn    func(ctx context.Context, n int) error
	genCalls  int
	pingCalls int
	payloads  []farewellapi.Payload
}

func (b *fakeBackend) Generate(ctx context.Context, p farewellapi.Payload) (string, error) {
	b.mu.Lock()
	b.genCalls++
	n := b.genCalls
	b.payloads = append(b.payloads, p)
	fn := b.genFn
	b.mu.Unlock()
	if fn == nil {
		return "Thank you all, it was a pleasure.", nil
	}
	return fn(ctx, n)
}

func (b *fakeBackend) Ping(ctx context.Context) error {
	b.mu.Lock()
	b.pingCalls++
	n := b.pingCalls
	fn := b.pingFn
	b.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, n)
}

func (b *fakeBackend) GenCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.genCalls
}

func (b *fakeBackend) PingCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pingCalls
}

func (b *fakeBackend) LastPayload() farewellapi.Payload {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.payloads) == 0 {
		return farewellapi.Payload{}
	}
	return b.payloads[len(b.payloads)-1]
}

func alwaysFail(context.Context, int) (string, error) { return "", errBoom }

// brokenKV fails every operation.
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBoom }
func (brokenKV) Set(context.Context, string, string) error         { return errBoom }
func (brokenKV) Delete(context.Context, string) error              { return errBoom }

type brokenStore struct{}

func (brokenStore) Scope(string) repo.KV { return brokenKV{} }

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

var nopLog = zerolog.Nop()
