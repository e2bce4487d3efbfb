package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

func newTracker(b *fakeBackend) (*AvailabilityTracker, *fakeClock, repo.KV) {
	clock := newFakeClock()
	store := repo.NewMemoryStore(0).Scope("availability")
	return NewAvailabilityTracker(b, store, clock, nopLog), clock, store
}

func TestTracker_StartsUnknownAndLikelyAvailable(t *testing.T) {
	tr, _, _ := newTracker(&fakeBackend{})
	assert.Equal(t, domain.StatusUnknown, tr.Record().Status)
	assert.True(t, tr.IsLikelyAvailable())
}

func TestTracker_ProbeSuccess(t *testing.T) {
	b := &fakeBackend{}
	tr, clock, store := newTracker(b)

	rec := tr.Probe(context.Background())

	assert.Equal(t, 1, b.PingCalls())
	assert.Equal(t, domain.StatusConnected, rec.Status)
	require.NotNil(t, rec.LastSuccessAt)
	assert.Equal(t, clock.Now(), rec.LastCheckedAt)
	assert.Equal(t, rec.LastCheckedAt, *rec.LastSuccessAt)

	label, ok, err := store.Get(context.Background(), ConnectionStatusKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "connected", label)

	stored, ok := LoadRecord(context.Background(), store)
	require.True(t, ok)
	assert.Equal(t, domain.StatusConnected, stored.Status)
}

func TestTracker_ProbeRetriesOnceThenRecordsError(t *testing.T) {
	b := &fakeBackend{pingFn: func(context.Context, int) error { return errBoom }}
	tr, _, store := newTracker(b)

	rec := tr.Probe(context.Background())

	assert.Equal(t, ProbeAttempts, b.PingCalls())
	assert.Equal(t, domain.StatusError, rec.Status)
	assert.Equal(t, "boom", rec.ErrorDetail)
	assert.Nil(t, rec.LastSuccessAt)
	assert.False(t, tr.IsLikelyAvailable())

	label, _, _ := store.Get(context.Background(), ConnectionStatusKey)
	assert.Equal(t, "error", label)
}

func TestTracker_ProbeSecondAttemptSucceeds(t *testing.T) {
	b := &fakeBackend{pingFn: func(_ context.Context, n int) error {
		if n == 1 {
			return errBoom
		}
		return nil
	}}
	tr, _, _ := newTracker(b)

	rec := tr.Probe(context.Background())
	assert.Equal(t, 2, b.PingCalls())
	assert.Equal(t, domain.StatusConnected, rec.Status)
}

func TestTracker_ProbeUsesBoundedTimeout(t *testing.T) {
	b := &fakeBackend{pingFn: func(ctx context.Context, _ int) error {
		dl, ok := ctx.Deadline()
		assert.True(t, ok, "probe must carry a deadline")
		assert.LessOrEqual(t, time.Until(dl), ProbeTimeout)
		return nil
	}}
	tr, _, _ := newTracker(b)
	tr.Probe(context.Background())
}

func TestTracker_GraceWindow(t *testing.T) {
	tr, clock, _ := newTracker(&fakeBackend{})
	ctx := context.Background()

	tr.RecordSuccess(ctx)
	success := clock.Now()

	clock.Advance(time.Minute)
	rec := tr.RecordFailure(ctx, errBoom)
	assert.Equal(t, domain.StatusError, rec.Status)
	require.NotNil(t, rec.LastSuccessAt, "failure must keep the last success")
	assert.Equal(t, success, *rec.LastSuccessAt)
	assert.True(t, tr.IsLikelyAvailable(), "inside grace window")

	clock.Advance(GraceWindow - time.Minute - time.Second)
	assert.True(t, tr.IsLikelyAvailable(), "just before the window closes")

	clock.Advance(2 * time.Second)
	assert.False(t, tr.IsLikelyAvailable(), "window closed")
}

func TestTracker_RecordFailureWithoutCause(t *testing.T) {
	tr, _, _ := newTracker(&fakeBackend{})
	rec := tr.RecordFailure(context.Background(), nil)
	assert.Equal(t, "unavailable", rec.ErrorDetail)
}

func TestTracker_FailureKeepsLatestSuccessUnderConcurrency(t *testing.T) {
	tr, clock, store := newTracker(&fakeBackend{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.RecordSuccess(ctx)
		}()
		go func() {
			defer wg.Done()
			tr.RecordFailure(ctx, errBoom)
		}()
	}
	wg.Wait()

	// Every success happened at the same instant, so any failure recorded
	// after the first success must carry it.
	rec := tr.RecordFailure(ctx, errBoom)
	require.NotNil(t, rec.LastSuccessAt)
	assert.True(t, rec.LastSuccessAt.Equal(clock.Now()))

	stored, ok := LoadRecord(ctx, store)
	require.True(t, ok)
	assert.Equal(t, rec.Status, stored.Status)
	require.NotNil(t, stored.LastSuccessAt)
	assert.True(t, stored.LastSuccessAt.Equal(*rec.LastSuccessAt))
}

func TestTracker_CurrentPrefersNewerMirroredRecord(t *testing.T) {
	tr, clock, store := newTracker(&fakeBackend{})
	ctx := context.Background()

	rec, likely := tr.Current(ctx)
	assert.Equal(t, domain.StatusUnknown, rec.Status)
	assert.True(t, likely)

	// Another instance sharing the store saw the backend fail.
	other := NewAvailabilityTracker(&fakeBackend{}, store, clock, nopLog)
	clock.Advance(time.Second)
	other.RecordFailure(ctx, errBoom)

	rec, likely = tr.Current(ctx)
	assert.Equal(t, domain.StatusError, rec.Status)
	assert.False(t, likely)
	assert.Equal(t, domain.StatusUnknown, tr.Record().Status)

	// A later local success wins again.
	clock.Advance(time.Second)
	tr.RecordSuccess(ctx)
	rec, likely = tr.Current(ctx)
	assert.Equal(t, domain.StatusConnected, rec.Status)
	assert.True(t, likely)
}

func TestTracker_RecordIsACopy(t *testing.T) {
	tr, _, _ := newTracker(&fakeBackend{})
	tr.RecordSuccess(context.Background())

	rec := tr.Record()
	*rec.LastSuccessAt = rec.LastSuccessAt.Add(-time.Hour)
	assert.NotEqual(t, *rec.LastSuccessAt, *tr.Record().LastSuccessAt)
}

func TestTracker_StoreErrorsAreAbsorbed(t *testing.T) {
	clock := newFakeClock()
	tr := NewAvailabilityTracker(&fakeBackend{}, brokenKV{}, clock, nopLog)
	rec := tr.Probe(context.Background())
	assert.Equal(t, domain.StatusConnected, rec.Status)
}

func TestTracker_NoBackendIsAnError(t *testing.T) {
	tr := NewAvailabilityTracker(nil, nil, newFakeClock(), nopLog)
	assert.Equal(t, domain.StatusError, tr.Probe(context.Background()).Status)
}

func TestTracker_RunReprobesOnlyWhileError(t *testing.T) {
	// Probe 1: both attempts fail → error.
	// Probe 2: first attempt fails, retry succeeds → connected.
	// Afterwards no more probes even though the loop keeps ticking.
	b := &fakeBackend{pingFn: func(_ context.Context, n int) error {
		if n <= 3 {
			return errBoom
		}
		return nil
	}}
	tr, clock, _ := newTracker(b)
	tr.InitialDelay = 2 * time.Second
	tr.Interval = 30 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.onSleep = func(n int) {
		if n >= 6 {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, 4, b.PingCalls())
	assert.Equal(t, domain.StatusConnected, tr.Record().Status)
	sleeps := clock.Sleeps()
	require.NotEmpty(t, sleeps)
	assert.Equal(t, 2*time.Second, sleeps[0])
	for _, d := range sleeps[1:] {
		assert.Equal(t, 30*time.Second, d)
	}
}

func TestTracker_RunResumesAfterLaterFailure(t *testing.T) {
	b := &fakeBackend{}
	tr, clock, _ := newTracker(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.onSleep = func(n int) {
		switch n {
		case 3:
			// A generation failure flips the status while the loop idles.
			tr.RecordFailure(context.Background(), errBoom)
		case 5:
			cancel()
		}
	}
	tr.Run(ctx)

	// Initial probe + one re-probe after the flip.
	assert.Equal(t, 2, b.PingCalls())
	assert.Equal(t, domain.StatusConnected, tr.Record().Status)
}

func TestLoadRecord_CorruptOrMissing(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore(0).Scope("s")

	_, ok := LoadRecord(ctx, store)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, StatusRecordKey, "{not json"))
	_, ok = LoadRecord(ctx, store)
	assert.False(t, ok)

	b, _ := json.Marshal(domain.AvailabilityRecord{Status: domain.StatusError})
	require.NoError(t, store.Set(ctx, StatusRecordKey, string(b)))
	rec, ok := LoadRecord(ctx, store)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusError, rec.Status)
}
