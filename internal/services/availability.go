// Package services – AvailabilityTracker
//
// AvailabilityTracker is the single source of truth for whether the remote
// generator is worth calling. It probes the backend's health check, keeps the
// latest AvailabilityRecord in memory and mirrors it into a key-value store
// so status readers never need to probe themselves.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

const (
	// ProbeTimeout bounds each health-check attempt.
	ProbeTimeout = 5 * time.Second
	// ProbeAttempts is the number of health-check attempts per probe.
	ProbeAttempts = 2
	// GraceWindow keeps the backend "likely available" after a success even
	// if a later probe failed.
	GraceWindow = 5 * time.Minute

	// StatusRecordKey stores the JSON AvailabilityRecord.
	StatusRecordKey = "api_status_record"
	// ConnectionStatusKey stores the loading/connected/error mirror.
	ConnectionStatusKey = "api_connection_status"

	DefaultProbeInitialDelay = 2 * time.Second
	DefaultProbeInterval     = 30 * time.Second
)

// Pinger is the health-check half of farewellapi.Backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AvailabilityTracker is safe for concurrent use.
type AvailabilityTracker struct {
	Pinger Pinger
	Store  repo.KV
	Clock  Clock
	Log    zerolog.Logger

	InitialDelay time.Duration
	Interval     time.Duration

	mu     sync.RWMutex
	record domain.AvailabilityRecord
	seq    uint64

	// persistMu orders mirror writes; persisted is the seq last written.
	persistMu sync.Mutex
	persisted uint64
}

// NewAvailabilityTracker returns a tracker in the Unknown state.
func NewAvailabilityTracker(p Pinger, store repo.KV, clock Clock, log zerolog.Logger) *AvailabilityTracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &AvailabilityTracker{
		Pinger:       p,
		Store:        store,
		Clock:        clock,
		Log:          log,
		InitialDelay: DefaultProbeInitialDelay,
		Interval:     DefaultProbeInterval,
		record:       domain.AvailabilityRecord{Status: domain.StatusUnknown},
	}
}

// Record returns a copy of the latest record.
func (t *AvailabilityTracker) Record() domain.AvailabilityRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyRecord(t.record)
}

// IsLikelyAvailable reports whether a remote call is worth attempting:
// true while Connected or Unknown, or when the last success is younger than
// GraceWindow.
func (t *AvailabilityTracker) IsLikelyAvailable() bool {
	t.mu.RLock()
	rec := t.record
	t.mu.RUnlock()
	return LikelyAvailable(rec, t.Clock.Now())
}

// LikelyAvailable applies the availability rule to rec as of now.
func LikelyAvailable(rec domain.AvailabilityRecord, now time.Time) bool {
	switch rec.Status {
	case domain.StatusConnected, domain.StatusUnknown:
		return true
	}
	return rec.LastSuccessAt != nil && now.Sub(*rec.LastSuccessAt) < GraceWindow
}

// Current returns the newest known record and whether generation would be
// attempted under it. The mirrored record wins when it was checked later
// than the in-memory one, e.g. after another instance sharing the store
// probed the backend.
func (t *AvailabilityTracker) Current(ctx context.Context) (domain.AvailabilityRecord, bool) {
	rec := t.Record()
	if stored, ok := LoadRecord(ctx, t.Store); ok && stored.LastCheckedAt.After(rec.LastCheckedAt) {
		rec = stored
	}
	return rec, LikelyAvailable(rec, t.Clock.Now())
}

// Probe checks the backend, retrying once immediately on failure. It never
// returns an error; failures become a StatusError record. A probe cut short
// by ctx records nothing and returns the current record.
func (t *AvailabilityTracker) Probe(ctx context.Context) domain.AvailabilityRecord {
	tr := otel.Tracer("services/AvailabilityTracker")
	ctx, span := tr.Start(ctx, "Probe")
	defer span.End()

	var err error
	attempts := 0
	for attempts < ProbeAttempts {
		attempts++
		err = t.ping(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		t.Log.Debug().Err(err).Int("attempt", attempts).Msg("availability probe failed")
	}
	span.SetAttributes(attribute.Int("probe.attempts", attempts), attribute.Bool("probe.ok", err == nil))

	if err != nil && ctx.Err() != nil {
		span.SetAttributes(attribute.Bool("probe.cancelled", true))
		return t.Record()
	}
	if err == nil {
		return t.RecordSuccess(ctx)
	}
	return t.RecordFailure(ctx, err)
}

func (t *AvailabilityTracker) ping(ctx context.Context) error {
	if t.Pinger == nil {
		return fmt.Errorf("no backend configured")
	}
	pctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	return t.Pinger.Ping(pctx)
}

// RecordSuccess marks the backend Connected as of now.
func (t *AvailabilityTracker) RecordSuccess(ctx context.Context) domain.AvailabilityRecord {
	return t.update(ctx, func(domain.AvailabilityRecord) domain.AvailabilityRecord {
		now := t.Clock.Now()
		return domain.AvailabilityRecord{
			Status:        domain.StatusConnected,
			LastCheckedAt: now,
			LastSuccessAt: &now,
		}
	})
}

// RecordFailure marks the backend Error, keeping the previous LastSuccessAt
// so the grace window still applies.
func (t *AvailabilityTracker) RecordFailure(ctx context.Context, cause error) domain.AvailabilityRecord {
	detail := "unavailable"
	if cause != nil {
		detail = cause.Error()
	}
	return t.update(ctx, func(prev domain.AvailabilityRecord) domain.AvailabilityRecord {
		return domain.AvailabilityRecord{
			Status:        domain.StatusError,
			LastCheckedAt: t.Clock.Now(),
			LastSuccessAt: prev.LastSuccessAt,
			ErrorDetail:   detail,
		}
	})
}

// update derives the next record from the current one under the write lock,
// then mirrors it.
func (t *AvailabilityTracker) update(ctx context.Context, next func(prev domain.AvailabilityRecord) domain.AvailabilityRecord) domain.AvailabilityRecord {
	t.mu.Lock()
	prev := t.record
	rec := copyRecord(next(copyRecord(prev)))
	t.record = rec
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	switch rec.Status {
	case domain.StatusConnected:
		backendAvailable.Set(1)
	case domain.StatusError:
		backendAvailable.Set(0)
	}
	if prev.Status != rec.Status {
		t.Log.Info().
			Str("from", string(prev.Status)).
			Str("to", string(rec.Status)).
			Str("detail", rec.ErrorDetail).
			Msg("generator availability changed")
	}
	t.persist(ctx, seq, rec)
	return copyRecord(rec)
}

func (t *AvailabilityTracker) persist(ctx context.Context, seq uint64, rec domain.AvailabilityRecord) {
	if t.Store == nil {
		return
	}
	t.persistMu.Lock()
	defer t.persistMu.Unlock()
	if seq <= t.persisted {
		return // a newer record is already mirrored
	}
	t.persisted = seq
	b, err := json.Marshal(rec)
	if err != nil {
		t.Log.Warn().Err(err).Msg("encode availability record")
		return
	}
	if err := t.Store.Set(ctx, StatusRecordKey, string(b)); err != nil {
		t.Log.Warn().Err(err).Msg("store availability record")
	}
	if err := t.Store.Set(ctx, ConnectionStatusKey, rec.Status.ConnectionLabel()); err != nil {
		t.Log.Warn().Err(err).Msg("store connection status")
	}
}

// Run probes once after InitialDelay, then every Interval while the status
// is Error. It returns when ctx is cancelled.
func (t *AvailabilityTracker) Run(ctx context.Context) {
	if err := t.Clock.Sleep(ctx, t.InitialDelay); err != nil {
		return
	}
	t.Probe(ctx)
	for {
		if err := t.Clock.Sleep(ctx, t.Interval); err != nil {
			return
		}
		if t.Record().Status != domain.StatusError {
			continue
		}
		t.Probe(ctx)
	}
}

// LoadRecord reads the mirrored record back from store. A missing or corrupt
// value yields (zero, false).
func LoadRecord(ctx context.Context, store repo.KV) (domain.AvailabilityRecord, bool) {
	var rec domain.AvailabilityRecord
	if store == nil {
		return rec, false
	}
	raw, ok, err := store.Get(ctx, StatusRecordKey)
	if err != nil || !ok {
		return rec, false
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.AvailabilityRecord{}, false
	}
	return rec, true
}

func copyRecord(r domain.AvailabilityRecord) domain.AvailabilityRecord {
	if r.LastSuccessAt != nil {
		ts := *r.LastSuccessAt
		r.LastSuccessAt = &ts
	}
	return r
}
