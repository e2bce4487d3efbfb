package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

func TestGetStatus_Unknown(t *testing.T) {
	st := &stubStatus{rec: domain.AvailabilityRecord{Status: domain.StatusUnknown}, likely: true}
	r := newTestRouter(t, Deps{Status: st})

	w := do(t, r, call{method: http.MethodGet, path: "/status"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decode[StatusResponse](t, w)
	if resp.Status != "unknown" || resp.Connection != "loading" || !resp.LikelyAvailable || resp.LastCheckedAt != nil {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestProbeStatus_UpdatesRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := &stubStatus{
		rec:    domain.AvailabilityRecord{Status: domain.StatusUnknown},
		probed: domain.AvailabilityRecord{Status: domain.StatusError, LastCheckedAt: now, ErrorDetail: "status 503"},
	}
	r := newTestRouter(t, Deps{Status: st})

	w := do(t, r, call{method: http.MethodPost, path: "/status/probe"})
	resp := decode[StatusResponse](t, w)
	if st.probes != 1 {
		t.Fatalf("probes=%d", st.probes)
	}
	if resp.Status != "error" || resp.Connection != "error" || resp.LikelyAvailable || resp.ErrorDetail != "status 503" {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.LastCheckedAt == nil || !resp.LastCheckedAt.Equal(now) {
		t.Fatalf("last_checked_at=%v", resp.LastCheckedAt)
	}

	// GET now reflects the probed record.
	if got := decode[StatusResponse](t, do(t, r, call{method: http.MethodGet, path: "/status"})); got.Status != "error" {
		t.Fatalf("get after probe=%+v", got)
	}
}

func TestGetStatus_ReadsMirroredRecord(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryStore(0).Scope("availability")
	tracker := services.NewAvailabilityTracker(nil, kv, nil, zerolog.Nop())
	r := newTestRouter(t, Deps{Status: tracker})

	// Another instance sharing the store recorded a failure.
	checked := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	raw, err := json.Marshal(domain.AvailabilityRecord{Status: domain.StatusError, LastCheckedAt: checked, ErrorDetail: "status 502"})
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, services.StatusRecordKey, string(raw)); err != nil {
		t.Fatal(err)
	}

	got := decode[StatusResponse](t, do(t, r, call{method: http.MethodGet, path: "/status"}))
	if got.Status != "error" || got.Connection != "error" || got.LikelyAvailable || got.ErrorDetail != "status 502" {
		t.Fatalf("mirrored=%+v", got)
	}
	if got.LastCheckedAt == nil || !got.LastCheckedAt.Equal(checked) {
		t.Fatalf("last_checked_at=%v", got.LastCheckedAt)
	}

	// A local success overwrites both mirrored keys.
	tracker.RecordSuccess(ctx)
	if label, ok, _ := kv.Get(ctx, services.ConnectionStatusKey); !ok || label != "connected" {
		t.Fatalf("connection key=%q ok=%v", label, ok)
	}
	if rec, ok := services.LoadRecord(ctx, kv); !ok || rec.Status != domain.StatusConnected {
		t.Fatalf("record key=%+v ok=%v", rec, ok)
	}
	if got := decode[StatusResponse](t, do(t, r, call{method: http.MethodGet, path: "/status"})); got.Status != "connected" || !got.LikelyAvailable {
		t.Fatalf("after check=%+v", got)
	}
}
