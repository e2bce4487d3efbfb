package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

const farewellScope = "/api/v1/farewells"

func TestGetIdempotency_BlankScopeOrKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	if rec, err := GetIdempotency(context.Background(), db, "s1", "   ", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank scope, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "s1", farewellScope, "", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:        "expired",
		SessionID: "s1",
		Scope:     farewellScope,
		Key:       "k1",
		Result:    `{"message":"old"}`,
		Status:    201,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	if rec, err := GetIdempotency(context.Background(), db, "s1", farewellScope, "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "s1", farewellScope, "missing", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ScopedBySession(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "s1", farewellScope, "k", `{"message":"hi"}`, 201, time.Hour); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	now := time.Now().UTC()

	rec, err := GetIdempotency(ctx, db, "s1", farewellScope, "k", now)
	if err != nil || rec.Result != `{"message":"hi"}` || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v err=%v", rec, err)
	}
	if _, err := GetIdempotency(ctx, db, "s2", farewellScope, "k", now); err != ErrNotFound {
		t.Fatalf("other session should not see the record, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "s1", "/api/v1/draft/publish", "k", now); err != ErrNotFound {
		t.Fatalf("other scope should not see the record, got %v", err)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})

	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(context.Background(), db, "s9", farewellScope, "k9", "{}", 202, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.SessionID != "s9" || rec.Key != "k9" || rec.Status != 202 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	// Loose bound to avoid timing flakes.
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	if _, err := CreateIdempotency(context.Background(), db, "s9", farewellScope, "k9", "{}", 200, ttl); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, "sX", farewellScope, "kX", "{}", 200, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "s1", farewellScope, "live", "{}", 201, time.Hour); err != nil {
		t.Fatalf("seed live: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "s1", farewellScope, "stale", "{}", 201, -time.Minute); err != nil {
		t.Fatalf("seed stale: %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v; want 1", n, err)
	}
}

func TestIsDuplicate(t *testing.T) {
	if IsDuplicate(nil) {
		t.Fatal("nil is not a duplicate")
	}
	if !IsDuplicate(errString("UNIQUE constraint failed: reactions.page_id")) {
		t.Fatal("expected sqlite unique message to be detected")
	}
	if IsDuplicate(errString("no such table")) {
		t.Fatal("unexpected duplicate match")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
