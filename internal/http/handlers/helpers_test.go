package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/http/middleware"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

var errStore = errors.New("store down")

// ---------- stubs ----------

type stubFarewells struct {
	calls int
	fn    func(sid string, req services.GenerationRequest) (services.Result, error)
}

func (s *stubFarewells) Generate(_ context.Context, sid string, req services.GenerationRequest) (services.Result, error) {
	s.calls++
	return s.fn(sid, req)
}

type stubStatus struct {
	rec    domain.AvailabilityRecord
	likely bool
	probes int
	probed domain.AvailabilityRecord
}

func (s *stubStatus) Current(context.Context) (domain.AvailabilityRecord, bool) {
	return s.rec, s.likely
}
func (s *stubStatus) IsLikelyAvailable() bool { return s.likely }
func (s *stubStatus) Probe(context.Context) domain.AvailabilityRecord {
	s.probes++
	s.rec = s.probed
	return s.probed
}

// memDrafts keeps drafts per session in a map.
type memDrafts struct {
	mu   sync.Mutex
	m    map[string]domain.ExitPageDraft
	err  error
	last string
}

func newMemDrafts() *memDrafts { return &memDrafts{m: map[string]domain.ExitPageDraft{}} }

func (d *memDrafts) Load(_ context.Context, sid string) (*domain.ExitPageDraft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = sid
	if d.err != nil {
		return nil, d.err
	}
	v, ok := d.m[sid]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (d *memDrafts) put(sid string, v domain.ExitPageDraft) *domain.ExitPageDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = sid
	v.Normalize()
	d.m[sid] = v
	return &v
}

func (d *memDrafts) Replace(_ context.Context, sid string, p domain.DraftPatch) (*domain.ExitPageDraft, error) {
	if d.err != nil {
		return nil, d.err
	}
	var v domain.ExitPageDraft
	v.Apply(p)
	return d.put(sid, v), nil
}

func (d *memDrafts) Patch(ctx context.Context, sid string, p domain.DraftPatch) (*domain.ExitPageDraft, error) {
	cur, err := d.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		cur = &domain.ExitPageDraft{}
	}
	cur.Apply(p)
	return d.put(sid, *cur), nil
}

func (d *memDrafts) Clear(_ context.Context, sid string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = sid
	if d.err != nil {
		return d.err
	}
	delete(d.m, sid)
	return nil
}

func (d *memDrafts) Publish(ctx context.Context, sid string) (*domain.ExitPageDraft, error) {
	cur, err := d.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, services.ErrDraftNotFound
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cur.PublishedAt = &now
	return d.put(sid, *cur), nil
}

func (d *memDrafts) Page(ctx context.Context, id string) (*domain.ExitPageDraft, error) {
	cur, err := d.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil || cur.PublishedAt == nil {
		return nil, services.ErrPageNotFound
	}
	return cur, nil
}

type stubWizard struct {
	state services.WizardState
	err   error
	calls []string
	patch domain.DraftPatch
}

func (w *stubWizard) do(name string) (services.WizardState, error) {
	w.calls = append(w.calls, name)
	return w.state, w.err
}
func (w *stubWizard) State(context.Context, string) (services.WizardState, error) {
	return w.do("state")
}
func (w *stubWizard) Update(_ context.Context, _ string, p domain.DraftPatch) (services.WizardState, error) {
	w.patch = p
	return w.do("update")
}
func (w *stubWizard) Next(context.Context, string) (services.WizardState, error) {
	return w.do("next")
}
func (w *stubWizard) Back(context.Context, string) (services.WizardState, error) {
	return w.do("back")
}
func (w *stubWizard) Regenerate(context.Context, string) (services.WizardState, error) {
	return w.do("regenerate")
}

type stubComments struct {
	items    []domain.Comment
	total    int64
	maxTS    *time.Time
	err      error
	statsErr error
	gotPage  [2]int
	deleted  [3]string
	created  [4]string
}

func (s *stubComments) Create(_ context.Context, sid, pageID, author, body string) (*domain.Comment, error) {
	s.created = [4]string{sid, pageID, author, body}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Comment{ID: "c1", PageID: pageID, Author: author, Body: body}, nil
}
func (s *stubComments) ListPage(_ context.Context, _ string, page, size int) ([]domain.Comment, int64, error) {
	s.gotPage = [2]int{page, size}
	return s.items, s.total, s.err
}
func (s *stubComments) Stats(context.Context, string) (int64, *time.Time, error) {
	return s.total, s.maxTS, s.statsErr
}
func (s *stubComments) Delete(_ context.Context, sid, pageID, id string) error {
	s.deleted = [3]string{sid, pageID, id}
	return s.err
}

type stubReactions struct {
	err    error
	counts map[string]int64
	kind   string
}

func (s *stubReactions) React(_ context.Context, sid, pageID, kind string) (*domain.Reaction, error) {
	s.kind = kind
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Reaction{ID: "r1", PageID: pageID, UserID: sid, Kind: kind}, nil
}
func (s *stubReactions) Summary(context.Context, string) (map[string]int64, error) {
	return s.counts, s.err
}

// memIdem is an in-memory IdempotencyStore.
type memIdem struct {
	recs map[string]domain.Idempotency
	ttl  time.Duration
}

func newMemIdem() *memIdem { return &memIdem{recs: map[string]domain.Idempotency{}} }

func (m *memIdem) Get(_ context.Context, sid, scope, key string, _ time.Time) (*domain.Idempotency, error) {
	r, ok := m.recs[sid+"|"+scope+"|"+key]
	if !ok {
		return nil, errors.New("not found")
	}
	return &r, nil
}

func (m *memIdem) Create(_ context.Context, sid, scope, key, result string, status int, ttl time.Duration) error {
	m.ttl = ttl
	m.recs[sid+"|"+scope+"|"+key] = domain.Idempotency{SessionID: sid, Scope: scope, Key: key, Result: result, Status: status}
	return nil
}

// ---------- router plumbing ----------

func newTestRouter(t *testing.T, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(d)

	lookup := func(ctx context.Context, sid, scope, key string, now time.Time) (bool, error) {
		if d.Idempotency == nil {
			return false, nil
		}
		rec, err := d.Idempotency.Get(ctx, sid, scope, key, now)
		return err == nil && rec != nil, nil
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Session(),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))

	r.POST("/farewells", h.GenerateFarewell)
	r.GET("/status", h.GetStatus)
	r.POST("/status/probe", h.ProbeStatus)
	r.GET("/draft", h.GetDraft)
	r.PUT("/draft", h.PutDraft)
	r.PATCH("/draft", h.PatchDraft)
	r.DELETE("/draft", h.DeleteDraft)
	r.POST("/draft/publish", h.PublishDraft)
	r.GET("/pages/:id", h.GetPage)
	r.GET("/pages/:id/comments", h.ListComments)
	r.POST("/pages/:id/comments", h.CreateComment)
	r.DELETE("/pages/:id/comments/:commentId", h.DeleteComment)
	r.GET("/pages/:id/reactions", h.ReactionSummary)
	r.POST("/pages/:id/reactions", h.React)
	r.GET("/wizard", h.GetWizard)
	r.PATCH("/wizard", h.PatchWizard)
	r.POST("/wizard/next", h.NextStep)
	r.POST("/wizard/back", h.PrevStep)
	r.POST("/wizard/regenerate", h.Regenerate)
	return r
}

type call struct {
	method, path, session string
	body                  any
	headers               map[string]string
}

func do(t *testing.T, r http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := c.body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set(middleware.HeaderSessionID, c.session)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
	if er := decode[ErrorResponse](t, w); er.Code != code {
		t.Fatalf("code=%q want %q", er.Code, code)
	}
}
