// Package services – DraftService
//
// DraftService keeps the single exit-page draft of each session in the
// durable key-value store under DraftKey. Saving overwrites; there is no
// history. Corrupt stored JSON is logged and reported as "no draft" so the
// wizard can start over instead of failing.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

// DraftKey is the storage key of the per-session draft.
const DraftKey = "exitPageData"

// DraftService implements the draft store.
type DraftService struct {
	Store repo.Namespaced
	Clock Clock
	Log   zerolog.Logger
}

func (s *DraftService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now().UTC()
}

func draftSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return otel.Tracer("services/DraftService").Start(ctx, name,
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
}

// Save stores d as the session's draft, assigning CreatedAt when absent and
// stamping UpdatedAt. It returns the stored value.
func (s *DraftService) Save(ctx context.Context, sessionID string, d domain.ExitPageDraft) (*domain.ExitPageDraft, error) {
	ctx, span := draftSpan(ctx, "Save", sessionID)
	defer span.End()

	now := s.now()
	if d.CreatedAt == nil {
		d.CreatedAt = &now
	}
	d.UpdatedAt = &now
	d.Normalize()

	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Scope(sessionID).Set(ctx, DraftKey, string(b)); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return &d, nil
}

// Load returns the session's draft, or (nil, nil) when there is none or the
// stored value is corrupt.
func (s *DraftService) Load(ctx context.Context, sessionID string) (*domain.ExitPageDraft, error) {
	ctx, span := draftSpan(ctx, "Load", sessionID)
	defer span.End()

	raw, ok, err := s.Store.Scope(sessionID).Get(ctx, DraftKey)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var d domain.ExitPageDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.Log.Warn().Err(err).Str("session_id", sessionID).Msg("discarding corrupt draft")
		return nil, nil
	}
	d.Normalize()
	return &d, nil
}

// Clear removes the session's draft.
func (s *DraftService) Clear(ctx context.Context, sessionID string) error {
	ctx, span := draftSpan(ctx, "Clear", sessionID)
	defer span.End()
	return s.Store.Scope(sessionID).Delete(ctx, DraftKey)
}

// Patch merges p into the stored draft, starting from an empty draft when
// none exists. CreatedAt is preserved.
func (s *DraftService) Patch(ctx context.Context, sessionID string, p domain.DraftPatch) (*domain.ExitPageDraft, error) {
	d, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &domain.ExitPageDraft{}
	}
	d.Apply(p)
	return s.Save(ctx, sessionID, *d)
}

// Replace overwrites the draft with the fields of p, keeping only the
// original CreatedAt and the current wizard step.
func (s *DraftService) Replace(ctx context.Context, sessionID string, p domain.DraftPatch) (*domain.ExitPageDraft, error) {
	prev, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var d domain.ExitPageDraft
	if prev != nil {
		d.CreatedAt = prev.CreatedAt
		d.Step = prev.Step
	}
	d.Apply(p)
	return s.Save(ctx, sessionID, d)
}

// SetStep persists a new wizard step on the stored draft.
func (s *DraftService) SetStep(ctx context.Context, sessionID string, step domain.WizardStep) (*domain.ExitPageDraft, error) {
	d, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &domain.ExitPageDraft{}
	}
	d.Step = step
	return s.Save(ctx, sessionID, *d)
}

// Publish stamps PublishedAt and moves the draft to the preview step.
func (s *DraftService) Publish(ctx context.Context, sessionID string) (*domain.ExitPageDraft, error) {
	d, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDraftNotFound
	}
	now := s.now()
	d.PublishedAt = &now
	d.Step = domain.StepPreview
	return s.Save(ctx, sessionID, *d)
}

// Page returns the published draft of pageID (the owning session id).
func (s *DraftService) Page(ctx context.Context, pageID string) (*domain.ExitPageDraft, error) {
	d, err := s.Load(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.PublishedAt == nil {
		return nil, ErrPageNotFound
	}
	return d, nil
}
