// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they bind and validate input, resolve the
// caller's session, delegate to application services, and translate results
// and sentinel errors into the shared JSON envelopes.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/http/middleware"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// FarewellService generates farewell messages.
type FarewellService interface {
	Generate(ctx context.Context, sessionID string, req services.GenerationRequest) (services.Result, error)
}

// StatusService exposes the availability tracker.
type StatusService interface {
	Current(ctx context.Context) (domain.AvailabilityRecord, bool)
	IsLikelyAvailable() bool
	Probe(ctx context.Context) domain.AvailabilityRecord
}

// DraftService persists the session's exit page draft.
type DraftService interface {
	Load(ctx context.Context, sessionID string) (*domain.ExitPageDraft, error)
	Replace(ctx context.Context, sessionID string, p domain.DraftPatch) (*domain.ExitPageDraft, error)
	Patch(ctx context.Context, sessionID string, p domain.DraftPatch) (*domain.ExitPageDraft, error)
	Clear(ctx context.Context, sessionID string) error
	Publish(ctx context.Context, sessionID string) (*domain.ExitPageDraft, error)
	Page(ctx context.Context, pageID string) (*domain.ExitPageDraft, error)
}

// WizardService drives the step-by-step creation flow.
type WizardService interface {
	State(ctx context.Context, sessionID string) (services.WizardState, error)
	Update(ctx context.Context, sessionID string, p domain.DraftPatch) (services.WizardState, error)
	Next(ctx context.Context, sessionID string) (services.WizardState, error)
	Back(ctx context.Context, sessionID string) (services.WizardState, error)
	Regenerate(ctx context.Context, sessionID string) (services.WizardState, error)
}

// CommentService manages comments on published pages.
type CommentService interface {
	Create(ctx context.Context, sessionID, pageID, author, body string) (*domain.Comment, error)
	ListPage(ctx context.Context, pageID string, page, pageSize int) ([]domain.Comment, int64, error)
	Stats(ctx context.Context, pageID string) (int64, *time.Time, error)
	Delete(ctx context.Context, sessionID, pageID, commentID string) error
}

// ReactionService records reactions on published pages.
type ReactionService interface {
	React(ctx context.Context, sessionID, pageID, kind string) (*domain.Reaction, error)
	Summary(ctx context.Context, pageID string) (map[string]int64, error)
}

// IdempotencyStore records and replays results of unsafe requests.
type IdempotencyStore interface {
	Get(ctx context.Context, sessionID, scope, key string, now time.Time) (*domain.Idempotency, error)
	Create(ctx context.Context, sessionID, scope, key, result string, status int, ttl time.Duration) error
}

//
// Handler wiring
//

// Deps lists the services a Handlers instance dispatches to. Idempotency may
// be nil, in which case Idempotency-Key headers are accepted but ignored.
type Deps struct {
	Farewells   FarewellService
	Status      StatusService
	Drafts      DraftService
	Wizard      WizardService
	Comments    CommentService
	Reactions   ReactionService
	Idempotency IdempotencyStore

	// IdempotencyTTL is how long replayable results are kept; 0 means 24h.
	IdempotencyTTL time.Duration
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	farewells FarewellService
	status    StatusService
	drafts    DraftService
	wizard    WizardService
	comments  CommentService
	reactions ReactionService
	idem      IdempotencyStore
	idemTTL   time.Duration
}

// New constructs a Handlers instance bound to d.
func New(d Deps) *Handlers {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handlers{
		farewells: d.Farewells,
		status:    d.Status,
		drafts:    d.Drafts,
		wizard:    d.Wizard,
		comments:  d.Comments,
		reactions: d.Reactions,
		idem:      d.Idempotency,
		idemTTL:   ttl,
	}
}

// sessionID returns the caller's session as resolved by middleware.Session.
func sessionID(c *gin.Context) string { return middleware.SessionID(c) }

//
// DTOs shared across handlers
//

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	PageSize   int   `json:"page_size" example:"20"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int   `json:"total_pages" example:"3"`
	HasNext    bool  `json:"has_next" example:"true"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
