// Package services – FarewellService
//
// FarewellService turns a GenerationRequest into farewell text. The flow is:
// sanitize, validate, consult the session cache, fast-fail when the tracker
// says the backend is down, call the backend with a per-attempt timeout and
// exponential backoff, and finally fall back to the local template for the
// mood. Apart from validation it never fails: every other path resolves to a
// non-empty message tagged with how it was produced.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/farewellapi"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
	"github.com/tbourn/go-exitpage-backend/internal/templates"
)

const (
	// GenerationTimeout bounds each backend call.
	GenerationTimeout = 10 * time.Second
	// MaxGenerationRetries is the number of retries after the first attempt.
	MaxGenerationRetries = 2
	// BaseBackoff is the delay before the first retry; it doubles after.
	BaseBackoff = time.Second

	// Instructions is sent verbatim with every prompt.
	Instructions = "You are writing a farewell message on behalf of the person who is leaving. " +
		"Respond only with the farewell text itself, written in the first person. " +
		"Do not add a preamble, a title, quotation marks or any explanation."
)

// Outcome tells how a farewell message was produced.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeCached    Outcome = "cached"
	OutcomeFallback  Outcome = "fallback"
)

// Result is the tagged outcome of a generation. Attempts counts backend
// calls made for this result.
type Result struct {
	Message  string  `json:"message"`
	Outcome  Outcome `json:"outcome"`
	Attempts int     `json:"attempts"`
}

// Degraded reports whether the message came from the local templates.
func (r Result) Degraded() bool { return r.Outcome == OutcomeFallback }

// GenerationRequest carries the inputs of a farewell.
type GenerationRequest struct {
	RequesterName    string      `json:"requester_name"`
	RequesterContact string      `json:"requester_contact"`
	Mood             domain.Mood `json:"mood"`
	RelationshipType string      `json:"relationship_type"`
	ContextText      string      `json:"context_text"`
	PageTitle        string      `json:"page_title"`
}

// Sanitized returns a copy with every text field passed through Sanitize and
// the mood normalized.
func (r GenerationRequest) Sanitized() GenerationRequest {
	return GenerationRequest{
		RequesterName:    Sanitize(r.RequesterName),
		RequesterContact: Sanitize(r.RequesterContact),
		Mood:             domain.ParseMood(Sanitize(string(r.Mood))),
		RelationshipType: Sanitize(r.RelationshipType),
		ContextText:      Sanitize(r.ContextText),
		PageTitle:        Sanitize(r.PageTitle),
	}
}

// Validate checks required fields. Unknown moods are accepted; they are
// served by the generic template when the backend is unavailable.
func (r GenerationRequest) Validate() error {
	if r.RequesterName == "" {
		return fmt.Errorf("%w: requester_name is required", ErrInvalidRequest)
	}
	if r.Mood == "" {
		return fmt.Errorf("%w: mood is required", ErrInvalidRequest)
	}
	return nil
}

// Availability is the part of AvailabilityTracker the generator relies on.
type Availability interface {
	IsLikelyAvailable() bool
	RecordSuccess(ctx context.Context) domain.AvailabilityRecord
	RecordFailure(ctx context.Context, cause error) domain.AvailabilityRecord
}

// Backoff returns the delay before retry n (1-based): 1s, 2s, 4s...
func Backoff(n int) time.Duration {
	if n < 1 {
		return 0
	}
	return BaseBackoff << (n - 1)
}

// FarewellService generates farewell messages. Sessions provides the
// per-session cache namespace and may be nil to disable caching.
type FarewellService struct {
	Backend   farewellapi.Backend
	Tracker   Availability
	Sessions  repo.Namespaced
	Templates *templates.Library
	Clock     Clock
	Log       zerolog.Logger

	// Timeout overrides GenerationTimeout when > 0.
	Timeout time.Duration
}

// Generate produces a farewell for sessionID. The only error it returns is
// ErrInvalidRequest.
func (s *FarewellService) Generate(ctx context.Context, sessionID string, in GenerationRequest) (Result, error) {
	tr := otel.Tracer("services/FarewellService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("farewell.mood", string(in.Mood)),
		),
	)
	defer span.End()

	req := in.Sanitized()
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	cache := s.cacheFor(sessionID)
	key := CacheKey(req.RequesterName, req.Mood, req.RelationshipType, req.ContextText)
	if msg, ok := cache.Get(ctx, key); ok {
		return s.finish(span, Result{Message: msg, Outcome: OutcomeCached}), nil
	}

	if s.Tracker != nil && !s.Tracker.IsLikelyAvailable() {
		s.Log.Debug().Str("session_id", sessionID).Msg("generator unavailable, serving fallback")
		return s.finish(span, s.fallback(req, 0)), nil
	}

	var lastErr error
	attempts := 0
	for attempts <= MaxGenerationRetries {
		if attempts > 0 {
			if err := s.clock().Sleep(ctx, Backoff(attempts)); err != nil {
				lastErr = err
				break
			}
		}
		attempts++

		msg, err := s.attempt(ctx, BuildPayload(req, s.library()))
		if err == nil {
			backendAttemptsTotal.WithLabelValues("ok").Inc()
			cache.Put(ctx, key, msg)
			if s.Tracker != nil {
				s.Tracker.RecordSuccess(ctx)
			}
			return s.finish(span, Result{Message: msg, Outcome: OutcomeGenerated, Attempts: attempts}), nil
		}
		backendAttemptsTotal.WithLabelValues("error").Inc()
		lastErr = err
		s.Log.Warn().Err(err).Int("attempt", attempts).Str("session_id", sessionID).Msg("farewell generation attempt failed")

		if ctx.Err() != nil {
			break
		}
	}

	// A cancelled caller says nothing about the backend.
	if s.Tracker != nil && ctx.Err() == nil {
		s.Tracker.RecordFailure(ctx, lastErr)
	}
	return s.finish(span, s.fallback(req, attempts)), nil
}

func (s *FarewellService) attempt(ctx context.Context, p farewellapi.Payload) (string, error) {
	if s.Backend == nil {
		return "", fmt.Errorf("no backend configured")
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = GenerationTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := s.Backend.Generate(actx, p)
	if err != nil {
		return "", err
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", farewellapi.ErrUnsuccessful
	}
	return msg, nil
}

func (s *FarewellService) fallback(req GenerationRequest, attempts int) Result {
	return Result{
		Message:  s.library().Render(req.Mood, req.RequesterName),
		Outcome:  OutcomeFallback,
		Attempts: attempts,
	}
}

func (s *FarewellService) finish(span trace.Span, r Result) Result {
	generationsTotal.WithLabelValues(string(r.Outcome)).Inc()
	span.SetAttributes(
		attribute.String("farewell.outcome", string(r.Outcome)),
		attribute.Int("farewell.attempts", r.Attempts),
	)
	return r
}

func (s *FarewellService) cacheFor(sessionID string) *MessageCache {
	if s.Sessions == nil || strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return &MessageCache{Store: s.Sessions.Scope(sessionID), Log: s.Log}
}

func (s *FarewellService) library() *templates.Library {
	if s.Templates != nil {
		return s.Templates
	}
	return templates.Default()
}

func (s *FarewellService) clock() Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return SystemClock()
}

// BuildPayload renders the prompt for req. Blank optional fields are left out.
func BuildPayload(req GenerationRequest, lib *templates.Library) farewellapi.Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a farewell message from %s", req.RequesterName)
	if req.RequesterContact != "" {
		fmt.Fprintf(&b, " (contact: %s)", req.RequesterContact)
	}
	fmt.Fprintf(&b, ", who is leaving and feels %s.", lib.Phrase(req.Mood))
	if req.RelationshipType != "" {
		fmt.Fprintf(&b, " They are saying goodbye to their %s.", req.RelationshipType)
	}
	if req.ContextText != "" {
		fmt.Fprintf(&b, " Context: %s.", req.ContextText)
	}
	if req.PageTitle != "" {
		fmt.Fprintf(&b, " The page is titled %q.", req.PageTitle)
	}
	return farewellapi.Payload{Prompt: b.String(), Instructions: Instructions}
}
