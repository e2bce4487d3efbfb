// Package services – WizardService
//
// WizardService drives the six-step creation flow over the session draft:
// mood → context → message → media → effects → preview. It gates each
// forward move on the fields that step needs, and asks the farewell
// generator for a message when the user reaches the message step without
// one.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// Generator is the part of FarewellService the wizard depends on.
type Generator interface {
	Generate(ctx context.Context, sessionID string, req GenerationRequest) (Result, error)
}

// WizardState is what the wizard UI renders.
type WizardState struct {
	Draft      domain.ExitPageDraft `json:"draft"`
	Step       domain.WizardStep    `json:"step"`
	Missing    []string             `json:"missing"`
	Generation *Result              `json:"generation,omitempty"`
}

// WizardService orchestrates the wizard steps.
type WizardService struct {
	Drafts    *DraftService
	Farewells Generator
	Log       zerolog.Logger

	// TitleLocale drives default title casing; zero value means English.
	TitleLocale language.Tag
}

func wizardSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return otel.Tracer("services/WizardService").Start(ctx, name,
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
}

// MissingFields lists the fields that block leaving step.
func MissingFields(d domain.ExitPageDraft, step domain.WizardStep) []string {
	missing := []string{}
	switch step {
	case domain.StepMood:
		if !d.Mood.Valid() {
			missing = append(missing, "mood")
		}
	case domain.StepContext:
		if strings.TrimSpace(d.RelationshipType) == "" {
			missing = append(missing, "relationship_type")
		}
		if strings.TrimSpace(d.ContextText) == "" {
			missing = append(missing, "context_text")
		}
		if strings.TrimSpace(d.AuthorName) == "" {
			missing = append(missing, "author_name")
		}
	case domain.StepMessage:
		if strings.TrimSpace(d.Message) == "" {
			missing = append(missing, "message")
		}
	}
	return missing
}

func (s *WizardService) load(ctx context.Context, sessionID string) (domain.ExitPageDraft, error) {
	d, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return domain.ExitPageDraft{}, err
	}
	if d == nil {
		return domain.ExitPageDraft{Step: domain.StepMood}, nil
	}
	return *d, nil
}

func stateOf(d domain.ExitPageDraft, gen *Result) WizardState {
	return WizardState{Draft: d, Step: d.Step, Missing: MissingFields(d, d.Step), Generation: gen}
}

// State returns the current draft and step.
func (s *WizardService) State(ctx context.Context, sessionID string) (WizardState, error) {
	ctx, span := wizardSpan(ctx, "State", sessionID)
	defer span.End()

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardState{}, err
	}
	return stateOf(d, nil), nil
}

// Update merge-patches the draft. Text fields are sanitized.
func (s *WizardService) Update(ctx context.Context, sessionID string, p domain.DraftPatch) (WizardState, error) {
	ctx, span := wizardSpan(ctx, "Update", sessionID)
	defer span.End()

	d, err := s.Drafts.Patch(ctx, sessionID, SanitizePatch(p))
	if err != nil {
		return WizardState{}, err
	}
	return stateOf(*d, nil), nil
}

// Next validates the current step and advances. Entering the message step
// with an empty message generates one; the returned state then carries the
// generation result so callers can surface degraded mode.
func (s *WizardService) Next(ctx context.Context, sessionID string) (WizardState, error) {
	ctx, span := wizardSpan(ctx, "Next", sessionID)
	defer span.End()

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardState{}, err
	}
	if missing := MissingFields(d, d.Step); len(missing) > 0 {
		return stateOf(d, nil), &StepError{Step: string(d.Step), Missing: missing}
	}

	idx := d.Step.Index()
	if idx+1 < len(domain.WizardSteps) {
		d.Step = domain.WizardSteps[idx+1]
	}
	span.SetAttributes(attribute.String("wizard.step", string(d.Step)))

	var gen *Result
	if d.Step == domain.StepMessage && strings.TrimSpace(d.Message) == "" {
		r, err := s.generateInto(ctx, sessionID, &d)
		if err != nil {
			return WizardState{}, err
		}
		gen = &r
	}

	saved, err := s.Drafts.Save(ctx, sessionID, d)
	if err != nil {
		return WizardState{}, err
	}
	return stateOf(*saved, gen), nil
}

// Back moves one step back, never before the first step.
func (s *WizardService) Back(ctx context.Context, sessionID string) (WizardState, error) {
	ctx, span := wizardSpan(ctx, "Back", sessionID)
	defer span.End()

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardState{}, err
	}
	if idx := d.Step.Index(); idx > 0 {
		d.Step = domain.WizardSteps[idx-1]
	}
	saved, err := s.Drafts.SetStep(ctx, sessionID, d.Step)
	if err != nil {
		return WizardState{}, err
	}
	return stateOf(*saved, nil), nil
}

// Regenerate replaces the draft message with a fresh generation. The draft
// must have passed the context step.
func (s *WizardService) Regenerate(ctx context.Context, sessionID string) (WizardState, error) {
	ctx, span := wizardSpan(ctx, "Regenerate", sessionID)
	defer span.End()

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardState{}, err
	}
	var missing []string
	missing = append(missing, MissingFields(d, domain.StepMood)...)
	missing = append(missing, MissingFields(d, domain.StepContext)...)
	if len(missing) > 0 {
		return stateOf(d, nil), &StepError{Step: string(domain.StepMessage), Missing: missing}
	}

	r, err := s.generateInto(ctx, sessionID, &d)
	if err != nil {
		return WizardState{}, err
	}
	saved, err := s.Drafts.Save(ctx, sessionID, d)
	if err != nil {
		return WizardState{}, err
	}
	return stateOf(*saved, &r), nil
}

func (s *WizardService) generateInto(ctx context.Context, sessionID string, d *domain.ExitPageDraft) (Result, error) {
	if s.Farewells == nil {
		return Result{}, errors.New("wizard: no generator configured")
	}
	if strings.TrimSpace(d.Title) == "" {
		d.Title = s.defaultTitle(d.AuthorName)
	}
	r, err := s.Farewells.Generate(ctx, sessionID, GenerationRequest{
		RequesterName:    d.AuthorName,
		RequesterContact: d.AuthorContact,
		Mood:             d.Mood,
		RelationshipType: d.RelationshipType,
		ContextText:      d.ContextText,
		PageTitle:        d.Title,
	})
	if err != nil {
		return Result{}, err
	}
	d.Message = r.Message
	if r.Degraded() {
		s.Log.Info().Str("session_id", sessionID).Msg("wizard message served from fallback template")
	}
	return r, nil
}

func (s *WizardService) defaultTitle(name string) string {
	loc := s.TitleLocale
	if loc == language.Und {
		loc = language.English
	}
	name = strings.TrimSpace(Sanitize(name))
	if name == "" {
		return cases.Title(loc).String("my exit page")
	}
	return cases.Title(loc).String(name + "'s farewell")
}

// SanitizePatch runs every text field of p through Sanitize.
func SanitizePatch(p domain.DraftPatch) domain.DraftPatch {
	str := func(v *string) *string {
		if v == nil {
			return nil
		}
		s := Sanitize(*v)
		return &s
	}
	list := func(v *[]string) *[]string {
		if v == nil {
			return nil
		}
		out := make([]string, 0, len(*v))
		for _, x := range *v {
			out = append(out, Sanitize(x))
		}
		return &out
	}
	if p.Mood != nil {
		m := domain.ParseMood(Sanitize(string(*p.Mood)))
		p.Mood = &m
	}
	p.RelationshipType = str(p.RelationshipType)
	p.ContextText = str(p.ContextText)
	p.Message = str(p.Message)
	p.Title = str(p.Title)
	p.MediaGifs = list(p.MediaGifs)
	p.AudioURL = str(p.AudioURL)
	p.SoundEffectID = str(p.SoundEffectID)
	p.VisualEffectIDs = list(p.VisualEffectIDs)
	p.AuthorName = str(p.AuthorName)
	p.AuthorContact = str(p.AuthorContact)
	return p
}
