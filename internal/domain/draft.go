package domain

import (
	"sort"
	"strings"
	"time"
)

// WizardStep names a page of the creation wizard, in order.
type WizardStep string

const (
	StepMood    WizardStep = "mood"
	StepContext WizardStep = "context"
	StepMessage WizardStep = "message"
	StepMedia   WizardStep = "media"
	StepEffects WizardStep = "effects"
	StepPreview WizardStep = "preview"
)

// WizardSteps is the fixed step sequence.
var WizardSteps = []WizardStep{StepMood, StepContext, StepMessage, StepMedia, StepEffects, StepPreview}

// Index returns the position of s in WizardSteps, or 0 for unknown steps.
func (s WizardStep) Index() int {
	for i, v := range WizardSteps {
		if v == s {
			return i
		}
	}
	return 0
}

// ExitPageDraft is the in-progress (or published) exit page. It is owned by a
// single session and stored as one JSON document.
//
// CreatedAt is assigned on first persistence and never overwritten by patches.
type ExitPageDraft struct {
	Mood             Mood       `json:"mood"`
	RelationshipType string     `json:"relationship_type"`
	ContextText      string     `json:"context_text"`
	Message          string     `json:"message"`
	Title            string     `json:"title"`
	MediaGifs        []string   `json:"media_gifs"`
	AudioURL         *string    `json:"audio_url,omitempty"`
	SoundEffectID    *string    `json:"sound_effect_id,omitempty"`
	VisualEffectIDs  []string   `json:"visual_effect_ids"`
	AuthorName       string     `json:"author_name"`
	AuthorContact    string     `json:"author_contact"`
	Step             WizardStep `json:"step"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

// DraftPatch is a partial update of an ExitPageDraft. Nil fields are left
// untouched. For the optional AudioURL and SoundEffectID an empty string
// clears the stored value.
type DraftPatch struct {
	Mood             *Mood     `json:"mood,omitempty"`
	RelationshipType *string   `json:"relationship_type,omitempty"`
	ContextText      *string   `json:"context_text,omitempty"`
	Message          *string   `json:"message,omitempty"`
	Title            *string   `json:"title,omitempty"`
	MediaGifs        *[]string `json:"media_gifs,omitempty"`
	AudioURL         *string   `json:"audio_url,omitempty"`
	SoundEffectID    *string   `json:"sound_effect_id,omitempty"`
	VisualEffectIDs  *[]string `json:"visual_effect_ids,omitempty"`
	AuthorName       *string   `json:"author_name,omitempty"`
	AuthorContact    *string   `json:"author_contact,omitempty"`
}

// Apply merges p into d.
func (d *ExitPageDraft) Apply(p DraftPatch) {
	if p.Mood != nil {
		d.Mood = *p.Mood
	}
	if p.RelationshipType != nil {
		d.RelationshipType = *p.RelationshipType
	}
	if p.ContextText != nil {
		d.ContextText = *p.ContextText
	}
	if p.Message != nil {
		d.Message = *p.Message
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.MediaGifs != nil {
		d.MediaGifs = append([]string(nil), (*p.MediaGifs)...)
	}
	if p.AudioURL != nil {
		d.AudioURL = optional(*p.AudioURL)
	}
	if p.SoundEffectID != nil {
		d.SoundEffectID = optional(*p.SoundEffectID)
	}
	if p.VisualEffectIDs != nil {
		d.VisualEffectIDs = append([]string(nil), (*p.VisualEffectIDs)...)
	}
	if p.AuthorName != nil {
		d.AuthorName = *p.AuthorName
	}
	if p.AuthorContact != nil {
		d.AuthorContact = *p.AuthorContact
	}
}

// Normalize fixes up collection fields: media keeps its order minus blanks,
// visual effects become a sorted set, and an empty step resets to the first.
func (d *ExitPageDraft) Normalize() {
	gifs := make([]string, 0, len(d.MediaGifs))
	for _, g := range d.MediaGifs {
		if g = strings.TrimSpace(g); g != "" {
			gifs = append(gifs, g)
		}
	}
	d.MediaGifs = gifs

	seen := make(map[string]struct{}, len(d.VisualEffectIDs))
	fx := make([]string, 0, len(d.VisualEffectIDs))
	for _, id := range d.VisualEffectIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		fx = append(fx, id)
	}
	sort.Strings(fx)
	d.VisualEffectIDs = fx

	if d.Step == "" {
		d.Step = StepMood
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
