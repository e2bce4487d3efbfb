// Package templates holds the local farewell library: the human-readable
// phrase for each mood (used when prompting a remote model) and the
// deterministic fallback message served when no model answers.
//
// Both are plain lookup tables keyed by domain.Mood, so adding a mood is a
// data change. A Markdown file can override any entry at startup.
package templates

import (
	"strings"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// NamePlaceholder is replaced with the requester's name when rendering.
const NamePlaceholder = "{name}"

// DefaultKey names the generic template in override files.
const DefaultKey = "default"

var defaultPhrases = map[domain.Mood]string{
	domain.MoodHeartfelt: "grateful and heartfelt",
	domain.MoodRage:      "angry and frustrated",
	domain.MoodFunny:     "funny and lighthearted",
	domain.MoodSad:       "sad and nostalgic",
	domain.MoodCalm:      "calm and at peace",
	domain.MoodRobotic:   "detached and robotic",
}

var defaultBodies = map[domain.Mood]string{
	domain.MoodHeartfelt: "After everything we shared, it is time for me to move on. " +
		"Thank you for the laughs, the lessons and the kindness along the way. " +
		"I will carry all of it with me. With love, {name}",
	domain.MoodRage: "I am done. I gave this everything and got frustration in return. " +
		"This is me walking out the door and not looking back. {name}",
	domain.MoodFunny: "Plot twist: I'm leaving! Please return my stapler, forget my " +
		"worst jokes and remember my best ones. Stay weird. {name}",
	domain.MoodSad: "It's hard to write this. Some chapters end before we are ready, " +
		"and this is one of them. I'll miss you more than I can say. {name}",
	domain.MoodCalm: "The time has come for something new. I leave with a quiet mind " +
		"and good memories, and I wish you all the best. Take care. {name}",
	domain.MoodRobotic: "NOTICE: UNIT {name} IS TERMINATING THIS ASSIGNMENT. " +
		"ALL TASKS COMPLETED. FAREWELL PROTOCOL EXECUTED. END OF TRANSMISSION.",
}

const defaultGeneric = "This is goodbye. Thank you for being part of the journey. " +
	"I wish you all the best for what comes next. {name}"

// Library is an immutable set of phrases and fallback templates.
type Library struct {
	phrases map[domain.Mood]string
	bodies  map[domain.Mood]string
	generic string
}

// Default returns the built-in library.
func Default() *Library {
	return &Library{
		phrases: clone(defaultPhrases),
		bodies:  clone(defaultBodies),
		generic: defaultGeneric,
	}
}

// Phrase returns the descriptive phrase for m. Unknown moods are described by
// their raw name, or "mixed" when blank.
func (l *Library) Phrase(m domain.Mood) string {
	if p, ok := l.phrases[m]; ok {
		return p
	}
	if s := strings.TrimSpace(string(m)); s != "" {
		return s
	}
	return "mixed"
}

// Has reports whether m has its own template.
func (l *Library) Has(m domain.Mood) bool {
	_, ok := l.bodies[m]
	return ok
}

// Render returns the fallback message for m with name interpolated. Moods
// without a template use the generic one, so the result is never empty.
func (l *Library) Render(m domain.Mood, name string) string {
	body, ok := l.bodies[m]
	if !ok || strings.TrimSpace(body) == "" {
		body = l.generic
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Me"
	}
	return strings.ReplaceAll(body, NamePlaceholder, name)
}

func clone[V any](m map[domain.Mood]V) map[domain.Mood]V {
	out := make(map[domain.Mood]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
