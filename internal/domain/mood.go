package domain

import "strings"

// Mood is the emotional tone chosen for a farewell. It drives both text
// generation and the presentation effects of the published page.
type Mood string

const (
	MoodHeartfelt Mood = "heartfelt"
	MoodRage      Mood = "rage"
	MoodFunny     Mood = "funny"
	MoodSad       Mood = "sad"
	MoodCalm      Mood = "calm"
	MoodRobotic   Mood = "robotic"
)

// Moods is the ordered set of known moods.
var Moods = []Mood{MoodHeartfelt, MoodRage, MoodFunny, MoodSad, MoodCalm, MoodRobotic}

// ParseMood lower-cases and trims s. The result may still be unknown; use
// Valid to check.
func ParseMood(s string) Mood {
	return Mood(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether m is one of Moods.
func (m Mood) Valid() bool {
	for _, k := range Moods {
		if k == m {
			return true
		}
	}
	return false
}
