// Package proof defines the closed set of proof types and the prompt each
// one puts to the verification oracle.
package proof

// Type identifies what kind of evidence a challenge expects.
type Type string

const (
	TypeStrava     Type = "strava"
	TypeGym        Type = "gym"
	TypeFood       Type = "food"
	TypeStudy      Type = "study"
	TypeMeditation Type = "meditation"
	TypeWater      Type = "water"
	TypeReading    Type = "reading"
	TypeAny        Type = "any"
)

var prompts = map[Type]string{
	TypeStrava:     "Does this image show a Strava activity screenshot with a completed workout (run, ride, swim or similar)? Look for distance, time or pace stats.",
	TypeGym:        "Does this image show evidence of a gym workout? Accept gym interiors, workout equipment in use, post-workout selfies or fitness tracker summaries.",
	TypeFood:       "Does this image show a home-cooked or healthy meal? Reject restaurant menus, packaged junk food and empty plates.",
	TypeStudy:      "Does this image show evidence of studying? Accept open books, notes, flashcards or an active learning app session.",
	TypeMeditation: "Does this image show evidence of a completed meditation session? Accept meditation app completion screens and timer summaries.",
	TypeWater:      "Does this image show evidence of water intake, such as a water bottle, a glass of water or a hydration tracker?",
	TypeReading:    "Does this image show evidence of reading, such as an open book, an e-reader page or a reading app progress screen?",
	TypeAny:        "Does this image plausibly show evidence of the described activity being completed today?",
}

// Normalize maps arbitrary input to a known proof type, falling back to
// TypeAny for unknown values.
func Normalize(s string) Type {
	t := Type(s)
	if _, ok := prompts[t]; ok {
		return t
	}
	return TypeAny
}

// Prompt returns the oracle prompt for the proof type. Unknown types get the
// generic prompt.
func Prompt(t Type) string {
	if p, ok := prompts[t]; ok {
		return p
	}
	return prompts[TypeAny]
}

// Types lists all known proof types.
func Types() []Type {
	return []Type{
		TypeStrava, TypeGym, TypeFood, TypeStudy,
		TypeMeditation, TypeWater, TypeReading, TypeAny,
	}
}
