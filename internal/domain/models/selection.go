package models

import "strings"

// Preference is the user-stated routing priority.
type Preference string

const (
	PreferenceSustainability Preference = "sustainability"
	PreferenceSpeed          Preference = "speed"
	PreferenceAccuracy       Preference = "accuracy"

	// PreferenceBalanced is the default when no (or an unknown) preference
	// is supplied: first descriptor of the recommended size class.
	PreferenceBalanced Preference = "balanced"
)

// ParsePreference normalizes a user-supplied preference string. Unknown
// values fall back to the balanced default rather than failing.
func ParsePreference(s string) Preference {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferenceSustainability:
		return PreferenceSustainability
	case PreferenceSpeed:
		return PreferenceSpeed
	case PreferenceAccuracy:
		return PreferenceAccuracy
	}
	return PreferenceBalanced
}

// SelectionResult is the router's decision for a single query. It is created
// once, consumed immediately and never cached or mutated.
type SelectionResult struct {
	// Model is the chosen catalog descriptor.
	Model ModelDescriptor `json:"model"`

	// Reasoning is a deterministic human-readable justification embedding
	// the complexity level, score and the active preference's rationale.
	Reasoning string `json:"reasoning"`

	// Verdict is the classifier output the selection was based on.
	Verdict ComplexityVerdict `json:"verdict"`

	// Preference is the routing priority that drove the policy.
	Preference Preference `json:"preference"`
}
