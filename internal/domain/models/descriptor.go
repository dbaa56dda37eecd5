package models

// SizeClass buckets models by how much capability (and carbon) they bring.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// SizeClasses lists every valid size class in ascending order.
var SizeClasses = []SizeClass{SizeSmall, SizeMedium, SizeLarge}

// Valid reports whether s is a known size class.
func (s SizeClass) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Smaller returns the next size class down. The second return value is
// false when s is already the smallest class (or unknown).
func (s SizeClass) Smaller() (SizeClass, bool) {
	switch s {
	case SizeLarge:
		return SizeMedium, true
	case SizeMedium:
		return SizeSmall, true
	}
	return "", false
}

// SpeedTier describes a model's typical response latency.
type SpeedTier string

const (
	SpeedFast   SpeedTier = "fast"
	SpeedMedium SpeedTier = "medium"
	SpeedSlow   SpeedTier = "slow"
)

// Valid reports whether t is a known speed tier.
func (t SpeedTier) Valid() bool {
	switch t {
	case SpeedFast, SpeedMedium, SpeedSlow:
		return true
	}
	return false
}

// ModelDescriptor describes a single routable model. Descriptors are loaded
// from configuration at startup and never mutated afterwards; catalog order
// is significant and acts as the tie-breaker in every selection policy.
type ModelDescriptor struct {
	// Key uniquely identifies the model and is the value passed to the
	// provider (e.g. "claude-3-haiku-20240307").
	Key string `json:"key" yaml:"key"`

	// Name is the human-readable display name.
	Name string `json:"name" yaml:"name"`

	// Size is the small/medium/large capability bucket.
	Size SizeClass `json:"size" yaml:"size"`

	// Provider identifies which LLMProvider implementation serves this model.
	Provider string `json:"provider" yaml:"provider"`

	// CarbonFactor is the estimated grams of CO2 emitted per 1000 tokens.
	CarbonFactor float64 `json:"carbon_factor" yaml:"carbon_factor"`

	// Speed is the fast/medium/slow latency tier.
	Speed SpeedTier `json:"speed" yaml:"speed"`

	// Capabilities tags what the model is good at (chat, code, analysis...).
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities"`

	// WorstCase marks the single catalog entry used as the default baseline
	// when computing savings. Exactly one descriptor must carry this flag.
	WorstCase bool `json:"worst_case,omitempty" yaml:"worst_case"`
}
