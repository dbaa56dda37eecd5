package models

// Equivalents expresses a CO2 mass as everyday activities, for user-facing
// intuition. All figures are derived from the same gram value.
type Equivalents struct {
	CarMiles     float64 `json:"car_miles"`
	PhoneCharges int64   `json:"phone_charges"`
	Searches     int64   `json:"searches"`
	Emails       int64   `json:"emails"`
	TreeHours    float64 `json:"tree_hours"`
}

// CarbonImpact is the accountant's estimate for one provider response.
type CarbonImpact struct {
	// Tokens is the token count the estimate was computed from.
	Tokens int `json:"tokens"`

	// CarbonFactor is the grams-per-1000-tokens factor that was applied.
	CarbonFactor float64 `json:"carbon_factor"`

	// TotalGrams is (Tokens/1000)*CarbonFactor, rounded to 3 decimals.
	TotalGrams float64 `json:"total_grams"`

	// Equivalents translates TotalGrams into everyday activities.
	Equivalents Equivalents `json:"equivalents"`

	// Model is the key of the model the estimate was computed against.
	Model string `json:"model"`
}

// CarbonSavings compares an actual impact against a baseline model.
// SavedGrams can be negative when the actual model emits more than the
// baseline; values are reported as-is, never clamped.
type CarbonSavings struct {
	BaselineModel string      `json:"baseline_model"`
	SavedGrams    float64     `json:"saved_grams"`
	SavedPercent  float64     `json:"saved_percent"`
	Equivalents   Equivalents `json:"equivalents"`
}

// UsageRecord is one completed query's accounting output. The core never
// stores these; retaining a history is entirely the caller's concern.
type UsageRecord struct {
	Impact  CarbonImpact  `json:"impact"`
	Savings CarbonSavings `json:"savings"`
}

// UsageSummary aggregates a sequence of past usage records.
type UsageSummary struct {
	Queries           int            `json:"queries"`
	TotalTokens       int            `json:"total_tokens"`
	TotalGrams        float64        `json:"total_grams"`
	TotalSavedGrams   float64        `json:"total_saved_grams"`
	MeanGramsPerQuery float64        `json:"mean_grams_per_query"`
	ModelCounts       map[string]int `json:"model_counts"`
}
