package models

// ComplexityLevel is the classifier's judgement of how hard a query is.
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
)

// ComplexityVerdict is the classifier's output for a single query. One is
// produced per request and never mutated afterwards.
type ComplexityVerdict struct {
	// Level is the simple/moderate/complex judgement.
	Level ComplexityLevel `json:"level"`

	// Score is the raw composite score. It can be negative when a query
	// matches many simple keywords.
	Score int `json:"score"`

	// RecommendedSize is the size class derived from Score thresholds.
	RecommendedSize SizeClass `json:"recommended_size"`

	// Description is a human-readable explanation of the verdict.
	Description string `json:"description"`

	// Diagnostics records how the score was assembled. It is kept for
	// transparency and debugging only; no downstream decision reads it.
	Diagnostics ComplexityDiagnostics `json:"diagnostics"`
}

// ComplexityDiagnostics is the per-signal breakdown behind a verdict.
type ComplexityDiagnostics struct {
	EstimatedTokens     int     `json:"estimated_tokens"`
	ComplexKeywords     int     `json:"complex_keywords"`
	SimpleKeywords      int     `json:"simple_keywords"`
	Sentences           int     `json:"sentences"`
	Words               int     `json:"words"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	MultipleQuestions   bool    `json:"multiple_questions"`
	HasConditionals     bool    `json:"has_conditionals"`
	HasComparisons      bool    `json:"has_comparisons"`
}
