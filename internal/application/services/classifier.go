package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
)

// Classifier scores free-text queries with a deterministic, purely lexical
// algorithm. No external calls, no shared mutable state: concurrent
// invocations are safe without locking.
//
// The keyword lists and thresholds come from configuration so the policy can
// be tuned without touching the scoring logic.
type Classifier struct {
	cfg config.ClassifierConfig

	conditionalRe *regexp.Regexp
	comparisonRe  *regexp.Regexp
	sentenceRe    *regexp.Regexp
}

// NewClassifier creates a classifier from static configuration.
func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		cfg:           cfg,
		conditionalRe: regexp.MustCompile(`(?i)\b(if|when|unless|provided|assuming)\b`),
		comparisonRe:  regexp.MustCompile(`(?i)\b(compare|versus|vs|against|better|worse)\b`),
		sentenceRe:    regexp.MustCompile(`[.!?]+`),
	}
}

// Classify scores a query and returns a verdict. It never fails: empty or
// whitespace-only input yields the lowest-complexity verdict.
func (c *Classifier) Classify(query string) *models.ComplexityVerdict {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &models.ComplexityVerdict{
			Level:           models.ComplexitySimple,
			Score:           0,
			RecommendedSize: models.SizeSmall,
			Description:     "empty query, defaulting to the simplest model",
		}
	}

	lower := strings.ToLower(trimmed)
	diag := models.ComplexityDiagnostics{
		EstimatedTokens: c.estimateTokens(trimmed),
		ComplexKeywords: countKeywords(lower, c.cfg.ComplexKeywords),
		SimpleKeywords:  countKeywords(lower, c.cfg.SimpleKeywords),
	}

	// Structural signals
	sentences := c.splitSentences(trimmed)
	words := strings.Fields(trimmed)
	diag.Sentences = len(sentences)
	diag.Words = len(words)
	if len(sentences) > 0 {
		diag.AvgWordsPerSentence = float64(len(words)) / float64(len(sentences))
	}
	diag.MultipleQuestions = strings.Count(trimmed, "?") >= 2
	diag.HasConditionals = c.conditionalRe.MatchString(trimmed)
	diag.HasComparisons = c.comparisonRe.MatchString(trimmed)

	score := c.score(diag)
	level, size := c.grade(score)

	return &models.ComplexityVerdict{
		Level:           level,
		Score:           score,
		RecommendedSize: size,
		Description:     c.describe(level, score, diag),
		Diagnostics:     diag,
	}
}

// score assembles the composite score from the diagnostic signals.
func (c *Classifier) score(d models.ComplexityDiagnostics) int {
	score := 0

	// Longer queries need more model
	switch {
	case d.EstimatedTokens > c.cfg.LongQueryTokens:
		score += 3
	case d.EstimatedTokens > c.cfg.MediumQueryTokens:
		score += 2
	default:
		score++
	}

	score += 2 * d.ComplexKeywords
	score -= d.SimpleKeywords

	if d.MultipleQuestions {
		score += 2
	}
	if d.HasConditionals {
		score++
	}
	if d.HasComparisons {
		score += 2
	}
	if d.Sentences > 3 {
		score++
	}
	if d.AvgWordsPerSentence > 15 {
		score++
	}

	return score
}

// grade maps a composite score onto a level and a recommended size class.
func (c *Classifier) grade(score int) (models.ComplexityLevel, models.SizeClass) {
	switch {
	case score >= c.cfg.ComplexScore:
		return models.ComplexityComplex, models.SizeLarge
	case score >= c.cfg.ModerateScore:
		return models.ComplexityModerate, models.SizeMedium
	}
	return models.ComplexitySimple, models.SizeSmall
}

// estimateTokens approximates the token count from character length.
func (c *Classifier) estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / float64(c.cfg.TokenDivisor)))
}

// splitSentences splits on sentence terminators and drops empty fragments.
func (c *Classifier) splitSentences(text string) []string {
	parts := c.sentenceRe.Split(text, -1)
	sentences := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// describe renders the deterministic human-readable verdict summary.
func (c *Classifier) describe(level models.ComplexityLevel, score int, d models.ComplexityDiagnostics) string {
	return fmt.Sprintf("%s query (score %d): ~%d tokens, %d complex / %d simple keyword matches, %d sentences",
		level, score, d.EstimatedTokens, d.ComplexKeywords, d.SimpleKeywords, d.Sentences)
}

// countKeywords counts how many entries of the list appear in the lowercased
// query. Each list entry contributes at most once, regardless of how many
// positions it matches at.
func countKeywords(lower string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}
