package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	domainServices "github.com/greenstack/ecoswitch/internal/domain/services"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
	"github.com/greenstack/ecoswitch/internal/infrastructure/logging"
)

// mockProvider implements the LLMProvider interface for testing.
type mockProvider struct {
	name  string
	err   error
	calls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(_ context.Context, model string, _ string) (*models.ProviderResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProviderResponse{Text: "response from " + model, Tokens: 42}, nil
}

func (m *mockProvider) CheckHealth(_ context.Context) error { return m.err }

func testCatalog() []models.ModelDescriptor {
	return []models.ModelDescriptor{
		{Key: "eco-simple", Name: "Eco Simple", Size: models.SizeSmall, Provider: "local", CarbonFactor: 0.02, Speed: models.SpeedFast},
		{Key: "haiku", Name: "Claude 3 Haiku", Size: models.SizeSmall, Provider: "anthropic", CarbonFactor: 0.04, Speed: models.SpeedFast},
		{Key: "gpt-4o-mini", Name: "GPT-4o mini", Size: models.SizeMedium, Provider: "openai", CarbonFactor: 0.06, Speed: models.SpeedFast},
		{Key: "sonnet", Name: "Claude 3.5 Sonnet", Size: models.SizeMedium, Provider: "anthropic", CarbonFactor: 0.08, Speed: models.SpeedMedium},
		{Key: "gpt-4o", Name: "GPT-4o", Size: models.SizeLarge, Provider: "openai", CarbonFactor: 0.12, Speed: models.SpeedMedium},
		{Key: "opus", Name: "Claude 3 Opus", Size: models.SizeLarge, Provider: "anthropic", CarbonFactor: 0.15, Speed: models.SpeedSlow, WorstCase: true},
	}
}

func testRouterConfig() config.RouterConfig {
	return config.RouterConfig{AccuracyLargeScore: 3, AccuracyMediumScore: 1}
}

func quietLogger() *logging.StructuredLogger {
	return logging.NewStructuredLogger(io.Discard, logging.FatalLevel)
}

func newTestRouter(providers map[string]domainServices.LLMProvider) *ModelRouter {
	return NewModelRouter(testRouterConfig(), testCatalog(), providers, quietLogger())
}

func verdictWith(score int, size models.SizeClass, level models.ComplexityLevel) *models.ComplexityVerdict {
	return &models.ComplexityVerdict{Level: level, Score: score, RecommendedSize: size}
}

// TestSelectModel_Sustainability tests the lowest-carbon-in-class policy.
func TestSelectModel_Sustainability(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name     string
		size     models.SizeClass
		expected string
	}{
		{name: "small class", size: models.SizeSmall, expected: "eco-simple"},
		{name: "medium class", size: models.SizeMedium, expected: "gpt-4o-mini"},
		{name: "large class", size: models.SizeLarge, expected: "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := verdictWith(0, tt.size, models.ComplexitySimple)
			result, err := router.SelectModel(verdict, models.PreferenceSustainability)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Model.Key)
			assert.Equal(t, models.PreferenceSustainability, result.Preference)
		})
	}
}

// TestSelectModel_SustainabilityTieBreak tests that equal carbon factors
// resolve to the first catalog entry.
func TestSelectModel_SustainabilityTieBreak(t *testing.T) {
	catalog := []models.ModelDescriptor{
		{Key: "first-small", Size: models.SizeSmall, Provider: "local", CarbonFactor: 0.05, Speed: models.SpeedFast},
		{Key: "second-small", Size: models.SizeSmall, Provider: "local", CarbonFactor: 0.05, Speed: models.SpeedFast},
		{Key: "med", Size: models.SizeMedium, Provider: "local", CarbonFactor: 0.08, Speed: models.SpeedMedium},
		{Key: "big", Size: models.SizeLarge, Provider: "local", CarbonFactor: 0.15, Speed: models.SpeedSlow, WorstCase: true},
	}
	router := NewModelRouter(testRouterConfig(), catalog, nil, quietLogger())

	result, err := router.SelectModel(verdictWith(0, models.SizeSmall, models.ComplexitySimple), models.PreferenceSustainability)

	require.NoError(t, err)
	assert.Equal(t, "first-small", result.Model.Key)
}

// TestSelectModel_Speed tests the first-fast-in-class policy and its
// fallback to catalog order when no fast model exists.
func TestSelectModel_Speed(t *testing.T) {
	router := newTestRouter(nil)

	result, err := router.SelectModel(verdictWith(3, models.SizeMedium, models.ComplexityModerate), models.PreferenceSpeed)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", result.Model.Key)

	// Large class has no fast model: first of class wins.
	result, err = router.SelectModel(verdictWith(6, models.SizeLarge, models.ComplexityComplex), models.PreferenceSpeed)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", result.Model.Key)
}

// TestSelectModel_Accuracy tests that accuracy re-derives size from the raw
// score instead of the recommended class.
func TestSelectModel_Accuracy(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name     string
		score    int
		recSize  models.SizeClass
		expected string
	}{
		// Raw score >= 3 forces large even when the verdict recommends small.
		{name: "score 3 forces large", score: 3, recSize: models.SizeSmall, expected: "gpt-4o"},
		{name: "score 17 forces large", score: 17, recSize: models.SizeLarge, expected: "gpt-4o"},
		{name: "score 1 forces medium", score: 1, recSize: models.SizeSmall, expected: "gpt-4o-mini"},
		{name: "score 2 forces medium", score: 2, recSize: models.SizeMedium, expected: "gpt-4o-mini"},
		{name: "score 0 stays small", score: 0, recSize: models.SizeSmall, expected: "eco-simple"},
		{name: "negative score stays small", score: -2, recSize: models.SizeSmall, expected: "eco-simple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := verdictWith(tt.score, tt.recSize, models.ComplexitySimple)
			result, err := router.SelectModel(verdict, models.PreferenceAccuracy)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Model.Key)
		})
	}
}

// TestSelectModel_Balanced tests the default policy.
func TestSelectModel_Balanced(t *testing.T) {
	router := newTestRouter(nil)

	result, err := router.SelectModel(verdictWith(2, models.SizeMedium, models.ComplexityModerate), models.PreferenceBalanced)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", result.Model.Key)
}

// TestSelectModel_Reasoning tests that justification strings embed the
// complexity level, score and preference rationale.
func TestSelectModel_Reasoning(t *testing.T) {
	router := newTestRouter(nil)
	verdict := verdictWith(7, models.SizeLarge, models.ComplexityComplex)

	tests := []struct {
		pref     models.Preference
		contains []string
	}{
		{pref: models.PreferenceSustainability, contains: []string{"complex", "score 7", "carbon"}},
		{pref: models.PreferenceSpeed, contains: []string{"complex", "score 7", "quickest"}},
		{pref: models.PreferenceAccuracy, contains: []string{"complex", "score 7", "accuracy"}},
		{pref: models.PreferenceBalanced, contains: []string{"complex", "score 7", "default"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			result, err := router.SelectModel(verdict, tt.pref)

			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, result.Reasoning, fragment)
			}
		})
	}
}

// TestGetResponse_Success tests the happy path without any fallback.
func TestGetResponse_Success(t *testing.T) {
	openai := &mockProvider{name: "openai"}
	router := newTestRouter(map[string]domainServices.LLMProvider{"openai": openai})

	sel, err := router.SelectModel(verdictWith(6, models.SizeLarge, models.ComplexityComplex), models.PreferenceSustainability)
	require.NoError(t, err)

	resp, used, err := router.GetResponse(context.Background(), sel, "big question")

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", used.Key)
	assert.Equal(t, "response from gpt-4o", resp.Text)
	assert.Equal(t, 42, resp.Tokens)
	assert.Equal(t, 1, openai.calls)
}

// TestGetResponse_FallbackSucceeds tests the single downgrade hop:
// large fails, the first medium model answers.
func TestGetResponse_FallbackSucceeds(t *testing.T) {
	failing := &mockProvider{name: "anthropic", err: errors.New("quota exceeded")}
	openai := &mockProvider{name: "openai"}
	router := newTestRouter(map[string]domainServices.LLMProvider{
		"anthropic": failing,
		"openai":    openai,
	})

	sel := &models.SelectionResult{
		Model:      testCatalog()[5], // opus, large, anthropic
		Preference: models.PreferenceBalanced,
	}

	resp, used, err := router.GetResponse(context.Background(), sel, "question")

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", used.Key)
	assert.Equal(t, "response from gpt-4o-mini", resp.Text)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, openai.calls)
}

// TestGetResponse_ExactlyOneHop tests that when both the large choice and
// the medium fallback fail, no small-class attempt is made.
func TestGetResponse_ExactlyOneHop(t *testing.T) {
	openai := &mockProvider{name: "openai", err: errors.New("timeout")}
	local := &mockProvider{name: "local"}
	anthropic := &mockProvider{name: "anthropic"}
	router := newTestRouter(map[string]domainServices.LLMProvider{
		"openai":    openai,
		"local":     local,
		"anthropic": anthropic,
	})

	sel := &models.SelectionResult{
		Model:      testCatalog()[4], // gpt-4o, large, openai
		Preference: models.PreferenceBalanced,
	}

	_, _, err := router.GetResponse(context.Background(), sel, "question")

	require.Error(t, err)
	var routingErr *models.RoutingError
	require.ErrorAs(t, err, &routingErr)
	// gpt-4o failed, then gpt-4o-mini (same failing provider); small untouched.
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, routingErr.Attempted)
	assert.Equal(t, 2, openai.calls)
	assert.Equal(t, 0, local.calls)
	assert.Equal(t, 0, anthropic.calls)
}

// TestGetResponse_SmallHasNoFallback tests that a failing small-class call
// propagates without any retry.
func TestGetResponse_SmallHasNoFallback(t *testing.T) {
	local := &mockProvider{name: "local", err: errors.New("broken")}
	router := newTestRouter(map[string]domainServices.LLMProvider{"local": local})

	sel := &models.SelectionResult{
		Model:      testCatalog()[0], // eco-simple, small, local
		Preference: models.PreferenceSustainability,
	}

	_, _, err := router.GetResponse(context.Background(), sel, "question")

	require.Error(t, err)
	var routingErr *models.RoutingError
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, []string{"eco-simple"}, routingErr.Attempted)
	assert.Equal(t, 1, local.calls)
}

// TestGetResponse_UnknownProvider tests dispatch against a provider missing
// from the registry.
func TestGetResponse_UnknownProvider(t *testing.T) {
	router := newTestRouter(map[string]domainServices.LLMProvider{})

	sel := &models.SelectionResult{Model: testCatalog()[0]}

	_, _, err := router.GetResponse(context.Background(), sel, "question")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrProviderNotFound)
}

// TestSelectModel_ScenarioPhotosynthesis tests the end-to-end selection for
// a simple factual query with the sustainability preference.
func TestSelectModel_ScenarioPhotosynthesis(t *testing.T) {
	cfg := config.Config{}
	cfg.SetDefaults()
	classifier := NewClassifier(cfg.Classifier)
	router := newTestRouter(nil)

	verdict := classifier.Classify("What is photosynthesis?")
	require.Equal(t, models.ComplexitySimple, verdict.Level)
	require.Equal(t, models.SizeSmall, verdict.RecommendedSize)

	result, err := router.SelectModel(verdict, models.PreferenceSustainability)

	require.NoError(t, err)
	// Lowest carbon factor in the small class.
	assert.Equal(t, "eco-simple", result.Model.Key)
}

// TestSelectModel_ScenarioAccuracyForcesLarge tests the accuracy-preference
// scenario on a technical query.
func TestSelectModel_ScenarioAccuracyForcesLarge(t *testing.T) {
	cfg := config.Config{}
	cfg.SetDefaults()
	classifier := NewClassifier(cfg.Classifier)
	router := newTestRouter(nil)

	verdict := classifier.Classify("Write a function to optimize database queries, analyze trade-offs, and compare two algorithms")
	require.GreaterOrEqual(t, verdict.Score, 3)

	result, err := router.SelectModel(verdict, models.PreferenceAccuracy)

	require.NoError(t, err)
	assert.Equal(t, models.SizeLarge, result.Model.Size)
}
