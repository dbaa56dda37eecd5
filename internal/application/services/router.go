package services

import (
	"context"
	"fmt"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	domainServices "github.com/greenstack/ecoswitch/internal/domain/services"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
	"github.com/greenstack/ecoswitch/internal/infrastructure/logging"
)

// ModelRouter maps a complexity verdict and a user preference onto a concrete
// catalog model, dispatches the query to the model's provider and applies the
// single-hop downgrade policy when a provider call fails.
//
// The catalog is immutable after construction; catalog order is the
// tie-breaker everywhere a policy says "first".
type ModelRouter struct {
	cfg       config.RouterConfig
	catalog   []models.ModelDescriptor
	providers map[string]domainServices.LLMProvider
	logger    *logging.StructuredLogger
}

// NewModelRouter creates a router over a static catalog and provider registry.
func NewModelRouter(
	cfg config.RouterConfig,
	catalog []models.ModelDescriptor,
	providers map[string]domainServices.LLMProvider,
	logger *logging.StructuredLogger,
) *ModelRouter {
	return &ModelRouter{
		cfg:       cfg,
		catalog:   catalog,
		providers: providers,
		logger:    logger,
	}
}

// Catalog returns the router's model catalog in configuration order.
func (r *ModelRouter) Catalog() []models.ModelDescriptor {
	return r.catalog
}

// SelectModel applies the preference-keyed selection policy to a verdict.
func (r *ModelRouter) SelectModel(verdict *models.ComplexityVerdict, pref models.Preference) (*models.SelectionResult, error) {
	var (
		chosen    models.ModelDescriptor
		reasoning string
		err       error
	)

	switch pref {
	case models.PreferenceSustainability:
		chosen, err = r.lowestCarbon(verdict.RecommendedSize)
		if err == nil {
			reasoning = fmt.Sprintf(
				"%s query (score %d) recommends a %s model; %s has the lowest carbon factor in that class (%.3f g CO2 per 1k tokens)",
				verdict.Level, verdict.Score, verdict.RecommendedSize, chosen.Name, chosen.CarbonFactor)
		}

	case models.PreferenceSpeed:
		chosen, err = r.fastest(verdict.RecommendedSize)
		if err == nil {
			reasoning = fmt.Sprintf(
				"%s query (score %d) recommends a %s model; %s is the quickest option in that class (%s tier)",
				verdict.Level, verdict.Score, verdict.RecommendedSize, chosen.Name, chosen.Speed)
		}

	case models.PreferenceAccuracy:
		// Accuracy deliberately ignores the recommended class and re-derives
		// size from the raw score with its own thresholds, biasing toward
		// larger models even for borderline-simple queries.
		size := r.accuracySize(verdict.Score)
		chosen, err = r.firstInClass(size)
		if err == nil {
			reasoning = fmt.Sprintf(
				"%s query (score %d) routed for maximum accuracy; raw score maps to the %s class, using %s",
				verdict.Level, verdict.Score, size, chosen.Name)
		}

	default:
		chosen, err = r.firstInClass(verdict.RecommendedSize)
		if err == nil {
			reasoning = fmt.Sprintf(
				"%s query (score %d) recommends a %s model; using %s as the balanced default",
				verdict.Level, verdict.Score, verdict.RecommendedSize, chosen.Name)
		}
	}

	if err != nil {
		return nil, err
	}

	return &models.SelectionResult{
		Model:      chosen,
		Reasoning:  reasoning,
		Verdict:    *verdict,
		Preference: pref,
	}, nil
}

// GetResponse dispatches the query to the selected model's provider. If the
// call fails it downgrades exactly once to the first catalog model of the
// next smaller size class; a failure there (or a failed small-class call) is
// terminal and reported with the chain of attempted model keys. The returned
// descriptor is the model that actually produced the response.
func (r *ModelRouter) GetResponse(ctx context.Context, sel *models.SelectionResult, query string) (*models.ProviderResponse, models.ModelDescriptor, error) {
	resp, err := r.dispatch(ctx, sel.Model, query)
	if err == nil {
		return resp, sel.Model, nil
	}

	attempted := []string{sel.Model.Key}
	r.logger.Warn("provider call failed, attempting downgrade", map[string]interface{}{
		"model":    sel.Model.Key,
		"provider": sel.Model.Provider,
		"error":    err.Error(),
	})

	smaller, ok := sel.Model.Size.Smaller()
	if !ok {
		// Small class has no fallback; the failure propagates.
		return nil, sel.Model, &models.RoutingError{Attempted: attempted, Err: err}
	}

	fallback, ferr := r.firstInClass(smaller)
	if ferr != nil {
		return nil, sel.Model, &models.RoutingError{Attempted: attempted, Err: err}
	}

	resp, err = r.dispatch(ctx, fallback, query)
	if err != nil {
		attempted = append(attempted, fallback.Key)
		return nil, fallback, &models.RoutingError{Attempted: attempted, Err: err}
	}

	r.logger.Info("downgrade hop succeeded", map[string]interface{}{
		"model": fallback.Key,
	})
	return resp, fallback, nil
}

// dispatch resolves the descriptor's provider and forwards the query.
func (r *ModelRouter) dispatch(ctx context.Context, model models.ModelDescriptor, query string) (*models.ProviderResponse, error) {
	provider, ok := r.providers[model.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProviderNotFound, model.Provider)
	}
	return provider.Complete(ctx, model.Key, query)
}

// accuracySize maps a raw verdict score to a size class using the accuracy
// preference's own thresholds.
func (r *ModelRouter) accuracySize(score int) models.SizeClass {
	switch {
	case score >= r.cfg.AccuracyLargeScore:
		return models.SizeLarge
	case score >= r.cfg.AccuracyMediumScore:
		return models.SizeMedium
	}
	return models.SizeSmall
}

// firstInClass returns the first catalog descriptor of the given class.
func (r *ModelRouter) firstInClass(size models.SizeClass) (models.ModelDescriptor, error) {
	for _, m := range r.catalog {
		if m.Size == size {
			return m, nil
		}
	}
	return models.ModelDescriptor{}, fmt.Errorf("%w: %s", models.ErrNoModelsInClass, size)
}

// lowestCarbon returns the class member with the smallest carbon factor.
// Strict comparison keeps the first catalog entry on ties.
func (r *ModelRouter) lowestCarbon(size models.SizeClass) (models.ModelDescriptor, error) {
	var best models.ModelDescriptor
	found := false
	for _, m := range r.catalog {
		if m.Size != size {
			continue
		}
		if !found || m.CarbonFactor < best.CarbonFactor {
			best = m
			found = true
		}
	}
	if !found {
		return models.ModelDescriptor{}, fmt.Errorf("%w: %s", models.ErrNoModelsInClass, size)
	}
	return best, nil
}

// fastest returns the first fast-tier member of the class, falling back to
// the first class member when none is fast.
func (r *ModelRouter) fastest(size models.SizeClass) (models.ModelDescriptor, error) {
	for _, m := range r.catalog {
		if m.Size == size && m.Speed == models.SpeedFast {
			return m, nil
		}
	}
	return r.firstInClass(size)
}
