package services

import (
	"math"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
)

const hoursPerYear = 365 * 24

// CarbonAccountant derives emissions estimates, everyday equivalents and
// savings-versus-worst-case figures from (tokens, model) pairs. It is
// stateless apart from the reference constants and the baseline descriptor
// captured at construction.
type CarbonAccountant struct {
	cfg      config.CarbonConfig
	baseline models.ModelDescriptor

	// kg CO2 a tree sequesters per hour, derived once from the yearly figure
	treeKgPerHour float64
}

// NewCarbonAccountant creates an accountant over the catalog's carbon
// factors. The default savings baseline is the catalog descriptor flagged
// worst-case; configuration validation guarantees exactly one exists.
func NewCarbonAccountant(cfg config.CarbonConfig, catalog []models.ModelDescriptor) *CarbonAccountant {
	var baseline models.ModelDescriptor
	for _, m := range catalog {
		if m.WorstCase {
			baseline = m
			break
		}
		// Fall back to the dirtiest model if nothing is flagged.
		if m.CarbonFactor > baseline.CarbonFactor {
			baseline = m
		}
	}

	return &CarbonAccountant{
		cfg:           cfg,
		baseline:      baseline,
		treeKgPerHour: cfg.TreeKgPerYear / hoursPerYear,
	}
}

// Baseline returns the descriptor used as the default savings baseline.
func (a *CarbonAccountant) Baseline() models.ModelDescriptor {
	return a.baseline
}

// EstimateImpact computes the emissions for a token count on a given model.
func (a *CarbonAccountant) EstimateImpact(tokens int, model models.ModelDescriptor) *models.CarbonImpact {
	grams := a.grams(tokens, model.CarbonFactor)

	return &models.CarbonImpact{
		Tokens:       tokens,
		CarbonFactor: model.CarbonFactor,
		TotalGrams:   grams,
		Equivalents:  a.Equivalents(grams),
		Model:        model.Key,
	}
}

// ComputeSavings compares the actual model's emissions against a baseline for
// the same token count. A nil baseline selects the catalog's worst-case
// model. Savings can be negative and are never clamped.
func (a *CarbonAccountant) ComputeSavings(tokens int, actual models.ModelDescriptor, baseline *models.ModelDescriptor) *models.CarbonSavings {
	base := a.baseline
	if baseline != nil {
		base = *baseline
	}

	baseGrams := a.grams(tokens, base.CarbonFactor)
	actualGrams := a.grams(tokens, actual.CarbonFactor)
	saved := round3(baseGrams - actualGrams)

	percent := 0.0
	if baseGrams != 0 {
		percent = round1(saved / baseGrams * 100)
	}

	return &models.CarbonSavings{
		BaselineModel: base.Key,
		SavedGrams:    saved,
		SavedPercent:  percent,
		Equivalents:   a.Equivalents(saved),
	}
}

// Aggregate sums a sequence of past usage records into a cumulative summary.
// An empty sequence yields zero totals and a defined mean of 0.
func (a *CarbonAccountant) Aggregate(history []models.UsageRecord) *models.UsageSummary {
	summary := &models.UsageSummary{
		ModelCounts: make(map[string]int),
	}

	for _, rec := range history {
		summary.Queries++
		summary.TotalTokens += rec.Impact.Tokens
		summary.TotalGrams += rec.Impact.TotalGrams
		summary.TotalSavedGrams += rec.Savings.SavedGrams
		summary.ModelCounts[rec.Impact.Model]++
	}

	summary.TotalGrams = round3(summary.TotalGrams)
	summary.TotalSavedGrams = round3(summary.TotalSavedGrams)
	if summary.Queries > 0 {
		summary.MeanGramsPerQuery = round3(summary.TotalGrams / float64(summary.Queries))
	}

	return summary
}

// Equivalents translates a gram figure into everyday activities. Each ratio
// keeps its own display rounding convention.
func (a *CarbonAccountant) Equivalents(grams float64) models.Equivalents {
	kg := grams / 1000

	return models.Equivalents{
		CarMiles:     round2(kg / a.cfg.CarMileKg),
		PhoneCharges: int64(math.Round(kg / a.cfg.PhoneChargeKg)),
		Searches:     int64(math.Round(kg / a.cfg.SearchKg)),
		Emails:       int64(math.Round(kg / a.cfg.EmailKg)),
		TreeHours:    round1(kg / a.treeKgPerHour),
	}
}

// grams computes (tokens/1000)*factor rounded to 3 decimal places.
func (a *CarbonAccountant) grams(tokens int, factor float64) float64 {
	return round3(float64(tokens) / 1000 * factor)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
