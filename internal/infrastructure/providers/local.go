package providers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/domain/services"
)

// LocalProvider serves a small set of canned answers on common
// sustainability topics without any network call. It backs the cheapest
// catalog entries and is always healthy, which makes it a reliable landing
// spot for the downgrade hop.
type LocalProvider struct {
	tokenDivisor int
}

// NewLocalProvider creates a local provider. tokenDivisor mirrors the
// classifier's character-to-token estimate so reported counts stay
// comparable across providers.
func NewLocalProvider(tokenDivisor int) services.LLMProvider {
	if tokenDivisor <= 0 {
		tokenDivisor = 4
	}
	return &LocalProvider{tokenDivisor: tokenDivisor}
}

// Name returns the provider identifier.
func (p *LocalProvider) Name() string {
	return "local"
}

// Complete answers from the canned knowledge base. The model argument is
// accepted for interface uniformity but ignored.
func (p *LocalProvider) Complete(_ context.Context, _ string, query string) (*models.ProviderResponse, error) {
	lower := strings.ToLower(query)

	var text string
	switch {
	case strings.Contains(lower, "renewable energy"):
		text = answerRenewableEnergy
	case strings.Contains(lower, "climate change"):
		text = answerClimateChange
	case strings.Contains(lower, "sustainability"):
		text = answerSustainability
	case strings.Contains(lower, "carbon footprint"):
		text = answerCarbonFootprint
	default:
		text = fmt.Sprintf("I understand you're asking about: %s\n\n"+
			"This is a simplified response. For more detailed information, consult reliable sources "+
			"such as scientific journals or government environmental websites, or route the query "+
			"to a larger model.", strings.TrimSpace(query))
	}

	return &models.ProviderResponse{
		Text:   text,
		Tokens: p.estimateTokens(query) + p.estimateTokens(text),
	}, nil
}

// CheckHealth always succeeds: there is nothing to fail.
func (p *LocalProvider) CheckHealth(_ context.Context) error {
	return nil
}

func (p *LocalProvider) estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / float64(p.tokenDivisor)))
}

const answerRenewableEnergy = `Renewable energy refers to energy sources that are naturally replenished and virtually inexhaustible on human timescales. The main types include:

- Solar energy, from sunlight using photovoltaic panels or solar thermal systems
- Wind energy, from turbines that convert wind motion into electricity
- Hydroelectric power, from flowing water in rivers and dams
- Geothermal energy, from heat stored beneath the Earth's surface
- Biomass energy, from organic materials like wood, crops, and waste

These sources produce little to no greenhouse gas emissions compared to fossil fuels, making them crucial for combating climate change.`

const answerClimateChange = `Climate change refers to long-term shifts in global temperatures and weather patterns. While climate variations occur naturally, human activities have been the main driver since the 1800s, primarily through burning fossil fuels.

Key impacts include rising global temperatures, more frequent extreme weather events, sea level rise, ocean acidification, and ecosystem disruption.

Solutions involve reducing greenhouse gas emissions through renewable energy, energy efficiency, sustainable transportation, and protecting natural carbon sinks like forests.`

const answerSustainability = `Sustainability means meeting present needs without compromising future generations' ability to meet their own needs. It has three main pillars:

Environmental: protecting natural resources and ecosystems
Economic: supporting long-term economic growth and prosperity
Social: ensuring social equity and human well-being

Key practices include using renewable energy, reducing waste, conserving water, and making environmentally conscious choices in daily life.`

const answerCarbonFootprint = `A carbon footprint is the total amount of greenhouse gases (primarily CO2) emitted directly or indirectly by an individual, organization, event, or product.

It is measured in tons of CO2 equivalent and includes direct emissions from activities you control (driving, heating) and indirect emissions from products you use (food, clothing, services).

Ways to reduce your carbon footprint: use renewable energy, drive less, eat more plant-based foods, reduce and reuse, and choose energy-efficient appliances.`
