package usage

import "strings"

// Pricing is the USD cost of one token.
type Pricing struct {
	InputCostPerToken  float64
	OutputCostPerToken float64
}

var modelPricing = map[string]Pricing{
	"gpt-3.5-turbo": {InputCostPerToken: 5e-7, OutputCostPerToken: 1.5e-6},
	"gpt-4":         {InputCostPerToken: 3e-5, OutputCostPerToken: 6e-5},
	"gpt-4-turbo":   {InputCostPerToken: 1e-5, OutputCostPerToken: 3e-5},
	"gpt-4o":        {InputCostPerToken: 2.5e-6, OutputCostPerToken: 1e-5},
	"gpt-4o-mini":   {InputCostPerToken: 1.5e-7, OutputCostPerToken: 6e-7},
}

// PricingFor finds the price of model. Dated snapshots such as
// "gpt-4o-2024-08-06" use the longest known prefix.
func PricingFor(model string) (Pricing, bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if p, ok := modelPricing[model]; ok {
		return p, true
	}
	best := ""
	for name := range modelPricing {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Pricing{}, false
	}
	return modelPricing[best], true
}

// Cost prices a request; unknown models cost nothing.
func Cost(model string, promptTokens, completionTokens int) float64 {
	p, ok := PricingFor(model)
	if !ok {
		return 0
	}
	return float64(promptTokens)*p.InputCostPerToken + float64(completionTokens)*p.OutputCostPerToken
}
