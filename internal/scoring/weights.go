package scoring

import "math"

// Weights sets how much each dimension contributes to the overall score.
type Weights map[Dimension]float64

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Leverage:               0.25,
		EquityPotential:        0.20,
		RevenueRisk:            0.20,
		ProductReadiness:       0.15,
		ImplementationCapacity: 0.20,
	}
}

// Normalized scales weights to sum to 1. Missing dimensions take their default;
// negative, non-finite or all-zero weights fall back to DefaultWeights.
func (w Weights) Normalized() Weights {
	def := DefaultWeights()
	if len(w) == 0 {
		return def
	}
	out := make(Weights, len(DimensionOrder))
	var total float64
	for _, d := range DimensionOrder {
		v, ok := w[d]
		if !ok {
			v = def[d]
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		out[d] = v
		total += v
	}
	if total <= 0 {
		return def
	}
	for d, v := range out {
		out[d] = v / total
	}
	return out
}
