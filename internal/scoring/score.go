package scoring

import (
	"math"

	"exitlayer/internal/audit"
)

// Calculate scores a response with the default weights.
func Calculate(resp audit.Response) Score {
	return CalculateWithWeights(resp, DefaultWeights())
}

// CalculateExitLayerScore is an alias for Calculate.
func CalculateExitLayerScore(resp audit.Response) Score {
	return Calculate(resp)
}

// CalculateWithWeights scores a response. It never fails: unanswered inputs
// are skipped and dimensions with nothing answered report NeutralScore.
func CalculateWithWeights(resp audit.Response, weights Weights) Score {
	w := weights.Normalized()
	out := Score{Breakdown: make([]DimensionResult, 0, len(DimensionOrder))}

	var overall float64
	for _, d := range DimensionOrder {
		res := evaluateDimension(d, resp)
		res.Weight = w[d]
		out.Dimensions.set(d, res.Score)
		out.Breakdown = append(out.Breakdown, res)
		overall += float64(res.Score) * w[d]
	}
	out.Overall = int(math.Round(overall))
	out.FinancialMetrics = financials(resp, out.Dimensions)
	out.PrimaryConstraint, out.HighestOpportunity = extremes(out.Breakdown)
	return out
}

// extremes picks the lowest and highest defined dimensions. Ties keep the
// earlier dimension in DimensionOrder.
func extremes(results []DimensionResult) (*DimensionRef, *DimensionRef) {
	var low, high *DimensionRef
	for _, r := range results {
		if !r.Defined {
			continue
		}
		ref := DimensionRef{Dimension: r.Dimension, Label: r.Label, Score: r.Score}
		if low == nil || r.Score < low.Score {
			l := ref
			low = &l
		}
		if high == nil || r.Score > high.Score {
			h := ref
			high = &h
		}
	}
	return low, high
}

// Band classifies a 0-100 score: critical below 50, warning up to 70, positive above.
func Band(score int) string {
	switch {
	case score < 50:
		return "critical"
	case score <= 70:
		return "warning"
	default:
		return "positive"
	}
}
