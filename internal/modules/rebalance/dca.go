package rebalance

import (
	"math"
	"sort"
)

// dcaBand is the deviation band, in percentage points, inside which an
// asset counts as balanced for DCA purposes. Unlike the drift
// calculator's threshold this is not caller configurable.
const dcaBand = 5.0

// CalculateDCARebalance computes how to split the monthly contribution
// across the target allocation, steering more money toward underweight
// assets. It never recommends selling: the engine only routes new money.
//
// currentHoldings maps canonical asset symbol to current value in THB.
// Assets held but absent from the target allocation are ignored here;
// the drift calculator is the one that recommends exits.
func CalculateDCARebalance(
	monthlyBudget float64,
	target Allocation,
	currentHoldings map[string]float64,
) (*DCAResult, error) {
	if len(target) == 0 {
		return nil, ErrNoAllocation
	}

	totalPortfolio := 0.0
	for _, value := range currentHoldings {
		totalPortfolio += value
	}

	newTotal := totalPortfolio + monthlyBudget

	// Deterministic iteration before the deviation sort
	assets := make([]string, 0, len(target))
	for asset := range target {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	recommendations := make([]DCARecommendation, 0, len(target))

	for _, asset := range assets {
		targetPct := target[asset]
		currentValue := currentHoldings[asset]

		targetValue := newTotal * (targetPct / 100)
		buyAmount := math.Max(0, targetValue-currentValue)

		currentPct := 0.0
		if totalPortfolio > 0 {
			currentPct = currentValue / totalPortfolio * 100
		}

		deviation := currentPct - targetPct

		status := StatusBalanced
		if deviation < -dcaBand {
			status = StatusUnderweight
		} else if deviation > dcaBand {
			status = StatusOverweight
		}

		recommendations = append(recommendations, DCARecommendation{
			Asset:        asset,
			TargetPct:    targetPct,
			CurrentPct:   round1(currentPct),
			CurrentValue: round2(currentValue),
			BuyAmount:    round2(buyAmount),
			Deviation:    round1(deviation),
			Status:       status,
		})
	}

	// Most underweight first. This ordering is part of the output
	// contract: the presentation layer shows it as-is.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Deviation < recommendations[j].Deviation
	})

	reconcileBudget(monthlyBudget, recommendations)

	return &DCAResult{
		MonthlyBudget:    monthlyBudget,
		CurrentPortfolio: round2(totalPortfolio),
		NewPortfolio:     round2(newTotal),
		Recommendations:  recommendations,
	}, nil
}

// reconcileBudget adjusts buy amounts so the plan spends the whole
// budget and nothing more. Overshoot shrinks every buy proportionally;
// leftover goes evenly to the underweight assets, or to everyone when
// nothing is underweight.
func reconcileBudget(monthlyBudget float64, recommendations []DCARecommendation) {
	totalRecommended := 0.0
	for _, r := range recommendations {
		totalRecommended += r.BuyAmount
	}

	switch {
	case totalRecommended > monthlyBudget:
		scale := monthlyBudget / totalRecommended
		for i := range recommendations {
			recommendations[i].BuyAmount = round2(recommendations[i].BuyAmount * scale)
		}

	case totalRecommended < monthlyBudget:
		remaining := monthlyBudget - totalRecommended

		var underweight []int
		for i, r := range recommendations {
			if r.Status == StatusUnderweight {
				underweight = append(underweight, i)
			}
		}

		if len(underweight) > 0 {
			extraEach := remaining / float64(len(underweight))
			for _, i := range underweight {
				recommendations[i].BuyAmount = round2(recommendations[i].BuyAmount + extraEach)
			}
		} else {
			extraEach := remaining / float64(len(recommendations))
			for i := range recommendations {
				recommendations[i].BuyAmount = round2(recommendations[i].BuyAmount + extraEach)
			}
		}
	}
}

// round2 rounds to money precision (2 decimals)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds percentages for display (1 decimal)
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
