package rebalance

import (
	"math"
	"sort"
)

// DefaultDriftThreshold is the drift magnitude, in percentage points,
// beyond which an asset is flagged for action.
const DefaultDriftThreshold = 5.0

// CalculateRebalanceActions computes portfolio drift against the target
// allocation and sizes the exact buy/sell trade for every asset.
//
// Status is threshold gated so the caller can tell the user "you're
// fine", while the trade sizing is always computed, so the same result
// also answers "but what would the perfect rebalance be".
//
// The universe is the union of targeted and held assets: a holding with
// no target weight gets a full-exit sell, a target with no holding gets
// a buy from zero. A missing price yields QtyToTrade 0 for that asset;
// flagging missing prices is the price collaborator's job, not ours.
func CalculateRebalanceActions(
	target Allocation,
	currentValues map[string]float64,
	quantities map[string]float64,
	prices map[string]float64,
	fxRate float64,
	threshold float64,
) (*DriftResult, error) {
	totalPortfolio := 0.0
	for _, value := range currentValues {
		totalPortfolio += value
	}

	if totalPortfolio <= 0 {
		return nil, ErrEmptyPortfolio
	}

	universe := make(map[string]struct{}, len(target)+len(currentValues))
	for asset := range target {
		universe[asset] = struct{}{}
	}
	for asset := range currentValues {
		universe[asset] = struct{}{}
	}

	assets := make([]string, 0, len(universe))
	for asset := range universe {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	actions := make([]RebalanceAction, 0, len(assets))
	totalDriftAssets := 0

	for _, asset := range assets {
		currentValue := currentValues[asset]
		targetPct := target[asset]
		qty := quantities[asset]
		price := prices[asset]

		currentPct := currentValue / totalPortfolio * 100
		drift := currentPct - targetPct

		status := StatusBalanced
		if math.Abs(drift) >= threshold {
			totalDriftAssets++
			if drift > 0 {
				status = StatusOverweight
			} else {
				status = StatusUnderweight
			}
		}

		targetValue := totalPortfolio * (targetPct / 100)
		valueDiff := targetValue - currentValue // positive = buy, negative = sell

		actionType := ActionHold
		if drift > 0 {
			actionType = ActionSell
		} else if drift < 0 {
			actionType = ActionBuy
		}

		qtyToTrade := 0.0
		if price > 0 {
			qtyToTrade = math.Abs(valueDiff) / price
		}

		valueUSD := 0.0
		if fxRate != 0 {
			valueUSD = math.Abs(valueDiff) / fxRate
		}

		actions = append(actions, RebalanceAction{
			Asset:      asset,
			CurrentPct: currentPct,
			TargetPct:  targetPct,
			Drift:      drift,
			Status:     status,
			ActionType: actionType,
			QtyToTrade: qtyToTrade,
			ValueTHB:   math.Abs(valueDiff),
			ValueUSD:   valueUSD,
			CurrentQty: qty,
			PriceTHB:   price,
		})
	}

	// Most imbalanced first
	sort.SliceStable(actions, func(i, j int) bool {
		return math.Abs(actions[i].Drift) > math.Abs(actions[j].Drift)
	})

	return &DriftResult{
		TotalPortfolio:   totalPortfolio,
		TotalDriftAssets: totalDriftAssets,
		Threshold:        threshold,
		Actions:          actions,
	}, nil
}
