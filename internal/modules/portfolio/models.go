package portfolio

import "github.com/pladee42/opes-ai/internal/domain"

// Position is the net result of a user's transaction history for one asset
type Position struct {
	Asset        string           `json:"asset"`
	Quantity     float64          `json:"quantity"`
	CostBasisTHB float64          `json:"cost_basis_thb"`
	AssetType    domain.AssetType `json:"asset_type"`
}

// Snapshot is a point-in-time valuation of a user's holdings, priced in
// THB. It is the input contract for both rebalance calculators.
type Snapshot struct {
	// Values maps asset to current value in THB
	Values map[string]float64 `json:"values"`
	// Quantities maps asset to net quantity held
	Quantities map[string]float64 `json:"quantities"`
	// Prices maps asset to current THB price. Assets whose price could
	// not be fetched are absent; the caller decides whether to degrade.
	Prices map[string]float64 `json:"prices"`
	// Positions carries cost basis for profit/loss display
	Positions map[string]Position `json:"positions"`
	// TotalTHB is the summed value of all priced holdings
	TotalTHB float64 `json:"total_thb"`
}

// MissingPrices lists held assets that have no entry in Prices
func (s *Snapshot) MissingPrices() []string {
	var missing []string
	for asset := range s.Quantities {
		if _, ok := s.Prices[asset]; !ok {
			missing = append(missing, asset)
		}
	}
	return missing
}
