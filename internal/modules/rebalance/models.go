package rebalance

import "errors"

// Business conditions are returned as error values so the presentation
// layer can render a friendly reply without special casing panics.
var (
	// ErrNoAllocation is returned when the user has no target allocation set
	ErrNoAllocation = errors.New("no target allocation set")
	// ErrEmptyPortfolio is returned when current holdings sum to zero or less
	ErrEmptyPortfolio = errors.New("portfolio has no value")
)

// Allocation maps a canonical asset symbol to its target weight in percent.
// Weights are not required to sum to exactly 100.
type Allocation map[string]float64

// Status labels for an asset relative to its target weight
const (
	StatusUnderweight = "underweight"
	StatusOverweight  = "overweight"
	StatusBalanced    = "balanced"
)

// Action types for drift rebalancing
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// DCARecommendation is one asset's slice of the monthly contribution
type DCARecommendation struct {
	Asset        string  `json:"asset"`
	TargetPct    float64 `json:"target_pct"`
	CurrentPct   float64 `json:"current_pct"`
	CurrentValue float64 `json:"current_value"`
	BuyAmount    float64 `json:"buy_amount"`
	Deviation    float64 `json:"deviation"`
	Status       string  `json:"status"`
}

// DCAResult is the full monthly contribution plan
type DCAResult struct {
	MonthlyBudget    float64             `json:"monthly_budget"`
	CurrentPortfolio float64             `json:"current_portfolio"`
	NewPortfolio     float64             `json:"new_portfolio"`
	Recommendations  []DCARecommendation `json:"recommendations"`
}

// RebalanceAction is a directional recommendation for one asset
type RebalanceAction struct {
	Asset      string  `json:"asset"`
	CurrentPct float64 `json:"current_pct"`
	TargetPct  float64 `json:"target_pct"`
	Drift      float64 `json:"drift"`
	Status     string  `json:"status"`
	ActionType string  `json:"action_type"`
	QtyToTrade float64 `json:"qty_to_trade"`
	ValueTHB   float64 `json:"value_thb"`
	ValueUSD   float64 `json:"value_usd"`
	CurrentQty float64 `json:"current_qty"`
	PriceTHB   float64 `json:"price_thb"`
}

// DriftResult is the full drift analysis for a portfolio
type DriftResult struct {
	TotalPortfolio   float64           `json:"total_portfolio"`
	TotalDriftAssets int               `json:"total_drift_assets"`
	Threshold        float64           `json:"threshold"`
	Actions          []RebalanceAction `json:"actions"`
}
