package domain

import "time"

// Currency represents a currency code
type Currency string

const (
	CurrencyTHB Currency = "THB"
	CurrencyUSD Currency = "USD"
)

// AssetType classifies an asset for price lookups
type AssetType string

const (
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeGold   AssetType = "GOLD"
	AssetTypeCrypto AssetType = "CRYPTO"
)

// TradeSide is the direction of a recorded transaction
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Onboarding status values for a user
const (
	OnboardingNew    = "NEW"
	OnboardingSetup  = "SETUP"
	OnboardingActive = "ACTIVE"
)

// User is a registered chat user with their investment plan
type User struct {
	UserID           string             `json:"user_id"`
	DisplayName      string             `json:"display_name"`
	MonthlyBudget    int                `json:"monthly_budget"`
	TargetAllocation map[string]float64 `json:"target_allocation"`
	RiskProfile      string             `json:"risk_profile"`
	OnboardingStatus string             `json:"onboarding_status"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Transaction is a recorded buy or sell parsed from a screenshot
type Transaction struct {
	TxID      string    `json:"tx_id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Asset     string    `json:"asset"`
	AssetRaw  string    `json:"asset_raw"`
	AssetType AssetType `json:"asset_type"`
	Side      TradeSide `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Currency  Currency  `json:"currency"`
	TotalTHB  float64   `json:"total_thb"`
	SourceApp string    `json:"source_app"`
	CreatedAt time.Time `json:"created_at"`
}
