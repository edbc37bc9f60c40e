package rebalance

import "strings"

// goldAliases are asset labels that all mean gold, including the Thai
// brokers' product names and the tokenized variants.
var goldAliases = map[string]struct{}{
	"GOLD":     {},
	"XAUUSD":   {},
	"XAU":      {},
	"MTS-GOLD": {},
	"YLG-GOLD": {},
	"PAXG":     {},
	"XAUT":     {},
	"ทองคำ":    {},
	"ทอง":      {},
	"MTSGOLD":  {},
	"YLGGOLD":  {},
}

// quoteSuffixes are trading-pair quote currencies stripped from crypto
// symbols. Order matters: the most common quote currencies come first so
// a base symbol that happens to end in another ticker is not stripped
// by mistake. Keep this a slice, not a set.
var quoteSuffixes = []string{"USDT", "USD", "BUSD", "THB", "BTC", "ETH"}

// NormalizeAsset maps a free-form asset label to its canonical symbol.
// It never fails: unknown input comes back uppercased with separators
// removed, treated as an equities ticker.
func NormalizeAsset(raw string) string {
	if raw == "" {
		return raw
	}

	asset := strings.ToUpper(strings.TrimSpace(raw))

	if _, ok := goldAliases[asset]; ok || strings.Contains(asset, "GOLD") {
		return "GOLD"
	}

	// Drop pair separators before the suffix pass so BTC/USDT and
	// BTCUSDT collapse to the same base symbol.
	asset = strings.NewReplacer("-", "", "/", "", "_", "").Replace(asset)

	for _, suffix := range quoteSuffixes {
		if strings.HasSuffix(asset, suffix) && len(asset) > len(suffix) {
			base := asset[:len(asset)-len(suffix)]
			// Don't strip down to a single character
			if len(base) >= 2 {
				return base
			}
		}
	}

	return asset
}

// NormalizeAllocation normalizes every key of an allocation. Raw keys
// that collapse to the same canonical symbol have their weights summed.
func NormalizeAllocation(allocation Allocation) Allocation {
	normalized := make(Allocation, len(allocation))

	for asset, weight := range allocation {
		normalized[NormalizeAsset(asset)] += weight
	}

	return normalized
}
