package portfolio

import "github.com/pladee42/opes-ai/internal/domain"

// AggregateHoldings reduces a transaction history into net positions.
// Buys add quantity and cost, sells subtract both. Assets whose net
// quantity ends up at or below zero are not current holdings and are
// dropped. No lot accounting: cost basis is a signed running sum.
func AggregateHoldings(transactions []domain.Transaction) map[string]Position {
	positions := make(map[string]Position)

	for _, tx := range transactions {
		if tx.Asset == "" {
			continue
		}

		pos := positions[tx.Asset]
		pos.Asset = tx.Asset
		if tx.AssetType != "" {
			pos.AssetType = tx.AssetType
		}

		switch tx.Side {
		case domain.SideBuy:
			pos.Quantity += tx.Amount
			pos.CostBasisTHB += tx.TotalTHB
		case domain.SideSell:
			pos.Quantity -= tx.Amount
			pos.CostBasisTHB -= tx.TotalTHB
		}

		positions[tx.Asset] = pos
	}

	for asset, pos := range positions {
		if pos.Quantity <= 0 {
			delete(positions, asset)
		}
	}

	return positions
}
