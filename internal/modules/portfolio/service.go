package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
)

// TransactionSource supplies a user's transaction history
type TransactionSource interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// PriceSource supplies live THB prices for assets
type PriceSource interface {
	AssetPriceTHB(ctx context.Context, asset string, assetType domain.AssetType) (float64, error)
}

// Service values a user's holdings at live market prices
type Service struct {
	transactions TransactionSource
	prices       PriceSource
	log          zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(transactions TransactionSource, prices PriceSource, log zerolog.Logger) *Service {
	return &Service{
		transactions: transactions,
		prices:       prices,
		log:          log.With().Str("service", "portfolio").Logger(),
	}
}

// Holdings returns the user's net positions without pricing them
func (s *Service) Holdings(ctx context.Context, userID string) (map[string]Position, error) {
	txs, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return AggregateHoldings(txs), nil
}

// Valuation prices the user's holdings and returns the snapshot the
// rebalance calculators consume. A price lookup failure for one asset
// degrades that asset (absent from Values/Prices) instead of failing
// the whole snapshot; the caller can check MissingPrices.
func (s *Service) Valuation(ctx context.Context, userID string) (*Snapshot, error) {
	positions, err := s.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Values:     make(map[string]float64, len(positions)),
		Quantities: make(map[string]float64, len(positions)),
		Prices:     make(map[string]float64, len(positions)),
		Positions:  positions,
	}

	for asset, pos := range positions {
		snapshot.Quantities[asset] = pos.Quantity

		price, err := s.prices.AssetPriceTHB(ctx, asset, pos.AssetType)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("asset", asset).
				Msg("Price unavailable, asset excluded from valuation")
			continue
		}

		value := pos.Quantity * price
		snapshot.Prices[asset] = price
		snapshot.Values[asset] = value
		snapshot.TotalTHB += value
	}

	return snapshot, nil
}
