package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pladee42/opes-ai/internal/domain"
)

func TestAggregateHoldings(t *testing.T) {
	tests := []struct {
		name         string
		transactions []domain.Transaction
		want         map[string]Position
	}{
		{
			name:         "no transactions",
			transactions: nil,
			want:         map[string]Position{},
		},
		{
			name: "buys accumulate",
			transactions: []domain.Transaction{
				{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 0.5, TotalTHB: 500000},
				{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 0.25, TotalTHB: 300000},
			},
			want: map[string]Position{
				"BTC": {Asset: "BTC", AssetType: domain.AssetTypeCrypto, Quantity: 0.75, CostBasisTHB: 800000},
			},
		},
		{
			name: "sells subtract",
			transactions: []domain.Transaction{
				{Asset: "GOLD", AssetType: domain.AssetTypeGold, Side: domain.SideBuy, Amount: 2, TotalTHB: 120000},
				{Asset: "GOLD", AssetType: domain.AssetTypeGold, Side: domain.SideSell, Amount: 0.5, TotalTHB: 32000},
			},
			want: map[string]Position{
				"GOLD": {Asset: "GOLD", AssetType: domain.AssetTypeGold, Quantity: 1.5, CostBasisTHB: 88000},
			},
		},
		{
			name: "fully exited asset is dropped",
			transactions: []domain.Transaction{
				{Asset: "DOGE", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 100, TotalTHB: 1000},
				{Asset: "DOGE", AssetType: domain.AssetTypeCrypto, Side: domain.SideSell, Amount: 100, TotalTHB: 1200},
			},
			want: map[string]Position{},
		},
		{
			name: "oversold asset is dropped",
			transactions: []domain.Transaction{
				{Asset: "AAPL", AssetType: domain.AssetTypeStock, Side: domain.SideBuy, Amount: 1, TotalTHB: 7000},
				{Asset: "AAPL", AssetType: domain.AssetTypeStock, Side: domain.SideSell, Amount: 2, TotalTHB: 14000},
			},
			want: map[string]Position{},
		},
		{
			name: "mixed assets",
			transactions: []domain.Transaction{
				{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 0.1, TotalTHB: 100000},
				{Asset: "GOLD", AssetType: domain.AssetTypeGold, Side: domain.SideBuy, Amount: 1, TotalTHB: 60000},
				{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideSell, Amount: 0.04, TotalTHB: 50000},
			},
			want: map[string]Position{
				"BTC":  {Asset: "BTC", AssetType: domain.AssetTypeCrypto, Quantity: 0.1 - 0.04, CostBasisTHB: 50000},
				"GOLD": {Asset: "GOLD", AssetType: domain.AssetTypeGold, Quantity: 1, CostBasisTHB: 60000},
			},
		},
		{
			name: "blank asset is skipped",
			transactions: []domain.Transaction{
				{Asset: "", Side: domain.SideBuy, Amount: 1, TotalTHB: 100},
			},
			want: map[string]Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateHoldings(tt.transactions)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubTransactionSource struct {
	txs []domain.Transaction
	err error
}

func (s *stubTransactionSource) ListByUser(_ context.Context, _ string) ([]domain.Transaction, error) {
	return s.txs, s.err
}

type stubPriceSource struct {
	prices map[string]float64
}

func (s *stubPriceSource) AssetPriceTHB(_ context.Context, asset string, _ domain.AssetType) (float64, error) {
	price, ok := s.prices[asset]
	if !ok {
		return 0, errors.New("price unavailable")
	}
	return price, nil
}

func TestServiceValuation(t *testing.T) {
	txs := []domain.Transaction{
		{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 0.5, TotalTHB: 400000},
		{Asset: "GOLD", AssetType: domain.AssetTypeGold, Side: domain.SideBuy, Amount: 2, TotalTHB: 120000},
	}
	prices := &stubPriceSource{prices: map[string]float64{
		"BTC":  1000000,
		"GOLD": 65000,
	}}

	svc := NewService(&stubTransactionSource{txs: txs}, prices, zerolog.Nop())

	snapshot, err := svc.Valuation(context.Background(), "U1")
	require.NoError(t, err)

	assert.Equal(t, 500000.0, snapshot.Values["BTC"])
	assert.Equal(t, 130000.0, snapshot.Values["GOLD"])
	assert.Equal(t, 630000.0, snapshot.TotalTHB)
	assert.Equal(t, 0.5, snapshot.Quantities["BTC"])
	assert.Empty(t, snapshot.MissingPrices())
}

func TestServiceValuationMissingPriceDegrades(t *testing.T) {
	txs := []domain.Transaction{
		{Asset: "BTC", AssetType: domain.AssetTypeCrypto, Side: domain.SideBuy, Amount: 1, TotalTHB: 900000},
		{Asset: "OBSCURE", AssetType: domain.AssetTypeStock, Side: domain.SideBuy, Amount: 10, TotalTHB: 5000},
	}
	prices := &stubPriceSource{prices: map[string]float64{"BTC": 1000000}}

	svc := NewService(&stubTransactionSource{txs: txs}, prices, zerolog.Nop())

	snapshot, err := svc.Valuation(context.Background(), "U1")
	require.NoError(t, err)

	// The unpriced asset still appears in quantities but not in values
	assert.Equal(t, 10.0, snapshot.Quantities["OBSCURE"])
	_, priced := snapshot.Values["OBSCURE"]
	assert.False(t, priced)
	assert.Equal(t, []string{"OBSCURE"}, snapshot.MissingPrices())
	assert.Equal(t, 1000000.0, snapshot.TotalTHB)
}

func TestServiceValuationTransactionError(t *testing.T) {
	svc := NewService(&stubTransactionSource{err: errors.New("boom")}, &stubPriceSource{}, zerolog.Nop())

	_, err := svc.Valuation(context.Background(), "U1")
	assert.Error(t, err)
}
