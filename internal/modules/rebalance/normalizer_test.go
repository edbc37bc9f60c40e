package rebalance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAsset(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty string passes through",
			raw:  "",
			want: "",
		},
		{
			name: "gold alias",
			raw:  "XAUUSD",
			want: "GOLD",
		},
		{
			name: "gold alias lowercase with whitespace",
			raw:  "  paxg ",
			want: "GOLD",
		},
		{
			name: "gold substring",
			raw:  "MTS-GOLD",
			want: "GOLD",
		},
		{
			name: "thai gold",
			raw:  "ทองคำ",
			want: "GOLD",
		},
		{
			name: "crypto pair with USDT suffix",
			raw:  "BTCUSDT",
			want: "BTC",
		},
		{
			name: "crypto pair with separator",
			raw:  "BTC/USDT",
			want: "BTC",
		},
		{
			name: "crypto pair lowercase",
			raw:  "ethusdt",
			want: "ETH",
		},
		{
			name: "THB quoted pair",
			raw:  "ADATHB",
			want: "ADA",
		},
		{
			name: "BTC quoted pair keeps base",
			raw:  "ETHBTC",
			want: "ETH",
		},
		{
			name: "bare BTC is not stripped",
			raw:  "BTC",
			want: "BTC",
		},
		{
			name: "bare ETH is not stripped",
			raw:  "eth",
			want: "ETH",
		},
		{
			name: "single char base is not stripped",
			raw:  "XUSD",
			want: "XUSD",
		},
		{
			name: "stock ticker passes through",
			raw:  "AAPL",
			want: "AAPL",
		},
		{
			name: "stock ticker with class separator",
			raw:  "BRK-B",
			want: "BRKB",
		},
		{
			name: "USDT itself stays whole",
			raw:  "USDT",
			want: "USDT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAsset(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAllocationMergesDuplicates(t *testing.T) {
	got := NormalizeAllocation(Allocation{
		"BTC/USDT": 10,
		"btcusdt":  5,
	})

	assert.Equal(t, Allocation{"BTC": 15}, got)
}

func TestNormalizeAllocationGoldVariants(t *testing.T) {
	got := NormalizeAllocation(Allocation{
		"XAUUSD":   25,
		"MTS-GOLD": 25,
		"AAPL":     50,
	})

	assert.Equal(t, Allocation{"GOLD": 50, "AAPL": 50}, got)
}

func TestNormalizeAllocationEmpty(t *testing.T) {
	got := NormalizeAllocation(Allocation{})
	assert.Empty(t, got)
}
