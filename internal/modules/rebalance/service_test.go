package rebalance

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/internal/modules/portfolio"
)

type stubUserSource struct {
	user *domain.User
}

func (s *stubUserSource) Get(_ context.Context, _ string) (*domain.User, error) {
	return s.user, nil
}

type stubSnapshotSource struct {
	snapshot *portfolio.Snapshot
}

func (s *stubSnapshotSource) Valuation(_ context.Context, _ string) (*portfolio.Snapshot, error) {
	return s.snapshot, nil
}

type stubRateSource struct {
	rate float64
}

func (s *stubRateSource) USDTHBRate(_ context.Context) float64 {
	return s.rate
}

func TestServiceMonthlyPlan(t *testing.T) {
	svc := NewService(
		&stubUserSource{user: &domain.User{
			UserID:        "U1",
			MonthlyBudget: 10000,
			// Stored raw: the service normalizes before calculating
			TargetAllocation: map[string]float64{"xauusd": 50, "BTC/USDT": 30, "AAPL": 20},
		}},
		&stubSnapshotSource{snapshot: &portfolio.Snapshot{
			Values:     map[string]float64{},
			Quantities: map[string]float64{},
			Prices:     map[string]float64{},
		}},
		&stubRateSource{rate: 35},
		zerolog.Nop(),
	)

	plan, err := svc.MonthlyPlan(context.Background(), "U1")
	require.NoError(t, err)

	require.Len(t, plan.Recommendations, 3)
	assert.Equal(t, 10000.0, plan.MonthlyBudget)

	byAsset := make(map[string]DCARecommendation)
	for _, r := range plan.Recommendations {
		byAsset[r.Asset] = r
	}
	assert.Contains(t, byAsset, "GOLD")
	assert.Contains(t, byAsset, "BTC")
	assert.Contains(t, byAsset, "AAPL")
	assert.Equal(t, 5000.0, byAsset["GOLD"].BuyAmount)
}

func TestServiceMonthlyPlanNoAllocation(t *testing.T) {
	svc := NewService(
		&stubUserSource{user: &domain.User{UserID: "U1", MonthlyBudget: 10000}},
		&stubSnapshotSource{},
		&stubRateSource{},
		zerolog.Nop(),
	)

	_, err := svc.MonthlyPlan(context.Background(), "U1")
	assert.ErrorIs(t, err, ErrNoAllocation)
}

func TestServiceMonthlyPlanUnknownUser(t *testing.T) {
	svc := NewService(&stubUserSource{}, &stubSnapshotSource{}, &stubRateSource{}, zerolog.Nop())

	_, err := svc.MonthlyPlan(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNoAllocation)
}

func TestServiceDriftReport(t *testing.T) {
	svc := NewService(
		&stubUserSource{user: &domain.User{
			UserID:           "U1",
			MonthlyBudget:    10000,
			TargetAllocation: map[string]float64{"BTC": 50, "GOLD": 50},
		}},
		&stubSnapshotSource{snapshot: &portfolio.Snapshot{
			Values:     map[string]float64{"BTC": 7000, "GOLD": 3000},
			Quantities: map[string]float64{"BTC": 0.002, "GOLD": 1.5},
			Prices:     map[string]float64{"BTC": 3500000, "GOLD": 2000},
			TotalTHB:   10000,
		}},
		&stubRateSource{rate: 35},
		zerolog.Nop(),
	)

	report, err := svc.DriftReport(context.Background(), "U1")
	require.NoError(t, err)

	assert.Equal(t, 10000.0, report.TotalPortfolio)
	assert.Equal(t, DefaultDriftThreshold, report.Threshold)
	assert.Equal(t, 2, report.TotalDriftAssets)

	// Most imbalanced first: BTC and GOLD both drift 20 points
	assert.Equal(t, ActionSell, driftActionsByAsset(report)["BTC"].ActionType)
	assert.Equal(t, ActionBuy, driftActionsByAsset(report)["GOLD"].ActionType)
}

func TestServiceDriftReportEmptyPortfolio(t *testing.T) {
	svc := NewService(
		&stubUserSource{user: &domain.User{
			UserID:           "U1",
			TargetAllocation: map[string]float64{"BTC": 100},
		}},
		&stubSnapshotSource{snapshot: &portfolio.Snapshot{
			Values:     map[string]float64{},
			Quantities: map[string]float64{},
			Prices:     map[string]float64{},
		}},
		&stubRateSource{rate: 35},
		zerolog.Nop(),
	)

	_, err := svc.DriftReport(context.Background(), "U1")
	assert.ErrorIs(t, err, ErrEmptyPortfolio)
}
