package rebalance

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/internal/modules/portfolio"
)

// UserSource supplies user settings (budget, target allocation)
type UserSource interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// SnapshotSource supplies priced holdings
type SnapshotSource interface {
	Valuation(ctx context.Context, userID string) (*portfolio.Snapshot, error)
}

// RateSource supplies the USD/THB exchange rate
type RateSource interface {
	USDTHBRate(ctx context.Context) float64
}

// Service assembles calculator inputs from the user's stored plan, the
// valued holdings snapshot and the live FX rate. The calculators stay
// pure; all I/O happens here.
type Service struct {
	users     UserSource
	snapshots SnapshotSource
	fx        RateSource
	log       zerolog.Logger
}

// NewService creates a new rebalance service
func NewService(users UserSource, snapshots SnapshotSource, fx RateSource, log zerolog.Logger) *Service {
	return &Service{
		users:     users,
		snapshots: snapshots,
		fx:        fx,
		log:       log.With().Str("service", "rebalance").Logger(),
	}
}

// MonthlyPlan computes the DCA plan for the user's next contribution
func (s *Service) MonthlyPlan(ctx context.Context, userID string) (*DCAResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || len(user.TargetAllocation) == 0 {
		return nil, ErrNoAllocation
	}

	snapshot, err := s.snapshots.Valuation(ctx, userID)
	if err != nil {
		return nil, err
	}

	if missing := snapshot.MissingPrices(); len(missing) > 0 {
		s.log.Warn().
			Str("user_id", userID).
			Strs("assets", missing).
			Msg("Plan computed with unpriced holdings")
	}

	target := NormalizeAllocation(Allocation(user.TargetAllocation))

	return CalculateDCARebalance(float64(user.MonthlyBudget), target, snapshot.Values)
}

// DriftReport computes drift and buy/sell actions for the user's
// portfolio at the default threshold.
func (s *Service) DriftReport(ctx context.Context, userID string) (*DriftResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || len(user.TargetAllocation) == 0 {
		return nil, ErrNoAllocation
	}

	snapshot, err := s.snapshots.Valuation(ctx, userID)
	if err != nil {
		return nil, err
	}

	target := NormalizeAllocation(Allocation(user.TargetAllocation))
	rate := s.fx.USDTHBRate(ctx)

	return CalculateRebalanceActions(
		target,
		snapshot.Values,
		snapshot.Quantities,
		snapshot.Prices,
		rate,
		DefaultDriftThreshold,
	)
}
