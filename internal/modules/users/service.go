package users

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
)

// DefaultMonthlyBudget is assigned to new users until they pick their own
const DefaultMonthlyBudget = 10000

// Service wraps user persistence with onboarding defaults
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new user service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "users").Logger(),
	}
}

// Get returns a user, or nil when unknown
func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// GetOrCreate returns the existing user or registers a new one with
// onboarding defaults: default budget, empty allocation, moderate risk.
func (s *Service) GetOrCreate(ctx context.Context, userID, displayName string) (*domain.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &domain.User{
		UserID:           userID,
		DisplayName:      displayName,
		MonthlyBudget:    DefaultMonthlyBudget,
		TargetAllocation: map[string]float64{},
		RiskProfile:      "moderate",
		OnboardingStatus: domain.OnboardingNew,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SaveAllocation normalizes and stores a user's target allocation and
// marks onboarding complete. Duplicate labels merge by summed weight.
func (s *Service) SaveAllocation(ctx context.Context, userID string, allocation map[string]float64) error {
	if len(allocation) == 0 {
		return fmt.Errorf("allocation must not be empty")
	}

	normalized := rebalance.NormalizeAllocation(allocation)

	if err := s.repo.SetTargetAllocation(ctx, userID, normalized); err != nil {
		return err
	}
	if err := s.repo.SetOnboardingStatus(ctx, userID, domain.OnboardingActive); err != nil {
		return err
	}

	s.log.Info().
		Str("user_id", userID).
		Interface("allocation", normalized).
		Msg("Allocation saved")
	return nil
}

// SetMonthlyBudget stores a user's monthly budget and advances the
// onboarding flow to the allocation step.
func (s *Service) SetMonthlyBudget(ctx context.Context, userID string, budget int) error {
	if budget <= 0 {
		return fmt.Errorf("budget must be positive")
	}
	if err := s.repo.SetMonthlyBudget(ctx, userID, budget); err != nil {
		return err
	}
	return s.repo.SetOnboardingStatus(ctx, userID, domain.OnboardingSetup)
}

// SetOnboardingStatus moves a user through the onboarding flow
func (s *Service) SetOnboardingStatus(ctx context.Context, userID, status string) error {
	return s.repo.SetOnboardingStatus(ctx, userID, status)
}
