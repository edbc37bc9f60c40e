package users

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pladee42/opes-ai/internal/database"
	"github.com/pladee42/opes-ai/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &domain.User{
		UserID:           "U123",
		DisplayName:      "Nok",
		MonthlyBudget:    15000,
		TargetAllocation: map[string]float64{"GOLD": 50, "BTC": 50},
		RiskProfile:      "moderate",
		OnboardingStatus: domain.OnboardingNew,
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.Get(ctx, "U123")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Nok", got.DisplayName)
	assert.Equal(t, 15000, got.MonthlyBudget)
	assert.Equal(t, map[string]float64{"GOLD": 50, "BTC": 50}, got.TargetAllocation)
	assert.Equal(t, domain.OnboardingNew, got.OnboardingStatus)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRepositoryGetUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{UserID: "U1", DisplayName: "A"}))

	require.NoError(t, repo.SetMonthlyBudget(ctx, "U1", 20000))
	require.NoError(t, repo.SetTargetAllocation(ctx, "U1", map[string]float64{"GOLD": 100}))
	require.NoError(t, repo.SetOnboardingStatus(ctx, "U1", domain.OnboardingActive))

	got, err := repo.Get(ctx, "U1")
	require.NoError(t, err)

	assert.Equal(t, 20000, got.MonthlyBudget)
	assert.Equal(t, map[string]float64{"GOLD": 100}, got.TargetAllocation)
	assert.Equal(t, domain.OnboardingActive, got.OnboardingStatus)
}

func TestRepositoryUpdateUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SetMonthlyBudget(context.Background(), "ghost", 5000)
	assert.Error(t, err)
}

func TestServiceGetOrCreate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.GetOrCreate(ctx, "U9", "Mint")
	require.NoError(t, err)
	assert.Equal(t, DefaultMonthlyBudget, created.MonthlyBudget)
	assert.Equal(t, domain.OnboardingNew, created.OnboardingStatus)
	assert.Empty(t, created.TargetAllocation)

	// Second call returns the stored user, not a fresh default
	require.NoError(t, repo.SetMonthlyBudget(ctx, "U9", 25000))
	again, err := svc.GetOrCreate(ctx, "U9", "ignored")
	require.NoError(t, err)
	assert.Equal(t, 25000, again.MonthlyBudget)
	assert.Equal(t, "Mint", again.DisplayName)
}

func TestServiceSaveAllocationNormalizes(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "U2", "B")
	require.NoError(t, err)

	err = svc.SaveAllocation(ctx, "U2", map[string]float64{
		"BTC/USDT": 10,
		"btcusdt":  5,
		"xauusd":   85,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "U2")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 15, "GOLD": 85}, got.TargetAllocation)
	assert.Equal(t, domain.OnboardingActive, got.OnboardingStatus)
}

func TestServiceSaveAllocationRejectsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, zerolog.Nop())

	err := svc.SaveAllocation(context.Background(), "U3", nil)
	assert.Error(t, err)
}
