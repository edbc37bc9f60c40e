package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
)

// Repository handles user persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// Get returns a user by LINE user id, or nil if not found
func (r *Repository) Get(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT user_id, display_name, monthly_budget, target_allocation,
		risk_profile, onboarding_status, created_at
		FROM users WHERE user_id = ?`

	var (
		user           domain.User
		allocationJSON string
		createdAt      string
	)

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.DisplayName,
		&user.MonthlyBudget,
		&allocationJSON,
		&user.RiskProfile,
		&user.OnboardingStatus,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.TargetAllocation = map[string]float64{}
	if allocationJSON != "" {
		if err := json.Unmarshal([]byte(allocationJSON), &user.TargetAllocation); err != nil {
			// A corrupted allocation should not brick the user record
			r.log.Warn().Err(err).Str("user_id", userID).Msg("Unparseable target allocation, resetting")
			user.TargetAllocation = map[string]float64{}
		}
	}

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		user.CreatedAt = ts
	}

	return &user, nil
}

// Create inserts a new user
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	if user.TargetAllocation == nil {
		user.TargetAllocation = map[string]float64{}
	}

	allocationJSON, err := json.Marshal(user.TargetAllocation)
	if err != nil {
		return fmt.Errorf("failed to serialize allocation: %w", err)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (user_id, display_name, monthly_budget,
		target_allocation, risk_profile, onboarding_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.UserID,
		user.DisplayName,
		user.MonthlyBudget,
		string(allocationJSON),
		user.RiskProfile,
		user.OnboardingStatus,
		user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info().Str("user_id", user.UserID).Str("name", user.DisplayName).Msg("User created")
	return nil
}

// SetMonthlyBudget updates a user's monthly contribution budget
func (r *Repository) SetMonthlyBudget(ctx context.Context, userID string, budget int) error {
	return r.update(ctx, userID, "monthly_budget", budget)
}

// SetTargetAllocation replaces a user's target allocation
func (r *Repository) SetTargetAllocation(ctx context.Context, userID string, allocation map[string]float64) error {
	allocationJSON, err := json.Marshal(allocation)
	if err != nil {
		return fmt.Errorf("failed to serialize allocation: %w", err)
	}
	return r.update(ctx, userID, "target_allocation", string(allocationJSON))
}

// SetOnboardingStatus moves a user through the onboarding flow
func (r *Repository) SetOnboardingStatus(ctx context.Context, userID, status string) error {
	return r.update(ctx, userID, "onboarding_status", status)
}

func (r *Repository) update(ctx context.Context, userID, column string, value interface{}) error {
	query := fmt.Sprintf("UPDATE users SET %s = ? WHERE user_id = ?", column)

	result, err := r.db.ExecContext(ctx, query, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s not found", userID)
	}

	return nil
}
