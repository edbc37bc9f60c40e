package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
)

// Repository handles transaction persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

// Append stores a new transaction and returns its generated id
func (r *Repository) Append(ctx context.Context, tx *domain.Transaction) (string, error) {
	if tx.TxID == "" {
		tx.TxID = "TX-" + uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if tx.Date == "" {
		tx.Date = tx.CreatedAt.Format("2006-01-02")
	}
	if tx.Side == "" {
		tx.Side = domain.SideBuy
	}
	if tx.Currency == "" {
		tx.Currency = domain.CurrencyTHB
	}

	query := `INSERT INTO transactions (tx_id, user_id, date, asset, asset_raw,
		asset_type, side, amount, price, currency, total_thb, source_app, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		tx.TxID,
		tx.UserID,
		tx.Date,
		tx.Asset,
		tx.AssetRaw,
		string(tx.AssetType),
		string(tx.Side),
		tx.Amount,
		tx.Price,
		string(tx.Currency),
		tx.TotalTHB,
		tx.SourceApp,
		tx.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to append transaction: %w", err)
	}

	r.log.Info().
		Str("tx_id", tx.TxID).
		Str("user_id", tx.UserID).
		Str("asset", tx.Asset).
		Str("side", string(tx.Side)).
		Float64("amount", tx.Amount).
		Msg("Transaction recorded")

	return tx.TxID, nil
}

// ListByUser returns all transactions for a user, oldest first
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `SELECT tx_id, user_id, date, asset, asset_raw, asset_type, side,
		amount, price, currency, total_thb, source_app, created_at
		FROM transactions WHERE user_id = ? ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var (
			tx        domain.Transaction
			assetType string
			side      string
			currency  string
			createdAt string
		)

		err := rows.Scan(
			&tx.TxID,
			&tx.UserID,
			&tx.Date,
			&tx.Asset,
			&tx.AssetRaw,
			&assetType,
			&side,
			&tx.Amount,
			&tx.Price,
			&currency,
			&tx.TotalTHB,
			&tx.SourceApp,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.AssetType = domain.AssetType(assetType)
		tx.Side = domain.TradeSide(side)
		tx.Currency = domain.Currency(currency)
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			tx.CreatedAt = ts
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}
