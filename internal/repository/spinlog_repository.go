package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

// SpinLogRepository provides append-only access to spin outcome records.
// Entries are never updated or deleted.
type SpinLogRepository struct {
	pool database.TxQuerier
}

// NewSpinLogRepository creates a new SpinLogRepository with the given pool.
func NewSpinLogRepository(pool *pgxpool.Pool) *SpinLogRepository {
	return &SpinLogRepository{pool: pool}
}

// NewSpinLogRepositoryWithPool creates a new SpinLogRepository with a custom querier.
// This is primarily used for testing.
func NewSpinLogRepositoryWithPool(pool database.TxQuerier) *SpinLogRepository {
	return &SpinLogRepository{pool: pool}
}

// Insert appends one spin log entry.
func (r *SpinLogRepository) Insert(ctx context.Context, q database.TxQuerier, e *model.SpinLogEntry) error {
	if q == nil {
		q = r.pool
	}
	_, err := q.Exec(ctx,
		`INSERT INTO spin_logs (id, user_id, prize_id, prize_type, voucher_id, points_earned, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
		e.ID, e.UserID, e.PrizeID, e.PrizeType, e.VoucherID, e.PointsEarned, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert spin log: %w", err)
	}
	return nil
}

// GetByID retrieves a spin log entry by its attempt id.
// Returns nil, nil if no entry exists, which is how the reward applier detects
// a first-time application versus an idempotent retry.
func (r *SpinLogRepository) GetByID(ctx context.Context, id string) (*model.SpinLogEntry, error) {
	var e model.SpinLogEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, prize_id, prize_type, COALESCE(voucher_id, ''), points_earned, created_at
		 FROM spin_logs WHERE id = $1`, id).
		Scan(&e.ID, &e.UserID, &e.PrizeID, &e.PrizeType, &e.VoucherID, &e.PointsEarned, &e.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spin log %s: %w", id, err)
	}
	return &e, nil
}

// List retrieves all spin log entries, oldest first.
// On success, returns an empty slice (not nil) when no entries exist.
func (r *SpinLogRepository) List(ctx context.Context) ([]model.SpinLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, prize_id, prize_type, COALESCE(voucher_id, ''), points_earned, created_at
		 FROM spin_logs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list spin logs: %w", err)
	}
	defer rows.Close()

	var entries []model.SpinLogEntry
	for rows.Next() {
		var e model.SpinLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.PrizeID, &e.PrizeType, &e.VoucherID, &e.PointsEarned, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan spin log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spin log rows: %w", err)
	}

	if entries == nil {
		entries = []model.SpinLogEntry{}
	}
	return entries, nil
}
