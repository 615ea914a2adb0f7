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

// WheelRepository provides data access for the wheel configuration singleton
// and the prize table using pgx.
type WheelRepository struct {
	pool database.TxQuerier
}

// NewWheelRepository creates a new WheelRepository with the given pool.
func NewWheelRepository(pool *pgxpool.Pool) *WheelRepository {
	return &WheelRepository{pool: pool}
}

// NewWheelRepositoryWithPool creates a new WheelRepository with a custom querier.
// This is primarily used for testing.
func NewWheelRepositoryWithPool(pool database.TxQuerier) *WheelRepository {
	return &WheelRepository{pool: pool}
}

// GetConfig retrieves the wheel configuration.
// Returns nil, nil if the wheel has never been configured.
func (r *WheelRepository) GetConfig(ctx context.Context, q database.TxQuerier) (*model.WheelConfig, error) {
	if q == nil {
		q = r.pool
	}
	var cfg model.WheelConfig
	err := q.QueryRow(ctx,
		`SELECT enabled, daily_spins, reset_time, spin_cooldown_minutes, updated_at FROM wheel_config WHERE id = 1`).
		Scan(&cfg.Enabled, &cfg.DailySpins, &cfg.ResetTime, &cfg.SpinCooldownMinutes, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not configured - let service handle
		}
		return nil, fmt.Errorf("get wheel config: %w", err)
	}
	return &cfg, nil
}

// GetConfigForUpdate retrieves the config row with a row lock so a partial
// merge cannot race a concurrent operator update.
func (r *WheelRepository) GetConfigForUpdate(ctx context.Context, tx database.TxQuerier) (*model.WheelConfig, error) {
	var cfg model.WheelConfig
	err := tx.QueryRow(ctx,
		`SELECT enabled, daily_spins, reset_time, spin_cooldown_minutes, updated_at FROM wheel_config WHERE id = 1 FOR UPDATE`).
		Scan(&cfg.Enabled, &cfg.DailySpins, &cfg.ResetTime, &cfg.SpinCooldownMinutes, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wheel config for update: %w", err)
	}
	return &cfg, nil
}

// SaveConfig upserts the configuration singleton (row id 1).
func (r *WheelRepository) SaveConfig(ctx context.Context, q database.TxQuerier, cfg *model.WheelConfig) error {
	if q == nil {
		q = r.pool
	}
	_, err := q.Exec(ctx,
		`INSERT INTO wheel_config (id, enabled, daily_spins, reset_time, spin_cooldown_minutes, updated_at)
		 VALUES (1, $1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET
		   enabled = EXCLUDED.enabled,
		   daily_spins = EXCLUDED.daily_spins,
		   reset_time = EXCLUDED.reset_time,
		   spin_cooldown_minutes = EXCLUDED.spin_cooldown_minutes,
		   updated_at = now()`,
		cfg.Enabled, cfg.DailySpins, cfg.ResetTime, cfg.SpinCooldownMinutes)
	if err != nil {
		return fmt.Errorf("save wheel config: %w", err)
	}
	return nil
}

// ListPrizes retrieves the prize table in table (display and draw) order.
// On success, returns an empty slice (not nil) when no prizes exist.
func (r *WheelRepository) ListPrizes(ctx context.Context) ([]model.Prize, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, icon, color, type, probability, value, COALESCE(voucher_id, ''), position
		 FROM prizes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	defer rows.Close()

	var prizes []model.Prize
	for rows.Next() {
		var p model.Prize
		if err := rows.Scan(&p.ID, &p.Name, &p.Icon, &p.Color, &p.Type, &p.Probability, &p.Value, &p.VoucherID, &p.Position); err != nil {
			return nil, fmt.Errorf("scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prize rows: %w", err)
	}

	if prizes == nil {
		prizes = []model.Prize{}
	}
	return prizes, nil
}
