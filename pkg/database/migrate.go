package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema when it does not exist. Statements are
// idempotent; there is no versioned migration history, fields are additive.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL DEFAULT '',
				remaining_spins INT NOT NULL DEFAULT 0 CHECK (remaining_spins >= 0),
				daily_spins INT NOT NULL DEFAULT 0 CHECK (daily_spins >= 0),
				last_spin_at TIMESTAMP WITH TIME ZONE,
				points BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"wheel_config", `
			CREATE TABLE IF NOT EXISTS wheel_config (
				id INT PRIMARY KEY CHECK (id = 1),
				enabled BOOLEAN NOT NULL DEFAULT FALSE,
				daily_spins INT CHECK (daily_spins >= 0),
				reset_time VARCHAR(5) NOT NULL DEFAULT '00:00',
				spin_cooldown_minutes INT NOT NULL DEFAULT 0 CHECK (spin_cooldown_minutes >= 0),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"prizes", `
			CREATE TABLE IF NOT EXISTS prizes (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				icon VARCHAR(64) NOT NULL DEFAULT '',
				color VARCHAR(32) NOT NULL DEFAULT '',
				type VARCHAR(32) NOT NULL,
				probability DOUBLE PRECISION NOT NULL CHECK (probability >= 0 AND probability <= 1),
				value VARCHAR(64) NOT NULL DEFAULT '',
				voucher_id VARCHAR(255),
				position INT NOT NULL
			)`},
		{"spin_logs", `
			CREATE TABLE IF NOT EXISTS spin_logs (
				id UUID PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				prize_id VARCHAR(255) NOT NULL,
				prize_type VARCHAR(32) NOT NULL,
				voucher_id VARCHAR(255),
				points_earned INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"spin_logs index", `
			CREATE INDEX IF NOT EXISTS idx_spin_logs_user_id ON spin_logs(user_id, created_at)`},
		{"voucher_templates", `
			CREATE TABLE IF NOT EXISTS voucher_templates (
				id VARCHAR(255) PRIMARY KEY,
				code VARCHAR(64) NOT NULL,
				title VARCHAR(255) NOT NULL,
				percent INT CHECK (percent >= 1 AND percent <= 100),
				amount BIGINT CHECK (amount >= 0),
				free_shipping BOOLEAN NOT NULL DEFAULT FALSE,
				quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
				expires_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`},
		{"user_vouchers", `
			CREATE TABLE IF NOT EXISTS user_vouchers (
				id SERIAL PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				voucher_id VARCHAR(255) NOT NULL,
				granted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
				used_at TIMESTAMP WITH TIME ZONE,
				UNIQUE(user_id, voucher_id)
			)`},
	}

	for _, st := range statements {
		if _, err := pool.Exec(ctx, st.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", st.name, err)
		}
	}
	return nil
}
