package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

// UserPoolInterface defines the database operations needed by UserRepository
// outside a transaction. This allows for easier testing with mocks.
type UserPoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository provides data access for user entitlement records using pgx.
type UserRepository struct {
	pool UserPoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool interface.
// This is primarily used for testing.
func NewUserRepositoryWithPool(pool UserPoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, remaining_spins, daily_spins, last_spin_at, points, created_at, updated_at`

// Ensure creates the user record with zeroed entitlement state when it does
// not exist yet. Users are created implicitly on first interaction.
func (r *UserRepository) Ensure(ctx context.Context, q database.TxQuerier, id string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

// Get retrieves a user by id.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id), id)
}

// GetForUpdate retrieves a user with a row lock (SELECT FOR UPDATE). The lock
// serializes concurrent spin attempts for the same user until the transaction
// completes. Returns nil, nil if the user doesn't exist.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.User, error) {
	return scanUser(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id), id)
}

func scanUser(row pgx.Row, id string) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.RemainingSpins,
		&u.DailySpins,
		&u.LastSpinAt,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// UpdateSpinState writes the entitlement fields touched by the spin engine:
// allowance balance, cached daily allowance and last-spin instant.
func (r *UserRepository) UpdateSpinState(ctx context.Context, q database.TxQuerier, id string, remaining, daily int, lastSpinAt *time.Time) error {
	_, err := q.Exec(ctx,
		`UPDATE users SET remaining_spins = $2, daily_spins = $3, last_spin_at = $4, updated_at = now() WHERE id = $1`,
		id, remaining, daily, lastSpinAt)
	if err != nil {
		return fmt.Errorf("update spin state for %s: %w", id, err)
	}
	return nil
}

// CreditPoints adds points to the user's loyalty balance.
func (r *UserRepository) CreditPoints(ctx context.Context, q database.TxQuerier, id string, points int) error {
	_, err := q.Exec(ctx,
		`UPDATE users SET points = points + $2, updated_at = now() WHERE id = $1`,
		id, points)
	if err != nil {
		return fmt.Errorf("credit %d points for %s: %w", points, id, err)
	}
	return nil
}

// Save writes the full mutable user record. Used by the merge-style profile
// update path after the service has applied the partial fields.
func (r *UserRepository) Save(ctx context.Context, q database.TxQuerier, u *model.User) error {
	_, err := q.Exec(ctx,
		`UPDATE users SET name = $2, remaining_spins = $3, daily_spins = $4, last_spin_at = $5, points = $6, updated_at = now() WHERE id = $1`,
		u.ID, u.Name, u.RemainingSpins, u.DailySpins, u.LastSpinAt, u.Points)
	if err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}
