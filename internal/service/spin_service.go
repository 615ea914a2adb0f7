package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/unionmart/lucky-wheel-service/internal/config"
	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/internal/wheel"
)

// SpinService is the authoritative spin engine. A spin runs in two phases:
//
// Phase 1 consumes the allowance inside a transaction holding a row lock on
// the user record (reset-if-stale, cooldown check, allowance check, decrement)
// and commits. The row lock serializes concurrent spins per user, so two
// requests can never both spend the same unit of allowance. Once phase 1
// commits the spin is spent, crash or not.
//
// Phase 2 draws the prize and applies the reward (points, voucher grant, log
// append) in a second transaction keyed by an idempotency id. A phase 2
// failure never re-grants the spin; it surfaces as RewardError.
type SpinService struct {
	pool     TxBeginner
	users    UserRepositoryInterface
	wheels   WheelRepositoryInterface
	logs     SpinLogRepositoryInterface
	vouchers VoucherRepositoryInterface
	cache    WheelCache // optional; nil reads straight from the repository
	defaults config.WheelDefaults

	now          func() time.Time
	draw         func() float64
	newAttemptID func() string
}

// NewSpinService creates a SpinService with the production clock and RNG.
func NewSpinService(pool *pgxpool.Pool, users UserRepositoryInterface, wheels WheelRepositoryInterface, logs SpinLogRepositoryInterface, vouchers VoucherRepositoryInterface, cache WheelCache, defaults config.WheelDefaults) *SpinService {
	return &SpinService{
		pool:         pool,
		users:        users,
		wheels:       wheels,
		logs:         logs,
		vouchers:     vouchers,
		cache:        cache,
		defaults:     defaults,
		now:          time.Now,
		draw:         rand.Float64,
		newAttemptID: uuid.NewString,
	}
}

// NewSpinServiceWithDeps creates a SpinService with injected transaction
// beginner, clock and draw source. Primarily used for testing.
func NewSpinServiceWithDeps(pool TxBeginner, users UserRepositoryInterface, wheels WheelRepositoryInterface, logs SpinLogRepositoryInterface, vouchers VoucherRepositoryInterface, cache WheelCache, defaults config.WheelDefaults, now func() time.Time, draw func() float64) *SpinService {
	return &SpinService{
		pool:         pool,
		users:        users,
		wheels:       wheels,
		logs:         logs,
		vouchers:     vouchers,
		cache:        cache,
		defaults:     defaults,
		now:          now,
		draw:         draw,
		newAttemptID: uuid.NewString,
	}
}

// Spin processes one spin attempt for a user.
// Returns:
//   - ErrWheelNotConfigured if no wheel config or prize table exists
//   - ErrWheelDisabled when the operator switch is off
//   - *CooldownError (wrapping ErrCooldownActive) when inside the cooldown window
//   - ErrNoSpinsLeft when the cycle allowance is exhausted
//   - *RewardError (wrapping ErrRewardNotApplied) when the spin was consumed
//     but the reward could not be applied
func (s *SpinService) Spin(ctx context.Context, userID string) (*model.SpinResult, error) {
	snap, err := s.loadWheel(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Config.Enabled {
		return nil, ErrWheelDisabled
	}
	if len(snap.Prizes) == 0 {
		return nil, ErrWheelNotConfigured
	}

	now := s.now()

	if _, err := s.consumeSpin(ctx, userID, &snap.Config, now); err != nil {
		return nil, err
	}

	// The allowance is spent and committed; everything from here is reward
	// application against an already-recorded spin.
	prize := wheel.SelectPrize(snap.Prizes, s.draw())
	attemptID := s.newAttemptID()

	entry, err := s.applyReward(ctx, attemptID, userID, prize, now)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("attempt_id", attemptID).
			Str("prize_id", prize.ID).
			Msg("spin consumed but reward application failed")
		return nil, &RewardError{AttemptID: attemptID, Err: err}
	}

	resp, err := s.userResponse(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.SpinResult{User: resp, Prize: prize, Log: entry}, nil
}

// RetryReward re-runs reward application for a spin whose allowance was
// consumed but whose reward failed, identified by the attempt id from the
// failed response. An entry already recorded under the id is returned as-is,
// so the call is safe to repeat; the spin allowance is never touched. If
// nothing was recorded the reward transaction never committed, so a prize is
// drawn and applied under the same id.
func (s *SpinService) RetryReward(ctx context.Context, userID, attemptID string) (*model.SpinResult, error) {
	snap, err := s.loadWheel(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Prizes) == 0 {
		return nil, ErrWheelNotConfigured
	}

	existing, err := s.logs.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID != userID {
			return nil, ErrAttemptNotFound
		}
		resp, err := s.userResponse(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &model.SpinResult{User: resp, Prize: prizeForEntry(snap.Prizes, existing), Log: existing}, nil
	}

	prize := wheel.SelectPrize(snap.Prizes, s.draw())
	entry, err := s.applyReward(ctx, attemptID, userID, prize, s.now())
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("attempt_id", attemptID).
			Str("prize_id", prize.ID).
			Msg("reward retry failed")
		return nil, &RewardError{AttemptID: attemptID, Err: err}
	}

	resp, err := s.userResponse(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.SpinResult{User: resp, Prize: prize, Log: entry}, nil
}

// prizeForEntry resolves the prize a recorded entry refers to. A prize removed
// from the table since the spin is reconstructed from the entry itself.
func prizeForEntry(prizes []model.Prize, e *model.SpinLogEntry) model.Prize {
	for _, p := range prizes {
		if p.ID == e.PrizeID {
			return p
		}
	}
	return model.Prize{ID: e.PrizeID, Type: e.PrizeType, VoucherID: e.VoucherID}
}

// consumeSpin runs phase 1. On a denial the transaction is committed anyway
// so that a cycle reset performed above the failing check is not lost.
func (s *SpinService) consumeSpin(ctx context.Context, userID string, cfg *model.WheelConfig, now time.Time) (*model.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if err := s.users.Ensure(ctx, tx, userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	boundary := wheel.LastResetBoundary(now, cfg.ResetTime)
	if user.LastSpinAt == nil || user.LastSpinAt.Before(boundary) {
		// Fresh cycle: restore the allowance and clear lastSpinAt so the
		// cooldown check cannot block the first spin of the new cycle.
		daily := wheel.ResolveDailySpins(cfg.DailySpins, user.DailySpins, s.defaults.DailySpins)
		user.RemainingSpins = daily
		user.DailySpins = daily
		user.LastSpinAt = nil
		if err := s.users.UpdateSpinState(ctx, tx, user.ID, user.RemainingSpins, user.DailySpins, nil); err != nil {
			return nil, err
		}
	}

	if cd := time.Duration(cfg.SpinCooldownMinutes) * time.Minute; cd > 0 && user.LastSpinAt != nil {
		if remaining := wheel.CooldownRemaining(now, *user.LastSpinAt, cd); remaining > 0 {
			if err := tx.Commit(ctx); err != nil {
				return nil, fmt.Errorf("commit tx: %w", err)
			}
			return nil, &CooldownError{RetryAfterSeconds: int(remaining / time.Second)}
		}
	}

	if user.RemainingSpins <= 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return nil, ErrNoSpinsLeft
	}

	user.RemainingSpins--
	spunAt := now
	user.LastSpinAt = &spunAt
	if err := s.users.UpdateSpinState(ctx, tx, user.ID, user.RemainingSpins, user.DailySpins, user.LastSpinAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}

// applyReward runs phase 2: point credit, idempotent voucher grant and the
// log append, atomically. An entry already recorded under attemptID means a
// retry; the recorded entry is returned unchanged.
func (s *SpinService) applyReward(ctx context.Context, attemptID, userID string, prize model.Prize, now time.Time) (*model.SpinLogEntry, error) {
	existing, err := s.logs.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	points := wheel.PointsFor(prize.Type, prize.Value)
	if points > 0 {
		if err := s.users.CreditPoints(ctx, tx, userID, points); err != nil {
			return nil, err
		}
	}

	voucherID := ""
	if prize.Type == model.PrizeTypeVoucher && prize.VoucherID != "" {
		voucherID = prize.VoucherID
		// ON CONFLICT DO NOTHING keeps the grant idempotent; a voucher the
		// user already claimed or used is left untouched.
		if _, err := s.vouchers.Grant(ctx, tx, userID, voucherID); err != nil {
			return nil, err
		}
	}

	entry := &model.SpinLogEntry{
		ID:           attemptID,
		UserID:       userID,
		PrizeID:      prize.ID,
		PrizeType:    prize.Type,
		VoucherID:    voucherID,
		PointsEarned: points,
		Timestamp:    now,
	}
	if err := s.logs.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return entry, nil
}

func (s *SpinService) loadWheel(ctx context.Context) (*model.WheelSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx); ok {
			return snap, nil
		}
	}

	cfg, err := s.wheels.GetConfig(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get wheel config: %w", err)
	}
	if cfg == nil {
		return nil, ErrWheelNotConfigured
	}
	prizes, err := s.wheels.ListPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}

	snap := &model.WheelSnapshot{Config: *cfg, Prizes: prizes}
	if s.cache != nil {
		s.cache.Set(ctx, snap)
	}
	return snap, nil
}

func (s *SpinService) userResponse(ctx context.Context, userID string) (*model.UserResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	vouchers, used, err := s.vouchers.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return composeUserResponse(user, vouchers, used), nil
}
