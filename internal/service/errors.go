package service

import (
	"errors"
	"fmt"
)

var (
	// ErrWheelNotConfigured is returned when no wheel document has ever been created
	ErrWheelNotConfigured = errors.New("lucky wheel not configured")

	// ErrWheelDisabled is returned when the operator master switch is off
	ErrWheelDisabled = errors.New("lucky wheel is disabled")

	// ErrNoSpinsLeft is returned when the user's allowance for the current cycle is exhausted
	ErrNoSpinsLeft = errors.New("no remaining spins for today")

	// ErrCooldownActive is the sentinel wrapped by CooldownError
	ErrCooldownActive = errors.New("spin cooldown active")

	// ErrRewardNotApplied is the sentinel wrapped by RewardError
	ErrRewardNotApplied = errors.New("spin consumed but reward not applied")

	// ErrAttemptNotFound is returned when a reward retry names an attempt
	// recorded for a different user
	ErrAttemptNotFound = errors.New("spin attempt not found")

	// ErrUserNotFound is returned when the referenced user record does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrVoucherNotFound is returned when a voucher template cannot be found
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrVoucherNotClaimed is returned when redeeming a voucher the user never claimed
	ErrVoucherNotClaimed = errors.New("voucher not claimed by user")

	// ErrVoucherUsed is returned when redeeming a voucher that was already redeemed
	ErrVoucherUsed = errors.New("voucher already used")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)

// CooldownError is a cooldown denial carrying the remaining wait. It unwraps
// to ErrCooldownActive so callers can match with errors.Is.
type CooldownError struct {
	RetryAfterSeconds int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("spin cooldown active: retry after %d seconds", e.RetryAfterSeconds)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// RewardError reports a spin whose allowance was consumed but whose reward
// application failed. The spin stays consumed; AttemptID lets the caller retry
// only the reward-application step. Unwraps to ErrRewardNotApplied.
type RewardError struct {
	AttemptID string
	Err       error
}

func (e *RewardError) Error() string {
	return fmt.Sprintf("spin consumed but reward not applied (attempt %s): %v", e.AttemptID, e.Err)
}

func (e *RewardError) Unwrap() error { return ErrRewardNotApplied }
