package model

import "time"

// PrizeType discriminates what a prize awards. The reward semantics for each
// type live in internal/wheel (points table) and the spin service (voucher grant).
type PrizeType string

const (
	PrizeTypeVoucher      PrizeType = "voucher"
	PrizeTypeDiscount     PrizeType = "discount"
	PrizeTypeFreeShipping PrizeType = "free_shipping"
	PrizeTypeGoodLuck     PrizeType = "good_luck"
	PrizeTypeNone         PrizeType = "none"
)

// WheelConfig is the operator-controlled singleton configuration for the lucky wheel.
// DailySpins is a pointer: an unset value falls back through the user's cached
// allowance and then the configured hard default, while an explicit 0 disables
// new allowances entirely.
type WheelConfig struct {
	Enabled             bool      `json:"enabled"`
	DailySpins          *int      `json:"dailySpins"`
	ResetTime           string    `json:"resetTime"`
	SpinCooldownMinutes int       `json:"spinCooldown"`
	UpdatedAt           time.Time `json:"-"`
}

// Prize is one slot on the wheel. Position fixes the table order used by the
// cumulative-probability draw; it is also the display order.
type Prize struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Type        PrizeType `json:"type"`
	Probability float64   `json:"probability"`
	Value       string    `json:"value"`
	VoucherID   string    `json:"voucherId,omitempty"`
	Position    int       `json:"-"`
}

// SpinLogEntry is an append-only record of one successful spin. ID doubles as
// the attempt idempotency key: retrying reward application with the same ID is
// a no-op.
type SpinLogEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PrizeID      string    `json:"prizeId"`
	PrizeType    PrizeType `json:"prizeType"`
	VoucherID    string    `json:"voucherId,omitempty"`
	PointsEarned int       `json:"pointsEarned"`
	Timestamp    time.Time `json:"timestamp"`
}

// WheelResponse is the API response DTO for GET /api/lucky-wheel.
type WheelResponse struct {
	Config   WheelConfig    `json:"config"`
	Prizes   []Prize        `json:"prizes"`
	SpinLogs []SpinLogEntry `json:"spinLogs"`
}

// WheelSnapshot is the read-mostly slice of wheel state the spin engine needs.
// It is what the Redis cache stores.
type WheelSnapshot struct {
	Config WheelConfig `json:"config"`
	Prizes []Prize     `json:"prizes"`
}

// UpdateWheelConfigRequest is the DTO for PUT /api/lucky-wheel/config.
// Nil fields are left untouched (partial merge semantics).
type UpdateWheelConfigRequest struct {
	Enabled             *bool   `json:"enabled"`
	DailySpins          *int    `json:"dailySpins" validate:"omitempty,gte=0"`
	ResetTime           *string `json:"resetTime" validate:"omitempty,resettime"`
	SpinCooldownMinutes *int    `json:"spinCooldown" validate:"omitempty,gte=0"`
}

// AppendSpinLogRequest is the DTO for POST /api/lucky-wheel/spin-log, the
// client-computed fallback path. Entries are appended as-is.
type AppendSpinLogRequest struct {
	UserID       string     `json:"userId" validate:"required,notblank,max=255"`
	PrizeID      string     `json:"prizeId"`
	PrizeType    PrizeType  `json:"prizeType"`
	VoucherID    string     `json:"voucherId"`
	PointsEarned int        `json:"pointsEarned" validate:"gte=0"`
	Timestamp    *time.Time `json:"timestamp"`
}

// SpinRequest is the DTO for POST /api/lucky-wheel/spin. Timestamp is accepted
// for API compatibility but the server clock is authoritative.
type SpinRequest struct {
	UserID    string     `json:"userId" validate:"required,notblank,max=255"`
	Timestamp *time.Time `json:"timestamp"`
}

// RetryRewardRequest is the DTO for POST /api/lucky-wheel/spin/retry. The
// attempt id comes from the error payload of a spin whose reward failed.
type RetryRewardRequest struct {
	UserID    string `json:"userId" validate:"required,notblank,max=255"`
	AttemptID string `json:"attemptId" validate:"required,uuid4"`
}

// SpinResult is the success payload for POST /api/lucky-wheel/spin.
type SpinResult struct {
	User  *UserResponse `json:"user"`
	Prize Prize         `json:"prize"`
	Log   *SpinLogEntry `json:"log"`
}
