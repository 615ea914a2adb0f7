package model

import "time"

// User is the persisted per-user spin entitlement and reward balances.
// Vouchers live in their own table; see UserResponse for the composed view.
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	RemainingSpins int        `json:"remainingSpins"`
	DailySpins     int        `json:"dailySpins"`
	LastSpinAt     *time.Time `json:"lastSpinAt"`
	Points         int64      `json:"points"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// UserResponse is the API view of a user: the entitlement record plus the
// claimed and used voucher id sets.
type UserResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	RemainingSpins int        `json:"remainingSpins"`
	DailySpins     int        `json:"dailySpins"`
	LastSpinAt     *time.Time `json:"lastSpinAt"`
	Points         int64      `json:"points"`
	Vouchers       []string   `json:"vouchers"`
	UsedVouchers   []string   `json:"usedVouchers"`
}

// UpdateUserRequest is the DTO for PUT /api/user. Nil fields are left
// untouched: the server merges provided fields into the stored record rather
// than replacing it.
type UpdateUserRequest struct {
	ID             string     `json:"id" validate:"required,notblank,max=255"`
	Name           *string    `json:"name" validate:"omitempty,max=255"`
	RemainingSpins *int       `json:"remainingSpins" validate:"omitempty,gte=0"`
	DailySpins     *int       `json:"dailySpins" validate:"omitempty,gte=0"`
	LastSpinAt     *time.Time `json:"lastSpinAt"`
	Points         *int64     `json:"points" validate:"omitempty,gte=0"`
}

// AddVoucherRequest is the DTO for POST /api/user/add-voucher.
type AddVoucherRequest struct {
	UserID    string `json:"userId" validate:"required,notblank,max=255"`
	VoucherID string `json:"voucherId" validate:"required,notblank,max=255"`
}

// RedeemVoucherRequest is the DTO for POST /api/user/redeem-voucher.
// Amounts are integral VND.
type RedeemVoucherRequest struct {
	UserID      string `json:"userId" validate:"required,notblank,max=255"`
	VoucherID   string `json:"voucherId" validate:"required,notblank,max=255"`
	Subtotal    *int64 `json:"subtotal" validate:"required,gte=0"`
	ShippingFee int64  `json:"shippingFee" validate:"gte=0"`
}

// RedemptionResult is the outcome of a checkout-time voucher redemption.
type RedemptionResult struct {
	VoucherID    string `json:"voucherId"`
	Discount     int64  `json:"discount"`
	ShippingFee  int64  `json:"shippingFee"`
	FreeShipping bool   `json:"freeShipping"`
	Total        int64  `json:"total"`
}
