package model

import "time"

// VoucherTemplate describes a redeemable voucher. Percent and Amount are
// mutually exclusive in practice; FreeShipping is independent of both.
type VoucherTemplate struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Percent      *int       `json:"percent,omitempty"`
	Amount       *int64     `json:"amount,omitempty"`
	FreeShipping bool       `json:"freeShipping"`
	Quantity     int        `json:"quantity"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}

// CreateVoucherTemplateRequest is the DTO for POST /api/vouchers.
type CreateVoucherTemplateRequest struct {
	ID           string     `json:"id" validate:"omitempty,max=255"`
	Code         string     `json:"code" validate:"required,notblank,max=64"`
	Title        string     `json:"title" validate:"required,notblank,max=255"`
	Percent      *int       `json:"percent" validate:"omitempty,gte=1,lte=100"`
	Amount       *int64     `json:"amount" validate:"omitempty,gte=1"`
	FreeShipping bool       `json:"freeShipping"`
	Quantity     *int       `json:"quantity" validate:"required,gte=0"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}
