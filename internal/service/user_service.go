package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionmart/lucky-wheel-service/internal/model"
)

// UserService provides user entitlement reads, merge-style updates and the
// voucher ledger operations (idempotent grant, checkout-time redemption).
type UserService struct {
	pool     TxBeginner
	users    UserRepositoryInterface
	vouchers VoucherRepositoryInterface
}

// NewUserService creates a new UserService.
func NewUserService(pool *pgxpool.Pool, users UserRepositoryInterface, vouchers VoucherRepositoryInterface) *UserService {
	return &UserService{pool: pool, users: users, vouchers: vouchers}
}

// NewUserServiceWithTxBeginner creates a UserService with a custom TxBeginner.
// Primarily used for testing.
func NewUserServiceWithTxBeginner(pool TxBeginner, users UserRepositoryInterface, vouchers VoucherRepositoryInterface) *UserService {
	return &UserService{pool: pool, users: users, vouchers: vouchers}
}

// Get retrieves a user with their voucher sets.
// Returns ErrUserNotFound if the user doesn't exist.
func (s *UserService) Get(ctx context.Context, userID string) (*model.UserResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	vouchers, used, err := s.vouchers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user vouchers: %w", err)
	}
	return composeUserResponse(user, vouchers, used), nil
}

// Update merges the provided fields into the stored user record and returns
// the merged result. Absent fields are left untouched. The user is created
// implicitly when it doesn't exist yet.
func (s *UserService) Update(ctx context.Context, req *model.UpdateUserRequest) (*model.UserResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if err := s.users.Ensure(ctx, tx, req.ID); err != nil {
		return nil, err
	}
	user, err := s.users.GetForUpdate(ctx, tx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.RemainingSpins != nil {
		user.RemainingSpins = *req.RemainingSpins
	}
	if req.DailySpins != nil {
		user.DailySpins = *req.DailySpins
	}
	if req.LastSpinAt != nil {
		user.LastSpinAt = req.LastSpinAt
	}
	if req.Points != nil {
		user.Points = *req.Points
	}

	if err := s.users.Save(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	vouchers, used, err := s.vouchers.ListByUser(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("list user vouchers: %w", err)
	}
	return composeUserResponse(user, vouchers, used), nil
}

// AddVoucher idempotently grants a voucher to the user: granting the same id
// twice leaves the claimed set with exactly one occurrence.
// Returns ErrUserNotFound when the user doesn't exist.
func (s *UserService) AddVoucher(ctx context.Context, userID, voucherID string) (*model.UserResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.vouchers.Grant(ctx, nil, userID, voucherID); err != nil {
		return nil, err
	}
	vouchers, used, err := s.vouchers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user vouchers: %w", err)
	}
	return composeUserResponse(user, vouchers, used), nil
}

// RedeemVoucher consumes a claimed voucher at checkout and computes the
// discount for the given order amounts. The claimed -> used transition is
// one-way: the conditional update only succeeds while used_at is null, so a
// voucher can never be redeemed twice.
// Returns:
//   - ErrUserNotFound if the user doesn't exist
//   - ErrVoucherNotClaimed if the user never claimed the voucher
//   - ErrVoucherUsed if the voucher was already redeemed
//   - ErrVoucherNotFound if the voucher template is gone
func (s *UserService) RedeemVoucher(ctx context.Context, req *model.RedeemVoucherRequest) (*model.RedemptionResult, error) {
	if req == nil || req.Subtotal == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.users.GetForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	claimed, usedAt, err := s.vouchers.GetClaimForUpdate(ctx, tx, req.UserID, req.VoucherID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrVoucherNotClaimed
	}
	if usedAt != nil {
		return nil, ErrVoucherUsed
	}

	template, err := s.vouchers.GetTemplate(ctx, tx, req.VoucherID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrVoucherNotFound
	}

	used, err := s.vouchers.MarkUsed(ctx, tx, req.UserID, req.VoucherID)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, ErrVoucherUsed
	}
	if err := s.vouchers.DecrementTemplateQuantity(ctx, tx, req.VoucherID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return computeRedemption(req.VoucherID, template, *req.Subtotal, req.ShippingFee), nil
}

// computeRedemption applies the voucher's monetary and shipping effects.
// Percent vouchers floor the discount; free shipping is independent of the
// monetary discount. The total never goes below zero.
func computeRedemption(voucherID string, t *model.VoucherTemplate, subtotal, shippingFee int64) *model.RedemptionResult {
	var discount int64
	switch {
	case t.Percent != nil:
		discount = subtotal * int64(*t.Percent) / 100
	case t.Amount != nil:
		discount = *t.Amount
	}

	shipping := shippingFee
	if t.FreeShipping {
		shipping = 0
	}

	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}
	return &model.RedemptionResult{
		VoucherID:    voucherID,
		Discount:     discount,
		ShippingFee:  shipping,
		FreeShipping: t.FreeShipping,
		Total:        total,
	}
}
