package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

// UserRepositoryInterface defines the interface for user entitlement data access.
type UserRepositoryInterface interface {
	Ensure(ctx context.Context, q database.TxQuerier, id string) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.User, error)
	UpdateSpinState(ctx context.Context, q database.TxQuerier, id string, remaining, daily int, lastSpinAt *time.Time) error
	CreditPoints(ctx context.Context, q database.TxQuerier, id string, points int) error
	Save(ctx context.Context, q database.TxQuerier, u *model.User) error
}

// WheelRepositoryInterface defines the interface for wheel config and prize data access.
type WheelRepositoryInterface interface {
	GetConfig(ctx context.Context, q database.TxQuerier) (*model.WheelConfig, error)
	GetConfigForUpdate(ctx context.Context, tx database.TxQuerier) (*model.WheelConfig, error)
	SaveConfig(ctx context.Context, q database.TxQuerier, cfg *model.WheelConfig) error
	ListPrizes(ctx context.Context) ([]model.Prize, error)
}

// SpinLogRepositoryInterface defines the interface for the append-only spin log.
type SpinLogRepositoryInterface interface {
	Insert(ctx context.Context, q database.TxQuerier, e *model.SpinLogEntry) error
	GetByID(ctx context.Context, id string) (*model.SpinLogEntry, error)
	List(ctx context.Context) ([]model.SpinLogEntry, error)
}

// VoucherRepositoryInterface defines the interface for voucher templates and
// the per-user voucher ledger.
type VoucherRepositoryInterface interface {
	Grant(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error)
	GetClaimForUpdate(ctx context.Context, tx database.TxQuerier, userID, voucherID string) (claimed bool, usedAt *time.Time, err error)
	MarkUsed(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error)
	ListByUser(ctx context.Context, userID string) (vouchers, usedVouchers []string, err error)
	GetTemplate(ctx context.Context, q database.TxQuerier, id string) (*model.VoucherTemplate, error)
	ListTemplates(ctx context.Context) ([]model.VoucherTemplate, error)
	InsertTemplate(ctx context.Context, t *model.VoucherTemplate) error
	DecrementTemplateQuantity(ctx context.Context, q database.TxQuerier, id string) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WheelCache defines the interface for the short-TTL wheel snapshot cache.
// Implementations must treat the cache as best-effort: a miss or backend
// failure falls through to the repository.
type WheelCache interface {
	Get(ctx context.Context) (*model.WheelSnapshot, bool)
	Set(ctx context.Context, snap *model.WheelSnapshot)
	Invalidate(ctx context.Context)
}

func composeUserResponse(u *model.User, vouchers, usedVouchers []string) *model.UserResponse {
	return &model.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		RemainingSpins: u.RemainingSpins,
		DailySpins:     u.DailySpins,
		LastSpinAt:     u.LastSpinAt,
		Points:         u.Points,
		Vouchers:       vouchers,
		UsedVouchers:   usedVouchers,
	}
}
