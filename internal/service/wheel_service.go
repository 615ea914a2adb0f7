package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionmart/lucky-wheel-service/internal/model"
)

// WheelService provides operator-facing wheel operations: the composed wheel
// document, config updates and the client-computed spin-log fallback path.
type WheelService struct {
	pool     TxBeginner
	wheels   WheelRepositoryInterface
	logs     SpinLogRepositoryInterface
	vouchers VoucherRepositoryInterface
	cache    WheelCache
	now      func() time.Time
}

// NewWheelService creates a new WheelService.
func NewWheelService(pool *pgxpool.Pool, wheels WheelRepositoryInterface, logs SpinLogRepositoryInterface, vouchers VoucherRepositoryInterface, cache WheelCache) *WheelService {
	return &WheelService{pool: pool, wheels: wheels, logs: logs, vouchers: vouchers, cache: cache, now: time.Now}
}

// NewWheelServiceWithDeps creates a WheelService with injected transaction
// beginner and clock. Primarily used for testing.
func NewWheelServiceWithDeps(pool TxBeginner, wheels WheelRepositoryInterface, logs SpinLogRepositoryInterface, vouchers VoucherRepositoryInterface, cache WheelCache, now func() time.Time) *WheelService {
	return &WheelService{pool: pool, wheels: wheels, logs: logs, vouchers: vouchers, cache: cache, now: now}
}

// GetWheel returns the full wheel document: config, prize table and spin logs.
// Returns ErrWheelNotConfigured if no wheel document exists.
func (s *WheelService) GetWheel(ctx context.Context) (*model.WheelResponse, error) {
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
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spin logs: %w", err)
	}
	return &model.WheelResponse{Config: *cfg, Prizes: prizes, SpinLogs: logs}, nil
}

// UpdateConfig merges the provided fields into the existing configuration and
// returns the merged result. Returns ErrWheelNotConfigured when no wheel
// document exists to merge into. The snapshot cache is invalidated so the
// engine sees the change within one request rather than one TTL.
func (s *WheelService) UpdateConfig(ctx context.Context, req *model.UpdateWheelConfigRequest) (*model.WheelConfig, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	cfg, err := s.wheels.GetConfigForUpdate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("get wheel config for update: %w", err)
	}
	if cfg == nil {
		return nil, ErrWheelNotConfigured
	}

	if req.Enabled != nil {
		cfg.Enabled = *req.Enabled
	}
	if req.DailySpins != nil {
		cfg.DailySpins = req.DailySpins
	}
	if req.ResetTime != nil {
		cfg.ResetTime = *req.ResetTime
	}
	if req.SpinCooldownMinutes != nil {
		cfg.SpinCooldownMinutes = *req.SpinCooldownMinutes
	}

	if err := s.wheels.SaveConfig(ctx, tx, cfg); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return cfg, nil
}

// AppendSpinLog appends a client-computed spin outcome as-is. This is the
// non-authoritative fallback path; the authoritative one is SpinService.Spin.
func (s *WheelService) AppendSpinLog(ctx context.Context, req *model.AppendSpinLogRequest) (*model.SpinLogEntry, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	ts := s.now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	entry := &model.SpinLogEntry{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		PrizeID:      req.PrizeID,
		PrizeType:    req.PrizeType,
		VoucherID:    req.VoucherID,
		PointsEarned: req.PointsEarned,
		Timestamp:    ts,
	}
	if err := s.logs.Insert(ctx, nil, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetVoucherTemplate retrieves one voucher template.
// Returns ErrVoucherNotFound if it doesn't exist.
func (s *WheelService) GetVoucherTemplate(ctx context.Context, voucherID string) (*model.VoucherTemplate, error) {
	t, err := s.vouchers.GetTemplate(ctx, nil, voucherID)
	if err != nil {
		return nil, fmt.Errorf("get voucher template: %w", err)
	}
	if t == nil {
		return nil, ErrVoucherNotFound
	}
	return t, nil
}

// ListVoucherTemplates retrieves all voucher templates.
func (s *WheelService) ListVoucherTemplates(ctx context.Context) ([]model.VoucherTemplate, error) {
	return s.vouchers.ListTemplates(ctx)
}

// CreateVoucherTemplate inserts a new voucher template, generating an id when
// the caller did not supply one.
func (s *WheelService) CreateVoucherTemplate(ctx context.Context, req *model.CreateVoucherTemplateRequest) (*model.VoucherTemplate, error) {
	if req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}
	id := req.ID
	if id == "" {
		id = "voucher-" + uuid.NewString()
	}
	t := &model.VoucherTemplate{
		ID:           id,
		Code:         req.Code,
		Title:        req.Title,
		Percent:      req.Percent,
		Amount:       req.Amount,
		FreeShipping: req.FreeShipping,
		Quantity:     *req.Quantity,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := s.vouchers.InsertTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
