package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

// mockUserRepository is a mock implementation of UserRepositoryInterface.
type mockUserRepository struct {
	ensureFn          func(ctx context.Context, q database.TxQuerier, id string) error
	getFn             func(ctx context.Context, id string) (*model.User, error)
	getForUpdateFn    func(ctx context.Context, tx database.TxQuerier, id string) (*model.User, error)
	updateSpinStateFn func(ctx context.Context, q database.TxQuerier, id string, remaining, daily int, lastSpinAt *time.Time) error
	creditPointsFn    func(ctx context.Context, q database.TxQuerier, id string, points int) error
	saveFn            func(ctx context.Context, q database.TxQuerier, u *model.User) error
}

func (m *mockUserRepository) Ensure(ctx context.Context, q database.TxQuerier, id string) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, q, id)
	}
	return nil
}

func (m *mockUserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.User, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateSpinState(ctx context.Context, q database.TxQuerier, id string, remaining, daily int, lastSpinAt *time.Time) error {
	if m.updateSpinStateFn != nil {
		return m.updateSpinStateFn(ctx, q, id, remaining, daily, lastSpinAt)
	}
	return nil
}

func (m *mockUserRepository) CreditPoints(ctx context.Context, q database.TxQuerier, id string, points int) error {
	if m.creditPointsFn != nil {
		return m.creditPointsFn(ctx, q, id, points)
	}
	return nil
}

func (m *mockUserRepository) Save(ctx context.Context, q database.TxQuerier, u *model.User) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, q, u)
	}
	return nil
}

// mockWheelRepository is a mock implementation of WheelRepositoryInterface.
type mockWheelRepository struct {
	getConfigFn          func(ctx context.Context, q database.TxQuerier) (*model.WheelConfig, error)
	getConfigForUpdateFn func(ctx context.Context, tx database.TxQuerier) (*model.WheelConfig, error)
	saveConfigFn         func(ctx context.Context, q database.TxQuerier, cfg *model.WheelConfig) error
	listPrizesFn         func(ctx context.Context) ([]model.Prize, error)
}

func (m *mockWheelRepository) GetConfig(ctx context.Context, q database.TxQuerier) (*model.WheelConfig, error) {
	if m.getConfigFn != nil {
		return m.getConfigFn(ctx, q)
	}
	return nil, nil
}

func (m *mockWheelRepository) GetConfigForUpdate(ctx context.Context, tx database.TxQuerier) (*model.WheelConfig, error) {
	if m.getConfigForUpdateFn != nil {
		return m.getConfigForUpdateFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockWheelRepository) SaveConfig(ctx context.Context, q database.TxQuerier, cfg *model.WheelConfig) error {
	if m.saveConfigFn != nil {
		return m.saveConfigFn(ctx, q, cfg)
	}
	return nil
}

func (m *mockWheelRepository) ListPrizes(ctx context.Context) ([]model.Prize, error) {
	if m.listPrizesFn != nil {
		return m.listPrizesFn(ctx)
	}
	return []model.Prize{}, nil
}

// mockSpinLogRepository is a mock implementation of SpinLogRepositoryInterface.
type mockSpinLogRepository struct {
	insertFn  func(ctx context.Context, q database.TxQuerier, e *model.SpinLogEntry) error
	getByIDFn func(ctx context.Context, id string) (*model.SpinLogEntry, error)
	listFn    func(ctx context.Context) ([]model.SpinLogEntry, error)
}

func (m *mockSpinLogRepository) Insert(ctx context.Context, q database.TxQuerier, e *model.SpinLogEntry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, q, e)
	}
	return nil
}

func (m *mockSpinLogRepository) GetByID(ctx context.Context, id string) (*model.SpinLogEntry, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSpinLogRepository) List(ctx context.Context) ([]model.SpinLogEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.SpinLogEntry{}, nil
}

// mockVoucherRepository is a mock implementation of VoucherRepositoryInterface.
type mockVoucherRepository struct {
	grantFn             func(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error)
	getClaimForUpdateFn func(ctx context.Context, tx database.TxQuerier, userID, voucherID string) (bool, *time.Time, error)
	markUsedFn          func(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error)
	listByUserFn        func(ctx context.Context, userID string) ([]string, []string, error)
	getTemplateFn       func(ctx context.Context, q database.TxQuerier, id string) (*model.VoucherTemplate, error)
	listTemplatesFn     func(ctx context.Context) ([]model.VoucherTemplate, error)
	insertTemplateFn    func(ctx context.Context, t *model.VoucherTemplate) error
	decrementFn         func(ctx context.Context, q database.TxQuerier, id string) error
}

func (m *mockVoucherRepository) Grant(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error) {
	if m.grantFn != nil {
		return m.grantFn(ctx, q, userID, voucherID)
	}
	return true, nil
}

func (m *mockVoucherRepository) GetClaimForUpdate(ctx context.Context, tx database.TxQuerier, userID, voucherID string) (bool, *time.Time, error) {
	if m.getClaimForUpdateFn != nil {
		return m.getClaimForUpdateFn(ctx, tx, userID, voucherID)
	}
	return false, nil, nil
}

func (m *mockVoucherRepository) MarkUsed(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error) {
	if m.markUsedFn != nil {
		return m.markUsedFn(ctx, q, userID, voucherID)
	}
	return true, nil
}

func (m *mockVoucherRepository) ListByUser(ctx context.Context, userID string) ([]string, []string, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []string{}, []string{}, nil
}

func (m *mockVoucherRepository) GetTemplate(ctx context.Context, q database.TxQuerier, id string) (*model.VoucherTemplate, error) {
	if m.getTemplateFn != nil {
		return m.getTemplateFn(ctx, q, id)
	}
	return nil, nil
}

func (m *mockVoucherRepository) ListTemplates(ctx context.Context) ([]model.VoucherTemplate, error) {
	if m.listTemplatesFn != nil {
		return m.listTemplatesFn(ctx)
	}
	return []model.VoucherTemplate{}, nil
}

func (m *mockVoucherRepository) InsertTemplate(ctx context.Context, t *model.VoucherTemplate) error {
	if m.insertTemplateFn != nil {
		return m.insertTemplateFn(ctx, t)
	}
	return nil
}

func (m *mockVoucherRepository) DecrementTemplateQuantity(ctx context.Context, q database.TxQuerier, id string) error {
	if m.decrementFn != nil {
		return m.decrementFn(ctx, q, id)
	}
	return nil
}

// mockWheelCache is a mock implementation of WheelCache.
type mockWheelCache struct {
	getFn        func(ctx context.Context) (*model.WheelSnapshot, bool)
	setFn        func(ctx context.Context, snap *model.WheelSnapshot)
	invalidateFn func(ctx context.Context)
}

func (m *mockWheelCache) Get(ctx context.Context) (*model.WheelSnapshot, bool) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, false
}

func (m *mockWheelCache) Set(ctx context.Context, snap *model.WheelSnapshot) {
	if m.setFn != nil {
		m.setFn(ctx, snap)
	}
}

func (m *mockWheelCache) Invalidate(ctx context.Context) {
	if m.invalidateFn != nil {
		m.invalidateFn(ctx)
	}
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func intPtr(i int) *int {
	return &i
}

func int64Ptr(i int64) *int64 {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func timePtr(t time.Time) *time.Time {
	return &t
}
