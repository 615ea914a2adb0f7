package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

// VoucherRepository provides data access for voucher templates and the
// per-user voucher ledger (claimed / used) using pgx.
//
// The ledger row for a (user, voucher) pair is created once on grant and its
// used_at column is set at most once on redemption. The row is never deleted,
// which is what makes the claimed -> used transition one-way.
type VoucherRepository struct {
	pool database.TxQuerier
}

// NewVoucherRepository creates a new VoucherRepository with the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// NewVoucherRepositoryWithPool creates a new VoucherRepository with a custom querier.
// This is primarily used for testing.
func NewVoucherRepositoryWithPool(pool database.TxQuerier) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Grant idempotently records that a user claimed a voucher. Returns true when
// a new claim row was created, false when the voucher was already claimed (or
// already used, since used rows persist).
func (r *VoucherRepository) Grant(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error) {
	if q == nil {
		q = r.pool
	}
	tag, err := q.Exec(ctx,
		`INSERT INTO user_vouchers (user_id, voucher_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, voucher_id) DO NOTHING`,
		userID, voucherID)
	if err != nil {
		return false, fmt.Errorf("grant voucher %s to %s: %w", voucherID, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetClaimForUpdate locks and reads the ledger row for a (user, voucher)
// pair. claimed reports whether the row exists; usedAt is non-nil when the
// voucher was already redeemed.
func (r *VoucherRepository) GetClaimForUpdate(ctx context.Context, tx database.TxQuerier, userID, voucherID string) (claimed bool, usedAt *time.Time, err error) {
	err = tx.QueryRow(ctx,
		`SELECT used_at FROM user_vouchers WHERE user_id = $1 AND voucher_id = $2 FOR UPDATE`,
		userID, voucherID).Scan(&usedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("get voucher claim %s/%s: %w", userID, voucherID, err)
	}
	return true, usedAt, nil
}

// MarkUsed performs the one-way claimed -> used transition. The conditional
// WHERE used_at IS NULL makes redemption single-use: returns false when the
// voucher was already redeemed by a concurrent request.
func (r *VoucherRepository) MarkUsed(ctx context.Context, q database.TxQuerier, userID, voucherID string) (bool, error) {
	if q == nil {
		q = r.pool
	}
	tag, err := q.Exec(ctx,
		`UPDATE user_vouchers SET used_at = now() WHERE user_id = $1 AND voucher_id = $2 AND used_at IS NULL`,
		userID, voucherID)
	if err != nil {
		return false, fmt.Errorf("mark voucher %s used for %s: %w", voucherID, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's claimed-and-unused and used voucher id sets,
// in grant order. Both are empty slices (not nil) when the user has none.
func (r *VoucherRepository) ListByUser(ctx context.Context, userID string) (vouchers, usedVouchers []string, err error) {
	rows, err := r.pool.Query(ctx,
		`SELECT voucher_id, used_at FROM user_vouchers WHERE user_id = $1 ORDER BY granted_at`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list vouchers for %s: %w", userID, err)
	}
	defer rows.Close()

	vouchers = []string{}
	usedVouchers = []string{}
	for rows.Next() {
		var id string
		var usedAt *time.Time
		if err := rows.Scan(&id, &usedAt); err != nil {
			return nil, nil, fmt.Errorf("scan user voucher: %w", err)
		}
		if usedAt != nil {
			usedVouchers = append(usedVouchers, id)
		} else {
			vouchers = append(vouchers, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate user voucher rows: %w", err)
	}
	return vouchers, usedVouchers, nil
}

const voucherTemplateColumns = `id, code, title, percent, amount, free_shipping, quantity, expires_at, created_at`

// GetTemplate retrieves a voucher template by id.
// Returns nil, nil if the template is not found (service layer handles this).
func (r *VoucherRepository) GetTemplate(ctx context.Context, q database.TxQuerier, id string) (*model.VoucherTemplate, error) {
	if q == nil {
		q = r.pool
	}
	var t model.VoucherTemplate
	err := q.QueryRow(ctx,
		`SELECT `+voucherTemplateColumns+` FROM voucher_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.Code, &t.Title, &t.Percent, &t.Amount, &t.FreeShipping, &t.Quantity, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher template %s: %w", id, err)
	}
	return &t, nil
}

// ListTemplates retrieves all voucher templates, oldest first.
func (r *VoucherRepository) ListTemplates(ctx context.Context) ([]model.VoucherTemplate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+voucherTemplateColumns+` FROM voucher_templates ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list voucher templates: %w", err)
	}
	defer rows.Close()

	var templates []model.VoucherTemplate
	for rows.Next() {
		var t model.VoucherTemplate
		if err := rows.Scan(&t.ID, &t.Code, &t.Title, &t.Percent, &t.Amount, &t.FreeShipping, &t.Quantity, &t.ExpiresAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voucher template rows: %w", err)
	}

	if templates == nil {
		templates = []model.VoucherTemplate{}
	}
	return templates, nil
}

// InsertTemplate inserts a new voucher template.
func (r *VoucherRepository) InsertTemplate(ctx context.Context, t *model.VoucherTemplate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO voucher_templates (id, code, title, percent, amount, free_shipping, quantity, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Code, t.Title, t.Percent, t.Amount, t.FreeShipping, t.Quantity, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert voucher template %s: %w", t.ID, err)
	}
	return nil
}

// DecrementTemplateQuantity reduces a template's remaining stock by one,
// clamping at zero.
func (r *VoucherRepository) DecrementTemplateQuantity(ctx context.Context, q database.TxQuerier, id string) error {
	if q == nil {
		q = r.pool
	}
	_, err := q.Exec(ctx,
		`UPDATE voucher_templates SET quantity = GREATEST(quantity - 1, 0) WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("decrement quantity for template %s: %w", id, err)
	}
	return nil
}
