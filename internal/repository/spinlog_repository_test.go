package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unionmart/lucky-wheel-service/internal/model"
)

func TestSpinLogRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewSpinLogRepositoryWithPool(&mockQuerier{})
	ts := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	err := repo.Insert(context.Background(), mockTx, &model.SpinLogEntry{
		ID: "attempt-1", UserID: "user_001", PrizeID: "prize-voucher-50k",
		PrizeType: model.PrizeTypeVoucher, VoucherID: "voucher-50k", PointsEarned: 10, Timestamp: ts,
	})

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO spin_logs")
	assert.Contains(t, capturedSQL, "NULLIF($5, '')", "empty voucher id must be stored as NULL")
	assert.Equal(t, "attempt-1", capturedArgs[0])
	assert.Equal(t, "voucher-50k", capturedArgs[4])
	assert.Equal(t, ts, capturedArgs[6])
}

func TestSpinLogRepository_Insert_FallsBackToPool(t *testing.T) {
	poolUsed := false
	pool := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			poolUsed = true
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewSpinLogRepositoryWithPool(pool)
	err := repo.Insert(context.Background(), nil, &model.SpinLogEntry{ID: "attempt-1", UserID: "user_001"})

	require.NoError(t, err)
	assert.True(t, poolUsed, "a nil querier should fall back to the pool")
}

func TestSpinLogRepository_GetByID_Success(t *testing.T) {
	ts := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	mock := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{
				scanFn: func(dest ...any) error {
					*(dest[0].(*string)) = "attempt-1"
					*(dest[1].(*string)) = "user_001"
					*(dest[2].(*string)) = "prize-luck"
					*(dest[3].(*model.PrizeType)) = model.PrizeTypeGoodLuck
					*(dest[4].(*string)) = ""
					*(dest[5].(*int)) = 1
					*(dest[6].(*time.Time)) = ts
					return nil
				},
			}
		},
	}

	repo := NewSpinLogRepositoryWithPool(mock)
	entry, err := repo.GetByID(context.Background(), "attempt-1")

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "attempt-1", entry.ID)
	assert.Equal(t, model.PrizeTypeGoodLuck, entry.PrizeType)
	assert.Empty(t, entry.VoucherID)
}

func TestSpinLogRepository_GetByID_NotFound(t *testing.T) {
	mock := &mockQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := NewSpinLogRepositoryWithPool(mock)
	entry, err := repo.GetByID(context.Background(), "unknown")

	require.NoError(t, err)
	assert.Nil(t, entry, "Should return nil for not found, it marks a first-time reward application")
}

func TestSpinLogRepository_List_Success(t *testing.T) {
	mock := &mockQuerier{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			assert.Contains(t, sql, "ORDER BY created_at")
			return &mockRows{
				rowCount: 2,
				scanFn: func(row int, dest ...any) error {
					*(dest[0].(*string)) = []string{"log-1", "log-2"}[row]
					*(dest[1].(*string)) = "user_001"
					return nil
				},
			}, nil
		},
	}

	repo := NewSpinLogRepositoryWithPool(mock)
	entries, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "log-1", entries[0].ID)
}

func TestSpinLogRepository_List_Empty(t *testing.T) {
	repo := NewSpinLogRepositoryWithPool(&mockQuerier{})
	entries, err := repo.List(context.Background())

	require.NoError(t, err)
	require.NotNil(t, entries, "Should return empty slice, not nil")
	assert.Len(t, entries, 0)
}

func TestSpinLogRepository_Insert_DatabaseError(t *testing.T) {
	dbErr := errors.New("database insert timeout")
	mockTx := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewSpinLogRepositoryWithPool(&mockQuerier{})
	err := repo.Insert(context.Background(), mockTx, &model.SpinLogEntry{ID: "attempt-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert spin log")
	assert.True(t, errors.Is(err, dbErr), "should wrap original error")
}
