package stress

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/unionmart/lucky-wheel-service/internal/config"
	"github.com/unionmart/lucky-wheel-service/internal/repository"
	"github.com/unionmart/lucky-wheel-service/internal/service"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=testpass",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=testdb",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	hostAndPort := resource.GetHostPort("5432/tcp")
	databaseURL := fmt.Sprintf("postgres://testuser:testpass@%s/testdb?sslmode=disable", hostAndPort)

	log.Println("Connecting to database on url:", databaseURL)

	_ = resource.Expire(120) // Tell docker to kill the container after 120 seconds

	// Retry connection
	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		var err error
		testPool, err = pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return err
		}
		return testPool.Ping(context.Background())
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	// Create the schema
	if err := database.Migrate(context.Background(), testPool); err != nil {
		log.Fatalf("Could not run migrations: %s", err)
	}

	code := m.Run()

	// Cleanup
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}

	os.Exit(code)
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), "TRUNCATE TABLE spin_logs, user_vouchers, users, voucher_templates, prizes, wheel_config CASCADE")
	if err != nil {
		t.Fatalf("Failed to cleanup tables: %v", err)
	}
}

// newSpinService wires the real repositories against the containerized
// database. The cache is left nil so every load hits Postgres.
func newSpinService() *service.SpinService {
	userRepo := repository.NewUserRepository(testPool)
	wheelRepo := repository.NewWheelRepository(testPool)
	spinLogRepo := repository.NewSpinLogRepository(testPool)
	voucherRepo := repository.NewVoucherRepository(testPool)
	defaults := config.WheelDefaults{DailySpins: 3, ResetTime: "00:00", CooldownMinutes: 0}
	return service.NewSpinService(testPool, userRepo, wheelRepo, spinLogRepo, voucherRepo, nil, defaults)
}

// seedWheel inserts the config row and a single certain prize.
func seedWheel(t *testing.T, dailySpins int, prizeType, value, voucherID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := testPool.Exec(ctx,
		`INSERT INTO wheel_config (id, enabled, daily_spins, reset_time, spin_cooldown_minutes)
		 VALUES (1, TRUE, $1, '00:00', 0)
		 ON CONFLICT (id) DO UPDATE SET enabled = TRUE, daily_spins = $1`,
		dailySpins)
	if err != nil {
		t.Fatalf("Failed to seed wheel config: %v", err)
	}

	_, err = testPool.Exec(ctx,
		`INSERT INTO prizes (id, name, type, probability, value, voucher_id, position)
		 VALUES ('prize-1', 'Stress prize', $1, 1.0, $2, NULLIF($3, ''), 1)`,
		prizeType, value, voucherID)
	if err != nil {
		t.Fatalf("Failed to seed prize: %v", err)
	}
}

// remainingSpins reads a user's stored allowance.
func remainingSpins(t *testing.T, userID string) int {
	t.Helper()
	var remaining int
	err := testPool.QueryRow(context.Background(),
		"SELECT remaining_spins FROM users WHERE id = $1", userID).Scan(&remaining)
	if err != nil {
		t.Fatalf("Failed to read remaining_spins: %v", err)
	}
	return remaining
}

// spinLogCount counts the recorded outcomes for a user.
func spinLogCount(t *testing.T, userID string) int {
	t.Helper()
	var count int
	err := testPool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM spin_logs WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count spin logs: %v", err)
	}
	return count
}
