//go:build stress

// Scale Stress Tests
// ==================
//
// These tests spin up a throwaway Postgres container via dockertest and
// exercise the real repositories and spin engine against it.
//
// Usage:
//   go test -v -race -tags stress ./tests/stress/...
//
// These tests require significant resources (100-500 concurrent goroutines)
// and are designed to prove engine resilience beyond normal traffic.

package stress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unionmart/lucky-wheel-service/internal/service"
)

// runScaleTest fires requestsPerUser spins for each of userCount users, all
// concurrently, against a wheel allowing dailySpins spins per cycle, and
// checks the global accounting afterwards.
func runScaleTest(t *testing.T, userCount, requestsPerUser, dailySpins int, timeout time.Duration) {
	t.Helper()
	cleanupTables(t)
	seedWheel(t, dailySpins, "good_luck", "", "")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	totalRequests := userCount * requestsPerUser
	startTime := time.Now()
	t.Logf("Starting scale stress test: %d users x %d requests, allowance %d", userCount, requestsPerUser, dailySpins)

	spinService := newSpinService()

	var wg sync.WaitGroup
	var successes, noSpins, otherErrors int64

	for u := 0; u < userCount; u++ {
		userID := fmt.Sprintf("scale_user_%d", u)
		for r := 0; r < requestsPerUser; r++ {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := spinService.Spin(ctx, userID)
				switch {
				case err == nil:
					atomic.AddInt64(&successes, 1)
				case errors.Is(err, service.ErrNoSpinsLeft):
					atomic.AddInt64(&noSpins, 1)
				default:
					atomic.AddInt64(&otherErrors, 1)
					t.Logf("Unexpected error for %s: %v", userID, err)
				}
			}(userID)
		}
	}

	wg.Wait()

	executionTime := time.Since(startTime)
	t.Logf("Results - Successes: %d, NoSpinsLeft: %d, Other: %d", successes, noSpins, otherErrors)
	t.Logf("Execution time: %v (%.0f req/s)", executionTime, float64(totalRequests)/executionTime.Seconds())

	expectedSuccesses := int64(userCount * min(requestsPerUser, dailySpins))
	assert.Equal(t, expectedSuccesses, successes,
		"Each user should win exactly min(requests, allowance) spins")
	assert.Equal(t, int64(totalRequests)-expectedSuccesses, noSpins,
		"All other requests should be denied for exhaustion")
	assert.Equal(t, int64(0), otherErrors, "No other errors should occur")

	// Global accounting: one log entry per consumed spin, no negative allowance
	var totalLogs, negativeUsers int
	err := testPool.QueryRow(ctx, "SELECT COUNT(*) FROM spin_logs").Scan(&totalLogs)
	assert.NoError(t, err)
	assert.Equal(t, int(expectedSuccesses), totalLogs, "Spin log count should match successes")

	err = testPool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE remaining_spins < 0").Scan(&negativeUsers)
	assert.NoError(t, err)
	assert.Equal(t, 0, negativeUsers, "No user's allowance may go negative")

	assert.Less(t, executionTime, timeout, "Test should complete within %v", timeout)
}

// TestScaleStress100 runs 100 concurrent spins: 20 users, 5 requests each,
// allowance 3. Exactly 60 succeed, 40 are denied.
func TestScaleStress100(t *testing.T) {
	runScaleTest(t, 20, 5, 3, 60*time.Second)
}

// TestScaleStress200 runs 200 concurrent spins: 40 users, 5 requests each,
// allowance 3. Exactly 120 succeed, 80 are denied.
func TestScaleStress200(t *testing.T) {
	runScaleTest(t, 40, 5, 3, 60*time.Second)
}

// TestScaleStress500 runs 500 concurrent spins: 50 users, 10 requests each,
// allowance 3. Exactly 150 succeed, 350 are denied.
func TestScaleStress500(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping heavy stress test in short mode")
	}
	runScaleTest(t, 50, 10, 3, 120*time.Second)
}
