// Package wheel holds the pure core of the lucky-wheel engine: reset-boundary
// arithmetic, the weighted prize draw, cooldown math and the points table.
// Nothing in this package performs I/O.
package wheel

import (
	"strconv"
	"strings"
	"time"
)

// DefaultResetTime is used when the configured reset time is missing or malformed.
const DefaultResetTime = "00:00"

// ParseResetTime parses an "HH:MM" time-of-day. Malformed input yields the
// parts of DefaultResetTime; invalid numeric components default to 0. There is
// deliberately no error path: config fallback policy is "default, not reject".
func ParseResetTime(s string) (hour, minute int) {
	if s == "" {
		s = DefaultResetTime
	}
	parts := strings.SplitN(s, ":", 2)
	hour = clampTimePart(parts[0], 23)
	if len(parts) == 2 {
		minute = clampTimePart(parts[1], 59)
	}
	return hour, minute
}

func clampTimePart(s string, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > max {
		return 0
	}
	return n
}

// LastResetBoundary returns the instant of the most recent daily reset
// crossing: today's reset instant if now has passed it, otherwise yesterday's.
// The reset time-of-day is interpreted in now's location. Pure and total.
func LastResetBoundary(now time.Time, resetTime string) time.Time {
	h, m := ParseResetTime(resetTime)
	todayReset := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if now.Before(todayReset) {
		return todayReset.Add(-24 * time.Hour)
	}
	return todayReset
}

// CooldownRemaining returns how long a user must still wait after a spin at
// lastSpinAt before the next one, rounded up to a whole second. Zero means the
// cooldown has elapsed.
func CooldownRemaining(now, lastSpinAt time.Time, cooldown time.Duration) time.Duration {
	remaining := cooldown - now.Sub(lastSpinAt)
	if remaining <= 0 {
		return 0
	}
	return remaining.Truncate(time.Second) + roundUpFraction(remaining)
}

func roundUpFraction(d time.Duration) time.Duration {
	if d%time.Second == 0 {
		return 0
	}
	return time.Second
}

// ResolveDailySpins picks the allowance for a fresh cycle: the configured
// value when set, else the user's previously cached allowance, else the hard
// default. An explicitly configured 0 is honored as "no spins".
func ResolveDailySpins(configured *int, cachedUserDaily, hardDefault int) int {
	if configured != nil {
		if *configured < 0 {
			return 0
		}
		return *configured
	}
	if cachedUserDaily > 0 {
		return cachedUserDaily
	}
	return hardDefault
}
