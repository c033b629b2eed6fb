// Package timespec parses the date arguments of booking and search commands
// into epoch milliseconds.
package timespec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Parse parses a time specification into a Unix timestamp (milliseconds).
// Supports four formats:
//   - RFC3339 timestamps: "2026-03-01T14:00:00Z"
//   - Calendar dates, midnight UTC: "2026-03-01"
//   - Epoch milliseconds: "1772323200000"
//   - Offsets from now, into the future: "48h", "+90m", "+3d"
func Parse(spec string, now time.Time) (int64, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if t, err := time.Parse(dateLayout, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if ms, err := strconv.ParseInt(spec, 10, 64); err == nil {
		return ms, nil
	}

	if d, err := parseOffset(strings.TrimPrefix(spec, "+")); err == nil {
		return now.Add(d).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use a date like '2026-03-01', RFC3339, epoch millis, or an offset like '+3d')", spec)
}

// parseOffset accepts Go durations plus a whole-day suffix "d".
func parseOffset(spec string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(spec, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(spec)
}

// ParseRange parses both --from and --to flags into a half-open interval.
// Both empty means no range and returns zeros. Otherwise both are required
// and from must be before to.
func ParseRange(from, to string, now time.Time) (int64, int64, error) {
	if from == "" && to == "" {
		return 0, 0, nil
	}
	if from == "" || to == "" {
		return 0, 0, fmt.Errorf("--from and --to must be given together")
	}

	fromMS, err := Parse(from, now)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --from: %w", err)
	}

	toMS, err := Parse(to, now)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --to: %w", err)
	}

	if fromMS >= toMS {
		return 0, 0, fmt.Errorf("--from must be before --to")
	}

	return fromMS, toMS, nil
}

// Format renders epoch milliseconds as an RFC3339 UTC timestamp.
func Format(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
