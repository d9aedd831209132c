package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatClock renders seconds as m:ss. Minutes are not wrapped into hours,
// so 5400 seconds is "90:00". Negative input is treated as zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds compactly for listings, e.g. "1h 30m", "25m", "45s".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// ParseDurationSeconds accepts a bare number of minutes ("25"), a Go
// duration ("1h30m", "90s") or a clock value ("12:30" for 12 minutes
// 30 seconds) and returns whole seconds.
func ParseDurationSeconds(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return minutes * 60, nil
	}

	if m, s, ok := strings.Cut(input, ":"); ok {
		minutes, err := strconv.Atoi(m)
		if err != nil || minutes < 0 {
			return 0, fmt.Errorf("invalid minutes in %q", input)
		}
		seconds, err := strconv.Atoi(s)
		if err != nil || seconds < 0 || seconds > 59 || len(s) != 2 {
			return 0, fmt.Errorf("invalid seconds in %q", input)
		}
		total := minutes*60 + seconds
		if total <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return total, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use minutes, m:ss or a value like 1h30m", input)
	}
	if d < time.Second {
		return 0, fmt.Errorf("duration must be at least one second")
	}
	return int(d / time.Second), nil
}

// FormatMillis renders epoch milliseconds in local time
func FormatMillis(ms int64, layout string) string {
	return time.UnixMilli(ms).Local().Format(layout)
}
