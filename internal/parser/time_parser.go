package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateTimeRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})$`)
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	agoRegex      = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes|h|hr|hrs|hour|hours)\s+ago$`)
)

// ParseTime parses a session boundary relative to now.
// Supported formats:
// - RFC 3339 (e.g., "2024-01-01T10:00:00Z")
// - dd/mm/yyyy HH:MM in local time (e.g., "15/12/2024 09:30")
// - HH:MM today in local time (e.g., "14:05")
// - N minutes/hours ago (e.g., "45 minutes ago", "2h ago")
// - now
func ParseTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("time is required")
	}
	if strings.EqualFold(input, "now") {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t, nil
	}
	if m := dateTimeRegex.FindStringSubmatch(input); m != nil {
		return parseDateTime(m[1:], now.Location())
	}
	if m := clockRegex.FindStringSubmatch(input); m != nil {
		hour, minute, err := parseClock(m[1], m[2])
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
	}
	if m := agoRegex.FindStringSubmatch(strings.ToLower(input)); m != nil {
		return parseAgo(m[1], m[2], now)
	}

	return time.Time{}, fmt.Errorf("invalid time %q. Use: RFC3339, dd/mm/yyyy HH:MM, HH:MM, N minutes ago, N hours ago, or now", input)
}

// parseDateTime handles the dd/mm/yyyy HH:MM captures.
func parseDateTime(parts []string, loc *time.Location) (time.Time, error) {
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	hour, minute, err := parseClock(parts[3], parts[4])
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// time.Date normalizes overflow, e.g. 31/02 becomes 3 March
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid date %02d/%02d/%d", day, month, year)
	}
	return t, nil
}

func parseClock(h, m string) (int, int, error) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}
	return hour, minute, nil
}

// parseAgo handles relative times like "90 minutes ago".
func parseAgo(amount, unit string, now time.Time) (time.Time, error) {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number %q", amount)
	}

	switch unit {
	case "m", "min", "mins", "minute", "minutes":
		if n > 60*24*7 { // a week
			return time.Time{}, fmt.Errorf("minutes must be at most %d", 60*24*7)
		}
		return now.Add(-time.Duration(n) * time.Minute), nil
	default:
		if n > 24*7 {
			return time.Time{}, fmt.Errorf("hours must be at most %d", 24*7)
		}
		return now.Add(-time.Duration(n) * time.Hour), nil
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}

// FormatClock formats an elapsed duration as HH:MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
