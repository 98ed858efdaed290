package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseClock converts an HH:mm time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate reads a calendar date in loc. Plain YYYY-MM-DD is preferred;
// full RFC3339 timestamps are accepted and reduced to their date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	ts = ts.In(loc)
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc), nil
}

// IsPastDate reports whether date falls strictly before the calendar day
// of now. Both are compared in now's location.
func IsPastDate(date, now time.Time) bool {
	return date.In(now.Location()).Format(DateLayout) < now.Format(DateLayout)
}
