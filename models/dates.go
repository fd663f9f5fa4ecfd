package models

import "time"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an API date string as "Jan 2, 2006" in UTC, or "N/A".
func FormatDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime is FormatDate with the time of day.
func FormatDateTime(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return "N/A"
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
