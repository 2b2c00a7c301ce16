package profile

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// createdAtLayouts are tried in order. The lookup backend emits RFC 3339; the
// rest cover older backends that sent bare dates.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04 MST",
	"2006-01-02",
	"01-02-2006",
}

// ParseCreatedAt parses a creation timestamp. Layouts without a zone are read
// in loc.
func ParseCreatedAt(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween is the whole number of days from created to now, floored.
// Creation times in the future count as zero days.
func DaysBetween(created, now time.Time) int {
	d := now.Sub(created)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

// JoinedLabel renders "{Mon} {d}, {yyyy} · {relative}", or "unknown" when the
// timestamp is absent or unreadable.
func JoinedLabel(createdAt string, now time.Time, loc *time.Location) string {
	created, ok := ParseCreatedAt(createdAt, loc)
	if !ok {
		return unknown
	}
	date := created.In(loc).Format("Jan 2, 2006")
	return date + " · " + RelativeAge(DaysBetween(created, now))
}

// RelativeAge is the short suffix of the joined label:
//
//	< 60 days   "{n}d ago"
//	< 365 days  "{n}mo ago"  n = days/30
//	otherwise   "{n}y ago"   n = days/365
func RelativeAge(days int) string {
	switch {
	case days < 60:
		return fmt.Sprintf("%dd ago", days)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// AgeLabel is the account age stat. Its buckets differ from RelativeAge:
//
//	< 60 days    "{n} days"
//	< 365 days   "{n} month(s)"   n = days/30
//	< 3650 days  "{n} year(s)"    n = days/365
//	otherwise    "{n} years"      n >= 10, never singular
func AgeLabel(days int) string {
	switch {
	case days < 60:
		return fmt.Sprintf("%d days", days)
	case days < 365:
		return plural(days/30, "month", "months")
	case days < 3650:
		return plural(days/365, "year", "years")
	default:
		return fmt.Sprintf("%d years", days/365)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
