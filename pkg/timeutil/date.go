package timeutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const layoutISO = "2006-01-02"

// Date is a calendar day without a time or zone. The zero Date means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses YYYY-MM-DD. Longer ISO timestamps are cut to their date part.
// An empty string yields the zero Date.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Date{}, nil
	}
	if len(v) > len(layoutISO) && v[len(layoutISO)] == 'T' {
		v = v[:len(layoutISO)]
	}
	t, err := time.Parse(layoutISO, v)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns local midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseDate(v)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil is the number of whole calendar days from now's day to d.
// Negative values are in the past.
func DaysUntil(d Date, now time.Time) int {
	// Noon avoids DST shifts turning a day into 23 or 25 hours.
	from := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
	to := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// IsOverdue reports a due date strictly before today.
func IsOverdue(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	return DaysUntil(d, now) < 0
}

// IsDueToday reports a due date equal to today.
func IsDueToday(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	return DaysUntil(d, now) == 0
}

// IsDueThisWeek reports a due date between today and seven days out, inclusive.
func IsDueThisWeek(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	days := DaysUntil(d, now)
	return days >= 0 && days <= 7
}

// FormatDate renders a due date relative to now. The zero Date renders as "".
func FormatDate(d Date, now time.Time) string {
	if d.IsZero() {
		return ""
	}
	days := DaysUntil(d, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 1 && days <= 7:
		return fmt.Sprintf("In %d days", days)
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	}
	t := d.Time(time.UTC)
	if d.Year != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// FormatDeletedTime renders how long ago a trashed task was deleted.
func FormatDeletedTime(deletedAt, now time.Time) string {
	diff := now.Sub(deletedAt)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
}
