package options

import (
	"strings"
	"time"

	"tableflip.dev/progressly/pkg/timeutil"
)

const layoutShort = "1/2"

// ParseDue accepts YYYY-MM-DD or the short M/D form. A short date that has
// already passed this year means next year. Empty and "none" yield the zero
// Date.
func ParseDue(v string, now time.Time) (timeutil.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "none") {
		return timeutil.Date{}, nil
	}
	if t, err := time.Parse(layoutShort, v); err == nil {
		d := timeutil.Date{Year: now.Year(), Month: t.Month(), Day: t.Day()}
		if d.Before(timeutil.DateOf(now)) {
			d.Year++
		}
		return d, nil
	}
	return timeutil.ParseDate(v)
}
