package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const oneDay = 24 * time.Hour

// DefaultRetention is how long `trash purge` keeps trashed tasks when no
// retention is given.
const DefaultRetention = "30d"

var retentionUnits = map[string]time.Duration{
	"h":      time.Hour,
	"hr":     time.Hour,
	"hrs":    time.Hour,
	"hour":   time.Hour,
	"hours":  time.Hour,
	"d":      oneDay,
	"day":    oneDay,
	"days":   oneDay,
	"w":      7 * oneDay,
	"wk":     7 * oneDay,
	"wks":    7 * oneDay,
	"week":   7 * oneDay,
	"weeks":  7 * oneDay,
	"mo":     30 * oneDay,
	"month":  30 * oneDay,
	"months": 30 * oneDay,
}

// ParseRetention reads how long trashed tasks are kept, written as number and
// unit pairs: "30d", "2w", "1mo", "1w 3d". Months are 30 days. Blank input
// means DefaultRetention.
func ParseRetention(input string) (time.Duration, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		rest = DefaultRetention
	}

	var total time.Duration
	for rest != "" {
		i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		switch {
		case i == 0:
			return 0, fmt.Errorf("invalid retention %q, expected a number at %q", input, rest)
		case i < 0:
			return 0, fmt.Errorf("invalid retention %q, %s has no unit (h, d, w or mo)", input, rest)
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid retention %q: %w", input, err)
		}

		rest = strings.TrimLeft(rest[i:], " ")
		j := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if j < 0 {
			j = len(rest)
		}
		unit, ok := retentionUnits[rest[:j]]
		if !ok {
			return 0, fmt.Errorf("invalid retention %q, unknown unit %q (h, d, w or mo)", input, rest[:j])
		}
		total += time.Duration(n) * unit
		rest = strings.TrimLeft(rest[j:], " ,")
	}

	if total <= 0 {
		return 0, fmt.Errorf("retention %q must be longer than zero", input)
	}
	return total, nil
}

var retentionSteps = []struct {
	one, many string
	size      time.Duration
}{
	{"month", "months", 30 * oneDay},
	{"week", "weeks", 7 * oneDay},
	{"day", "days", oneDay},
	{"hour", "hours", time.Hour},
}

// FormatRetention spells out a retention in its largest whole units, for
// example "1 month" or "1 week 3 days". Anything under an hour is dropped.
func FormatRetention(d time.Duration) string {
	var parts []string
	for _, step := range retentionSteps {
		n := d / step.size
		if n <= 0 {
			continue
		}
		d -= n * step.size
		name := step.many
		if n == 1 {
			name = step.one
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	if len(parts) == 0 {
		return "less than an hour"
	}
	return strings.Join(parts, " ")
}

// PurgeCutoff is the deletion time at or before which a trashed task has
// outlived retention.
func PurgeCutoff(now time.Time, retention time.Duration) time.Time {
	return now.Add(-retention)
}
