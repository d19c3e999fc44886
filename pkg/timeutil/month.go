package timeutil

import "time"

var monthShort = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthShort returns the three letter name for a zero-based month index.
func MonthShort(month int) string {
	if month < 0 || month > 11 {
		return "?"
	}
	return monthShort[month]
}

// MonthName returns the full name for a zero-based month index.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return "?"
	}
	return time.Month(month + 1).String()
}

// MonthIndex converts a time.Month to the zero-based index stored on tasks.
func MonthIndex(m time.Month) int {
	return int(m) - 1
}

// AddMonths moves a zero-based month/year pair by delta months, wrapping the year.
func AddMonths(month, year, delta int) (int, int) {
	total := year*12 + month + delta
	y := total / 12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	return m, y
}
