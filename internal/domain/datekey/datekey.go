// Package datekey parses and formats the DD/MM/YYYY keys that index the
// catalog, and provides the calendar arithmetic the game needs.
package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout constants.
const (
	fieldCount = 3
	separator  = "/"
)

// Hebrew day-of-week labels, indexed by time.Weekday (0 = Sunday).
var dayNames = [7]string{
	"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת",
}

// Hebrew month labels, indexed by month-1.
var monthNames = [12]string{
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// Parse converts a DD/MM/YYYY key into a calendar date. The text must be
// exactly three /-separated integer fields; calendar correctness is not
// validated, so an overflowing day rolls into the next month following
// normal date arithmetic.
func Parse(text string) (time.Time, error) {
	parts := strings.Split(text, separator)
	if len(parts) != fieldCount {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	nums := make([]int, fieldCount)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, text)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// Format is the inverse of Parse: zero-padded two-digit day and month.
func Format(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// DayName returns the localized weekday label for t.
func DayName(t time.Time) string {
	return dayNames[int(t.Weekday())]
}

// AddDays shifts t by n calendar days, handling month and year rollover.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DisplayDate renders t in the long localized form, e.g. "12 בספטמבר 2024".
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%d ב%s %d", t.Day(), monthNames[int(t.Month())-1], t.Year())
}

// FooterPhrase describes t relative to now for the footer line:
// "today" and "yesterday" are special-cased, anything else gets the
// long-form display date.
func FooterPhrase(t, now time.Time) string {
	switch {
	case SameDay(t, now):
		return "היום"
	case SameDay(t, AddDays(now, -1)):
		return "אתמול"
	default:
		return "-" + DisplayDate(t)
	}
}
