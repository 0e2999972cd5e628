// backend-go/internal/dates/dates.go
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FallbackFiscalYear is assigned to order rows whose FY cell is empty or
// #N/A. The sheet owners keep this pinned rather than deriving it from the
// order date.
const FallbackFiscalYear = "25-26"

// gviz date cells come back as "Date(2024,0,15)" with a zero-indexed month.
var gvizDateRe = regexp.MustCompile(`Date\((\d{4}),(\d{1,2}),(\d{1,2}).*?\)`)

var layouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Parse converts a sheet date string to a time. Empty, #N/A and
// unrecognized inputs yield nil, never a zero time. The gviz Date(...)
// encoding takes priority over the plain layouts.
func Parse(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "#n/a") {
		return nil
	}

	if m := gvizDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// FiscalYear labels the April-start fiscal year containing t, e.g.
// "24-25" for any date from 2024-04-01 through 2025-03-31.
func FiscalYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		return fmt.Sprintf("%02d-%02d", (year-1)%100, year%100)
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// TwoDigitYear returns the last two digits of the parsed date's calendar
// year, or "" when the string does not parse.
func TwoDigitYear(s string) string {
	t := Parse(s)
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%02d", t.Year()%100)
}

// FiscalStartYY returns the two-digit starting year of an "YY-YY" fiscal
// label, or "" for malformed labels.
func FiscalStartYY(fy string) string {
	parts := strings.SplitN(strings.TrimSpace(fy), "-", 2)
	if len(parts) != 2 || len(parts[0]) != 2 {
		return ""
	}
	return parts[0]
}

// MonthAbbrev is the English three-letter month name used by the month
// filter and the chart axis.
func MonthAbbrev(t time.Time) string {
	return t.Format("Jan")
}

// MonthNames lists the twelve chart column labels in calendar order.
var MonthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// FormatDDMMMYY renders a sheet date as "02-Jan-06" for table display and
// search matching. Unparseable input renders as "~".
func FormatDDMMMYY(s string) string {
	t := Parse(s)
	if t == nil {
		return "~"
	}
	return t.Format("02-Jan-06")
}

// Range is an optional inclusive date window. Bounds are normalized to the
// start and end of their day so a single-day range still matches.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// NewRange parses the bound strings; unparseable bounds are treated as
// unset.
func NewRange(start, end string) Range {
	var r Range
	if t := Parse(start); t != nil {
		s := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		r.Start = &s
	}
	if t := Parse(end); t != nil {
		e := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
		r.End = &e
	}
	return r
}

// Active reports whether any bound is set. An active range supersedes
// fiscal-year scoping in the KPI engine.
func (r Range) Active() bool {
	return r.Start != nil || r.End != nil
}

// Contains reports whether t falls inside the window. A nil t never
// matches.
func (r Range) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// ContainsString parses s and tests membership.
func (r Range) ContainsString(s string) bool {
	return r.Contains(Parse(s))
}
