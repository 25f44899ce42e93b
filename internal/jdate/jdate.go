// Package jdate normalizes the date notations found in Japanese official
// documents: era-relative forms (令和7年1月23日, 平成16年9月22日) and plain
// Gregorian forms (2024年12月31日), with full- or half-width digits.
package jdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// Date is a civil calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Year, d.Month, d.Day = t.Year(), int(t.Month()), t.Day()
	return nil
}

// Era offsets: era year 1 corresponds to offset+1 in the Gregorian calendar.
var eraOffsets = map[string]int{
	"令和": 2018,
	"平成": 1988,
}

var (
	eraDateRe     = regexp.MustCompile(`(令和|平成)(元|\d{1,2})年(\d{1,2})月(\d{1,2})日`)
	westernDateRe = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	anyDateRe     = regexp.MustCompile(`(令和|平成)(元|\d{1,2})年\d{1,2}月\d{1,2}日|\d{4}年\d{1,2}月\d{1,2}日`)
)

// Parse normalizes a date string to a Date. It returns nil on any input that
// does not match a known form or holds an out-of-range month or day.
func Parse(s string) *Date {
	s = width.Narrow.String(strings.TrimSpace(s))

	if m := eraDateRe.FindStringSubmatch(s); m != nil {
		y := 1
		if m[2] != "元" {
			y, _ = strconv.Atoi(m[2])
		}
		month, _ := strconv.Atoi(m[3])
		day, _ := strconv.Atoi(m[4])
		return newDate(eraOffsets[m[1]]+y, month, day)
	}
	if m := westernDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return newDate(year, month, day)
	}
	return nil
}

// ExtractFromText scans free text for the first date-like substring and
// parses it. Returns nil when no substring matches.
func ExtractFromText(s string) *Date {
	s = width.Narrow.String(s)
	m := anyDateRe.FindString(s)
	if m == "" {
		return nil
	}
	return Parse(m)
}

func newDate(year, month, day int) *Date {
	if year < 1868 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	// Reject dates like 2月30日 that survive the range check above.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	return &Date{Year: year, Month: month, Day: day}
}
