package ledger

import (
	"fmt"
	"time"
)

const yearMonthLayout = "2006-01"

// YearMonth identifies one calendar month, formatted as YYYY-MM.
// It scopes a single payroll run.
type YearMonth string

var ErrInvalidYearMonth = fmt.Errorf("year-month must be formatted as YYYY-MM")

// YearMonthOf returns the month t falls in, in t's own location.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth(t.Format(yearMonthLayout))
}

func ParseYearMonth(s string) (YearMonth, error) {
	if _, err := time.Parse(yearMonthLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth(s), nil
}

// FirstDay returns midnight of the first day of the month in loc.
func (ym YearMonth) FirstDay(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(yearMonthLayout, string(ym), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, string(ym))
	}
	return t, nil
}

func (ym YearMonth) String() string {
	return string(ym)
}
