package billing

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity point in time (billing never cares about clocks)
// =============================================================================

// Date is a calendar day in UTC. All tenancy and schedule dates are days;
// normalizing here keeps comparisons safe regardless of how a time.Time
// was produced upstream.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time.Time to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysInclusive returns the inclusive day count of [from, to].
// DaysInclusive(Jan 1, Jan 1) == 1. Returns 0 when from is after to.
func DaysInclusive(from, to Date) int {
	if from.After(to) {
		return 0
	}
	return int(to.Time.Sub(from.Time).Hours()/24) + 1
}

// =============================================================================
// MONTH - The billing cadence unit
// =============================================================================

// Month is a calendar month. The engine bills rolling tenancies on a fixed
// calendar cadence, so almost every operation is keyed by Month rather
// than by a raw date.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	// Normalize out-of-range months (e.g. December+1) via time.Date.
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthOf returns the calendar month containing the date.
func MonthOf(d Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// ParseMonth parses "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Start returns the first day of the month.
func (m Month) Start() Date {
	return NewDate(m.Year, m.Month, 1)
}

// End returns the last day of the month.
func (m Month) End() Date {
	return NewDate(m.Year, m.Month+1, 1).AddDays(-1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

func (m Month) Next() Month     { return NewMonth(m.Year, m.Month+1) }
func (m Month) Previous() Month { return NewMonth(m.Year, m.Month-1) }

func (m Month) Equal(other Month) bool {
	return m.Year == other.Year && m.Month == other.Month
}

func (m Month) Before(other Month) bool {
	return m.Year < other.Year || (m.Year == other.Year && m.Month < other.Month)
}

func (m Month) After(other Month) bool {
	return other.Before(m)
}

// Contains reports whether the date falls inside the month.
func (m Month) Contains(d Date) bool {
	return MonthOf(d).Equal(m)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns a human-readable form for schedule descriptions,
// e.g. "January 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}
