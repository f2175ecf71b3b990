/*
proration.go - Period windowing and proration

PURPOSE:
  Given a target month and a tenancy's start/end dates, compute the
  billable day window inside that month and the amount it is worth.
  Pure functions, no side effects; the orchestrator and the reporting
  estimator both build on these.

ALGORITHM (for one target month):
  1. Clip the month to the tenancy: effective start = max(month start,
     tenancy start); effective end = min(month end, tenancy end).
  2. No overlap -> no obligation.
  3. days == days-in-month -> full monthly rate; otherwise
     amount = (days / daysInMonth) * monthlyRate.
  4. Round once, at emission. Amounts that round to <= 0 produce nothing.

DUE DATE POLICY:
  Rolling tenancies bill on a fixed calendar cadence: the due date is
  always the 1st of the month. The *amount* absorbs partial-period
  proration, not the due date. The one exception is the very first
  period of a mid-month start - see firstpayment.go.
*/
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Obligation is a computed (not yet materialized) rent charge for one
// member. The orchestrator turns obligations into PaymentSchedule rows;
// the estimator returns them to reporting as-is.
type Obligation struct {
	DueDate     Date
	Amount      decimal.Decimal
	CoversFrom  Date
	CoversTo    Date
	Description string
}

// billableWindow clips the target month to the tenancy's lifetime.
// ok is false when the month and the tenancy do not overlap at all.
func billableWindow(target Month, start Date, end *Date) (from, to Date, ok bool) {
	monthStart := target.Start()
	monthEnd := target.End()

	if monthEnd.Before(start) {
		return Date{}, Date{}, false
	}
	if end != nil && monthStart.After(*end) {
		return Date{}, Date{}, false
	}

	from = MaxDate(monthStart, start)
	to = monthEnd
	if end != nil {
		to = MinDate(monthEnd, *end)
	}
	return from, to, true
}

// rawMonthAmount returns the unrounded amount for a window inside the
// target month. Full months short-circuit to the plain monthly rate so a
// 28-day February is never treated as a proration.
func rawMonthAmount(target Month, from, to Date, rentPPPW decimal.Decimal) decimal.Decimal {
	monthly := MonthlyRate(rentPPPW)
	days := DaysInclusive(from, to)
	daysInMonth := target.Days()

	if days == daysInMonth {
		return monthly
	}
	return monthly.
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(daysInMonth)))
}

// ProrateMonth computes the rent obligation for one member and one target
// month. Returns ok=false when nothing is owed: the month doesn't overlap
// the tenancy, or the amount rounds to zero or below.
//
// The due date is always the 1st of the target month, by policy.
func ProrateMonth(target Month, start Date, end *Date, rentPPPW decimal.Decimal) (Obligation, bool) {
	from, to, ok := billableWindow(target, start, end)
	if !ok {
		return Obligation{}, false
	}

	amount := Round2(rawMonthAmount(target, from, to, rentPPPW))
	if !amount.IsPositive() {
		return Obligation{}, false
	}

	desc := fmt.Sprintf("Rent for %s", target.Label())
	if DaysInclusive(from, to) != target.Days() {
		desc = fmt.Sprintf("Rent for %s to %s", from, to)
	}

	return Obligation{
		DueDate:     target.Start(),
		Amount:      amount,
		CoversFrom:  from,
		CoversTo:    to,
		Description: desc,
	}, true
}
