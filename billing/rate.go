/*
rate.go - Weekly rent to calendar-month rate conversion

PURPOSE:
  The single source of the PPPW -> PCM conversion. Both the generator and
  the reporting estimator call this; keeping one implementation means the
  two can never numerically drift.

THE FORMULA:
  monthly = weekly * 52 / 12

  52 weeks per year, spread evenly over 12 months. The intermediate value
  is NOT rounded; Round2 is applied only when a final amount is emitted,
  so proration fractions don't compound rounding error.

EXAMPLE:
  100.00/week -> 433.3333.../month -> billed full month: 433.33
  21 of 30 days: (21/30) * 433.3333... = 303.3333... -> billed 303.33
*/
package billing

import "github.com/shopspring/decimal"

var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyRate converts a per-person-per-week rent to its calendar-month
// equivalent. The result is intentionally unrounded.
func MonthlyRate(rentPPPW decimal.Decimal) decimal.Decimal {
	return rentPPPW.Mul(weeksPerYear).Div(monthsPerYear)
}

// Round2 rounds a money amount to two decimal places. Call only at the
// point a final amount is emitted.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
