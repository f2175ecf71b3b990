package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/lettings-engine/billing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func pppw(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) billing.Date {
	return billing.NewDate(y, m, d)
}

func datePtr(y int, m time.Month, d int) *billing.Date {
	dt := billing.NewDate(y, m, d)
	return &dt
}

func amountEquals(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(pppw(want)) {
		t.Errorf("expected amount %s, got %s", want, got)
	}
}

// =============================================================================
// RATE CONVERSION
// =============================================================================

func TestMonthlyRate_FullMonthAmount(t *testing.T) {
	// GIVEN: 100.00/week
	// WHEN: Converted and rounded at emission
	// THEN: 100 * 52 / 12 = 433.3333... -> 433.33

	got := billing.Round2(billing.MonthlyRate(pppw("100")))
	amountEquals(t, "433.33", got)
}

func TestMonthlyRate_IntermediateValueNotRounded(t *testing.T) {
	// The unrounded rate must carry more precision than two decimals,
	// otherwise proration fractions compound rounding error.

	rate := billing.MonthlyRate(pppw("100"))
	if rate.Equal(pppw("433.33")) {
		t.Errorf("monthly rate should not be pre-rounded, got %s", rate)
	}
}

// =============================================================================
// PRORATION
// =============================================================================

func TestProrateMonth_FullMonth(t *testing.T) {
	// GIVEN: Tenancy running across all of April 2026
	// WHEN: Prorating April
	// THEN: Full monthly rate, covering the whole month, due the 1st

	ob, ok := billing.ProrateMonth(
		billing.NewMonth(2026, time.April),
		date(2025, time.June, 1), nil, pppw("100"))

	if !ok {
		t.Fatal("expected an obligation")
	}
	amountEquals(t, "433.33", ob.Amount)
	if !ob.DueDate.Equal(date(2026, time.April, 1)) {
		t.Errorf("expected due date 2026-04-01, got %s", ob.DueDate)
	}
	if !ob.CoversFrom.Equal(date(2026, time.April, 1)) || !ob.CoversTo.Equal(date(2026, time.April, 30)) {
		t.Errorf("expected coverage of the full month, got %s to %s", ob.CoversFrom, ob.CoversTo)
	}
}

func TestProrateMonth_FinalTwentyOneDays(t *testing.T) {
	// GIVEN: 30-day month, tenancy active only for the final 21 days
	// WHEN: Prorating
	// THEN: round2((21/30) * 433.333...) = 303.33

	ob, ok := billing.ProrateMonth(
		billing.NewMonth(2026, time.April),
		date(2026, time.April, 10), nil, pppw("100"))

	if !ok {
		t.Fatal("expected an obligation")
	}
	amountEquals(t, "303.33", ob.Amount)
	if !ob.CoversFrom.Equal(date(2026, time.April, 10)) {
		t.Errorf("expected coverage from the 10th, got %s", ob.CoversFrom)
	}
	// Due date stays the 1st even for a partial period: the amount, not
	// the due date, absorbs proration.
	if !ob.DueDate.Equal(date(2026, time.April, 1)) {
		t.Errorf("expected due date 2026-04-01, got %s", ob.DueDate)
	}
}

func TestProrateMonth_EndOfTenancyBoundary(t *testing.T) {
	// GIVEN: Tenancy ending on the 15th of a 30-day month
	// WHEN: Prorating that month and the next
	// THEN: 15 billable days, then nothing at all

	end := datePtr(2026, time.April, 15)
	start := date(2025, time.June, 1)

	ob, ok := billing.ProrateMonth(billing.NewMonth(2026, time.April), start, end, pppw("100"))
	if !ok {
		t.Fatal("expected an obligation for the final month")
	}
	// (15/30) * 433.3333... = 216.67
	amountEquals(t, "216.67", ob.Amount)
	if !ob.CoversTo.Equal(*end) {
		t.Errorf("expected coverage to end on the 15th, got %s", ob.CoversTo)
	}

	if _, ok := billing.ProrateMonth(billing.NewMonth(2026, time.May), start, end, pppw("100")); ok {
		t.Error("expected no obligation after the tenancy ended")
	}
}

func TestProrateMonth_MonthBeforeStart(t *testing.T) {
	if _, ok := billing.ProrateMonth(
		billing.NewMonth(2026, time.March),
		date(2026, time.April, 10), nil, pppw("100")); ok {
		t.Error("expected no obligation before the tenancy starts")
	}
}

func TestProrateMonth_ZeroAndNegativeSuppression(t *testing.T) {
	month := billing.NewMonth(2026, time.April)
	start := date(2026, time.January, 1)

	if _, ok := billing.ProrateMonth(month, start, nil, pppw("0")); ok {
		t.Error("expected no obligation for zero rent")
	}
	if _, ok := billing.ProrateMonth(month, start, nil, pppw("-50")); ok {
		t.Error("expected no obligation for negative rent")
	}
	// Tiny rent over one day still rounds above zero only if it's worth
	// a penny: 0.01/week over 1 of 31 days rounds to 0.00.
	if _, ok := billing.ProrateMonth(billing.NewMonth(2026, time.January),
		date(2026, time.January, 31), nil, pppw("0.01")); ok {
		t.Error("expected sub-penny amount to be suppressed")
	}
}

func TestProrateMonth_FebruaryIsNotAProration(t *testing.T) {
	// GIVEN: A tenancy spanning a 28-day February
	// THEN: The full PCM amount applies - month length never scales it

	ob, ok := billing.ProrateMonth(
		billing.NewMonth(2026, time.February),
		date(2025, time.June, 1), nil, pppw("100"))
	if !ok {
		t.Fatal("expected an obligation")
	}
	amountEquals(t, "433.33", ob.Amount)
}

func TestProrateMonth_LeapFebruary(t *testing.T) {
	// 2028 is a leap year; a tenancy covering Feb 1-29 is still a full month.
	ob, ok := billing.ProrateMonth(
		billing.NewMonth(2028, time.February),
		date(2028, time.February, 1), datePtr(2028, time.February, 29), pppw("100"))
	if !ok {
		t.Fatal("expected an obligation")
	}
	amountEquals(t, "433.33", ob.Amount)
}
