package billing_test

import (
	"testing"
	"time"

	"github.com/warp/lettings-engine/billing"
)

func TestConsolidationWindow_StartOnFirstOfMonth(t *testing.T) {
	// A tenancy starting on the 1st bills normally from day one: no
	// consolidation, no delayed first due date.
	if _, _, ok := billing.ConsolidationWindow(date(2026, time.March, 1)); ok {
		t.Error("expected no consolidation window for a 1st-of-month start")
	}
	if billing.InConsolidationWindow(billing.NewMonth(2026, time.March), date(2026, time.March, 1)) {
		t.Error("target month should not be in a consolidation window")
	}
}

func TestConsolidationWindow_MidMonthStart(t *testing.T) {
	m0, m1, ok := billing.ConsolidationWindow(date(2026, time.January, 10))
	if !ok {
		t.Fatal("expected a consolidation window")
	}
	if !m0.Equal(billing.NewMonth(2026, time.January)) || !m1.Equal(billing.NewMonth(2026, time.February)) {
		t.Errorf("expected window Jan/Feb 2026, got %s/%s", m0, m1)
	}

	for _, target := range []billing.Month{m0, m1} {
		if !billing.InConsolidationWindow(target, date(2026, time.January, 10)) {
			t.Errorf("%s should be inside the consolidation window", target)
		}
	}
	if billing.InConsolidationWindow(billing.NewMonth(2026, time.March), date(2026, time.January, 10)) {
		t.Error("March should be outside the consolidation window")
	}
}

func TestConsolidationWindow_DecemberStartSpansYears(t *testing.T) {
	_, m1, ok := billing.ConsolidationWindow(date(2025, time.December, 15))
	if !ok {
		t.Fatal("expected a consolidation window")
	}
	if !m1.Equal(billing.NewMonth(2026, time.January)) {
		t.Errorf("expected M1 = 2026-01, got %s", m1)
	}
}

func TestConsolidatedFirstPayment_CombinesPartialAndFullMonth(t *testing.T) {
	// GIVEN: Tenancy starts Jan 10 2026 (22 of 31 days remain), 100/week
	// WHEN: Building the consolidated first payment
	// THEN: One amount, due Feb 1, covering Jan 10 - Feb 28:
	//       (22/31) * 433.333... + 433.333... = 740.8602... -> 740.86
	//       Components are summed unrounded and rounded once.

	ob, ok := billing.ConsolidatedFirstPayment(date(2026, time.January, 10), nil, pppw("100"))
	if !ok {
		t.Fatal("expected a consolidated payment")
	}
	amountEquals(t, "740.86", ob.Amount)
	if !ob.DueDate.Equal(date(2026, time.February, 1)) {
		t.Errorf("expected due date 2026-02-01 (no due date before move-in), got %s", ob.DueDate)
	}
	if !ob.CoversFrom.Equal(date(2026, time.January, 10)) || !ob.CoversTo.Equal(date(2026, time.February, 28)) {
		t.Errorf("expected coverage 2026-01-10 to 2026-02-28, got %s to %s", ob.CoversFrom, ob.CoversTo)
	}
}

func TestConsolidatedFirstPayment_TenancyEndsInsideWindow(t *testing.T) {
	// GIVEN: Start Jan 10, termination already set for Feb 14
	// THEN: The combined payment clips M1 at the end date

	ob, ok := billing.ConsolidatedFirstPayment(
		date(2026, time.January, 10), datePtr(2026, time.February, 14), pppw("100"))
	if !ok {
		t.Fatal("expected a consolidated payment")
	}
	if !ob.CoversTo.Equal(date(2026, time.February, 14)) {
		t.Errorf("expected coverage to stop at the end date, got %s", ob.CoversTo)
	}
	// (22/31)*433.333... + (14/28)*433.333... = 307.5268... + 216.6666... -> 524.19
	amountEquals(t, "524.19", ob.Amount)

	// Ending inside M0 leaves only the partial start period, still due
	// the 1st of M1.
	ob, ok = billing.ConsolidatedFirstPayment(
		date(2026, time.January, 10), datePtr(2026, time.January, 20), pppw("100"))
	if !ok {
		t.Fatal("expected a consolidated payment for the clipped start period")
	}
	if !ob.DueDate.Equal(date(2026, time.February, 1)) {
		t.Errorf("expected due date 2026-02-01, got %s", ob.DueDate)
	}
	// (11/31)*433.333... = 153.7634... -> 153.76
	amountEquals(t, "153.76", ob.Amount)
}

func TestConsolidatedFirstPayment_NoChargeCases(t *testing.T) {
	if _, ok := billing.ConsolidatedFirstPayment(date(2026, time.March, 1), nil, pppw("100")); ok {
		t.Error("expected no consolidated payment for a 1st-of-month start")
	}
	if _, ok := billing.ConsolidatedFirstPayment(date(2026, time.January, 10), nil, pppw("0")); ok {
		t.Error("expected no consolidated payment for zero rent")
	}
}
