/*
orchestrator.go - Batch generation of monthly rent obligations

PURPOSE:
  For one organization and one target month, walk every eligible rolling
  tenancy and materialize the month's rent row for each paying member -
  exactly once, no matter how many times or how concurrently the run is
  invoked.

ELIGIBILITY GATING (per tenancy):
  - is_rolling_monthly and auto_generate_payments set
  - status is approval or active
  - landlord manage_rent not switched off
  - not fully ended before the target month
  Members without a positive PPPW rent are excluded.

PER-MEMBER FLOW:
  1. First-payment consolidation: if the tenancy started mid-month and the
     target is M0 or M1, coverage is keyed on a row due the 1st of M1 -
     create the consolidated payment if missing, otherwise skip.
  2. Otherwise plain proration for the target month.
  3. Idempotency guard: skip if a rent row already exists in the month.
  4. Insert. A uniqueness rejection from the store (lost race) counts as
     a skip, never as a failure.

ERROR HANDLING:
  Per-member and per-tenancy errors are logged and counted; one bad row
  never aborts the batch. Only a failure to list tenancies fails the
  whole run - and because generation is look-ahead and idempotent, the
  next scheduled run recovers with no cleanup.

SEE ALSO:
  - proration.go, firstpayment.go: The math
  - store.go: The uniqueness contract
  - api/scheduler.go: The daily trigger that picks the target month
*/
package billing

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Generator is the batch orchestrator. Safe for concurrent use; all state
// lives in the store.
type Generator struct {
	Tenancies TenancyStore
	Schedules ScheduleStore

	// Now stamps CreatedAt on new rows. Defaults to time.Now.
	Now func() time.Time
}

func NewGenerator(store Store) *Generator {
	return &Generator{Tenancies: store, Schedules: store}
}

// Generate materializes rent rows for one organization and one explicit
// target month. This is the sole entry point: the daily scheduler, the
// admin trigger, and backfills all come through here.
func (g *Generator) Generate(ctx context.Context, orgID OrganizationID, target Month) Report {
	tenancies, err := g.Tenancies.RollingTenancies(ctx, orgID)
	if err != nil {
		log.Printf("[Generator] %s %s: listing tenancies failed: %v", orgID, target, err)
		return Report{Error: fmt.Sprintf("listing tenancies: %v", err)}
	}

	report := Report{Success: true}

	for _, tenancy := range tenancies {
		if !tenancy.Billable() || tenancy.EndedBefore(target) {
			continue
		}
		report.TenanciesProcessed++

		for _, member := range tenancy.Members {
			if !member.HasRent() {
				report.PaymentsSkipped++
				continue
			}

			created, err := g.generateForMember(ctx, tenancy, member, target)
			if err != nil {
				log.Printf("[Generator] %s %s: member %s failed: %v", orgID, target, member.ID, err)
				report.Failures++
				continue
			}
			if created {
				report.PaymentsCreated++
			} else {
				report.PaymentsSkipped++
			}
		}
	}

	log.Printf("[Generator] %s %s: %d tenancies, %d created, %d skipped, %d failures",
		orgID, target, report.TenanciesProcessed, report.PaymentsCreated,
		report.PaymentsSkipped, report.Failures)
	return report
}

// generateForMember returns (true, nil) when a row was written and
// (false, nil) when the month needed nothing (already covered, no
// overlap, zero amount, lost race).
func (g *Generator) generateForMember(ctx context.Context, tenancy Tenancy, member TenancyMember, target Month) (bool, error) {
	if InConsolidationWindow(target, tenancy.StartDate) {
		return g.generateConsolidated(ctx, tenancy, member)
	}

	obligation, ok := ProrateMonth(target, tenancy.StartDate, tenancy.EndDate, member.RentPPPW)
	if !ok {
		return false, nil
	}

	exists, err := g.Schedules.HasRentScheduleInMonth(ctx, member.ID, target)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	return g.insert(ctx, tenancy.ID, member.ID, obligation)
}

// generateConsolidated materializes the combined partial-start + first
// full month payment. Whichever of M0/M1 the orchestrator reaches first
// creates it; the existence check on the 1st-of-M1 due date marks both
// months covered afterwards.
func (g *Generator) generateConsolidated(ctx context.Context, tenancy Tenancy, member TenancyMember) (bool, error) {
	obligation, ok := ConsolidatedFirstPayment(tenancy.StartDate, tenancy.EndDate, member.RentPPPW)
	if !ok {
		return false, nil
	}

	exists, err := g.Schedules.HasRentScheduleDueOn(ctx, member.ID, obligation.DueDate)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	return g.insert(ctx, tenancy.ID, member.ID, obligation)
}

func (g *Generator) insert(ctx context.Context, tenancyID TenancyID, memberID MemberID, ob Obligation) (bool, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	row := PaymentSchedule{
		// Deterministic ID: retries and concurrent runs produce the same
		// row identity, so the primary key backs up the unique index.
		ID:          ScheduleID(fmt.Sprintf("ps-%s-%s", memberID, MonthOf(ob.DueDate))),
		TenancyID:   tenancyID,
		MemberID:    memberID,
		PaymentType: PaymentTypeRent,
		DueDate:     ob.DueDate,
		AmountDue:   ob.Amount,
		Status:      SchedulePending,
		Type:        ScheduleAutomated,
		CoversFrom:  ob.CoversFrom,
		CoversTo:    ob.CoversTo,
		Description: ob.Description,
		CreatedAt:   now().UTC(),
	}

	if err := g.Schedules.InsertSchedule(ctx, row); err != nil {
		if IsDuplicate(err) {
			// Lost the check-then-insert race to a concurrent run. The
			// row exists, which is exactly what we wanted.
			return false, nil
		}
		return false, err
	}
	return true, nil
}
