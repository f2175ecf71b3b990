/*
Package billing provides the recurring rent billing engine.

PURPOSE:
  This package contains the domain types and algorithms for generating
  monthly rent obligations for rolling (open-ended, month-to-month)
  tenancies: converting weekly rent to a calendar-month rate, prorating
  partial periods, consolidating a mid-month move-in with the first full
  month, and materializing payment schedule rows exactly once per
  (member, month) no matter how often generation runs.

KEY CONCEPTS IN THIS FILE (types.go):
  - Tenancy / TenancyMember: the billable agreement and who pays
  - PaymentSchedule: one materialized rent obligation (member, month)
  - Report: the outcome of one orchestrator run
  - Type-safe identifiers for organizations, tenancies, members, rows

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money; rounding happens only
     at the point a final amount is emitted
  2. Idempotence: A schedule row is born exactly once; the engine never
     updates or deletes one
  3. Type Safety: Strong typing for IDs prevents mixing tenancy/member IDs
  4. Explicit time: Every operation takes an explicit target month, never
     the wall clock

SEE ALSO:
  - rate.go: Weekly-to-monthly rate conversion
  - proration.go: Period windowing and proration
  - firstpayment.go: First-payment consolidation
  - orchestrator.go: The batch generation loop
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrganizationID string
type LandlordID string
type PropertyID string
type TenancyID string
type MemberID string
type ScheduleID string

// =============================================================================
// ORGANIZATION / LANDLORD / PROPERTY
// =============================================================================

// Organization is the tenant-organization scope for a generation run.
// Resolution of the *current* organization (auth context) is external;
// the engine only ever receives an explicit OrganizationID.
type Organization struct {
	ID   OrganizationID
	Name string
}

// Landlord carries the manage_rent gate: when false, the engine creates
// no rent rows for any tenancy on that landlord's properties.
type Landlord struct {
	ID         LandlordID
	Name       string
	ManageRent bool
}

type Property struct {
	ID             PropertyID
	OrganizationID OrganizationID
	LandlordID     LandlordID // empty = no landlord linked
	Address        string
}

// =============================================================================
// TENANCY
// =============================================================================

type TenancyStatus string

const (
	StatusPending            TenancyStatus = "pending"
	StatusAwaitingSignatures TenancyStatus = "awaiting_signatures"
	StatusApproval           TenancyStatus = "approval"
	StatusActive             TenancyStatus = "active"
	StatusExpired            TenancyStatus = "expired"
)

// Tenancy is the rolling (open-ended) agreement billed by this engine.
// Fixed-term tenancies have their own up-front schedule and never reach
// the generator.
type Tenancy struct {
	ID         TenancyID
	PropertyID PropertyID
	StartDate  Date
	EndDate    *Date // nil = open-ended
	Status     TenancyStatus

	IsRollingMonthly     bool
	AutoGeneratePayments bool

	// RentManaged reflects the linked landlord's manage_rent flag.
	// True when no landlord is linked.
	RentManaged bool

	Members []TenancyMember
}

// Billable reports whether this tenancy is eligible for automated rent
// generation at all, independent of any particular target month.
func (t Tenancy) Billable() bool {
	if !t.IsRollingMonthly || !t.AutoGeneratePayments || !t.RentManaged {
		return false
	}
	return t.Status == StatusApproval || t.Status == StatusActive
}

// EndedBefore reports whether the tenancy is fully over before the given
// month starts (an ended tenancy produces no row for later months).
func (t Tenancy) EndedBefore(m Month) bool {
	return t.EndDate != nil && t.EndDate.Before(m.Start())
}

// TenancyMember is one person on the agreement. Rent is expressed per
// person per week (PPPW); members without a positive rate are excluded
// from generation.
type TenancyMember struct {
	ID            MemberID
	TenancyID     TenancyID
	Name          string
	RentPPPW      decimal.Decimal
	PaymentOption string
}

// HasRent reports whether the member carries a billable rent amount.
func (m TenancyMember) HasRent() bool {
	return m.RentPPPW.IsPositive()
}

// =============================================================================
// PAYMENT SCHEDULE - One materialized rent obligation
// =============================================================================

type PaymentType string

const (
	PaymentTypeRent PaymentType = "rent"
)

type ScheduleType string

const (
	ScheduleAutomated ScheduleType = "automated" // engine-created
	ScheduleManual    ScheduleType = "manual"    // entered by back-office staff
)

type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	SchedulePaid    ScheduleStatus = "paid" // set by the payment ledger, never by this engine
)

// PaymentSchedule is a single rent obligation. Born exactly once per
// (member, month); later mutation (marking paid) belongs to the payment
// ledger collaborator, not this engine.
type PaymentSchedule struct {
	ID          ScheduleID
	TenancyID   TenancyID
	MemberID    MemberID
	PaymentType PaymentType
	DueDate     Date
	AmountDue   decimal.Decimal
	Status      ScheduleStatus
	Type        ScheduleType
	CoversFrom  Date
	CoversTo    Date
	Description string
	CreatedAt   time.Time
}

// DueMonth returns the calendar month the row bills for. At most one rent
// row per member may exist for any due month.
func (p PaymentSchedule) DueMonth() Month {
	return MonthOf(p.DueDate)
}

// =============================================================================
// RUN REPORT
// =============================================================================

// Report summarizes one orchestrator run for one (organization, month).
//
// PaymentsSkipped counts every member-month evaluated but not billed for a
// non-error reason: month already covered, no positive rent, no overlap
// with the tenancy, amount rounded to zero. Failures counts per-member and
// per-tenancy errors that were caught and logged; they never abort the run.
type Report struct {
	Success            bool   `json:"success"`
	TenanciesProcessed int    `json:"tenancies_processed"`
	PaymentsCreated    int    `json:"payments_created"`
	PaymentsSkipped    int    `json:"payments_skipped"`
	Failures           int    `json:"failures"`
	Error              string `json:"error,omitempty"`
}
