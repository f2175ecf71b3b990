/*
store.go - Persistence interfaces for the billing engine

PURPOSE:
  Defines the interface between the engine and the database. The schedule
  table is the correctness-critical shared resource; the interfaces here
  are shaped so the store can enforce the uniqueness contract itself.

INSERT-ONLY CONTRACT:
  The engine only ever INSERTS schedule rows. There is no update or
  delete on ScheduleStore: marking rows paid belongs to the payment
  ledger, and manual edits are a back-office operation outside this core.

THE UNIQUENESS CONTRACT:
  For a given (member, payment_type='rent'), at most one row's due date
  may fall in any calendar month. The existence checks below are a
  fast-path optimization only; implementations MUST also enforce a
  store-level unique constraint over (member, payment type, due month)
  and return ErrDuplicateSchedule when an insert loses the race. Two
  concurrent runs for the same month must never both succeed in writing.

IMPLEMENTATIONS:
  - store/sqlite: production store (partial unique index in DDL)
  - billing/store: in-memory store for tests and dev
*/
package billing

import "context"

// ScheduleStore persists rent schedule rows. Insert-only from the
// engine's point of view.
type ScheduleStore interface {
	// InsertSchedule writes one row. Returns an error matching
	// ErrDuplicateSchedule (via errors.Is) when a rent row for the same
	// member and due month already exists - callers treat that as a skip.
	InsertSchedule(ctx context.Context, row PaymentSchedule) error

	// HasRentScheduleInMonth reports whether any rent row for the member
	// has a due date inside the month. Fast-path idempotency check.
	HasRentScheduleInMonth(ctx context.Context, memberID MemberID, month Month) (bool, error)

	// HasRentScheduleDueOn reports whether a rent row for the member is
	// due on exactly the given date. Used by first-payment consolidation,
	// which keys coverage of both spanned months on a row due the 1st of
	// the month after move-in.
	HasRentScheduleDueOn(ctx context.Context, memberID MemberID, due Date) (bool, error)

	// SchedulesForTenancy returns all rent rows for a tenancy, ordered by
	// due date. Read-only; used by the API and reporting.
	SchedulesForTenancy(ctx context.Context, tenancyID TenancyID) ([]PaymentSchedule, error)
}

// TenancyStore reads the tenancies a generation run iterates.
type TenancyStore interface {
	// RollingTenancies returns the organization's rolling-monthly
	// tenancies with members preloaded and RentManaged resolved from the
	// linked landlord. Implementations may pre-filter on the rolling and
	// auto-generate flags; the orchestrator re-checks full eligibility
	// per tenancy either way.
	RollingTenancies(ctx context.Context, orgID OrganizationID) ([]Tenancy, error)
}

// OrganizationStore lists the organizations the advance scheduler fans
// out over.
type OrganizationStore interface {
	ListOrganizations(ctx context.Context) ([]Organization, error)
}

// Store combines everything a full deployment wires together.
type Store interface {
	OrganizationStore
	TenancyStore
	ScheduleStore
}
