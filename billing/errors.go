/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (store, API, CLI) wrap these with additional context.

ERROR CATEGORIES:
  1. Duplicate errors  - Uniqueness violations on schedule writes (expected
                         under concurrent runs; treated as skips, never as
                         failures)
  2. Not-found errors  - Missing organizations/tenancies/members
  3. Input errors      - Malformed months/dates

USAGE:
  if errors.Is(err, billing.ErrDuplicateSchedule) {
      // already billed - count as skip
  }

SEE ALSO:
  - orchestrator.go: Maps duplicate errors to skips
  - store/sqlite: Maps UNIQUE constraint violations to these errors
*/
package billing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateSchedule is returned when a rent row already exists for a
	// (member, month). This is expected behavior under concurrent runs and
	// retries; the orchestrator counts it as a skip.
	ErrDuplicateSchedule = errors.New("rent schedule already exists for member and month")

	// ErrOrganizationNotFound is returned when a referenced organization doesn't exist.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrTenancyNotFound is returned when a referenced tenancy doesn't exist.
	ErrTenancyNotFound = errors.New("tenancy not found")

	// ErrMemberNotFound is returned when a referenced tenancy member doesn't exist.
	ErrMemberNotFound = errors.New("tenancy member not found")

	// ErrInvalidMonth is returned when a target month cannot be parsed.
	ErrInvalidMonth = errors.New("invalid month")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateScheduleError provides details about a uniqueness violation.
type DuplicateScheduleError struct {
	MemberID   MemberID
	DueMonth   Month
	ExistingID ScheduleID // may be empty when the store only sees the constraint name
}

func (e *DuplicateScheduleError) Error() string {
	return fmt.Sprintf("rent schedule already exists: member %s, month %s (row: %s)",
		e.MemberID, e.DueMonth, e.ExistingID)
}

func (e *DuplicateScheduleError) Unwrap() error {
	return ErrDuplicateSchedule
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDuplicate returns true if the error means the row already exists.
// The conservative failure mode is always "skip and retry tomorrow",
// never "bill twice", so callers must treat this as success.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateSchedule)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrganizationNotFound) ||
		errors.Is(err, ErrTenancyNotFound) ||
		errors.Is(err, ErrMemberNotFound)
}
