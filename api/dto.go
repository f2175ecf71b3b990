/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/lettings-engine/billing"
	"github.com/warp/lettings-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

type OrganizationDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateOrganizationRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateLandlordRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ManageRent *bool  `json:"manage_rent"` // nil defaults to true
}

type CreatePropertyRequest struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	LandlordID     string `json:"landlord_id,omitempty"`
	Address        string `json:"address"`
}

type CreateTenancyRequest struct {
	ID                   string                `json:"id"`
	PropertyID           string                `json:"property_id"`
	StartDate            string                `json:"start_date"`         // "2006-01-02"
	EndDate              string                `json:"end_date,omitempty"` // empty = open-ended
	Status               string                `json:"status"`
	IsRollingMonthly     bool                  `json:"is_rolling_monthly"`
	AutoGeneratePayments bool                  `json:"auto_generate_payments"`
	Members              []CreateMemberRequest `json:"members,omitempty"`
}

type CreateMemberRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RentPPPW      string `json:"rent_pppw,omitempty"` // decimal string
	PaymentOption string `json:"payment_option,omitempty"`
}

// GenerateRequest triggers a manual generation run. Month defaults to the
// calendar month after the current one (the scheduler's look-ahead
// target); an explicit month supports backfill.
type GenerateRequest struct {
	OrganizationID string `json:"organization_id"`
	Month          string `json:"month,omitempty"` // "2006-01"
}

// ScheduleDTO is one materialized rent obligation.
type ScheduleDTO struct {
	ID          string `json:"id"`
	TenancyID   string `json:"tenancy_id"`
	MemberID    string `json:"member_id"`
	PaymentType string `json:"payment_type"`
	DueDate     string `json:"due_date"`
	AmountDue   string `json:"amount_due"`
	Status      string `json:"status"`
	Type        string `json:"schedule_type"`
	CoversFrom  string `json:"covers_from"`
	CoversTo    string `json:"covers_to"`
	Description string `json:"description,omitempty"`
}

// EstimateDTO is the reporting figure for one member and one month.
// Source is "scheduled" when a materialized row exists (the actual
// amount), "estimated" when the figure was re-derived by the shared rate
// and proration math, and "none" when the month produces no charge.
type EstimateDTO struct {
	MemberID string `json:"member_id"`
	Month    string `json:"month"`
	Amount   string `json:"amount,omitempty"`
	Source   string `json:"source"`
}

type GenerationRunDTO struct {
	ID                 string `json:"id"`
	OrganizationID     string `json:"organization_id"`
	TargetMonth        string `json:"target_month"`
	Status             string `json:"status"`
	TenanciesProcessed int    `json:"tenancies_processed"`
	PaymentsCreated    int    `json:"payments_created"`
	PaymentsSkipped    int    `json:"payments_skipped"`
	Failures           int    `json:"failures"`
	Error              string `json:"error,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toScheduleDTO(row billing.PaymentSchedule) ScheduleDTO {
	return ScheduleDTO{
		ID:          string(row.ID),
		TenancyID:   string(row.TenancyID),
		MemberID:    string(row.MemberID),
		PaymentType: string(row.PaymentType),
		DueDate:     row.DueDate.String(),
		AmountDue:   row.AmountDue.StringFixed(2),
		Status:      string(row.Status),
		Type:        string(row.Type),
		CoversFrom:  row.CoversFrom.String(),
		CoversTo:    row.CoversTo.String(),
		Description: row.Description,
	}
}

func toRunDTO(run sqlite.GenerationRun) GenerationRunDTO {
	dto := GenerationRunDTO{
		ID:                 run.ID,
		OrganizationID:     string(run.OrganizationID),
		TargetMonth:        run.TargetMonth.String(),
		Status:             run.Status,
		TenanciesProcessed: run.TenanciesProcessed,
		PaymentsCreated:    run.PaymentsCreated,
		PaymentsSkipped:    run.PaymentsSkipped,
		Failures:           run.Failures,
		Error:              run.Error,
	}
	if !run.CreatedAt.IsZero() {
		dto.CreatedAt = run.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}
