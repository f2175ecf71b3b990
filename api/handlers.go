/*
handlers.go - HTTP API handlers for the rent billing engine

PURPOSE:
  Exposes the billing engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the orchestrator and store.

ENDPOINTS:
  Organizations:
    GET    /api/organizations               List organizations
    POST   /api/organizations               Create organization

  Back-office reference data (seeding; the full CRUD surface lives in the
  main back office, not here):
    POST   /api/landlords                   Create landlord
    POST   /api/properties                  Create property
    POST   /api/tenancies                   Create tenancy (+ members)

  Tenancies:
    GET    /api/tenancies/{id}/schedules    Materialized rent rows
    GET    /api/tenancies/{id}/estimate     Per-member figures for a month
                                            (?month=YYYY-MM)

  Admin:
    POST   /api/admin/generate              Manual generation trigger
    GET    /api/admin/runs                  Generation run audit trail

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  A duplicate-row conflict during generation is NOT an error: the
  orchestrator counts it as a skip and the run still reports success.

SEE ALSO:
  - dto.go: Request/response data structures
  - scheduler.go: The daily trigger behind /api/admin/generate's logic
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/lettings-engine/billing"
	"github.com/warp/lettings-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Generator *billing.Generator
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:     store,
		Generator: billing.NewGenerator(store),
	}
}

// =============================================================================
// ORGANIZATION HANDLERS
// =============================================================================

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Store.ListOrganizations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list organizations", err)
		return
	}

	dtos := make([]OrganizationDTO, 0, len(orgs))
	for _, org := range orgs {
		dtos = append(dtos, OrganizationDTO{ID: string(org.ID), Name: org.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	org := billing.Organization{ID: billing.OrganizationID(req.ID), Name: req.Name}
	if err := h.Store.CreateOrganization(r.Context(), org); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create organization", err)
		return
	}
	writeJSON(w, http.StatusCreated, OrganizationDTO{ID: req.ID, Name: req.Name})
}

// =============================================================================
// REFERENCE DATA HANDLERS (landlords, properties, tenancies)
// =============================================================================

func (h *Handler) CreateLandlord(w http.ResponseWriter, r *http.Request) {
	var req CreateLandlordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	manageRent := true
	if req.ManageRent != nil {
		manageRent = *req.ManageRent
	}

	landlord := billing.Landlord{
		ID:         billing.LandlordID(req.ID),
		Name:       req.Name,
		ManageRent: manageRent,
	}
	if err := h.Store.CreateLandlord(r.Context(), landlord); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create landlord", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.OrganizationID == "" {
		writeError(w, http.StatusBadRequest, "id and organization_id are required", nil)
		return
	}

	property := billing.Property{
		ID:             billing.PropertyID(req.ID),
		OrganizationID: billing.OrganizationID(req.OrganizationID),
		LandlordID:     billing.LandlordID(req.LandlordID),
		Address:        req.Address,
	}
	if err := h.Store.CreateProperty(r.Context(), property); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create property", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

func (h *Handler) CreateTenancy(w http.ResponseWriter, r *http.Request) {
	var req CreateTenancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.PropertyID == "" {
		writeError(w, http.StatusBadRequest, "id and property_id are required", nil)
		return
	}

	start, err := billing.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	tenancy := billing.Tenancy{
		ID:                   billing.TenancyID(req.ID),
		PropertyID:           billing.PropertyID(req.PropertyID),
		StartDate:            start,
		Status:               billing.TenancyStatus(req.Status),
		IsRollingMonthly:     req.IsRollingMonthly,
		AutoGeneratePayments: req.AutoGeneratePayments,
	}
	if req.EndDate != "" {
		end, err := billing.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
		tenancy.EndDate = &end
	}

	if err := h.Store.CreateTenancy(r.Context(), tenancy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create tenancy", err)
		return
	}

	for _, mr := range req.Members {
		member := billing.TenancyMember{
			ID:            billing.MemberID(mr.ID),
			TenancyID:     tenancy.ID,
			Name:          mr.Name,
			PaymentOption: mr.PaymentOption,
		}
		if mr.RentPPPW != "" {
			rent, err := decimal.NewFromString(mr.RentPPPW)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid rent_pppw for member %s", mr.ID), err)
				return
			}
			member.RentPPPW = rent
		}
		if err := h.Store.CreateMember(r.Context(), member); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create tenancy member", err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// =============================================================================
// SCHEDULE / ESTIMATE HANDLERS
// =============================================================================

func (h *Handler) GetTenancySchedules(w http.ResponseWriter, r *http.Request) {
	tenancyID := billing.TenancyID(chi.URLParam(r, "id"))

	rows, err := h.Store.SchedulesForTenancy(r.Context(), tenancyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedules", err)
		return
	}

	dtos := make([]ScheduleDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toScheduleDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTenancyEstimate returns per-member figures for one month: the actual
// row amount where one is materialized, otherwise the forward estimate
// derived from the same rate and proration math the generator uses.
func (h *Handler) GetTenancyEstimate(w http.ResponseWriter, r *http.Request) {
	tenancyID := billing.TenancyID(chi.URLParam(r, "id"))

	month, err := billing.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing month (want YYYY-MM)", err)
		return
	}

	tenancy, err := h.Store.GetTenancy(r.Context(), tenancyID)
	if errors.Is(err, billing.ErrTenancyNotFound) {
		writeError(w, http.StatusNotFound, "Tenancy not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load tenancy", err)
		return
	}

	dtos := make([]EstimateDTO, 0, len(tenancy.Members))
	for _, member := range tenancy.Members {
		dto := EstimateDTO{MemberID: string(member.ID), Month: month.String(), Source: "none"}

		rows, err := h.Store.SchedulesForMember(r.Context(), member.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load schedules", err)
			return
		}

		var actual *billing.PaymentSchedule
		for i := range rows {
			if rows[i].DueMonth().Equal(month) {
				actual = &rows[i]
				break
			}
		}

		switch {
		case actual != nil:
			dto.Amount = actual.AmountDue.StringFixed(2)
			dto.Source = "scheduled"
		case member.HasRent():
			if ob, ok := billing.EstimateMonth(month, tenancy.StartDate, tenancy.EndDate, member.RentPPPW); ok {
				dto.Amount = ob.Amount.StringFixed(2)
				dto.Source = "estimated"
			}
		}

		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerGeneration runs the orchestrator for one organization. The month
// defaults to the scheduler's look-ahead target (the month after the
// current one); passing an explicit month supports backfill.
func (h *Handler) TriggerGeneration(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.OrganizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required", nil)
		return
	}

	target := billing.MonthOf(billing.Today()).Next()
	if req.Month != "" {
		var err error
		if target, err = billing.ParseMonth(req.Month); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (want YYYY-MM)", err)
			return
		}
	}

	report := h.RunGeneration(r.Context(), billing.OrganizationID(req.OrganizationID), target)
	status := http.StatusOK
	if !report.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

// RunGeneration invokes the orchestrator and records the run in the audit
// trail. Shared by the manual trigger and the advance scheduler.
func (h *Handler) RunGeneration(ctx context.Context, orgID billing.OrganizationID, target billing.Month) billing.Report {
	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	startedAt := time.Now().UTC()

	run := sqlite.GenerationRun{
		ID:             runID,
		OrganizationID: orgID,
		TargetMonth:    target,
		Status:         "running",
		StartedAt:      &startedAt,
		CreatedAt:      startedAt,
	}
	if err := h.Store.SaveGenerationRun(ctx, run); err != nil {
		// The audit row is observational; generation proceeds without it.
		log.Printf("[Generator] warning: failed to record generation run: %v", err)
	}

	report := h.Generator.Generate(ctx, orgID, target)

	completedAt := time.Now().UTC()
	run.Status = "completed"
	if !report.Success {
		run.Status = "failed"
	}
	run.TenanciesProcessed = report.TenanciesProcessed
	run.PaymentsCreated = report.PaymentsCreated
	run.PaymentsSkipped = report.PaymentsSkipped
	run.Failures = report.Failures
	run.Error = report.Error
	run.CompletedAt = &completedAt
	if err := h.Store.SaveGenerationRun(ctx, run); err != nil {
		log.Printf("[Generator] warning: failed to update generation run: %v", err)
	}

	return report
}

func (h *Handler) ListGenerationRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListGenerationRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]GenerationRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
