/*
Package sqlite provides a SQLite-backed implementation of the billing
storage interfaces.

PURPOSE:
  Implements billing.Store (organizations, tenancies, schedule rows) plus
  the back-office reference tables (landlords, properties) and the
  generation run audit trail. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

THE UNIQUENESS CONTRACT:
  idx_unique_rent_month enforces at most one rent row per
  (tenancy_member_id, payment_type, due month) at the store level. The
  engine's existence checks are a fast path only; this index is the
  authoritative guard, so check-then-insert races between concurrent
  organization runs fail closed. A rejected insert surfaces as
  billing.ErrDuplicateSchedule and is counted as a skip upstream.

INSERT-ONLY SCHEDULES:
  The engine never updates or deletes a payment_schedules row. Marking
  rows paid belongs to the payment ledger; there is deliberately no such
  method here.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time, better crash
  recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - billing/store.go: Interface definitions and the uniqueness contract
  - billing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/lettings-engine/billing"
)

// Store implements billing.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS landlords (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		manage_rent BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		landlord_id TEXT REFERENCES landlords(id),
		address TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_properties_organization
		ON properties(organization_id);

	CREATE TABLE IF NOT EXISTS tenancies (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id),
		start_date TEXT NOT NULL,
		end_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		is_rolling_monthly BOOLEAN NOT NULL DEFAULT FALSE,
		auto_generate_payments BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tenancies_property
		ON tenancies(property_id);

	-- Covers the generation-eligibility scan (hot path for batch runs)
	CREATE INDEX IF NOT EXISTS idx_tenancies_rolling
		ON tenancies(is_rolling_monthly, auto_generate_payments, status);

	CREATE TABLE IF NOT EXISTS tenancy_members (
		id TEXT PRIMARY KEY,
		tenancy_id TEXT NOT NULL REFERENCES tenancies(id),
		name TEXT NOT NULL,
		rent_pppw TEXT,
		payment_option TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_members_tenancy
		ON tenancy_members(tenancy_id);

	CREATE TABLE IF NOT EXISTS payment_schedules (
		id TEXT PRIMARY KEY,
		tenancy_id TEXT NOT NULL REFERENCES tenancies(id),
		tenancy_member_id TEXT NOT NULL REFERENCES tenancy_members(id),
		payment_type TEXT NOT NULL,
		due_date TEXT NOT NULL,
		amount_due TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		schedule_type TEXT NOT NULL,
		covers_from TEXT NOT NULL,
		covers_to TEXT NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: The core correctness contract. At most one rent row per
	-- member per calendar month, enforced by the store itself so a
	-- check-then-insert race between concurrent runs fails closed.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_rent_month
		ON payment_schedules(tenancy_member_id, payment_type, strftime('%Y-%m', due_date));

	CREATE INDEX IF NOT EXISTS idx_schedules_tenancy
		ON payment_schedules(tenancy_id);
	CREATE INDEX IF NOT EXISTS idx_schedules_member_due
		ON payment_schedules(tenancy_member_id, due_date);

	-- Generation Runs (audit trail for scheduled and manual runs)
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		target_month TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		tenancies_processed INTEGER DEFAULT 0,
		payments_created INTEGER DEFAULT 0,
		payments_skipped INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0,
		error TEXT,
		started_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generation_runs_org
		ON generation_runs(organization_id, target_month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ORGANIZATIONS (billing.OrganizationStore)
// =============================================================================

func (s *Store) CreateOrganization(ctx context.Context, org billing.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`,
		org.ID, org.Name, nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]billing.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM organizations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []billing.Organization
	for rows.Next() {
		var org billing.Organization
		if err := rows.Scan(&org.ID, &org.Name); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// =============================================================================
// LANDLORDS / PROPERTIES
// =============================================================================

func (s *Store) CreateLandlord(ctx context.Context, l billing.Landlord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO landlords (id, name, manage_rent, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Name, l.ManageRent, nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to create landlord: %w", err)
	}
	return nil
}

func (s *Store) CreateProperty(ctx context.Context, p billing.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (id, organization_id, landlord_id, address, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.OrganizationID, nullString(string(p.LandlordID)), p.Address, nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// =============================================================================
// TENANCIES (billing.TenancyStore)
// =============================================================================

func (s *Store) CreateTenancy(ctx context.Context, t billing.Tenancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate sql.NullString
	if t.EndDate != nil {
		endDate = sql.NullString{String: t.EndDate.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenancies
		 (id, property_id, start_date, end_date, status, is_rolling_monthly, auto_generate_payments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PropertyID, t.StartDate.String(), endDate, t.Status,
		t.IsRollingMonthly, t.AutoGeneratePayments, nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to create tenancy: %w", err)
	}
	return nil
}

func (s *Store) CreateMember(ctx context.Context, m billing.TenancyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenancy_members (id, tenancy_id, name, rent_pppw, payment_option, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.TenancyID, m.Name, nullString(m.RentPPPW.String()), nullString(m.PaymentOption), nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to create tenancy member: %w", err)
	}
	return nil
}

// RollingTenancies returns an organization's rolling-monthly tenancies
// with members preloaded and RentManaged resolved from the landlord link.
// The rolling/auto-generate flags are pre-filtered here; status and
// end-date gating stay in the orchestrator where they're tested.
func (s *Store) RollingTenancies(ctx context.Context, orgID billing.OrganizationID) ([]billing.Tenancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT t.id, t.property_id, t.start_date, t.end_date, t.status,
		       t.is_rolling_monthly, t.auto_generate_payments,
		       COALESCE(l.manage_rent, TRUE)
		FROM tenancies t
		JOIN properties p ON p.id = t.property_id
		LEFT JOIN landlords l ON l.id = p.landlord_id
		WHERE p.organization_id = ?
		  AND t.is_rolling_monthly = TRUE
		  AND t.auto_generate_payments = TRUE
		ORDER BY t.id
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenancies []billing.Tenancy
	for rows.Next() {
		var (
			t        billing.Tenancy
			startRaw string
			endRaw   sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.PropertyID, &startRaw, &endRaw, &t.Status,
			&t.IsRollingMonthly, &t.AutoGeneratePayments, &t.RentManaged); err != nil {
			return nil, err
		}

		start, err := billing.ParseDate(startRaw)
		if err != nil {
			return nil, fmt.Errorf("tenancy %s: %w", t.ID, err)
		}
		t.StartDate = start
		if endRaw.Valid {
			end, err := billing.ParseDate(endRaw.String)
			if err != nil {
				return nil, fmt.Errorf("tenancy %s: %w", t.ID, err)
			}
			t.EndDate = &end
		}

		tenancies = append(tenancies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tenancies {
		members, err := s.membersForTenancy(ctx, tenancies[i].ID)
		if err != nil {
			return nil, err
		}
		tenancies[i].Members = members
	}

	return tenancies, nil
}

// GetTenancy returns one tenancy with members preloaded and RentManaged
// resolved, or billing.ErrTenancyNotFound.
func (s *Store) GetTenancy(ctx context.Context, id billing.TenancyID) (billing.Tenancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT t.id, t.property_id, t.start_date, t.end_date, t.status,
		       t.is_rolling_monthly, t.auto_generate_payments,
		       COALESCE(l.manage_rent, TRUE)
		FROM tenancies t
		JOIN properties p ON p.id = t.property_id
		LEFT JOIN landlords l ON l.id = p.landlord_id
		WHERE t.id = ?
	`

	var (
		t        billing.Tenancy
		startRaw string
		endRaw   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.PropertyID, &startRaw, &endRaw,
		&t.Status, &t.IsRollingMonthly, &t.AutoGeneratePayments, &t.RentManaged)
	if err == sql.ErrNoRows {
		return billing.Tenancy{}, billing.ErrTenancyNotFound
	}
	if err != nil {
		return billing.Tenancy{}, err
	}

	if t.StartDate, err = billing.ParseDate(startRaw); err != nil {
		return billing.Tenancy{}, fmt.Errorf("tenancy %s: %w", t.ID, err)
	}
	if endRaw.Valid {
		end, err := billing.ParseDate(endRaw.String)
		if err != nil {
			return billing.Tenancy{}, fmt.Errorf("tenancy %s: %w", t.ID, err)
		}
		t.EndDate = &end
	}

	if t.Members, err = s.membersForTenancy(ctx, t.ID); err != nil {
		return billing.Tenancy{}, err
	}
	return t, nil
}

func (s *Store) membersForTenancy(ctx context.Context, tenancyID billing.TenancyID) ([]billing.TenancyMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenancy_id, name, rent_pppw, payment_option
		 FROM tenancy_members WHERE tenancy_id = ? ORDER BY id`, tenancyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []billing.TenancyMember
	for rows.Next() {
		var (
			m       billing.TenancyMember
			rentRaw sql.NullString
			option  sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.TenancyID, &m.Name, &rentRaw, &option); err != nil {
			return nil, err
		}
		if rentRaw.Valid {
			// Absent or unparseable rent leaves the zero value; the
			// orchestrator excludes such members rather than failing.
			if d, err := decimal.NewFromString(rentRaw.String); err == nil {
				m.RentPPPW = d
			}
		}
		m.PaymentOption = option.String
		members = append(members, m)
	}
	return members, rows.Err()
}

// =============================================================================
// PAYMENT SCHEDULES (billing.ScheduleStore)
// =============================================================================

// InsertSchedule writes one rent row. A uniqueness rejection from
// idx_unique_rent_month (or the deterministic primary key) maps to
// billing.ErrDuplicateSchedule so the orchestrator counts a lost race as
// a skip.
func (s *Store) InsertSchedule(ctx context.Context, row billing.PaymentSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payment_schedules
		(id, tenancy_id, tenancy_member_id, payment_type, due_date, amount_due,
		 status, schedule_type, covers_from, covers_to, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := row.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		row.ID,
		row.TenancyID,
		row.MemberID,
		row.PaymentType,
		row.DueDate.String(),
		row.AmountDue.String(),
		row.Status,
		row.Type,
		row.CoversFrom.String(),
		row.CoversTo.String(),
		nullString(row.Description),
		createdAt.Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return &billing.DuplicateScheduleError{
				MemberID: row.MemberID,
				DueMonth: row.DueMonth(),
			}
		}
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	return nil
}

func (s *Store) HasRentScheduleInMonth(ctx context.Context, memberID billing.MemberID, month billing.Month) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM payment_schedules
		WHERE tenancy_member_id = ? AND payment_type = ?
		  AND due_date >= ? AND due_date <= ?
	`

	var count int
	err := s.db.QueryRowContext(ctx, query,
		memberID, billing.PaymentTypeRent,
		month.Start().String(), month.End().String()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) HasRentScheduleDueOn(ctx context.Context, memberID billing.MemberID, due billing.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM payment_schedules
		WHERE tenancy_member_id = ? AND payment_type = ? AND due_date = ?
	`

	var count int
	err := s.db.QueryRowContext(ctx, query,
		memberID, billing.PaymentTypeRent, due.String()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) SchedulesForTenancy(ctx context.Context, tenancyID billing.TenancyID) ([]billing.PaymentSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenancy_id, tenancy_member_id, payment_type, due_date, amount_due,
		       status, schedule_type, covers_from, covers_to, description, created_at
		FROM payment_schedules
		WHERE tenancy_id = ?
		ORDER BY due_date ASC, tenancy_member_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenancyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []billing.PaymentSchedule
	for rows.Next() {
		row, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, row)
	}
	return schedules, rows.Err()
}

// SchedulesForMember returns all rent rows for one member, ordered by due
// date. Used by reporting to decide which months still need an estimate.
func (s *Store) SchedulesForMember(ctx context.Context, memberID billing.MemberID) ([]billing.PaymentSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, tenancy_id, tenancy_member_id, payment_type, due_date, amount_due,
		       status, schedule_type, covers_from, covers_to, description, created_at
		FROM payment_schedules
		WHERE tenancy_member_id = ?
		ORDER BY due_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []billing.PaymentSchedule
	for rows.Next() {
		row, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, row)
	}
	return schedules, rows.Err()
}

func scanSchedule(rows *sql.Rows) (billing.PaymentSchedule, error) {
	var (
		row        billing.PaymentSchedule
		dueRaw     string
		amountRaw  string
		fromRaw    string
		toRaw      string
		descRaw    sql.NullString
		createdRaw string
	)
	if err := rows.Scan(&row.ID, &row.TenancyID, &row.MemberID, &row.PaymentType,
		&dueRaw, &amountRaw, &row.Status, &row.Type, &fromRaw, &toRaw, &descRaw, &createdRaw); err != nil {
		return billing.PaymentSchedule{}, err
	}

	var err error
	if row.DueDate, err = billing.ParseDate(dueRaw); err != nil {
		return billing.PaymentSchedule{}, err
	}
	if row.CoversFrom, err = billing.ParseDate(fromRaw); err != nil {
		return billing.PaymentSchedule{}, err
	}
	if row.CoversTo, err = billing.ParseDate(toRaw); err != nil {
		return billing.PaymentSchedule{}, err
	}
	if row.AmountDue, err = decimal.NewFromString(amountRaw); err != nil {
		return billing.PaymentSchedule{}, fmt.Errorf("schedule %s: bad amount: %w", row.ID, err)
	}
	row.Description = descRaw.String
	if t, err := time.Parse(time.RFC3339, createdRaw); err == nil {
		row.CreatedAt = t
	}

	return row, nil
}

// =============================================================================
// GENERATION RUNS (audit trail)
// =============================================================================

// GenerationRun records one orchestrator invocation for audit and UI
// display. Purely observational; correctness never depends on it.
type GenerationRun struct {
	ID                 string
	OrganizationID     billing.OrganizationID
	TargetMonth        billing.Month
	Status             string // "running", "completed", "failed"
	TenanciesProcessed int
	PaymentsCreated    int
	PaymentsSkipped    int
	Failures           int
	Error              string
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
}

func (s *Store) SaveGenerationRun(ctx context.Context, run GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO generation_runs
		(id, organization_id, target_month, status, tenancies_processed,
		 payments_created, payments_skipped, failures, error, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			tenancies_processed = excluded.tenancies_processed,
			payments_created = excluded.payments_created,
			payments_skipped = excluded.payments_skipped,
			failures = excluded.failures,
			error = excluded.error,
			completed_at = excluded.completed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.OrganizationID,
		run.TargetMonth.String(),
		run.Status,
		run.TenanciesProcessed,
		run.PaymentsCreated,
		run.PaymentsSkipped,
		run.Failures,
		nullString(run.Error),
		nullTime(run.StartedAt),
		nullTime(run.CompletedAt),
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save generation run: %w", err)
	}
	return nil
}

func (s *Store) ListGenerationRuns(ctx context.Context, limit int) ([]GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, organization_id, target_month, status, tenancies_processed,
		       payments_created, payments_skipped, failures, error, started_at, completed_at, created_at
		FROM generation_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []GenerationRun
	for rows.Next() {
		var (
			r           GenerationRun
			monthRaw    string
			errRaw      sql.NullString
			startRaw    sql.NullString
			completeRaw sql.NullString
			createdRaw  string
		)
		if err := rows.Scan(&r.ID, &r.OrganizationID, &monthRaw, &r.Status,
			&r.TenanciesProcessed, &r.PaymentsCreated, &r.PaymentsSkipped,
			&r.Failures, &errRaw, &startRaw, &completeRaw, &createdRaw); err != nil {
			return nil, err
		}

		month, err := billing.ParseMonth(monthRaw)
		if err != nil {
			return nil, err
		}
		r.TargetMonth = month
		r.Error = errRaw.String
		if startRaw.Valid {
			if t, err := time.Parse(time.RFC3339, startRaw.String); err == nil {
				r.StartedAt = &t
			}
		}
		if completeRaw.Valid {
			if t, err := time.Parse(time.RFC3339, completeRaw.String); err == nil {
				r.CompletedAt = &t
			}
		}
		if t, err := time.Parse(time.RFC3339, createdRaw); err == nil {
			r.CreatedAt = t
		}

		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Helper functions

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
