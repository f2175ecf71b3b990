// Package store provides an in-memory billing.Store implementation
// for tests and local development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/lettings-engine/billing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory enforces the same uniqueness contract as the SQLite store: one
// rent row per (member, due month), guarded under the write lock.
type Memory struct {
	mu        sync.RWMutex
	orgs      []billing.Organization
	tenancies map[billing.OrganizationID][]billing.Tenancy
	schedules map[billing.MemberID][]billing.PaymentSchedule
	unique    map[uniqueKey]billing.ScheduleID
}

type uniqueKey struct {
	MemberID    billing.MemberID
	PaymentType billing.PaymentType
	DueMonth    billing.Month
}

func NewMemory() *Memory {
	return &Memory{
		tenancies: make(map[billing.OrganizationID][]billing.Tenancy),
		schedules: make(map[billing.MemberID][]billing.PaymentSchedule),
		unique:    make(map[uniqueKey]billing.ScheduleID),
	}
}

// =============================================================================
// SEEDING (dev/test setup, not part of the engine's interfaces)
// =============================================================================

func (m *Memory) AddOrganization(org billing.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs = append(m.orgs, org)
}

func (m *Memory) AddTenancy(orgID billing.OrganizationID, t billing.Tenancy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenancies[orgID] = append(m.tenancies[orgID], t)
}

// RemoveSchedule simulates a manual back-office deletion - an operation
// the engine itself never performs. Exists so tests can exercise the
// self-healing behavior of the first-payment coverage check.
func (m *Memory) RemoveSchedule(id billing.ScheduleID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for memberID, rows := range m.schedules {
		for i, row := range rows {
			if row.ID != id {
				continue
			}
			m.schedules[memberID] = append(rows[:i], rows[i+1:]...)
			delete(m.unique, uniqueKey{row.MemberID, row.PaymentType, row.DueMonth()})
			return
		}
	}
}

// AllSchedules returns every stored row, for test assertions.
func (m *Memory) AllSchedules() []billing.PaymentSchedule {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []billing.PaymentSchedule
	for _, rows := range m.schedules {
		all = append(all, rows...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// =============================================================================
// billing.OrganizationStore / billing.TenancyStore
// =============================================================================

func (m *Memory) ListOrganizations(_ context.Context) ([]billing.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]billing.Organization(nil), m.orgs...), nil
}

func (m *Memory) RollingTenancies(_ context.Context, orgID billing.OrganizationID) ([]billing.Tenancy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]billing.Tenancy(nil), m.tenancies[orgID]...), nil
}

// =============================================================================
// billing.ScheduleStore
// =============================================================================

func (m *Memory) InsertSchedule(_ context.Context, row billing.PaymentSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := uniqueKey{row.MemberID, row.PaymentType, row.DueMonth()}
	if existing, ok := m.unique[k]; ok {
		return &billing.DuplicateScheduleError{
			MemberID:   row.MemberID,
			DueMonth:   row.DueMonth(),
			ExistingID: existing,
		}
	}

	m.schedules[row.MemberID] = append(m.schedules[row.MemberID], row)
	m.unique[k] = row.ID
	return nil
}

func (m *Memory) HasRentScheduleInMonth(_ context.Context, memberID billing.MemberID, month billing.Month) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.unique[uniqueKey{memberID, billing.PaymentTypeRent, month}]
	return ok, nil
}

func (m *Memory) HasRentScheduleDueOn(_ context.Context, memberID billing.MemberID, due billing.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, row := range m.schedules[memberID] {
		if row.PaymentType == billing.PaymentTypeRent && row.DueDate.Equal(due) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) SchedulesForTenancy(_ context.Context, tenancyID billing.TenancyID) ([]billing.PaymentSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []billing.PaymentSchedule
	for _, memberRows := range m.schedules {
		for _, row := range memberRows {
			if row.TenancyID == tenancyID {
				rows = append(rows, row)
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].DueDate.Equal(rows[j].DueDate) {
			return rows[i].DueDate.Before(rows[j].DueDate)
		}
		return rows[i].MemberID < rows[j].MemberID
	})
	return rows, nil
}
