package tui

import (
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
	"github.com/charmbracelet/bubbles/table"
)

// Message types for the TUI

// ErrMsg represents an operation error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e ErrMsg) Unwrap() error { return e.Err }

// SectionLoadedMsg carries one rendered page of a resource list
type SectionLoadedMsg struct {
	Section    Section
	Columns    []table.Column
	Rows       []table.Row
	RowIDs     []string // Record ids aligned with Rows
	Pagination domain.Pagination
}

// DashboardLoadedMsg carries the aggregated dashboard counters
type DashboardLoadedMsg struct {
	Doctors      *domain.DoctorStats
	Appointments *domain.AppointmentDashboard
	Patients     *domain.PatientSummary
}

// StatusUpdatedMsg signals a completed appointment status transition
type StatusUpdatedMsg struct {
	Appointment *domain.Appointment
}

// InvalidationMsg signals that a resource tag went stale; views showing
// that resource refetch.
type InvalidationMsg struct {
	Tag query.Tag
}

// SessionExpiredMsg signals a 401 teardown: the stored session is gone
// and the app must return to the sign-in flow.
type SessionExpiredMsg struct{}
