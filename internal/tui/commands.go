package tui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/table"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
	"github.com/avicena/avicena/internal/service"
)

const requestTimeout = 30 * time.Second

// Services bundles the per-resource query clients the dashboard uses.
type Services struct {
	Session      *service.SessionService
	Clinics      *service.ClinicService
	Doctors      *service.DoctorService
	Schedules    *service.ScheduleService
	Appointments *service.AppointmentService
	Patients     *service.PatientService
	Reference    *service.ReferenceService
	Files        *service.FileService
	Cache        *query.Store
}

// Section identifies one dashboard view.
type Section int

const (
	SectionDashboard Section = iota
	SectionClinics
	SectionDoctors
	SectionSchedules
	SectionExceptions
	SectionAppointments
	SectionPatients
	SectionPatientAppointments // Drill-down from the patient list
)

// SectionTitles lists the sidebar entries in display order.
var SectionTitles = []string{
	"Dashboard",
	"Clinics",
	"Doctors",
	"Schedules",
	"Exceptions",
	"Appointments",
	"Patients",
}

// Tag returns the cache tag whose invalidation should refresh the section.
func (s Section) Tag() query.Tag {
	switch s {
	case SectionClinics:
		return query.TagClinics
	case SectionDoctors:
		return query.TagDoctors
	case SectionSchedules:
		return query.TagSchedules
	case SectionExceptions:
		return query.TagScheduleExceptions
	case SectionAppointments, SectionDashboard:
		return query.TagAppointments
	case SectionPatients:
		return query.TagPatients
	case SectionPatientAppointments:
		return query.TagPatientAppointments
	}
	return ""
}

func loadDashboard(svcs *Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		doctors, err := svcs.Doctors.Stats(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading doctor stats"}
		}
		appointments, err := svcs.Appointments.Dashboard(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading appointment dashboard"}
		}
		patients, err := svcs.Patients.Summary(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading patient summary"}
		}
		return DashboardLoadedMsg{Doctors: doctors, Appointments: appointments, Patients: patients}
	}
}

func loadClinics(svcs *Services, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Clinics.List(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading clinics"}
		}

		columns := []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Email", Width: 28},
			{Title: "Phone", Width: 16},
			{Title: "Active", Width: 6},
		}
		rows := make([]table.Row, len(page.Items))
		ids := make([]string, len(page.Items))
		for i, c := range page.Items {
			rows[i] = table.Row{clinicName(c), c.Email, c.Phone, yesNo(c.IsActive)}
			ids[i] = c.ID
		}
		return SectionLoadedMsg{Section: SectionClinics, Columns: columns, Rows: rows, RowIDs: ids, Pagination: page.Pagination}
	}
}

func loadDoctors(svcs *Services, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Doctors.List(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading doctors"}
		}

		columns := []table.Column{
			{Title: "Name", Width: 26},
			{Title: "Email", Width: 28},
			{Title: "Specializations", Width: 24},
			{Title: "Active", Width: 6},
		}
		rows := make([]table.Row, len(page.Items))
		ids := make([]string, len(page.Items))
		for i, d := range page.Items {
			rows[i] = table.Row{d.FirstName + " " + d.LastName, d.Email, specNames(d.Specializations), yesNo(d.IsActive)}
			ids[i] = d.ID
		}
		return SectionLoadedMsg{Section: SectionDoctors, Columns: columns, Rows: rows, RowIDs: ids, Pagination: page.Pagination}
	}
}

func loadSchedules(svcs *Services, params api.ScheduleListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Schedules.List(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading schedules"}
		}

		columns := []table.Column{
			{Title: "Doctor", Width: 24},
			{Title: "Day", Width: 10},
			{Title: "Hours", Width: 20},
			{Title: "Mode", Width: 10},
			{Title: "Active", Width: 6},
		}
		rows := make([]table.Row, len(page.Items))
		ids := make([]string, len(page.Items))
		for i, s := range page.Items {
			rows[i] = table.Row{doctorName(s.Doctor, s.DoctorID), weekday(s.DayOfWeek),
				s.StartTime + " – " + s.EndTime, mode(s.IsOnline), yesNo(s.IsActive)}
			ids[i] = s.ID
		}
		return SectionLoadedMsg{Section: SectionSchedules, Columns: columns, Rows: rows, RowIDs: ids, Pagination: page.Pagination}
	}
}

func loadExceptions(svcs *Services, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Schedules.ListExceptions(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading schedule exceptions"}
		}

		columns := []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Doctor", Width: 24},
			{Title: "Hours", Width: 20},
			{Title: "Available", Width: 9},
			{Title: "Reason", Width: 24},
		}
		rows := make([]table.Row, len(page.Items))
		ids := make([]string, len(page.Items))
		for i, e := range page.Items {
			hours := ""
			if e.StartTime != "" {
				hours = e.StartTime + " – " + e.EndTime
			}
			rows[i] = table.Row{e.Date, e.DoctorID, hours, yesNo(e.IsAvailable), e.Reason}
			ids[i] = e.ID
		}
		return SectionLoadedMsg{Section: SectionExceptions, Columns: columns, Rows: rows, RowIDs: ids, Pagination: page.Pagination}
	}
}

func loadAppointments(svcs *Services, params api.AppointmentListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Appointments.List(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading appointments"}
		}
		return SectionLoadedMsg{
			Section:    SectionAppointments,
			Columns:    appointmentColumns(),
			Rows:       appointmentRows(page.Items),
			RowIDs:     appointmentIDs(page.Items),
			Pagination: page.Pagination,
		}
	}
}

func loadPatients(svcs *Services, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Patients.List(ctx, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading patients"}
		}

		columns := []table.Column{
			{Title: "Name", Width: 26},
			{Title: "Email", Width: 28},
			{Title: "Phone", Width: 16},
			{Title: "Born", Width: 12},
		}
		rows := make([]table.Row, len(page.Items))
		ids := make([]string, len(page.Items))
		for i, p := range page.Items {
			rows[i] = table.Row{p.FirstName + " " + p.LastName, p.Email, p.Phone, p.DateOfBirth}
			ids[i] = p.ID
		}
		return SectionLoadedMsg{Section: SectionPatients, Columns: columns, Rows: rows, RowIDs: ids, Pagination: page.Pagination}
	}
}

func loadPatientAppointments(svcs *Services, patientID string, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svcs.Patients.Appointments(ctx, patientID, params)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading patient appointments"}
		}
		return SectionLoadedMsg{
			Section:    SectionPatientAppointments,
			Columns:    appointmentColumns(),
			Rows:       appointmentRows(page.Items),
			RowIDs:     appointmentIDs(page.Items),
			Pagination: page.Pagination,
		}
	}
}

func updateAppointmentStatus(svcs *Services, id, status string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		apt, err := svcs.Appointments.UpdateStatus(ctx, id, status)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating appointment"}
		}
		return StatusUpdatedMsg{Appointment: apt}
	}
}

// watchInvalidations re-arms after every message; the cache notifies it
// for each invalidated tag.
func watchInvalidations(ch <-chan query.Tag) tea.Cmd {
	return func() tea.Msg {
		tag, ok := <-ch
		if !ok {
			return nil
		}
		return InvalidationMsg{Tag: tag}
	}
}

// watchSessionExpiry fires when the executor tears a session down (401).
func watchSessionExpiry(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return SessionExpiredMsg{}
	}
}

// === Row building helpers ===

func appointmentColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 10},
		{Title: "Patient", Width: 22},
		{Title: "Doctor", Width: 22},
		{Title: "Type", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Payment", Width: 8},
	}
}

func appointmentRows(items []domain.Appointment) []table.Row {
	rows := make([]table.Row, len(items))
	for i, a := range items {
		patient := ""
		if a.Patient != nil {
			patient = a.Patient.FirstName + " " + a.Patient.LastName
		}
		rows[i] = table.Row{a.Date, a.StartTime, patient, doctorName(a.Doctor, ""),
			a.ConsultationType, a.Status, a.PaymentStatus}
	}
	return rows
}

func appointmentIDs(items []domain.Appointment) []string {
	ids := make([]string, len(items))
	for i, a := range items {
		ids[i] = a.ID
	}
	return ids
}

func clinicName(c domain.Clinic) string {
	if len(c.Translations) > 0 {
		return c.Translations[0].Name
	}
	return c.Email
}

func doctorName(d *domain.Doctor, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.FirstName + " " + d.LastName
}

func specNames(specs []domain.Specialization) string {
	if len(specs) == 0 {
		return ""
	}
	out := specs[0].Name
	for _, s := range specs[1:] {
		out += ", " + s.Name
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func mode(online bool) string {
	if online {
		return "online"
	}
	return "in person"
}

func weekday(day int) string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if day >= 0 && day < len(names) {
		return names[day]
	}
	return strconv.Itoa(day)
}
