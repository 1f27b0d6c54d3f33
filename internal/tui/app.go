package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
	"github.com/avicena/avicena/internal/tui/components"
	"github.com/avicena/avicena/internal/tui/styles"
)

// ApplicationState represents the current input mode of the dashboard
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching     // "/" - server-side search, submitted on enter
	StateFiltering     // "f" - client-side fuzzy filter over loaded rows
	StateSidebarFilter // "/" while the sidebar has focus
	StateConfirmLogout
)

// Layout constants
const (
	sidebarWidth = 22
	chromeHeight = 1 // status bar
)

// Model is the main Bubble Tea model for the dashboard
type Model struct {
	State ApplicationState
	Ready bool

	// LoggedOut is set when the user quit via an explicit logout; the
	// caller re-runs the sign-in flow instead of exiting.
	LoggedOut bool
	// Expired is set when the server rejected the session mid-flight.
	Expired bool

	svcs *Services
	keys KeyMap
	user *domain.User

	// UI components
	sidebar   components.Sidebar
	statusBar components.StatusBar
	dataTable table.Model
	spinner   spinner.Model
	input     textinput.Model

	// View state
	section      Section
	page         int
	pageSize     int
	search       string // server-side, per section
	rowFilter    string // client-side, cleared on every load
	allRows      []table.Row
	allIDs       []string
	rowIDs       []string // ids aligned with the rows the table shows
	pagination   domain.Pagination
	patientID    string // set while drilled into one patient's appointments
	loading      bool
	err          error
	sidebarFocus bool

	// Dashboard counters
	doctorStats   *domain.DoctorStats
	aptDashboard  *domain.AppointmentDashboard
	patientTotals *domain.PatientSummary

	// Cache plumbing
	release       func() // drops the current list subscription
	invalidations chan query.Tag
	expiry        <-chan struct{}

	width  int
	height int
}

// NewModel creates the dashboard model. The expiry channel fires when
// the request executor tears down the session on a 401.
func NewModel(svcs *Services, user *domain.User, pageSize int, expiry <-chan struct{}) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	ti := textinput.New()
	ti.CharLimit = 64

	invalidations := make(chan query.Tag, 16)
	svcs.Cache.Watch(invalidations)

	if pageSize <= 0 {
		pageSize = 10
	}

	return Model{
		State:         StateBrowsing,
		svcs:          svcs,
		keys:          DefaultKeyMap(),
		user:          user,
		sidebar:       components.NewSidebar(SectionTitles),
		dataTable:     table.New(table.WithFocused(true)),
		spinner:       sp,
		input:         ti,
		page:          1,
		pageSize:      pageSize,
		invalidations: invalidations,
		expiry:        expiry,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadCurrent(),
		watchInvalidations(m.invalidations),
		watchSessionExpiry(m.expiry),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SectionLoadedMsg:
		if msg.Section != m.section {
			return m, nil // stale response from a section we already left
		}
		m.loading = false
		m.err = nil
		m.allRows = msg.Rows
		m.allIDs = msg.RowIDs
		m.pagination = msg.Pagination
		m.dataTable.SetColumns(msg.Columns)
		m.applyRowFilter()
		m.dataTable.SetCursor(0)
		return m, nil

	case DashboardLoadedMsg:
		m.loading = false
		m.err = nil
		m.doctorStats = msg.Doctors
		m.aptDashboard = msg.Appointments
		m.patientTotals = msg.Patients
		return m, nil

	case StatusUpdatedMsg:
		// The mutation already invalidated the tags; the invalidation
		// watcher triggers the refetch.
		return m, nil

	case InvalidationMsg:
		cmds := []tea.Cmd{watchInvalidations(m.invalidations)}
		if msg.Tag == m.section.Tag() || (m.section == SectionPatientAppointments && msg.Tag == query.PatientTag(m.patientID)) {
			cmds = append(cmds, m.loadCurrent())
		}
		return m, tea.Batch(cmds...)

	case SessionExpiredMsg:
		m.Expired = true
		return m, tea.Quit

	case ErrMsg:
		m.loading = false
		m.err = msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateSearching, StateFiltering:
		return m.handleInputKey(msg)
	case StateSidebarFilter:
		return m.handleSidebarFilterKey(msg)
	case StateConfirmLogout:
		return m.handleConfirmLogoutKey(msg)
	}
	return m.handleBrowsingKey(msg)
}

func (m Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		if m.release != nil {
			m.release()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Logout):
		m.State = StateConfirmLogout
		return m, nil

	case key.Matches(msg, keys.Tab):
		m.sidebarFocus = !m.sidebarFocus
		if m.sidebarFocus {
			m.sidebar.Focus()
			m.dataTable.Blur()
		} else {
			m.sidebar.Blur()
			m.dataTable.Focus()
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.svcs.Cache.Invalidate(m.section.Tag())
		return m, nil
	}

	if m.sidebarFocus {
		return m.handleSidebarKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Up):
		m.sidebar.MoveUp()
	case key.Matches(msg, keys.Down):
		m.sidebar.MoveDown()
	case key.Matches(msg, keys.Search):
		m.State = StateSidebarFilter
	case key.Matches(msg, keys.Enter):
		if m.sidebar.Select() {
			return m.switchSection(Section(m.sidebar.Selected()))
		}
	}
	return m, nil
}

func (m Model) handleSidebarFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.sidebar.ClearFilter()
		m.State = StateBrowsing
	case tea.KeyEnter:
		m.State = StateBrowsing
		if m.sidebar.Select() {
			return m.switchSection(Section(m.sidebar.Selected()))
		}
	case tea.KeyBackspace:
		m.sidebar.Backspace()
	case tea.KeyUp:
		m.sidebar.MoveUp()
	case tea.KeyDown:
		m.sidebar.MoveDown()
	case tea.KeyRunes:
		m.sidebar.TypeRune(string(msg.Runes))
	}
	return m, nil
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.NextPage):
		if m.pagination.TotalPages == 0 || m.page < m.pagination.TotalPages {
			m.page++
			return m, m.loadCurrent()
		}
		return m, nil

	case key.Matches(msg, keys.PrevPage):
		if m.page > 1 {
			m.page--
			return m, m.loadCurrent()
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		if m.section == SectionDashboard {
			return m, nil
		}
		m.State = StateSearching
		m.input.Placeholder = "search"
		m.input.SetValue(m.search)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Filter):
		if m.section == SectionDashboard {
			return m, nil
		}
		m.State = StateFiltering
		m.input.Placeholder = "filter rows"
		m.input.SetValue(m.rowFilter)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		if m.section == SectionPatients {
			if id := m.selectedID(); id != "" {
				m.patientID = id
				return m.switchSection(SectionPatientAppointments)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		if m.section == SectionPatientAppointments {
			return m.switchSection(SectionPatients)
		}
		return m, nil

	case key.Matches(msg, keys.Confirm):
		return m.transition(domain.AppointmentConfirmed)
	case key.Matches(msg, keys.Complete):
		return m.transition(domain.AppointmentCompleted)
	case key.Matches(msg, keys.Cancel):
		return m.transition(domain.AppointmentCancelled)

	case key.Matches(msg, keys.Escape):
		if m.rowFilter != "" {
			m.rowFilter = ""
			m.applyRowFilter()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.input.Blur()
		if m.State == StateFiltering {
			m.rowFilter = ""
			m.applyRowFilter()
		}
		m.State = StateBrowsing
		return m, nil

	case tea.KeyEnter:
		m.input.Blur()
		if m.State == StateSearching {
			m.State = StateBrowsing
			if value := strings.TrimSpace(m.input.Value()); value != m.search {
				m.search = value
				m.page = 1
				return m, m.loadCurrent()
			}
			return m, nil
		}
		m.State = StateBrowsing
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.State == StateFiltering {
		m.rowFilter = m.input.Value()
		m.applyRowFilter()
	}
	return m, cmd
}

func (m Model) handleConfirmLogoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		if m.release != nil {
			m.release()
		}
		if err := m.svcs.Session.Logout(); err != nil {
			m.State = StateBrowsing
			m.err = ErrMsg{Err: err, Context: "logging out"}
			return m, nil
		}
		m.LoggedOut = true
		return m, tea.Quit
	default:
		m.State = StateBrowsing
		return m, nil
	}
}

// switchSection changes the active view, moving the cache subscription
// from the old list to the new one.
func (m Model) switchSection(section Section) (tea.Model, tea.Cmd) {
	if m.release != nil {
		m.release()
		m.release = nil
	}
	m.section = section
	m.page = 1
	m.search = ""
	m.rowFilter = ""
	m.allRows = nil
	m.allIDs = nil
	m.rowIDs = nil
	m.pagination = domain.Pagination{}
	m.dataTable.SetRows(nil)
	if section != SectionPatientAppointments {
		m.patientID = ""
	}
	m.release = m.subscribe()
	return m, m.loadCurrent()
}

// subscribe pins the current section's list entry in the cache so it
// survives invalidation-driven refetch races while on screen.
func (m *Model) subscribe() func() {
	switch m.section {
	case SectionClinics:
		return m.svcs.Clinics.SubscribeList(m.listParams())
	case SectionDoctors:
		return m.svcs.Doctors.SubscribeList(m.listParams())
	case SectionSchedules:
		return m.svcs.Schedules.SubscribeList(m.scheduleParams())
	case SectionExceptions:
		return m.svcs.Schedules.SubscribeExceptions(m.listParams())
	case SectionAppointments:
		return m.svcs.Appointments.SubscribeList(m.appointmentParams())
	case SectionPatients:
		return m.svcs.Patients.SubscribeList(m.listParams())
	}
	return nil
}

func (m *Model) listParams() api.ListParams {
	return api.ListParams{Page: m.page, Limit: m.pageSize, Search: m.search}
}

func (m *Model) scheduleParams() api.ScheduleListParams {
	return api.ScheduleListParams{Page: m.page, Limit: m.pageSize}
}

func (m *Model) appointmentParams() api.AppointmentListParams {
	return api.AppointmentListParams{Page: m.page, Limit: m.pageSize, Search: m.search}
}

// loadCurrent kicks off the fetch for whatever the active section shows
func (m *Model) loadCurrent() tea.Cmd {
	m.loading = true
	m.err = nil

	switch m.section {
	case SectionDashboard:
		return loadDashboard(m.svcs)
	case SectionClinics:
		return loadClinics(m.svcs, m.listParams())
	case SectionDoctors:
		return loadDoctors(m.svcs, m.listParams())
	case SectionSchedules:
		return loadSchedules(m.svcs, m.scheduleParams())
	case SectionExceptions:
		return loadExceptions(m.svcs, m.listParams())
	case SectionAppointments:
		return loadAppointments(m.svcs, m.appointmentParams())
	case SectionPatients:
		return loadPatients(m.svcs, m.listParams())
	case SectionPatientAppointments:
		return loadPatientAppointments(m.svcs, m.patientID, m.listParams())
	}
	return nil
}

// transition requests a status change for the selected appointment
func (m Model) transition(status string) (tea.Model, tea.Cmd) {
	if m.section != SectionAppointments && m.section != SectionPatientAppointments {
		return m, nil
	}
	id := m.selectedID()
	if id == "" {
		return m, nil
	}
	m.loading = true
	return m, updateAppointmentStatus(m.svcs, id, status)
}

// selectedID maps the table cursor back to a record id
func (m *Model) selectedID() string {
	cursor := m.dataTable.Cursor()
	if cursor < 0 || cursor >= len(m.rowIDs) {
		return ""
	}
	return m.rowIDs[cursor]
}

// applyRowFilter narrows the visible rows with fuzzy matching over the
// already-loaded page. Server-side search is separate ("/").
func (m *Model) applyRowFilter() {
	if m.rowFilter == "" {
		m.dataTable.SetRows(m.allRows)
		m.rowIDs = m.allIDs
		return
	}

	haystack := make([]string, len(m.allRows))
	for i, row := range m.allRows {
		haystack[i] = strings.Join(row, " ")
	}
	matches := fuzzy.Find(m.rowFilter, haystack)

	rows := make([]table.Row, 0, len(matches))
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, m.allRows[match.Index])
		ids = append(ids, m.allIDs[match.Index])
	}
	m.dataTable.SetRows(rows)
	m.rowIDs = ids
	if m.dataTable.Cursor() >= len(rows) {
		m.dataTable.SetCursor(0)
	}
}

func (m *Model) resize() {
	mainWidth := m.width - sidebarWidth - 4
	if mainWidth < 20 {
		mainWidth = 20
	}
	contentHeight := m.height - chromeHeight - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.statusBar.SetWidth(m.width)
	m.dataTable.SetWidth(mainWidth)
	m.dataTable.SetHeight(contentHeight)
	m.input.Width = mainWidth - 4
}

// View implements tea.Model
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var main string
	if m.section == SectionDashboard {
		main = m.dashboardView()
	} else {
		main = m.tableView()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	status := m.statusBar.View(m.user, m.pagination, m.loading, m.err)

	if m.State == StateConfirmLogout {
		status = styles.WarnStyle.Render("log out and drop the cached session? (y/n)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (m Model) tableView() string {
	var b strings.Builder

	title := SectionTitles[min(int(m.section), len(SectionTitles)-1)]
	if m.section == SectionPatientAppointments {
		title = "Patient appointments"
	}
	header := styles.TitleStyle.Render(title)
	if m.loading {
		header += " " + m.spinner.View()
	}
	if m.search != "" {
		header += styles.DimStyle.Render("  search: " + m.search)
	}
	if m.rowFilter != "" {
		header += styles.AccentStyle.Render("  filter: " + m.rowFilter)
	}
	b.WriteString(header)
	b.WriteString("\n")

	if m.State == StateSearching || m.State == StateFiltering {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.dataTable.View())

	border := styles.ActiveBorder
	if m.sidebarFocus {
		border = styles.InactiveBorder
	}
	return border.Render(b.String())
}

func (m Model) dashboardView() string {
	cards := []string{}

	if m.doctorStats != nil {
		cards = append(cards, statCard("Doctors", [][2]string{
			{"total", fmt.Sprintf("%d", m.doctorStats.Total)},
			{"active", fmt.Sprintf("%d", m.doctorStats.Active)},
			{"inactive", fmt.Sprintf("%d", m.doctorStats.Inactive)},
		}))
	}
	if m.aptDashboard != nil {
		cards = append(cards, statCard("Appointments", [][2]string{
			{"total", fmt.Sprintf("%d", m.aptDashboard.Total)},
			{"today", fmt.Sprintf("%d", m.aptDashboard.Today)},
			{"upcoming", fmt.Sprintf("%d", m.aptDashboard.Upcoming)},
			{"pending", fmt.Sprintf("%d", m.aptDashboard.Pending)},
			{"confirmed", fmt.Sprintf("%d", m.aptDashboard.Confirmed)},
			{"completed", fmt.Sprintf("%d", m.aptDashboard.Completed)},
			{"cancelled", fmt.Sprintf("%d", m.aptDashboard.Cancelled)},
		}))
	}
	if m.patientTotals != nil {
		cards = append(cards, statCard("Patients", [][2]string{
			{"total", fmt.Sprintf("%d", m.patientTotals.Total)},
			{"new today", fmt.Sprintf("%d", m.patientTotals.NewToday)},
			{"new this week", fmt.Sprintf("%d", m.patientTotals.NewWeekly)},
		}))
	}

	if len(cards) == 0 {
		if m.loading {
			return styles.ActiveBorder.Render(m.spinner.View() + " loading dashboard")
		}
		return styles.ActiveBorder.Render(styles.DimStyle.Render("no dashboard data"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(title string, lines [][2]string) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(fmt.Sprintf("%s %s\n",
			styles.SubtitleStyle.Width(14).Render(line[0]),
			styles.AccentStyle.Render(line[1])))
	}
	return styles.InactiveBorder.Padding(0, 1).Render(b.String())
}
