package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/log"
	"github.com/avicena/avicena/internal/query"
)

func newTestModel() Model {
	cache := query.NewStore(log.NullLogger())
	return NewModel(&Services{Cache: cache}, nil, 10, make(chan struct{}))
}

func clinicColumns() []table.Column {
	return []table.Column{{Title: "Name", Width: 20}, {Title: "Email", Width: 20}}
}

func TestSectionLoadReplacesRows(t *testing.T) {
	m := newTestModel()
	m.section = SectionClinics

	updated, _ := m.Update(SectionLoadedMsg{
		Section: SectionClinics,
		Columns: clinicColumns(),
		Rows:    []table.Row{{"North Clinic", "north@x.com"}, {"South Clinic", "south@x.com"}},
		RowIDs:  []string{"c1", "c2"},
		Pagination: domain.Pagination{
			Page: 1, Limit: 10, Total: 2, TotalPages: 1,
		},
	})
	m = updated.(Model)

	require.Len(t, m.rowIDs, 2)
	assert.False(t, m.loading)
	assert.Equal(t, "c1", m.selectedID())
}

func TestStaleSectionLoadIsIgnored(t *testing.T) {
	m := newTestModel()
	m.section = SectionClinics

	updated, _ := m.Update(SectionLoadedMsg{
		Section: SectionDoctors,
		Columns: clinicColumns(),
		Rows:    []table.Row{{"Dr. Late", "late@x.com"}},
		RowIDs:  []string{"d9"},
	})
	m = updated.(Model)

	assert.Empty(t, m.rowIDs, "a response for a section we already left must not land")
}

func TestRowFilterNarrowsLoadedRows(t *testing.T) {
	m := newTestModel()
	m.section = SectionClinics
	m.dataTable.SetColumns(clinicColumns())
	m.allRows = []table.Row{
		{"North Clinic", "north@x.com"},
		{"South Clinic", "south@x.com"},
		{"Harbor Practice", "harbor@x.com"},
	}
	m.allIDs = []string{"c1", "c2", "c3"}

	m.rowFilter = "harbor"
	m.applyRowFilter()

	require.Len(t, m.rowIDs, 1)
	assert.Equal(t, "c3", m.rowIDs[0])
	assert.Equal(t, "c3", m.selectedID())

	m.rowFilter = ""
	m.applyRowFilter()
	assert.Len(t, m.rowIDs, 3)
}

func TestSectionTagMapping(t *testing.T) {
	assert.Equal(t, query.TagClinics, SectionClinics.Tag())
	assert.Equal(t, query.TagAppointments, SectionAppointments.Tag())
	assert.Equal(t, query.TagAppointments, SectionDashboard.Tag())
	assert.Equal(t, query.TagPatientAppointments, SectionPatientAppointments.Tag())
}

func TestSessionExpiryQuitsWithFlag(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(SessionExpiredMsg{})
	m = updated.(Model)

	assert.True(t, m.Expired)
	require.NotNil(t, cmd, "expiry must quit the program")
}
