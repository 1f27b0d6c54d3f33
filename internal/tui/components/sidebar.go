package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/avicena/avicena/internal/tui/styles"
)

// Sidebar is the section navigation panel. Typing while it has focus
// fuzzy-filters the section list, like the original sidebar search box.
type Sidebar struct {
	sections []string
	filter   string
	visible  []int // Indexes into sections after filtering
	cursor   int   // Position within visible
	selected int   // Index into sections of the active section
	focused  bool
	width    int
	height   int
}

// NewSidebar creates a sidebar over the given section titles
func NewSidebar(sections []string) Sidebar {
	s := Sidebar{sections: sections}
	s.applyFilter()
	return s
}

func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Sidebar) Focus()         { s.focused = true }
func (s *Sidebar) Blur()          { s.focused = false }
func (s *Sidebar) Focused() bool  { return s.focused }
func (s *Sidebar) Selected() int  { return s.selected }
func (s *Sidebar) Filter() string { return s.filter }

// TypeRune appends to the filter and re-applies it
func (s *Sidebar) TypeRune(r string) {
	s.filter += r
	s.applyFilter()
}

// Backspace removes the last filter rune
func (s *Sidebar) Backspace() {
	if s.filter == "" {
		return
	}
	runes := []rune(s.filter)
	s.filter = string(runes[:len(runes)-1])
	s.applyFilter()
}

// ClearFilter resets the filter and shows every section
func (s *Sidebar) ClearFilter() {
	s.filter = ""
	s.applyFilter()
}

// applyFilter recomputes the visible list. Ranked fuzzy matching keeps
// the best match on top so enter selects it directly.
func (s *Sidebar) applyFilter() {
	s.visible = s.visible[:0]
	if s.filter == "" {
		for i := range s.sections {
			s.visible = append(s.visible, i)
		}
	} else {
		ranks := fuzzy.RankFindNormalizedFold(s.filter, s.sections)
		sort.Sort(ranks)
		for _, r := range ranks {
			s.visible = append(s.visible, r.OriginalIndex)
		}
	}
	if s.cursor >= len(s.visible) {
		s.cursor = 0
	}
}

// MoveUp moves the cursor up
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.visible)-1 {
		s.cursor++
	}
}

// Select activates the section under the cursor and reports whether the
// active section changed.
func (s *Sidebar) Select() bool {
	if len(s.visible) == 0 {
		return false
	}
	next := s.visible[s.cursor]
	changed := next != s.selected
	s.selected = next
	return changed
}

// View renders the sidebar
func (s Sidebar) View() string {
	var b strings.Builder

	b.WriteString(styles.AccentStyle.Bold(true).Render("Avicena"))
	b.WriteString("\n")
	if s.filter != "" {
		b.WriteString(styles.SubtitleStyle.Render("filter: " + s.filter))
	} else {
		b.WriteString(styles.DimStyle.Render("────────"))
	}
	b.WriteString("\n\n")

	for pos, idx := range s.visible {
		name := s.sections[idx]
		switch {
		case idx == s.selected && s.focused && pos == s.cursor:
			b.WriteString(styles.HighlightStyle.Render(name))
		case s.focused && pos == s.cursor:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight).Padding(0, 1).Render(name))
		case idx == s.selected:
			b.WriteString(styles.AccentStyle.Padding(0, 1).Render(name))
		default:
			b.WriteString(styles.SubtitleStyle.Padding(0, 1).Render(name))
		}
		b.WriteString("\n")
	}

	border := styles.InactiveBorder
	if s.focused {
		border = styles.ActiveBorder
	}
	return border.Width(s.width).Height(s.height).Render(b.String())
}
