package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/tui/styles"
)

// StatusBar renders the bottom line: identity, paging, and transient
// loading/error state. Loading, empty, and error are distinct states.
type StatusBar struct {
	width int
}

func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// View renders the status line
func (b StatusBar) View(user *domain.User, pagination domain.Pagination, loading bool, err error) string {
	left := styles.DimStyle.Render("not signed in")
	if user != nil {
		left = styles.SubtitleStyle.Render(user.Email)
	}

	var middle string
	switch {
	case err != nil:
		middle = styles.ErrorStyle.Render(errSummary(err))
	case loading:
		middle = styles.WarnStyle.Render("loading…")
	case pagination.Total == 0:
		middle = styles.DimStyle.Render("no results")
	default:
		middle = styles.SubtitleStyle.Render(fmt.Sprintf(
			"page %d/%d · %d records", pagination.Page, max(pagination.TotalPages, 1), pagination.Total))
	}

	right := styles.DimStyle.Render("/ search · [ ] pages · q quit")

	gap := b.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 2 {
		return left + " " + middle
	}
	pad := strings.Repeat(" ", gap/2)
	return left + pad + middle + pad + right
}

// errSummary keeps error text one line long, preferring the field-level
// messages when the server sent them.
func errSummary(err error) string {
	if msgs := domain.FieldMessages(err); len(msgs) > 0 {
		parts := make([]string, 0, len(msgs))
		for field, msg := range msgs {
			parts = append(parts, field+": "+msg)
		}
		return strings.Join(parts, "; ")
	}
	if domain.IsTransport(err) {
		return "failed to reach the server"
	}
	return err.Error()
}
