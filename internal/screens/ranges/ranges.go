// Package ranges shows the safe interval of every measurement.
package ranges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screen"
	"github.com/abhisek/aquacheck/internal/ui/components"
	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// RangesScreen is a read-only table of the range limits.
type RangesScreen struct{}

var _ screen.Screen = (*RangesScreen)(nil)

func New() *RangesScreen {
	return &RangesScreen{}
}

func (s *RangesScreen) Init() tea.Cmd { return nil }

func (s *RangesScreen) Title() string { return "Safe Ranges" }

func (s *RangesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *RangesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	head := theme.Label.Render(fmt.Sprintf("%-18s %-12s %s", "Measurement", "Safe range", "Unit"))
	rows := []string{head, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", 40))}
	for _, f := range measurement.Fields() {
		rows = append(rows, theme.Body.Render(fmt.Sprintf("%-18s %-12s %s", f, measurement.RangeOf(f), f.Unit())))
	}

	note := theme.Hint.Render("A value outside its range means the water is not safe to drink.")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(strings.Join(rows, "\n"), cw, theme.Border)+"\n"+note)
}
