package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screen"
	"github.com/abhisek/aquacheck/internal/store"
	"github.com/abhisek/aquacheck/internal/ui/layout"
	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// pageSize is how many timeline entries are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Entries []history.Entry
	Err     error
}

// HistoryScreen lists past assessments and chat turns, newest first.
type HistoryScreen struct {
	repo     store.EventRepo
	entries  []history.Entry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. repo may be nil when history is
// disabled.
func New(repo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.repo == nil {
		s.loaded = true
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		entries, err := history.Recent(context.Background(), repo, pageSize)
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return centered.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.repo == nil {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  History is disabled.")
	}
	if len(s.entries) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing here yet. Check some water!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.visible(height) {
		idx := i + s.offset(height)

		prefix := "  "
		if idx == s.selected {
			prefix = "> "
		}

		icon := "💧"
		if e.Type == history.EntryChat {
			icon = "💬"
		}

		line := fmt.Sprintf("%s%s  %s  %s",
			prefix, e.Timestamp.Local().Format("Jan 02 15:04"), icon, e.Summary)

		style := lipgloss.NewStyle().Foreground(kindColor(e))
		if idx == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[idx] {
			detail := fmt.Sprintf("    #%d  %s via %s  (%s)", e.Sequence, e.Type, e.Origin, e.Kind)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// offset scrolls the list so the selection stays on screen.
func (s *HistoryScreen) offset(height int) int {
	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	if s.selected < rows {
		return 0
	}
	return s.selected - rows + 1
}

func (s *HistoryScreen) visible(height int) []history.Entry {
	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	start := s.offset(height)
	end := start + rows
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[start:end]
}

func kindColor(e history.Entry) color.Color {
	if e.Type == history.EntryChat {
		return theme.Text
	}
	switch potability.Kind(e.Kind) {
	case potability.KindSafe:
		return theme.Success
	case potability.KindUnsafe:
		return theme.Error
	default:
		return theme.Accent
	}
}
