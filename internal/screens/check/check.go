// Package check is the water-quality form: nine measurement inputs, a
// submit button and a modal result notice.
package check

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screen"
	"github.com/abhisek/aquacheck/internal/speech"
	"github.com/abhisek/aquacheck/internal/ui/components"
	"github.com/abhisek/aquacheck/internal/ui/layout"
	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// Assessor turns raw form values into an outcome.
type Assessor interface {
	Assess(in measurement.Inputs) potability.Outcome
}

const (
	labelWidth = 18
	charLimit  = 12
)

// submitIndex is the focus position of the submit button, after the
// nine inputs.
const submitIndex = measurement.NumFields

// CheckScreen is the measurement form.
type CheckScreen struct {
	assessor  Assessor
	announcer speech.Announcer
	recorder  *history.Recorder

	inputs [measurement.NumFields]components.TextInput
	submit components.Button
	focus  int

	notice *components.Notice
	last   *potability.Outcome
}

var _ screen.Screen = (*CheckScreen)(nil)
var _ screen.KeyHintProvider = (*CheckScreen)(nil)
var _ screen.Modal = (*CheckScreen)(nil)

// New creates the form. announcer and recorder may be nil.
func New(assessor Assessor, announcer speech.Announcer, recorder *history.Recorder) *CheckScreen {
	if announcer == nil {
		announcer = speech.Silent{}
	}
	s := &CheckScreen{
		assessor:  assessor,
		announcer: announcer,
		recorder:  recorder,
		submit:    components.NewButton("Check Water", false, nil),
	}
	for _, f := range measurement.Fields() {
		in := components.NewTextInput(f.String(), measurement.RangeOf(f).String(), components.DecimalRunes, charLimit)
		in.Unit = f.Unit()
		s.inputs[f] = in
	}
	s.submit.OnPress = s.submitCmd
	return s
}

func (s *CheckScreen) Init() tea.Cmd {
	return s.setFocus(0)
}

func (s *CheckScreen) Title() string {
	return "Check Water"
}

func (s *CheckScreen) KeyHints() []layout.KeyHint {
	if s.notice != nil {
		return []layout.KeyHint{{Key: "Any key", Description: "Dismiss"}}
	}
	return []layout.KeyHint{
		{Key: "Tab/Shift+Tab", Description: "Move"},
		{Key: "Enter", Description: "Check"},
		{Key: "Ctrl+R", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

// ModalOpen reports whether the result notice is showing.
func (s *CheckScreen) ModalOpen() bool {
	return s.notice != nil
}

// Values returns the raw text of every input in field order.
func (s *CheckScreen) Values() measurement.Inputs {
	var in measurement.Inputs
	for i := range s.inputs {
		in[i] = s.inputs[i].Value()
	}
	return in
}

// SetValues fills the form, e.g. from a previous assessment.
func (s *CheckScreen) SetValues(in measurement.Inputs) {
	for i := range s.inputs {
		s.inputs[i].SetValue(in[i])
	}
}

// LastOutcome returns the most recent outcome, or nil before the first
// submission.
func (s *CheckScreen) LastOutcome() *potability.Outcome {
	return s.last
}

type submittedMsg struct{}

func (s *CheckScreen) submitCmd() tea.Cmd {
	return func() tea.Msg { return submittedMsg{} }
}

func (s *CheckScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.assess()
		return s, nil

	case tea.KeyPressMsg:
		if s.notice != nil {
			s.notice = nil
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.focus < submitIndex {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CheckScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % (submitIndex + 1))
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + submitIndex) % (submitIndex + 1))
	case "ctrl+r":
		s.SetValues(measurement.Inputs{})
		return s, s.setFocus(0)
	case "enter":
		if s.focus == submitIndex {
			var cmd tea.Cmd
			s.submit, cmd = s.submit.Update(msg)
			return s, cmd
		}
		s.assess()
		return s, nil
	}

	if s.focus < submitIndex {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CheckScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.submit.Active = i == submitIndex
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return cmd
}

// assess runs the pipeline on the current values, then shows, speaks
// and records the outcome.
func (s *CheckScreen) assess() {
	values := s.Values()
	o := s.assessor.Assess(values)
	s.last = &o

	for i := range s.inputs {
		s.inputs[i].ClearMark()
	}
	if f, ok := measurement.FieldByName(o.Field); ok {
		s.inputs[f].Mark(false)
	} else if o.Kind == potability.KindSafe || o.Kind == potability.KindUnsafe {
		for i := range s.inputs {
			s.inputs[i].Mark(true)
		}
	}

	s.notice = &components.Notice{
		Title:   o.Title,
		Message: o.Message,
		Accent:  noticeColor(o.Kind),
	}
	s.announcer.Enqueue(o.Spoken)
	s.recorder.Assessment(context.Background(), history.OriginTUI, values, o)
}

func noticeColor(k potability.Kind) color.Color {
	switch k {
	case potability.KindSafe:
		return theme.NoticeSafe
	case potability.KindUnsafe:
		return theme.NoticeUnsafe
	case potability.KindOutOfRange:
		return theme.NoticeWarning
	default:
		return theme.NoticeInvalid
	}
}

func (s *CheckScreen) View(width, height int) string {
	if s.notice != nil {
		return s.notice.View(width, height)
	}

	cw := components.ContentWidth(width)

	heading := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Enter water-quality measurements")

	rows := make([]string, 0, len(s.inputs))
	for i := range s.inputs {
		rows = append(rows, s.inputs[i].View(labelWidth))
	}
	form := components.Card(strings.Join(rows, "\n"), cw, theme.Border)

	button := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(s.submit.View())

	sections := []string{heading, form, button}
	if s.last != nil {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(noticeColor(s.last.Kind)).
			Render(fmt.Sprintf("Last result: %s", lastSummary(*s.last))))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}

func lastSummary(o potability.Outcome) string {
	switch o.Kind {
	case potability.KindSafe, potability.KindUnsafe:
		return o.Verdict.Label()
	case potability.KindOutOfRange:
		return o.Field + " out of range"
	default:
		return "invalid input"
	}
}
