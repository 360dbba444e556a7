package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// DecimalRunes are the characters a decimal field accepts as typed input.
const DecimalRunes = "0123456789.-+eE"

// TextInput wraps bubbles/textinput with a label and an optional
// character filter.
type TextInput struct {
	Model  textinput.Model
	Label  string
	Unit   string
	Accept string // allowed single characters; empty accepts all
	marked bool
	valid  bool
}

// NewTextInput creates a new blurred text input.
func NewTextInput(label, placeholder, accept string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{
		Model:  ti,
		Label:  label,
		Accept: accept,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages. Printable characters outside Accept are
// dropped.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Accept != "" {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !strings.Contains(t.Accept, key) {
				return t, nil
			}
		}
	}

	t.marked = false
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and the validation mark if any.
func (t TextInput) View(labelWidth int) string {
	labelStyle := theme.Label
	if !t.Focused() {
		labelStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	label := labelStyle.Width(labelWidth).Render(t.Label)

	view := label + " " + t.Model.View()
	if t.Unit != "" {
		view += " " + theme.Hint.Render(t.Unit)
	}
	if t.marked {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.marked = false
}

// FloatValue parses the trimmed input value.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
}

// Mark shows a validation result next to the input until it is edited.
func (t *TextInput) Mark(valid bool) {
	t.marked = true
	t.valid = valid
}

// ClearMark hides the validation result.
func (t *TextInput) ClearMark() {
	t.marked = false
}
