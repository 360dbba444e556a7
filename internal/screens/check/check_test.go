package check

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/router"
)

type constClassifier int

func (c constClassifier) Predict([]float64) int { return int(c) }

type recordingAnnouncer struct {
	lines []string
}

func (r *recordingAnnouncer) Enqueue(text string) bool {
	r.lines = append(r.lines, text)
	return true
}

var scenario = measurement.Inputs{"7.0", "150", "2000", "2", "200", "300", "2", "40", "2"}

func newTestScreen(class int) (*CheckScreen, *recordingAnnouncer) {
	a := &recordingAnnouncer{}
	s := New(potability.NewPipeline(constClassifier(class)), a, nil)
	s.Init()
	return s, a
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestSubmitSafe(t *testing.T) {
	s, a := newTestScreen(1)
	s.SetValues(scenario)

	s.Update(key(tea.KeyEnter))

	require.True(t, s.ModalOpen())
	require.NotNil(t, s.LastOutcome())
	assert.Equal(t, potability.KindSafe, s.LastOutcome().Kind)
	assert.Equal(t, []string{"Water is Safe to Drink"}, a.lines)
	assert.Contains(t, s.View(100, 30), "Water is: Safe to Drink")
}

func TestSubmitOutOfRange(t *testing.T) {
	s, a := newTestScreen(1)
	in := scenario
	in[measurement.PH] = "9.0"
	s.SetValues(in)

	s.Update(key(tea.KeyEnter))

	o := s.LastOutcome()
	require.NotNil(t, o)
	assert.Equal(t, potability.KindOutOfRange, o.Kind)
	assert.Equal(t, "pH", o.Field)
	assert.Equal(t, []string{"pH is out of range. Water is not safe to drink."}, a.lines)
	assert.Contains(t, s.View(100, 30), "pH = 9.0 is outside the safe range (6.5-8.5).")
}

func TestSubmitInputError(t *testing.T) {
	s, a := newTestScreen(0)
	in := scenario
	in[measurement.Sulfate] = "1.2.3"
	s.SetValues(in)

	s.Update(key(tea.KeyEnter))

	require.NotNil(t, s.LastOutcome())
	assert.Equal(t, potability.KindInputError, s.LastOutcome().Kind)
	assert.Equal(t, []string{"Please enter valid numbers"}, a.lines)
}

func TestAnyKeyDismissesNotice(t *testing.T) {
	s, _ := newTestScreen(0)
	s.SetValues(scenario)
	s.Update(key(tea.KeyEnter))
	require.True(t, s.ModalOpen())

	_, cmd := s.Update(key(tea.KeyEscape))
	assert.Nil(t, cmd, "esc on an open notice must not navigate")
	assert.False(t, s.ModalOpen())
	assert.Equal(t, scenario, s.Values(), "dismissing keeps the form values")
}

func TestEscPopsWhenNoNotice(t *testing.T) {
	s, _ := newTestScreen(0)
	_, cmd := s.Update(key(tea.KeyEscape))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestTabCyclesFocus(t *testing.T) {
	s, _ := newTestScreen(0)
	assert.Equal(t, 0, s.focus)

	for i := 1; i <= submitIndex; i++ {
		s.Update(key(tea.KeyTab))
		assert.Equal(t, i, s.focus)
	}
	assert.True(t, s.submit.Active)

	s.Update(key(tea.KeyTab))
	assert.Equal(t, 0, s.focus, "tab wraps to the first input")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, submitIndex, s.focus, "shift+tab wraps to the button")
}

func TestEnterOnButtonSubmits(t *testing.T) {
	s, a := newTestScreen(0)
	s.SetValues(scenario)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	require.Equal(t, submitIndex, s.focus)

	_, cmd := s.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	s.Update(cmd())

	require.NotNil(t, s.LastOutcome())
	assert.Equal(t, potability.KindUnsafe, s.LastOutcome().Kind)
	assert.Equal(t, []string{"Water is Not Safe to Drink"}, a.lines)
}

func TestDecimalFilterDropsLetters(t *testing.T) {
	s, _ := newTestScreen(0)
	s.SetValues(measurement.Inputs{"7"})

	s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Equal(t, "7", s.Values()[measurement.PH])
}

func TestClearResetsForm(t *testing.T) {
	s, _ := newTestScreen(0)
	s.SetValues(scenario)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	assert.Equal(t, measurement.Inputs{}, s.Values())
}

func TestViewListsAllFields(t *testing.T) {
	s, _ := newTestScreen(0)
	view := s.View(100, 30)
	for _, f := range measurement.Fields() {
		assert.True(t, strings.Contains(view, f.String()), "missing %s", f)
	}
	assert.Contains(t, view, "Check Water")
}
