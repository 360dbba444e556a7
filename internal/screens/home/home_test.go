package home

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screens/chat"
	"github.com/abhisek/aquacheck/internal/screens/check"
	historyscreen "github.com/abhisek/aquacheck/internal/screens/history"
	"github.com/abhisek/aquacheck/internal/screens/ranges"
)

type constClassifier int

func (c constClassifier) Predict([]float64) int { return int(c) }

func newTestHome() *HomeScreen {
	return New(Deps{
		Assessor: potability.NewPipeline(constClassifier(1)),
		Bot:      chatbot.NewBot(chatbot.DefaultResponder(), nil, nil),
		Report:   &potability.Report{Accuracy: 0.675, TestRows: 656},
	})
}

// selectItem moves to the n-th item and presses Enter.
func selectItem(t *testing.T, h *HomeScreen, n int) tea.Msg {
	t.Helper()
	for i := 0; i < n; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestMenuOpensScreens(t *testing.T) {
	tests := []struct {
		index int
		check func(t *testing.T, msg tea.Msg)
	}{
		{0, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &check.CheckScreen{}, push.Screen)
		}},
		{1, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &chat.ChatScreen{}, push.Screen)
		}},
		{2, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &historyscreen.HistoryScreen{}, push.Screen)
		}},
		{3, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &ranges.RangesScreen{}, push.Screen)
		}},
		{4, func(t *testing.T, msg tea.Msg) {
			assert.IsType(t, tea.QuitMsg{}, msg)
		}},
	}
	for _, tt := range tests {
		tt.check(t, selectItem(t, newTestHome(), tt.index))
	}
}

func TestCheckScreenIsReused(t *testing.T) {
	h := newTestHome()
	first := selectItem(t, h, 0).(router.PushScreenMsg).Screen
	second := selectItem(t, h, 0).(router.PushScreenMsg).Screen
	assert.Same(t, first, second)
}

func TestChatScreenIsReused(t *testing.T) {
	h := newTestHome()
	first := selectItem(t, h, 1).(router.PushScreenMsg).Screen
	second := selectItem(t, h, 1).(router.PushScreenMsg).Screen
	assert.Same(t, first, second)
	assert.Same(t, h.chat, first)
}

func TestTintFollowsLastOutcome(t *testing.T) {
	h := newTestHome()
	assert.Equal(t, TintNeutral, h.tint())

	h.check.SetValues(measurement.Inputs{"7.0", "150", "2000", "2", "200", "300", "2", "40", "2"})
	h.check.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, TintSafe, h.tint())

	h.check.SetValues(measurement.Inputs{"9.0", "150", "2000", "2", "200", "300", "2", "40", "2"})
	h.check.Update(tea.KeyPressMsg{Code: tea.KeyEnter}) // dismiss
	h.check.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, TintUnsafe, h.tint())
}

func TestViewShowsStatusAndMenu(t *testing.T) {
	h := newTestHome()
	view := h.View(120, 40)
	assert.Contains(t, view, "model 67.5% on 656 samples")
	assert.Contains(t, view, "voice: off")
	for _, label := range []string{LabelCheck, LabelChat, LabelHistory, LabelRanges, LabelExit} {
		assert.Contains(t, view, label)
	}

	compact := h.View(80, 16)
	assert.Contains(t, compact, titleCompact)
}
