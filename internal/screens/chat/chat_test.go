package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/store"
)

type recordingAnnouncer struct {
	lines []string
}

func (r *recordingAnnouncer) Enqueue(text string) bool {
	r.lines = append(r.lines, text)
	return true
}

type failingBot struct{}

func (failingBot) Reply(context.Context, string) (chatbot.Turn, error) {
	return chatbot.Turn{}, errors.New("boom")
}

func newTestScreen() (*ChatScreen, *recordingAnnouncer) {
	a := &recordingAnnouncer{}
	s := New(chatbot.NewBot(chatbot.DefaultResponder(), nil, nil), a, nil)
	s.Init()
	return s, a
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestKeywordReplyIsInline(t *testing.T) {
	s, a := newTestScreen()
	s.input.SetValue("Hello, how are you")

	_, cmd := s.Update(enter())
	assert.Nil(t, cmd)

	want := chatbot.DefaultResponder().Respond("hello")
	require.Len(t, s.Turns(), 1)
	assert.Equal(t, "Hello, how are you", s.Turns()[0].User)
	assert.Equal(t, want, s.Turns()[0].Reply)
	assert.Equal(t, []string{want}, a.lines)
	assert.Empty(t, s.input.Value(), "input is cleared after sending")
}

func TestTranscriptShowsBothLines(t *testing.T) {
	s, _ := newTestScreen()
	s.input.SetValue("xyzzy")
	s.Update(enter())

	view := s.View(100, 30)
	assert.Contains(t, view, "You: xyzzy")
	assert.Contains(t, view, "Bot: Sorry, I don't understand.")
}

func TestBlankInputIgnored(t *testing.T) {
	s, a := newTestScreen()
	s.input.SetValue("   ")
	s.Update(enter())
	assert.Empty(t, s.Turns())
	assert.Empty(t, a.lines)
}

func TestAskRunsAsCommand(t *testing.T) {
	s, a := newTestScreen()
	s.input.SetValue("/ask what is turbidity?")

	_, cmd := s.Update(enter())
	require.NotNil(t, cmd)
	assert.True(t, s.Waiting())
	assert.Empty(t, s.Turns())
	assert.Contains(t, s.View(100, 30), "thinking")

	// A second Enter while waiting is ignored.
	s.input.SetValue("hello")
	_, again := s.Update(enter())
	assert.Nil(t, again)

	msg := cmd()
	assert.IsType(t, replyReadyMsg{}, msg)
	assert.Len(t, a.lines, 1, "spoken before the screen sees the answer")
	s.Update(msg)

	assert.False(t, s.Waiting())
	require.Len(t, s.Turns(), 1)
	assert.Equal(t, chatbot.SourceLLM, s.Turns()[0].Source)
	assert.True(t, strings.HasPrefix(s.Turns()[0].Reply, "AI answers are not configured"))
	assert.Len(t, a.lines, 1)
}

func TestReplyErrorShown(t *testing.T) {
	s := New(failingBot{}, nil, nil)
	s.Init()
	s.input.SetValue("hello")
	s.Update(enter())

	assert.Empty(t, s.Turns())
	assert.Contains(t, s.View(100, 30), "boom")
}

func TestAskAnswerSurvivesLeavingScreen(t *testing.T) {
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	a := &recordingAnnouncer{}
	s := New(chatbot.NewBot(chatbot.DefaultResponder(), nil, nil), a, history.NewRecorder(st.EventRepo(), nil))
	s.Init()

	s.input.SetValue("/ask what is turbidity?")
	_, cmd := s.Update(enter())
	require.NotNil(t, cmd)

	_, esc := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.IsType(t, router.PopScreenMsg{}, esc())

	// The answer lands while another screen is active and never
	// reaches this one.
	assert.IsType(t, replyReadyMsg{}, cmd())

	require.Len(t, a.lines, 1)
	assert.True(t, strings.HasPrefix(a.lines[0], "AI answers are not configured"))
	chats, err := st.EventRepo().QueryChats(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "/ask what is turbidity?", chats[0].UserText)
	assert.Equal(t, string(history.OriginTUI), chats[0].Origin)

	// Coming back shows the turn and accepts new input.
	s.Init()
	assert.False(t, s.Waiting())
	require.Len(t, s.Turns(), 1)
	assert.Equal(t, a.lines[0], s.Turns()[0].Reply)
	assert.Len(t, a.lines, 1, "not spoken twice")

	s.input.SetValue("hello")
	s.Update(enter())
	assert.Len(t, s.Turns(), 2)
}

func TestAskFailureShownOnReturn(t *testing.T) {
	s := New(failingBot{}, nil, nil)
	s.Init()
	s.input.SetValue("/ask anything")
	_, cmd := s.Update(enter())
	require.NotNil(t, cmd)
	cmd()

	s.Init()
	assert.False(t, s.Waiting())
	assert.Empty(t, s.Turns())
	assert.Contains(t, s.View(100, 30), "boom")
}

func TestEscPops(t *testing.T) {
	s, _ := newTestScreen()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestTranscriptKeepsNewestTurnsVisible(t *testing.T) {
	s, _ := newTestScreen()
	for i := 0; i < 30; i++ {
		s.input.SetValue("hello")
		s.Update(enter())
	}
	s.input.SetValue("xyzzy")
	s.Update(enter())

	view := s.View(100, 24)
	assert.Contains(t, view, "You: xyzzy")
}
