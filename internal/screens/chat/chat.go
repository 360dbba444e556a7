// Package chat is the WaterBot transcript screen.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screen"
	"github.com/abhisek/aquacheck/internal/speech"
	"github.com/abhisek/aquacheck/internal/ui/components"
	"github.com/abhisek/aquacheck/internal/ui/layout"
	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// Replier answers one chat message.
type Replier interface {
	Reply(ctx context.Context, text string) (chatbot.Turn, error)
}

// askTimeout bounds a single /ask round trip including retries.
const askTimeout = 90 * time.Second

const inputLimit = 240

// reply is one finished /ask round trip.
type reply struct {
	turn chatbot.Turn
	err  error
}

// replyReadyMsg tells the screen an answer is waiting in its inbox.
type replyReadyMsg struct{}

// ChatScreen shows the transcript and a message input.
type ChatScreen struct {
	bot       Replier
	announcer speech.Announcer
	recorder  *history.Recorder

	input   components.TextInput
	turns   []chatbot.Turn
	pending string
	errMsg  string

	// inbox holds the outstanding /ask answer until the screen is
	// active again. At most one /ask is in flight.
	inbox chan reply
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates the chat screen. announcer and recorder may be nil.
func New(bot Replier, announcer speech.Announcer, recorder *history.Recorder) *ChatScreen {
	if announcer == nil {
		announcer = speech.Silent{}
	}
	return &ChatScreen{
		bot:       bot,
		announcer: announcer,
		recorder:  recorder,
		input:     components.NewTextInput("You", "Ask about pH, hardness, sulfate...", "", inputLimit),
		inbox:     make(chan reply, 1),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	s.collect()
	return s.input.Focus()
}

func (s *ChatScreen) Title() string {
	return "Chat with WaterBot"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "/ask", Description: "AI answer"},
		{Key: "Esc", Description: "Back"},
	}
}

// Turns returns the transcript so far.
func (s *ChatScreen) Turns() []chatbot.Turn {
	return s.turns
}

// Waiting reports whether an /ask answer is outstanding.
func (s *ChatScreen) Waiting() bool {
	return s.pending != ""
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyReadyMsg:
		s.collect()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// send submits the input. Keyword replies are answered inline; /ask
// runs as a command so the UI stays responsive.
func (s *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" || s.Waiting() {
		return nil
	}
	s.input.SetValue("")
	s.errMsg = ""

	if chatbot.IsAsk(text) {
		s.pending = text
		bot, announcer, recorder, inbox := s.bot, s.announcer, s.recorder, s.inbox
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
			defer cancel()
			turn, err := bot.Reply(ctx, text)
			if err == nil {
				deliver(announcer, recorder, turn)
			}
			inbox <- reply{turn: turn, err: err}
			return replyReadyMsg{}
		}
	}

	turn, err := s.bot.Reply(context.Background(), text)
	if err == nil {
		deliver(s.announcer, s.recorder, turn)
	}
	s.show(turn, err)
	return nil
}

// deliver speaks and records a turn. /ask answers are delivered from
// the command, so leaving the screen does not lose them.
func deliver(announcer speech.Announcer, recorder *history.Recorder, turn chatbot.Turn) {
	announcer.Enqueue(turn.Reply)
	recorder.Chat(context.Background(), history.OriginTUI, turn)
}

// collect moves a finished /ask answer into the transcript.
func (s *ChatScreen) collect() {
	select {
	case r := <-s.inbox:
		s.pending = ""
		s.show(r.turn, r.err)
	default:
	}
}

func (s *ChatScreen) show(turn chatbot.Turn, err error) {
	if err != nil {
		if !errors.Is(err, chatbot.ErrEmptyMessage) {
			s.errMsg = err.Error()
		}
		return
	}
	s.turns = append(s.turns, turn)
}

// transcriptLines renders every turn as "You: …" then "Bot: …",
// wrapped to width.
func (s *ChatScreen) transcriptLines(width int) []string {
	you := lipgloss.NewStyle().Foreground(theme.Secondary).Width(width)
	bot := lipgloss.NewStyle().Foreground(theme.Text).Width(width)

	var lines []string
	for _, t := range s.turns {
		lines = append(lines, strings.Split(you.Render("You: "+t.User), "\n")...)
		lines = append(lines, strings.Split(bot.Render("Bot: "+t.Reply), "\n")...)
	}
	if s.pending != "" {
		lines = append(lines, strings.Split(you.Render("You: "+s.pending), "\n")...)
		lines = append(lines, theme.Hint.Render("Bot is thinking..."))
	}
	return lines
}

func (s *ChatScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	inner := cw - 6 // card border + padding

	// Card chrome (4), input (1), hint (1), error (1), spacing (2).
	visible := height - 9
	if visible < 1 {
		visible = 1
	}

	lines := s.transcriptLines(inner)
	if len(lines) == 0 {
		lines = []string{theme.Hint.Render("Say hello to WaterBot, or ask about a measurement.")}
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	transcript := components.Card(strings.Join(lines, "\n"), cw, theme.Border)

	sections := []string{transcript, s.input.View(5)}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	sections = append(sections, theme.Hint.Render("Try: what is pH?  ·  is my water safe?  ·  /ask why does turbidity matter?"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
