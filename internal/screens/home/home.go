package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/router"
	"github.com/abhisek/aquacheck/internal/screen"
	"github.com/abhisek/aquacheck/internal/screens/chat"
	"github.com/abhisek/aquacheck/internal/screens/check"
	historyscreen "github.com/abhisek/aquacheck/internal/screens/history"
	"github.com/abhisek/aquacheck/internal/screens/ranges"
	"github.com/abhisek/aquacheck/internal/speech"
	"github.com/abhisek/aquacheck/internal/ui/components"
)

// Tint colors the droplet after an assessment.
type Tint int

const (
	TintNeutral Tint = iota
	TintSafe
	TintUnsafe
)

// Deps are the services the home menu hands to the screens it opens.
type Deps struct {
	Assessor  check.Assessor
	Bot       chat.Replier
	Announcer speech.Announcer
	Recorder  *history.Recorder

	// Report and SpeechEngine feed the status bar; both are optional.
	Report       *potability.Report
	SpeechEngine string
	AIEnabled    bool
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu

	// check and chat are kept so the form, its last outcome, the
	// transcript and any /ask still in flight survive navigation.
	check *check.CheckScreen
	chat  *chat.ChatScreen
}

var _ screen.Screen = (*HomeScreen)(nil)

// Menu labels in display order.
const (
	LabelCheck   = "CHECK WATER"
	LabelChat    = "CHAT WITH WATERBOT"
	LabelHistory = "HISTORY"
	LabelRanges  = "RANGES"
	LabelExit    = "EXIT"
)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.check = check.New(deps.Assessor, deps.Announcer, deps.Recorder)
	h.chat = chat.New(deps.Bot, deps.Announcer, deps.Recorder)

	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: LabelCheck, Action: push(func() screen.Screen { return h.check })},
		{Label: LabelChat, Action: push(func() screen.Screen { return h.chat })},
		{Label: LabelHistory, Action: push(func() screen.Screen {
			return historyscreen.New(deps.Recorder.Repo())
		})},
		{Label: LabelRanges, Action: push(func() screen.Screen { return ranges.New() })},
		{Label: LabelExit, Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// tint follows the most recent form result.
func (h *HomeScreen) tint() Tint {
	o := h.check.LastOutcome()
	switch {
	case o == nil || o.Kind == potability.KindInputError:
		return TintNeutral
	case o.Drinkable():
		return TintSafe
	default:
		return TintUnsafe
	}
}

func (h *HomeScreen) statusParts() []string {
	var parts []string
	if r := h.deps.Report; r != nil {
		parts = append(parts, fmt.Sprintf("model %.1f%% on %d samples", r.Accuracy*100, r.TestRows))
	}
	if h.deps.SpeechEngine != "" {
		parts = append(parts, "voice: "+h.deps.SpeechEngine)
	} else {
		parts = append(parts, "voice: off")
	}
	if h.deps.AIEnabled {
		parts = append(parts, "/ask: on")
	}
	return parts
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and gaps.
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderDroplet(cw, h.tint()))
	}
	sections = append(sections, renderStatus(h.statusParts(), cw))
	if compact {
		sections = append(sections, h.menu.CompactView(cw))
	} else {
		sections = append(sections, h.menu.View(cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
