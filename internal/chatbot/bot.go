package chatbot

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/llm"
)

// AskPrefix routes a chat message to the LLM explainer.
const AskPrefix = "/ask"

// ErrEmptyMessage is returned for blank chat input; callers ignore it.
var ErrEmptyMessage = errors.New("empty message")

const (
	askUsage        = "Type /ask followed by a question, e.g. /ask why does turbidity matter?"
	askUnconfigured = "AI answers are not configured. Set an LLM API key to enable /ask."
	askFailed       = "I couldn't reach the AI helper right now. Please try again later."
	askBusy         = "The AI helper is busy right now. Please ask again in a minute."
	askSlow         = "The AI helper took too long to answer. Please try again."
	askTooLong      = "That answer ran too long to read out. Try a narrower question."
	askUnreadable   = "The AI helper gave an answer I couldn't read. Please try again."
)

// Source tells where a reply came from.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceFallback Source = "fallback"
	SourceLLM      Source = "llm"
)

// Turn is one exchange in the chat transcript.
type Turn struct {
	User   string `json:"user"`
	Reply  string `json:"reply"`
	Source Source `json:"source"`
}

// Bot handles chat messages for the presentation layer.
type Bot struct {
	responder *Responder
	explainer *Explainer
	logger    *zap.Logger
}

// NewBot creates a Bot. explainer may be nil, in which case /ask replies
// with a hint that AI answers are not configured.
func NewBot(responder *Responder, explainer *Explainer, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{responder: responder, explainer: explainer, logger: logger}
}

// CanExplain reports whether /ask is backed by an LLM.
func (b *Bot) CanExplain() bool {
	return b.explainer != nil
}

// IsAsk reports whether text would be routed to the explainer.
func IsAsk(text string) bool {
	t := strings.TrimSpace(text)
	return t == AskPrefix || strings.HasPrefix(t, AskPrefix+" ")
}

// Reply answers one chat message. Blank input returns ErrEmptyMessage.
// Explainer failures are logged and turned into a polite reply so the
// returned Turn is always usable when err is nil.
func (b *Bot) Reply(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	if IsAsk(text) {
		return b.ask(ctx, text), nil
	}

	turn := Turn{User: text}
	if e, ok := b.responder.Match(text); ok {
		turn.Reply = e.Reply
		turn.Source = SourceKeyword
	} else {
		turn.Reply = b.responder.Respond(text)
		turn.Source = SourceFallback
	}
	return turn, nil
}

func (b *Bot) ask(ctx context.Context, text string) Turn {
	turn := Turn{User: text, Source: SourceLLM}
	question := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), AskPrefix))

	switch {
	case question == "":
		turn.Reply = askUsage
	case b.explainer == nil:
		turn.Reply = askUnconfigured
	default:
		exp, err := b.explainer.Explain(ctx, question)
		if err != nil {
			b.logger.Warn("explain failed", zap.String("question", question), zap.Error(err))
			turn.Reply = failureReply(err)
			return turn
		}
		turn.Reply = exp.Text()
	}
	return turn
}

// failureReply picks the spoken reply for an explainer error.
func failureReply(err error) string {
	var (
		rl      *llm.ErrRateLimit
		maxTok  *llm.ErrMaxTokensExceeded
		invalid *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &rl):
		return askBusy
	case errors.Is(err, context.DeadlineExceeded):
		return askSlow
	case errors.As(err, &maxTok):
		return askTooLong
	case errors.As(err, &invalid):
		return askUnreadable
	}
	return askFailed
}
