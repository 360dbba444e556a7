package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/llm"
)

func TestBot_KeywordAndFallback(t *testing.T) {
	bot := NewBot(DefaultResponder(), nil, nil)
	ctx := context.Background()

	turn, err := bot.Reply(ctx, "what about sulfate")
	require.NoError(t, err)
	assert.Equal(t, SourceKeyword, turn.Source)
	assert.Equal(t, "what about sulfate", turn.User)
	assert.Equal(t, DefaultTable[3].Reply, turn.Reply)

	turn, err = bot.Reply(ctx, "xyzzy")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, turn.Source)
	assert.Equal(t, Fallback, turn.Reply)
}

func TestBot_EmptyMessage(t *testing.T) {
	bot := NewBot(DefaultResponder(), nil, nil)
	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := bot.Reply(context.Background(), in)
		assert.True(t, errors.Is(err, ErrEmptyMessage), "input %q", in)
	}
}

func TestBot_AskWithoutExplainer(t *testing.T) {
	bot := NewBot(DefaultResponder(), nil, nil)
	assert.False(t, bot.CanExplain())

	turn, err := bot.Reply(context.Background(), "/ask what is ph")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, turn.Source)
	assert.Equal(t, askUnconfigured, turn.Reply)
}

func TestBot_AskUsesExplainer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"answer":"Turbidity is cloudiness caused by particles.","parameters":["Turbidity","Color"]}`),
	})
	bot := NewBot(DefaultResponder(), NewExplainer(mock, DefaultExplainerConfig()), nil)

	turn, err := bot.Reply(context.Background(), "/ask why is my water cloudy")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, turn.Source)
	assert.Equal(t, "Turbidity is cloudiness caused by particles. (Related: Turbidity)", turn.Reply)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Same(t, ExplanationSchema, reqs[0].Schema)
	assert.Equal(t, "explain", reqs[0].Purpose)
	assert.True(t, strings.HasSuffix(reqs[0].Prompt, "Question: why is my water cloudy"))
	assert.Contains(t, reqs[0].Prompt, "- pH: 6.5-8.5")
}

func TestBot_AskFailureBecomesReply(t *testing.T) {
	tests := []struct {
		name  string
		reply llm.MockResponse
		want  string
	}{
		{"unavailable", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, askFailed},
		{"rate limited", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}, askBusy},
		{"timed out", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: context.DeadlineExceeded}}, askSlow},
		{"cut off", llm.MockResponse{Content: json.RawMessage(`{"answer":"Turb`), Truncated: true}, askTooLong},
		{"off schema", llm.MockResponse{Content: json.RawMessage(`{"reply":"hi"}`)}, askUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.reply)
			bot := NewBot(DefaultResponder(), NewExplainer(mock, DefaultExplainerConfig()), nil)

			turn, err := bot.Reply(context.Background(), "/ask hi")
			require.NoError(t, err)
			assert.Equal(t, SourceLLM, turn.Source)
			assert.Equal(t, tt.want, turn.Reply)
		})
	}
}

func TestBot_AskUsage(t *testing.T) {
	mock := llm.NewMockProvider()
	bot := NewBot(DefaultResponder(), NewExplainer(mock, DefaultExplainerConfig()), nil)

	turn, err := bot.Reply(context.Background(), "/ask")
	require.NoError(t, err)
	assert.Equal(t, askUsage, turn.Reply)
	assert.Empty(t, mock.Requests())
}

func TestIsAsk(t *testing.T) {
	assert.True(t, IsAsk("/ask what"))
	assert.True(t, IsAsk("  /ask"))
	assert.False(t, IsAsk("/asking"))
	assert.False(t, IsAsk("ask /ask"))
}

func TestExplain_EmptyAnswerIsInvalid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"answer":"  ","parameters":[]}`),
	})
	_, err := NewExplainer(mock, DefaultExplainerConfig()).Explain(context.Background(), "q")

	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestExplain_LeavesMaxTokensToProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"answer":"ok","parameters":[]}`)})
	p := llm.WithDefaults(mock, 180)

	_, err := NewExplainer(p, DefaultExplainerConfig()).Explain(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 180, mock.Requests()[0].MaxTokens)
	assert.Equal(t, 0.3, mock.Requests()[0].Temperature)
}
