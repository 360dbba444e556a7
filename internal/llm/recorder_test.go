package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/store"
)

type memorySink struct {
	events []store.LLMRequestEventData
	err    error
}

func (s *memorySink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.events = append(s.events, data)
	return s.err
}

func TestRecording_Success(t *testing.T) {
	sink := &memorySink{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(goodAnswer), Usage: Usage{InputTokens: 12, OutputTokens: 7}})
	p := withRecording(mock, "gemini", sink, nil)

	_, err := p.Generate(context.Background(), Request{
		Purpose: "explain",
		System:  "You explain water quality.",
		Prompt:  "what is pH?",
		Schema:  answerSchema(),
	})
	require.NoError(t, err)
	require.Len(t, sink.events, 1)

	ev := sink.events[0]
	assert.Equal(t, "gemini", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "explain", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 7, ev.OutputTokens)
	assert.JSONEq(t, goodAnswer, ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nYou explain water quality.")
	assert.Contains(t, ev.RequestBody, "[user]\nwhat is pH?")
	assert.Contains(t, ev.RequestBody, "[schema: answer]")
}

func TestRecording_Failure(t *testing.T) {
	sink := &memorySink{}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})

	_, err := withRecording(mock, "openai", sink, nil).Generate(context.Background(), Request{Purpose: "explain"})
	require.Error(t, err)
	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].Success)
	assert.Contains(t, sink.events[0].ErrorMessage, "slow down")
	assert.Empty(t, sink.events[0].ResponseBody)
}

func TestRecording_SinkErrorIgnored(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(goodAnswer)})

	resp, err := withRecording(mock, "mock", sink, nil).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestRecording_NilSink(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(goodAnswer)})
	_, err := withRecording(mock, "mock", nil, nil).Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestTranscript_NoSystemOrSchema(t *testing.T) {
	assert.Equal(t, "[user]\nhello\n", transcript(Request{Prompt: "hello"}))
}
