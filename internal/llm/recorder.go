package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/store"
)

// EventSink persists one event per provider call.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type recordingProvider struct {
	next     Provider
	provider string
	sink     EventSink
	logger   *zap.Logger
}

// withRecording logs every call and hands it to sink. A sink failure is
// logged and does not fail the call. sink and logger may be nil.
func withRecording(p Provider, provider string, sink EventSink, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recordingProvider{next: p, provider: provider, sink: sink, logger: logger}
}

func (r *recordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.next.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.next.ModelID(),
		Purpose:     req.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Int64("latency_ms", data.LatencyMs),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		r.logger.Warn("llm call failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("llm call", append(fields,
			zap.Int("input_tokens", data.InputTokens),
			zap.Int("output_tokens", data.OutputTokens))...)
	}

	if r.sink != nil {
		if serr := r.sink.AppendLLMRequest(ctx, data); serr != nil {
			r.logger.Warn("record llm call", zap.Error(serr))
		}
	}
	return resp, err
}

func (r *recordingProvider) ModelID() string { return r.next.ModelID() }

// transcript renders a request for `aquacheck llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
