// Package history records assessments and chat turns and reads them back
// as a single timeline.
package history

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/store"
)

// Origin names the surface an event came from.
type Origin string

const (
	OriginTUI Origin = "tui"
	OriginCLI Origin = "cli"
	OriginAPI Origin = "api"
)

// Recorder appends domain events to the store. A nil *Recorder, or one
// without a repo, records nothing. Store failures are logged and never
// returned: history is best-effort.
type Recorder struct {
	repo   store.EventRepo
	logger *zap.Logger

	// Warnings, when set, also receives a one-line warning per failure.
	// CLI commands point it at stderr; the TUI leaves it nil.
	Warnings io.Writer
}

// NewRecorder creates a Recorder. repo may be nil.
func NewRecorder(repo store.EventRepo, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Repo returns the underlying repo, or nil.
func (r *Recorder) Repo() store.EventRepo {
	if r == nil {
		return nil
	}
	return r.repo
}

// Assessment records one form submission and returns its ID. inputs are
// the raw strings as entered.
func (r *Recorder) Assessment(ctx context.Context, origin Origin, inputs measurement.Inputs, o potability.Outcome) string {
	id := uuid.NewString()
	if r == nil || r.repo == nil {
		return id
	}

	data := store.VerdictEventData{
		AssessmentID: id,
		Origin:       string(origin),
		Kind:         string(o.Kind),
		Field:        o.Field,
		Inputs:       make(map[string]string, measurement.NumFields),
		Message:      o.Message,
	}
	if o.Verdict != nil {
		data.Verdict = o.Verdict.String()
	}
	for _, f := range measurement.Fields() {
		data.Inputs[f.Key()] = inputs[f]
	}

	if err := r.repo.AppendVerdict(ctx, data); err != nil {
		r.warn("failed to record assessment", err, zap.String("assessment_id", id))
	}
	return id
}

// Chat records one chat turn and returns its ID.
func (r *Recorder) Chat(ctx context.Context, origin Origin, turn chatbot.Turn) string {
	id := uuid.NewString()
	if r == nil || r.repo == nil {
		return id
	}

	err := r.repo.AppendChat(ctx, store.ChatEventData{
		TurnID:      id,
		Origin:      string(origin),
		UserText:    turn.User,
		Reply:       turn.Reply,
		ReplySource: string(turn.Source),
	})
	if err != nil {
		r.warn("failed to record chat turn", err, zap.String("turn_id", id))
	}
	return id
}

func (r *Recorder) warn(msg string, err error, fields ...zap.Field) {
	r.logger.Warn(msg, append(fields, zap.Error(err))...)
	if r.Warnings != nil {
		fmt.Fprintf(r.Warnings, "warning: %s: %v\n", msg, err)
	}
}
