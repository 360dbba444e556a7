package history

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/store"
)

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

type alwaysOne struct{}

func (alwaysOne) Predict([]float64) int { return 1 }

func validInputs() measurement.Inputs {
	return measurement.Inputs{"7.0", "150", "2000", "2", "200", "300", "2", "40", "2"}
}

func TestRecorder_Assessment(t *testing.T) {
	repo := openRepo(t)
	rec := NewRecorder(repo, nil)
	ctx := context.Background()

	in := validInputs()
	out := potability.NewPipeline(alwaysOne{}).Assess(in)
	id := rec.Assessment(ctx, OriginCLI, in, out)
	assert.NotEmpty(t, id)

	got, err := repo.QueryVerdicts(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].AssessmentID)
	assert.Equal(t, "cli", got[0].Origin)
	assert.Equal(t, "safe", got[0].Kind)
	assert.Equal(t, "safe", got[0].Verdict)
	assert.Equal(t, "7.0", got[0].Inputs["ph"])
	assert.Equal(t, "2", got[0].Inputs["organic_carbon"])
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *Recorder
	assert.NotEmpty(t, rec.Chat(context.Background(), OriginTUI, chatbot.Turn{User: "hi"}))
	assert.Nil(t, rec.Repo())

	rec = NewRecorder(nil, nil)
	assert.NotEmpty(t, rec.Assessment(context.Background(), OriginTUI, measurement.Inputs{}, potability.Outcome{}))
}

type failingRepo struct{ store.EventRepo }

func (failingRepo) AppendChat(context.Context, store.ChatEventData) error {
	return errors.New("database is locked")
}

func TestRecorder_FailureIsWarning(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(failingRepo{}, nil)
	rec.Warnings = &buf

	id := rec.Chat(context.Background(), OriginCLI, chatbot.Turn{User: "hi", Reply: "hello"})
	assert.NotEmpty(t, id)
	assert.Equal(t, "warning: failed to record chat turn: database is locked\n", buf.String())
}

func TestRecent_MergesNewestFirst(t *testing.T) {
	repo := openRepo(t)
	rec := NewRecorder(repo, nil)
	ctx := context.Background()
	pipe := potability.NewPipeline(alwaysOne{})

	bad := validInputs()
	bad[measurement.PH] = "9"

	rec.Assessment(ctx, OriginTUI, validInputs(), pipe.Assess(validInputs()))
	rec.Chat(ctx, OriginTUI, chatbot.Turn{User: "hello", Reply: "Hi!\nsecond line", Source: chatbot.SourceKeyword})
	rec.Assessment(ctx, OriginTUI, bad, pipe.Assess(bad))

	entries, err := Recent(ctx, repo, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, EntryAssessment, entries[0].Type)
	assert.Equal(t, "pH out of range", entries[0].Summary)
	assert.Equal(t, EntryChat, entries[1].Type)
	assert.Equal(t, `"hello" → Hi!`, entries[1].Summary)
	assert.Equal(t, "keyword", entries[1].Kind)
	assert.Equal(t, "Safe to Drink", entries[2].Summary)

	entries, err = Recent(ctx, repo, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Sequence)
	assert.Equal(t, int64(2), entries[1].Sequence)
}
