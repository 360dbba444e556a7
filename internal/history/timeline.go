package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/aquacheck/internal/store"
)

// EntryType distinguishes timeline rows.
type EntryType string

const (
	EntryAssessment EntryType = "assessment"
	EntryChat       EntryType = "chat"
)

// Entry is one row of the merged history timeline.
type Entry struct {
	Type      EntryType `json:"type"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"origin"`

	// Kind is the outcome kind for assessments and the reply source
	// for chat turns.
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
}

// Recent returns up to limit entries from both tables, newest first.
// limit <= 0 returns everything.
func Recent(ctx context.Context, repo store.EventRepo, limit int) ([]Entry, error) {
	opts := store.QueryOpts{Limit: limit}

	verdicts, err := repo.QueryVerdicts(ctx, opts)
	if err != nil {
		return nil, err
	}
	chats, err := repo.QueryChats(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(verdicts)+len(chats))
	for _, v := range verdicts {
		entries = append(entries, Entry{
			Type:      EntryAssessment,
			Sequence:  v.Sequence,
			Timestamp: v.Timestamp,
			Origin:    v.Origin,
			Kind:      v.Kind,
			Summary:   assessmentSummary(v),
		})
	}
	for _, c := range chats {
		entries = append(entries, Entry{
			Type:      EntryChat,
			Sequence:  c.Sequence,
			Timestamp: c.Timestamp,
			Origin:    c.Origin,
			Kind:      c.ReplySource,
			Summary:   fmt.Sprintf("%q → %s", c.UserText, firstLine(c.Reply)),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence > entries[j].Sequence
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func assessmentSummary(v store.VerdictEventRecord) string {
	switch v.Kind {
	case "safe":
		return "Safe to Drink"
	case "unsafe":
		return "Not Safe to Drink"
	case "out-of-range":
		return fmt.Sprintf("%s out of range", v.Field)
	case "input-error":
		if v.Field != "" {
			return fmt.Sprintf("invalid %s", v.Field)
		}
		return "invalid input"
	}
	return v.Kind
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
