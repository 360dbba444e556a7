package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a single event lookup matches nothing.
var ErrNotFound = errors.New("event not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// VerdictEventData captures one assessment result.
type VerdictEventData struct {
	AssessmentID string
	Origin       string // tui, cli or api
	Kind         string // input-error, out-of-range, safe, unsafe
	Field        string // offending field for input-error and out-of-range
	Verdict      string // safe or unsafe, empty otherwise
	Inputs       map[string]string
	Message      string
}

// VerdictEventRecord is a stored VerdictEventData.
type VerdictEventRecord struct {
	VerdictEventData
	Sequence  int64
	Timestamp time.Time
}

// ChatEventData captures one chat exchange.
type ChatEventData struct {
	TurnID      string
	Origin      string
	UserText    string
	Reply       string
	ReplySource string // keyword, fallback or llm
}

// ChatEventRecord is a stored ChatEventData.
type ChatEventRecord struct {
	ChatEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLMRequestEventData.
type LLMEventRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to domain events.
// Queries return newest first.
type EventRepo interface {
	AppendVerdict(ctx context.Context, data VerdictEventData) error
	AppendChat(ctx context.Context, data ChatEventData) error
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryVerdicts(ctx context.Context, opts QueryOpts) ([]VerdictEventRecord, error)
	QueryChats(ctx context.Context, opts QueryOpts) ([]ChatEventRecord, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns the event with the given sequence or ErrNotFound.
	GetLLMEvent(ctx context.Context, sequence int64) (*LLMEventRecord, error)

	// VerdictCounts returns the number of stored assessments per kind.
	VerdictCounts(ctx context.Context) (map[string]int, error)
}
