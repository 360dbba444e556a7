package speech

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Announcer accepts text to be spoken without blocking the caller.
type Announcer interface {
	Enqueue(text string) bool
}

// Silent is an Announcer that drops everything.
type Silent struct{}

func (Silent) Enqueue(string) bool { return false }

// Queue plays utterances one at a time, in the order they were enqueued,
// on a single worker goroutine.
type Queue struct {
	speaker Speaker
	logger  *zap.Logger

	mu      sync.Mutex
	pending []string
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue starts a Queue over speaker. logger may be nil.
func NewQueue(speaker Speaker, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		speaker: speaker,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Enqueue adds text to the queue and returns immediately. It reports
// false for blank text or after Close.
func (q *Queue) Enqueue(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, text)
	q.mu.Unlock()

	q.signal()
	return true
}

// Pending returns the number of utterances not yet started.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting new text, waits for the queued utterances to
// finish, and stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.signal()
	<-q.done
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		text, ok, closed := q.next()
		if ok {
			if err := q.speaker.Speak(context.Background(), text); err != nil {
				q.logger.Warn("speech failed", zap.Error(err))
			}
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}

// next pops the oldest utterance. closed is only meaningful when ok is
// false.
func (q *Queue) next() (text string, ok, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", false, q.closed
	}
	text = q.pending[0]
	q.pending = q.pending[1:]
	return text, true, false
}
