package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

type defaultsProvider struct {
	next      Provider
	maxTokens int
}

// WithDefaults fills Purpose and MaxTokens on requests that leave them
// zero. maxTokens <= 0 falls back to DefaultMaxTokens.
func WithDefaults(p Provider, maxTokens int) Provider {
	return &defaultsProvider{next: p, maxTokens: maxTokens}
}

func (d *defaultsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return d.next.Generate(ctx, req.withDefaults(d.maxTokens))
}

func (d *defaultsProvider) ModelID() string { return d.next.ModelID() }

type timeoutProvider struct {
	next Provider
	d    time.Duration
}

// withTimeout bounds each Generate call, retries included. d <= 0
// returns p unchanged.
func withTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, d: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string { return t.next.ModelID() }

type retryProvider struct {
	next Provider
	cfg  RetryConfig
}

// withRetry retries transient failures with jittered exponential
// backoff. An unreadable answer is retried once. Truncation and context
// errors are returned at once. MaxAttempts <= 1 returns p unchanged.
func withRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts <= 1 {
		return p
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retryProvider{next: p, cfg: cfg}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	retriedInvalid := false

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, r.wait(attempt, lastErr)); err != nil {
				return nil, err
			}
		}

		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var maxTok *ErrMaxTokensExceeded
		var invalid *ErrInvalidResponse
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.As(err, &maxTok):
			return nil, err
		case errors.As(err, &invalid):
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
	}
	return nil, lastErr
}

func (r *retryProvider) ModelID() string { return r.next.ModelID() }

// wait is the pause before attempt (1-based). A rate limit's RetryAfter
// wins when it is longer.
func (r *retryProvider) wait(attempt int, lastErr error) time.Duration {
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	if r.cfg.MaxWait > 0 && d > float64(r.cfg.MaxWait) {
		d = float64(r.cfg.MaxWait)
	}
	d *= 0.8 + 0.4*rand.Float64()

	var rl *ErrRateLimit
	if errors.As(lastErr, &rl) && float64(rl.RetryAfter) > d {
		return rl.RetryAfter
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
