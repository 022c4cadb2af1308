// Package advisor requests health recommendations from a generative text
// service, retrying transient failures with exponential backoff and
// returning normalized text.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/fentz26/vitalis/internal/connectors"
	"github.com/fentz26/vitalis/internal/plan"
	"go.uber.org/zap"
)

// Defaults for the retry policy.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// FormattingContract is appended to every prompt.
const FormattingContract = `Please format your response in the following way:
1. Start each main section with a number followed by a dot (e.g., "1. Health Assessment")
2. Use bullet points (•) for lists
3. Do not use markdown symbols (* or #)
4. Keep the response clear and well-structured
5. For tasks, format them as: "Task: [task description]"

Make sure to include:
• A brief health assessment
• 3-5 specific tasks
• Dietary recommendations
• Exercise suggestions
• Lifestyle improvement tips`

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures an Advisor.
type Option func(*Advisor)

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the delay before the second attempt. Later delays double.
func WithBaseDelay(d time.Duration) Option {
	return func(a *Advisor) { a.baseDelay = d }
}

// WithSleeper replaces the backoff wait.
func WithSleeper(s Sleeper) Option {
	return func(a *Advisor) {
		if s != nil {
			a.sleep = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// Advisor is the recommendation client. It is safe for concurrent use;
// concurrent requests run independent retry sequences.
type Advisor struct {
	gen         connectors.Generator
	maxAttempts int
	baseDelay   time.Duration
	sleep       Sleeper
	logger      *zap.Logger
}

// New creates an Advisor over gen.
func New(gen connectors.Generator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:         gen,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleepContext,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RequestRecommendation appends the formatting contract to prompt, calls the
// service and returns the normalized response text.
//
// Only failures classified as unavailable are retried. It returns a
// *ServiceError with ReasonFatal on any other failure and ReasonExhausted once
// every attempt has failed transiently. Cancellation of ctx ends the request
// with ctx.Err() wrapped.
func (a *Advisor) RequestRecommendation(ctx context.Context, prompt string) (string, error) {
	full := prompt + "\n" + FormattingContract

	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := a.backoff(attempt)
			a.logger.Warn("recommendation attempt failed, retrying",
				zap.Int("attempt", attempt-1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := a.sleep(ctx, delay); err != nil {
				return "", fmt.Errorf("recommendation canceled: %w", err)
			}
		}

		raw, err := a.gen.Generate(ctx, full)
		if err == nil {
			a.logger.Debug("recommendation received",
				zap.String("generator", a.gen.Name()),
				zap.Int("attempt", attempt),
				zap.Int("bytes", len(raw)),
			)
			return plan.Normalize(raw), nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("recommendation canceled: %w", ctxErr)
		}

		if !connectors.IsUnavailable(err) {
			a.logger.Error("recommendation failed", zap.Int("attempt", attempt), zap.Error(err))
			return "", &ServiceError{Reason: ReasonFatal, Attempts: attempt, Err: err}
		}
		lastErr = err
	}

	a.logger.Error("recommendation retries exhausted", zap.Int("attempts", a.maxAttempts), zap.Error(lastErr))
	return "", &ServiceError{Reason: ReasonExhausted, Attempts: a.maxAttempts, Err: lastErr}
}

// backoff returns the delay before the given 1-indexed attempt (n >= 2):
// base * 2^(n-2).
func (a *Advisor) backoff(attempt int) time.Duration {
	return a.baseDelay << uint(attempt-2)
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
