package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fentz26/vitalis/internal/connectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedGenerator returns results[i] on the i-th call and repeats the last
// one once the script runs out.
type scriptedGenerator struct {
	mu      sync.Mutex
	results []result
	prompts []string
}

type result struct {
	text string
	err  error
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if i >= len(g.results) {
		i = len(g.results) - 1
	}
	return g.results[i].text, g.results[i].err
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

var unavailable = &connectors.StatusError{Code: 503, Message: "overloaded"}

func newTestAdvisor(t *testing.T, gen connectors.Generator, rec *recordingSleeper) *Advisor {
	return New(gen, WithSleeper(rec.sleep), WithLogger(zaptest.NewLogger(t)))
}

func TestRequestRecommendation_Success(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{text: "**Hello**\n* item\nTask: walk"}}}
	rec := &recordingSleeper{}

	text, err := newTestAdvisor(t, gen, rec).RequestRecommendation(context.Background(), "my prompt")
	require.NoError(t, err)

	assert.Equal(t, "Hello\n• item\n🎯 Task: walk", text)
	assert.Equal(t, 1, gen.calls())
	assert.Empty(t, rec.delays)
	assert.True(t, strings.HasPrefix(gen.prompts[0], "my prompt\n"))
	assert.True(t, strings.HasSuffix(gen.prompts[0], FormattingContract))
}

func TestRequestRecommendation_ExhaustsRetries(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: unavailable}}}
	rec := &recordingSleeper{}

	_, err := newTestAdvisor(t, gen, rec).RequestRecommendation(context.Background(), "p")
	require.Error(t, err)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonExhausted, se.Reason)
	assert.Equal(t, 5, se.Attempts)
	assert.True(t, se.Retryable())
	assert.ErrorIs(t, err, unavailable)

	assert.Equal(t, 5, gen.calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, rec.delays)
}

func TestRequestRecommendation_FatalShortCircuits(t *testing.T) {
	fatal := &connectors.StatusError{Code: 400, Message: "bad request"}
	gen := &scriptedGenerator{results: []result{{err: fatal}}}
	rec := &recordingSleeper{}

	_, err := newTestAdvisor(t, gen, rec).RequestRecommendation(context.Background(), "p")

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonFatal, se.Reason)
	assert.Equal(t, 1, se.Attempts)
	assert.False(t, se.Retryable())
	assert.Equal(t, 1, gen.calls())
	assert.Empty(t, rec.delays)
}

func TestRequestRecommendation_RecoversAfterTransient(t *testing.T) {
	gen := &scriptedGenerator{results: []result{
		{err: unavailable},
		{err: unavailable},
		{text: "1. Exercise Plan"},
	}}
	rec := &recordingSleeper{}

	text, err := newTestAdvisor(t, gen, rec).RequestRecommendation(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "1. Exercise Plan", text)
	assert.Equal(t, 3, gen.calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestRequestRecommendation_FatalAfterTransient(t *testing.T) {
	gen := &scriptedGenerator{results: []result{
		{err: unavailable},
		{err: errors.New("connection reset")},
	}}
	rec := &recordingSleeper{}

	_, err := newTestAdvisor(t, gen, rec).RequestRecommendation(context.Background(), "p")

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonFatal, se.Reason)
	assert.Equal(t, 2, se.Attempts)
}

func TestRequestRecommendation_CanceledDuringBackoff(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: unavailable}}}
	ctx, cancel := context.WithCancel(context.Background())

	a := New(gen, WithBaseDelay(time.Hour))
	done := make(chan error, 1)
	go func() {
		_, err := a.RequestRecommendation(ctx, "p")
		done <- err
	}()

	require.Eventually(t, func() bool { return gen.calls() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		var se *ServiceError
		assert.False(t, errors.As(err, &se))
	case <-time.After(2 * time.Second):
		t.Fatal("request did not stop after cancel")
	}
	assert.Equal(t, 1, gen.calls())
}

func TestRequestRecommendation_CustomPolicy(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: unavailable}}}
	rec := &recordingSleeper{}

	a := New(gen, WithSleeper(rec.sleep), WithMaxAttempts(3), WithBaseDelay(10*time.Millisecond))
	_, err := a.RequestRecommendation(context.Background(), "p")

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, gen.calls())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, rec.delays)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
