package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/coordinator"
)

const waitFor = 2 * time.Second

// recorder counts regenerations per id. Runs for ids listed in block wait
// until release is closed or their context ends.
type recorder struct {
	mu      sync.Mutex
	runs    map[string]int
	order   []string
	started chan string
	release chan struct{}
	block   map[string]bool
	fail    map[string]error
}

func newRecorder() *recorder {
	return &recorder{
		runs:    make(map[string]int),
		started: make(chan string, 16),
		release: make(chan struct{}),
		block:   make(map[string]bool),
		fail:    make(map[string]error),
	}
}

func (r *recorder) Regenerate(ctx context.Context, id string) error {
	r.mu.Lock()
	r.runs[id]++
	r.order = append(r.order, id)
	blocked := r.block[id]
	err := r.fail[id]
	r.mu.Unlock()

	select {
	case r.started <- id:
	default:
	}
	if blocked {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (r *recorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id]
}

func (r *recorder) awaitStart(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-r.started:
		require.Equal(t, want, got)
	case <-time.After(waitFor):
		t.Fatalf("regeneration of %s did not start", want)
	}
}

func waitIdle(t *testing.T, c *coordinator.Coordinator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.WaitIdle(ctx))
}

func TestNotifyChanged_CoalescesDuringRun(t *testing.T) {
	rec := newRecorder()
	rec.block["a"] = true
	c := coordinator.New(rec)
	defer c.Close()

	require.True(t, c.NotifyChanged("a"))
	rec.awaitStart(t, "a")
	require.Equal(t, coordinator.StateRegenerating, c.State("a"))

	for i := 0; i < 3; i++ {
		require.True(t, c.NotifyChanged("a"))
	}
	require.Equal(t, coordinator.StateRegenerating, c.State("a"))

	close(rec.release)
	waitIdle(t, c)
	assert.Equal(t, 2, rec.count("a"), "one run plus exactly one re-run for the changes seen mid-run")
	assert.Equal(t, coordinator.StateIdle, c.State("a"))
}

func TestNotifyChanged_DeduplicatesQueued(t *testing.T) {
	rec := newRecorder()
	c := coordinator.New(rec)
	defer c.Close()

	c.Suspend()
	for i := 0; i < 5; i++ {
		c.NotifyChanged("a")
	}
	c.NotifyChanged("b")
	require.Equal(t, coordinator.StateQueued, c.State("a"))
	require.Equal(t, 2, c.Pending())

	c.Resume()
	waitIdle(t, c)
	assert.Equal(t, 1, rec.count("a"))
	assert.Equal(t, 1, rec.count("b"))
}

func TestSuspend_PreservesAndRequeuesInFlight(t *testing.T) {
	rec := newRecorder()
	rec.block["a"] = true
	c := coordinator.New(rec)
	defer c.Close()

	c.NotifyChanged("a")
	rec.awaitStart(t, "a")

	c.Suspend()
	c.Suspend()
	require.Eventually(t, func() bool { return c.State("a") == coordinator.StateQueued },
		waitFor, 5*time.Millisecond, "interrupted run must be queued again")
	c.NotifyChanged("b")

	c.Resume()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, rec.count("a"), "still suspended after one resume")
	assert.Equal(t, 0, rec.count("b"))

	close(rec.release)
	c.Resume()
	waitIdle(t, c)
	assert.Equal(t, 2, rec.count("a"))
	assert.Equal(t, 1, rec.count("b"))
}

func TestRefuse_DropsNewRequests(t *testing.T) {
	rec := newRecorder()
	c := coordinator.New(rec)
	defer c.Close()

	c.Refuse(true)
	c.Refuse(true)
	assert.False(t, c.NotifyChanged("a"))
	c.Refuse(false)
	assert.False(t, c.NotifyChanged("a"), "refuse calls nest")
	assert.Equal(t, coordinator.StateIdle, c.State("a"))

	c.Refuse(false)
	c.Refuse(false)
	assert.True(t, c.NotifyChanged("a"))
	waitIdle(t, c)
	assert.Equal(t, 1, rec.count("a"))
}

func TestCancelAll_DropsQueuedAndRunning(t *testing.T) {
	rec := newRecorder()
	rec.block["a"] = true
	c := coordinator.New(rec)
	defer c.Close()

	c.NotifyChanged("a")
	rec.awaitStart(t, "a")
	c.NotifyChanged("a")
	c.NotifyChanged("b")
	c.NotifyChanged("c")

	c.CancelAll()
	waitIdle(t, c)
	assert.Equal(t, 1, rec.count("a"), "cancelled run is not repeated")
	assert.Equal(t, 0, rec.count("b"))
	assert.Equal(t, 0, rec.count("c"))

	// The coordinator keeps working afterwards.
	c.NotifyChanged("b")
	waitIdle(t, c)
	assert.Equal(t, 1, rec.count("b"))
}

func TestDebounce_DelaysAndFolds(t *testing.T) {
	rec := newRecorder()
	debounce := 80 * time.Millisecond
	c := coordinator.New(rec, coordinator.WithDebounce(debounce))
	defer c.Close()

	queued := time.Now()
	c.NotifyChanged("a")
	time.Sleep(20 * time.Millisecond)
	c.NotifyChanged("a")

	rec.awaitStart(t, "a")
	assert.GreaterOrEqual(t, time.Since(queued), debounce)
	waitIdle(t, c)
	assert.Equal(t, 1, rec.count("a"))
}

func TestRegenerateAll_BacklogBeyondQueueSize(t *testing.T) {
	rec := newRecorder()
	c := coordinator.New(rec, coordinator.WithQueueSize(2))
	defer c.Close()

	c.Suspend()
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%02d", i)
	}
	require.Equal(t, len(ids), c.RegenerateAll(ids))
	c.Resume()

	waitIdle(t, c)
	for _, id := range ids {
		assert.Equal(t, 1, rec.count(id), id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, ids, rec.order, "requests run in arrival order")
}

func TestFailure_LoggedAndNextTypeProceeds(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := newRecorder()
	rec.fail["a"] = errors.New("boom")
	c := coordinator.New(rec, coordinator.WithLogger(zap.New(core)))
	defer c.Close()

	c.RegenerateAll([]string{"a", "b"})
	waitIdle(t, c)

	assert.Equal(t, 1, rec.count("b"))
	entries := logs.FilterMessage("regeneration failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ContextMap()["type"])
}

func TestClose_RejectsNotifications(t *testing.T) {
	rec := newRecorder()
	rec.block["a"] = true
	c := coordinator.New(rec)

	c.NotifyChanged("a")
	rec.awaitStart(t, "a")
	c.Close()
	c.Close()

	assert.False(t, c.NotifyChanged("b"))
	assert.Equal(t, 0, c.Pending())
	waitIdle(t, c)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", coordinator.StateIdle.String())
	assert.Equal(t, "queued", coordinator.StateQueued.String())
	assert.Equal(t, "regenerating", coordinator.StateRegenerating.String())
}
