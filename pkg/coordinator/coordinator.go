package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State is the regeneration state of one tracked type.
type State uint8

const (
	StateIdle State = iota
	StateQueued
	StateRegenerating
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRegenerating:
		return "regenerating"
	default:
		return "idle"
	}
}

// Regenerator rebuilds the artifacts of one model type.
type Regenerator interface {
	Regenerate(ctx context.Context, id string) error
}

// RegenerateFunc adapts a function to Regenerator.
type RegenerateFunc func(ctx context.Context, id string) error

func (f RegenerateFunc) Regenerate(ctx context.Context, id string) error { return f(ctx, id) }

const defaultQueueSize = 64

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Failed regenerations are logged as warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce delays processing of a queued type until d has passed since
// it was queued.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		c.SetDebounce(d)
	}
}

// WithQueueSize bounds the dispatch channel. Requests beyond the bound wait
// in a backlog and are never dropped.
func WithQueueSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

type entry struct {
	state    State
	dirty    bool
	queuedAt time.Time
}

// Coordinator coalesces change notifications per type and regenerates them
// on a single background worker.
type Coordinator struct {
	regen     Regenerator
	logger    *zap.Logger
	debounce  atomic.Int64
	queueSize int

	queue chan string

	mu          sync.Mutex
	entries     map[string]*entry
	backlog     []string
	suspended   int
	refused     int
	resumed     chan struct{}
	changed     chan struct{}
	cancelRun   context.CancelFunc
	interrupted bool
	dropRunning bool
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New starts a coordinator whose worker calls regen.
func New(regen Regenerator, opts ...Option) *Coordinator {
	c := &Coordinator{
		regen:     regen,
		logger:    zap.NewNop(),
		queueSize: defaultQueueSize,
		entries:   make(map[string]*entry),
		resumed:   closedChan(),
		changed:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.queue = make(chan string, c.queueSize)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	go c.work()
	return c
}

// SetDebounce changes the debounce for requests processed from now on.
func (c *Coordinator) SetDebounce(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.debounce.Store(int64(d))
}

// NotifyChanged requests regeneration of id. It never blocks and reports
// whether the request was accepted; repeated notifications for a queued or
// running type are folded into one.
func (c *Coordinator) NotifyChanged(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || id == "" {
		return false
	}
	if c.refused > 0 {
		c.logger.Debug("change refused", zap.String("type", id))
		return false
	}
	e, ok := c.entries[id]
	switch {
	case !ok:
		c.entries[id] = &entry{state: StateQueued, queuedAt: time.Now()}
		c.enqueueLocked(id)
		c.broadcastLocked()
	case e.state == StateRegenerating:
		e.dirty = true
	}
	return true
}

// RegenerateAll notifies every id and returns the number accepted.
func (c *Coordinator) RegenerateAll(ids []string) int {
	accepted := 0
	for _, id := range ids {
		if c.NotifyChanged(id) {
			accepted++
		}
	}
	return accepted
}

// Suspend pauses processing. Calls nest; queued requests are kept and a
// running regeneration is cancelled and queued again.
func (c *Coordinator) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspended++
	if c.suspended == 1 {
		c.resumed = make(chan struct{})
	}
	if c.cancelRun != nil {
		c.interrupted = true
		c.cancelRun()
	}
}

// Resume undoes one Suspend. Processing continues when every Suspend has
// been matched.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended == 0 {
		return
	}
	c.suspended--
	if c.suspended == 0 {
		close(c.resumed)
	}
}

// Refuse(true) makes the coordinator drop new requests until a matching
// Refuse(false). It does not affect requests already queued.
func (c *Coordinator) Refuse(refuse bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if refuse {
		c.refused++
	} else if c.refused > 0 {
		c.refused--
	}
}

// CancelAll drops every queued request and cancels the running one without
// queueing it again. Completed regenerations are not rolled back.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
drain:
	for {
		select {
		case <-c.queue:
		default:
			break drain
		}
	}
	c.backlog = nil
	for id, e := range c.entries {
		if e.state == StateRegenerating {
			e.dirty = false
			continue
		}
		delete(c.entries, id)
	}
	if c.cancelRun != nil {
		c.dropRunning = true
		c.cancelRun()
	}
	c.broadcastLocked()
}

// State returns the state of id.
func (c *Coordinator) State(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.state
	}
	return StateIdle
}

// Pending returns the number of tracked types that are queued or running.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// WaitIdle blocks until no type is queued or running, or ctx is done.
func (c *Coordinator) WaitIdle(ctx context.Context) error {
	for {
		c.mu.Lock()
		if len(c.entries) == 0 {
			c.mu.Unlock()
			return nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Close stops the worker after cancelling the running regeneration.
// Further notifications are rejected.
func (c *Coordinator) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.cancel()
		<-c.done

		c.mu.Lock()
		c.entries = make(map[string]*entry)
		c.backlog = nil
		c.broadcastLocked()
		c.mu.Unlock()
	})
}

func (c *Coordinator) work() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case id := <-c.queue:
			c.process(id)
			c.refill()
		}
	}
}

func (c *Coordinator) process(id string) {
	if !c.waitResumed() || !c.waitDebounce(id) {
		return
	}

	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok || e.state != StateQueued {
		// Cancelled while waiting.
		c.mu.Unlock()
		return
	}
	if c.suspended > 0 {
		// Suspended during the debounce wait.
		c.enqueueLocked(id)
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(c.ctx)
	e.state = StateRegenerating
	c.cancelRun = cancel
	c.interrupted, c.dropRunning = false, false
	c.broadcastLocked()
	c.mu.Unlock()

	start := time.Now()
	err := c.regen.Regenerate(runCtx, id)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelRun = nil
	interrupted, dropped := c.interrupted, c.dropRunning

	switch {
	case c.closed:
		delete(c.entries, id)
	case dropped:
		c.logger.Debug("regeneration cancelled", zap.String("type", id))
		if e.dirty {
			// Changed again after the cancel request.
			e.state, e.dirty, e.queuedAt = StateQueued, false, time.Now()
			c.enqueueLocked(id)
		} else {
			delete(c.entries, id)
		}
	case interrupted && errors.Is(err, context.Canceled):
		c.logger.Debug("regeneration interrupted by suspend", zap.String("type", id))
		e.state, e.dirty, e.queuedAt = StateQueued, false, time.Now()
		c.enqueueLocked(id)
	default:
		if err != nil {
			c.logger.Warn("regeneration failed", zap.String("type", id), zap.Error(err))
		} else {
			c.logger.Debug("regenerated", zap.String("type", id), zap.Duration("took", time.Since(start)))
		}
		if e.dirty {
			e.state, e.dirty, e.queuedAt = StateQueued, false, time.Now()
			c.enqueueLocked(id)
		} else {
			delete(c.entries, id)
		}
	}
	c.broadcastLocked()
}

// waitResumed blocks while the coordinator is suspended. It returns false
// when the coordinator is closing.
func (c *Coordinator) waitResumed() bool {
	for {
		c.mu.Lock()
		if c.suspended == 0 {
			c.mu.Unlock()
			return true
		}
		resumed := c.resumed
		c.mu.Unlock()

		select {
		case <-c.ctx.Done():
			return false
		case <-resumed:
		}
	}
}

func (c *Coordinator) waitDebounce(id string) bool {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return true
	}
	wait := time.Duration(c.debounce.Load()) - time.Since(e.queuedAt)
	c.mu.Unlock()
	if wait <= 0 {
		return true
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Coordinator) enqueueLocked(id string) {
	if len(c.backlog) == 0 {
		select {
		case c.queue <- id:
			return
		default:
		}
	}
	c.backlog = append(c.backlog, id)
}

// refill moves backlog entries into the dispatch channel while it has room.
func (c *Coordinator) refill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.backlog) > 0 {
		select {
		case c.queue <- c.backlog[0]:
			c.backlog = c.backlog[1:]
		default:
			return
		}
	}
}

func (c *Coordinator) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
