// Package subagent implements the Sub-Agent Map (component K): bookkeeping
// for child sessions spawned to delegate a task, their nesting depth limit,
// and the wait/close lifecycle a parent session drives them through.
//
// Grounded on the teacher's pkg/agent.SubagentRegistry/DelegationTracker
// (map[string]Agent plus a linear delegation log), generalized from a
// static name→Agent table into one that owns each child *session.Session's
// full run-to-close lifecycle, and made safe for concurrent use — the
// teacher's registry has no locking of its own.
package subagent

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	sdkerrors "github.com/digitallysavvy/go-ai/pkg/errors"
	"github.com/digitallysavvy/go-ai/pkg/session"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Status is a sub-agent's lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
	StatusError     Status = "error"
)

// Result is what a sub-agent's wait() resolves to once its inner session
// closes: the concatenated assistant text, whether it finished without
// tripping the Loop Detector, and how many turns it consumed.
type Result struct {
	Output    string
	Success   bool
	TurnsUsed int
}

// Handle is an immutable snapshot of a sub-agent's identity and lifecycle
// state at the moment it was retrieved; mutating the Map afterward does
// not change a Handle already returned to a caller.
type Handle struct {
	ID     string
	Status Status
	Result *Result
}

type entry struct {
	mu               sync.Mutex
	sess             *session.Session
	status           Status
	result           *Result
	closedExternally bool
	done             chan struct{}
}

type depthKey struct{}

// WithDepth returns a context carrying the given sub-agent nesting depth.
// A sub-agent that itself spawns children must pass the context returned
// here (or one derived from it) to its own Spawn calls, so depth threads
// through as a counter carried on spawn calls rather than global state.
func WithDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

// DepthFromContext returns the sub-agent nesting depth carried on ctx, or 0
// for a context that carries none (the top-level session).
func DepthFromContext(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// Map tracks every sub-agent spawned under one parent, enforcing a maximum
// nesting depth and exposing get/close/list plus event-driven waiting.
type Map struct {
	maxDepth int

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty sub-agent map. maxDepth of 0 disables the depth
// limit.
func New(maxDepth int) *Map {
	return &Map{maxDepth: maxDepth, entries: make(map[string]*entry)}
}

// Spawn registers a new sub-agent wrapping sess under id and begins
// driving it with task through Submit in the background; fails if id is
// already registered or the depth carried on ctx (see WithDepth) is at or
// beyond the configured limit.
func (m *Map) Spawn(ctx context.Context, id string, sess *session.Session, task string) (Handle, error) {
	if id == "" {
		return Handle{}, &sdkerrors.ValidationError{Field: "id", Message: "must not be empty"}
	}
	if sess == nil {
		return Handle{}, &sdkerrors.ValidationError{Field: "session", Message: "must not be nil"}
	}
	if m.maxDepth > 0 && DepthFromContext(ctx) >= m.maxDepth {
		return Handle{}, sdkerrors.ErrMaxDepth
	}

	m.mu.Lock()
	if _, exists := m.entries[id]; exists {
		m.mu.Unlock()
		return Handle{}, sdkerrors.ErrAlreadyExists
	}
	e := &entry{sess: sess, status: StatusRunning, done: make(chan struct{})}
	m.entries[id] = e
	m.mu.Unlock()

	go m.drive(ctx, e, task)

	return Handle{ID: id, Status: StatusRunning}, nil
}

// drive runs a spawned sub-agent's single task to completion and closes
// its session once Submit returns, so wait() has a SessionEnd to consume
// even when the child finishes its task normally (Submit itself never
// self-closes on success — only abort()/a fatal provider error do).
func (m *Map) drive(ctx context.Context, e *entry, task string) {
	sub := e.sess.Subscribe()

	type collected struct {
		output       string
		loopDetected bool
	}
	collectedCh := make(chan collected, 1)
	go func() {
		var out strings.Builder
		loopDetected := false
		for ev := range sub.Events {
			switch ev.Kind {
			case types.SessionEventAssistantTextDelta:
				out.WriteString(ev.Text)
			case types.SessionEventLoopDetection:
				loopDetected = true
			}
		}
		collectedCh <- collected{output: out.String(), loopDetected: loopDetected}
	}()

	submitErr := e.sess.Submit(ctx, task)

	if e.sess.State() != session.StateClosed {
		e.sess.Abort()
	}

	res := <-collectedCh
	turnsUsed := e.sess.TurnsUsed()

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.closedExternally:
		e.status = StatusAborted
	case submitErr != nil:
		e.status = StatusError
	default:
		e.status = StatusCompleted
	}
	e.result = &Result{
		Output:    res.output,
		Success:   submitErr == nil && !res.loopDetected,
		TurnsUsed: turnsUsed,
	}
	close(e.done)
}

// Get returns an immutable snapshot of the sub-agent registered under id.
func (m *Map) Get(id string) (Handle, bool) {
	e, ok := m.lookup(id)
	if !ok {
		return Handle{}, false
	}
	return e.snapshot(id), true
}

// List returns a snapshot of every currently-registered sub-agent.
func (m *Map) List() []Handle {
	m.mu.Lock()
	ids := make([]string, 0, len(m.entries))
	ents := make([]*entry, 0, len(m.entries))
	for id, e := range m.entries {
		ids = append(ids, id)
		ents = append(ents, e)
	}
	m.mu.Unlock()

	out := make([]Handle, len(ents))
	for i, e := range ents {
		out[i] = e.snapshot(ids[i])
	}
	return out
}

// Close aborts the sub-agent registered under id if it is still Running,
// marking it Aborted once its session finishes closing. A sub-agent that
// has already completed, errored, or been closed is left untouched.
func (m *Map) Close(id string) error {
	e, ok := m.lookup(id)
	if !ok {
		return sdkerrors.ErrNotFound
	}

	e.mu.Lock()
	if e.status != StatusRunning {
		e.mu.Unlock()
		return nil
	}
	e.closedExternally = true
	e.mu.Unlock()

	e.sess.Abort()
	return nil
}

// CloseAll aborts every currently Running sub-agent.
func (m *Map) CloseAll() {
	for _, h := range m.List() {
		if h.Status == StatusRunning {
			_ = m.Close(h.ID)
		}
	}
}

// Wait blocks until the sub-agent registered under id finishes (normally,
// aborted, or errored) and returns its Result, or returns ctx's error if
// ctx is done first.
func (m *Map) Wait(ctx context.Context, id string) (Result, error) {
	e, ok := m.lookup(id)
	if !ok {
		return Result{}, sdkerrors.ErrNotFound
	}

	select {
	case <-e.done:
		e.mu.Lock()
		defer e.mu.Unlock()
		return *e.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// WaitAll waits for every id concurrently, mirroring the tool dispatcher's
// errgroup-based parallel fan-out (pkg/tooldispatch) rather than waiting on
// each child one at a time. Results are returned in the same order as ids;
// the first ctx cancellation or unknown id aborts the remaining waits.
func (m *Map) WaitAll(ctx context.Context, ids []string) ([]Result, error) {
	results := make([]Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := m.Wait(gctx, id)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *Map) lookup(id string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

func (e *entry) snapshot(id string) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Handle{ID: id, Status: e.status, Result: e.result}
}
