// Package session implements the Session Loop (component J): the state
// machine that turns a single user input into a sequence of LLM rounds and
// tool dispatches, publishing every step onto a Session Event Bus and
// honoring steering, follow-up, loop-detection, and context-budget signals
// along the way.
//
// Grounded on two sources read together: the teacher's pkg/agent/toolloop.go
// Execute/executeStep/executeTools step-loop shape (the round-bounded,
// event-callback-driven structure), and the strongdm-attractor agent-loop
// Session/processInput state machine (the turn algorithm's exact ordering:
// append user turn, drain steering, inner tool-round loop, loop detection,
// follow-up chaining). The LLM layer's own internal tool-execution sub-loop
// (pkg/llm) is deliberately bypassed here: the Session Loop calls Stream
// with no active tools so the LLM layer always stops at the first round's
// real Finish, and performs tool dispatch itself through pkg/tooldispatch,
// which is the only path that wires the Event Bus, Loop Detector, and
// per-tool truncation limits together.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ctxtrack "github.com/digitallysavvy/go-ai/pkg/context"
	sdkerrors "github.com/digitallysavvy/go-ai/pkg/errors"
	"github.com/digitallysavvy/go-ai/pkg/eventbus"
	"github.com/digitallysavvy/go-ai/pkg/llm"
	"github.com/digitallysavvy/go-ai/pkg/loopdetect"
	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/steering"
	"github.com/digitallysavvy/go-ai/pkg/telemetry"
	"github.com/digitallysavvy/go-ai/pkg/tooldispatch"
	"github.com/digitallysavvy/go-ai/pkg/toolregistry"
	"github.com/digitallysavvy/go-ai/pkg/truncate"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// State is a Session's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateClosed     State = "closed"
)

// Config configures a Session's turn algorithm and LLM request shape.
type Config struct {
	Model  string
	System string

	// UserInstructions is appended to System as a distinct trailing
	// section, the way a host surfaces project- or user-level custom
	// instructions without overwriting the profile's own system prompt.
	UserInstructions string

	MaxTurns              int // 0 = unlimited
	MaxToolRoundsPerInput int

	EnableLoopDetection bool
	LoopDetectionWindow int

	// Parallel mirrors the profile's supportsParallelToolCalls flag (§4.I).
	Parallel bool

	// ToolOutputLimits bounds each tool's output before it re-enters
	// history, keyed by tool name; the zero Limits value is unlimited.
	ToolOutputLimits map[string]truncate.Limits

	// ContextWindow is the model's context size in tokens, for the
	// Context Tracker's usage-percent estimate.
	ContextWindow int

	ReasoningEffort types.ReasoningEffort
	MaxTokens       *int
	Temperature     *float64

	// EventBufferSize sizes each subscriber's event channel (0 uses the
	// Event Bus's default).
	EventBufferSize int

	// Telemetry configures the OpenTelemetry span recorded around each LLM
	// round. Nil behaves like telemetry.DefaultSettings() with IsEnabled
	// false: spans are recorded against a no-op tracer.
	Telemetry *telemetry.Settings
}

// DefaultConfig returns the spec-default session configuration, per the
// attractor fragment's DefaultSessionConfig.
func DefaultConfig() Config {
	return Config{
		MaxToolRoundsPerInput: 200,
		EnableLoopDetection:   true,
		LoopDetectionWindow:   10,
		ContextWindow:         200000,
	}
}

// Session is the central turn-taking orchestrator: one user-visible
// conversation backed by a ProviderAdapter, a Tool Registry, and a private
// Session Event Bus.
type Session struct {
	id      string
	adapter provideradapter.Adapter
	tools   *toolregistry.Registry
	config  Config

	bus       *eventbus.Bus
	steeringQ *steering.Queue
	loopDet   *loopdetect.Detector
	ctxTrack  *ctxtrack.Tracker
	tracer    trace.Tracer

	mu         sync.Mutex
	state      State
	history    []types.Turn
	cancelFunc context.CancelFunc
	turnsUsed  int
}

// New creates a Session in state Idle and publishes SessionStart. An empty
// id generates a fresh uuid, matching the teacher's/attractor's session
// identifier convention.
func New(id string, adapter provideradapter.Adapter, tools *toolregistry.Registry, cfg Config) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	s := &Session{
		id:        id,
		adapter:   adapter,
		tools:     tools,
		config:    cfg,
		bus:       eventbus.New(),
		steeringQ: steering.New(),
		loopDet:   loopdetect.New(cfg.LoopDetectionWindow),
		ctxTrack:  ctxtrack.New(cfg.ContextWindow),
		tracer:    telemetry.GetTracer(cfg.Telemetry),
		state:     StateIdle,
	}
	s.bus.Publish(types.SessionStart(s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a snapshot copy of the conversation history.
func (s *Session) History() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make([]types.Turn, len(s.history))
	copy(h, s.history)
	return h
}

// TurnsUsed returns the number of outer-loop turn entries consumed so far,
// the same counter the turn algorithm checks against MaxTurns.
func (s *Session) TurnsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turnsUsed
}

// Subscribe registers a new observer on the Session Event Bus.
func (s *Session) Subscribe() *eventbus.Subscription {
	return s.bus.Subscribe(s.config.EventBufferSize)
}

// Steer enqueues a message injected as a Steering turn once the current
// tool round completes.
func (s *Session) Steer(message string) {
	s.steeringQ.Steer(message)
}

// FollowUp enqueues a message to be processed as the next submit cycle's
// user turn once the current one completes.
func (s *Session) FollowUp(message string) {
	s.steeringQ.FollowUp(message)
}

// Abort idempotently terminates the session: cancels any in-flight work,
// transitions to Closed, emits SessionEnd, and closes the event bus.
// Subsequent calls are no-ops.
func (s *Session) Abort() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	cancel := s.cancelFunc
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.bus.Publish(types.SessionEnd(s.id))
	s.bus.Close()
}

// Submit processes a user input through the turn algorithm (§4.J). Valid
// only from Idle; concurrent submits on the same session are rejected.
func (s *Session) Submit(ctx context.Context, input string) error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return sdkerrors.ErrSessionClosed
	case StateProcessing:
		s.mu.Unlock()
		return sdkerrors.ErrSessionBusy
	}
	s.state = StateProcessing
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.state == StateProcessing {
			s.state = StateIdle
		}
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	return s.run(runCtx, input)
}

// run is the turn algorithm's outer loop (§4.J step 2): one entry per
// user/follow-up input, chained through the follow-up queue without
// resetting the turn counter.
func (s *Session) run(ctx context.Context, input string) error {
	current := input
	turnCounter := 0

	for {
		s.appendTurn(types.NewUserTurn(current))

		turnCounter++
		s.mu.Lock()
		s.turnsUsed = turnCounter
		s.mu.Unlock()
		if s.config.MaxTurns > 0 && turnCounter >= s.config.MaxTurns {
			s.bus.Publish(types.TurnLimit(types.TurnLimitMaxTurns))
			break
		}

		for _, msg := range s.steeringQ.DrainSteering() {
			s.appendTurn(types.NewSteeringTurn(msg))
			s.bus.Publish(types.SteeringInjected(msg))
		}

		breakOuter, err := s.innerLoop(ctx)
		if err != nil {
			return err
		}
		if breakOuter {
			break
		}

		next, ok := s.steeringQ.DrainOneFollowUp()
		if !ok {
			break
		}
		current = next
	}

	return nil
}

// innerLoop runs the bounded tool-round loop (§4.J step 2c) for a single
// outer-loop entry. Returns breakOuter=true only when the Loop Detector
// fires, per the spec's "break both loops" on detection.
func (s *Session) innerLoop(ctx context.Context) (breakOuter bool, err error) {
	for round := 0; ; {
		if ctx.Err() != nil {
			// Abort() already emitted SessionEnd and closed the bus; a
			// cancellation here unwinds quietly with no partial turn.
			return false, ctx.Err()
		}

		ctx, span := s.tracer.Start(ctx, "session.round",
			trace.WithAttributes(
				attribute.String("ai.model.id", s.config.Model),
				attribute.Int("ai.round", round),
			),
		)

		req := s.buildRequest()
		sr, serr := llm.Stream(ctx, llm.StreamOptions{
			Adapter: s.adapter,
			Request: req,
			// No active tools: the LLM layer always stops at the first
			// round's real Finish, leaving tool dispatch to this loop.
			Tools: nil,
		})
		if serr != nil {
			telemetry.RecordErrorOnSpan(span, serr)
			span.End()
			return false, s.fail(serr)
		}

		s.bus.Publish(types.AssistantTextStart())
		for ev := range sr.Events() {
			if ev.Kind == types.StreamEventTextDelta {
				s.ctxTrack.AddText(ev.Delta)
				s.bus.Publish(types.AssistantTextDelta(ev.Delta))
			}
		}

		resp, rerr := sr.Response()
		if rerr != nil {
			telemetry.RecordErrorOnSpan(span, rerr)
			span.End()
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, s.fail(rerr)
		}

		span.SetAttributes(
			attribute.String("ai.response.finishReason", string(resp.FinishReason)),
			attribute.Int64("ai.usage.inputTokens", resp.Usage.InputTokens),
			attribute.Int64("ai.usage.outputTokens", resp.Usage.OutputTokens),
		)
		span.End()

		s.bus.Publish(types.AssistantTextEnd())
		s.appendTurn(types.NewAssistantTurn(resp.Content))

		for _, warn := range s.ctxTrack.CheckThresholds() {
			s.bus.Publish(warn)
		}

		toolCallParts := resp.ToolCallParts()
		if len(toolCallParts) == 0 || resp.FinishReason != types.FinishToolCalls {
			return false, nil
		}

		if round >= s.config.MaxToolRoundsPerInput {
			s.bus.Publish(types.TurnLimit(types.TurnLimitMaxToolRounds))
			return false, nil
		}

		calls := toToolCalls(toolCallParts)
		results := s.dispatch(ctx, calls)

		s.loopDet.RecordToolCalls(calls)
		if s.config.EnableLoopDetection && s.loopDet.Detect() {
			reason := fmt.Sprintf(
				"the last %d tool calls follow a repeating pattern; try a different approach",
				s.config.LoopDetectionWindow,
			)
			s.bus.Publish(types.LoopDetection(reason))
			return true, nil
		}

		s.appendTurn(types.NewToolResultsTurn(toResultEntries(results)))
		round++
	}
}

func (s *Session) buildRequest() types.CanonicalRequest {
	return types.CanonicalRequest{
		Model:           s.config.Model,
		Messages:        s.History(),
		System:          s.systemPrompt(),
		Tools:           s.tools.Definitions(),
		ToolChoice:      types.AutoToolChoice(),
		MaxTokens:       s.config.MaxTokens,
		Temperature:     s.config.Temperature,
		ReasoningEffort: s.config.ReasoningEffort,
	}
}

// systemPrompt appends UserInstructions, when set, as a distinct trailing
// section rather than folding it into System, mirroring the attractor
// fragment's own "\n\n# User Instructions\n\n" + UserInstructions append.
func (s *Session) systemPrompt() string {
	if s.config.UserInstructions == "" {
		return s.config.System
	}
	return s.config.System + "\n\n# User Instructions\n\n" + s.config.UserInstructions
}

func (s *Session) dispatch(ctx context.Context, calls []types.ToolCall) []types.ToolResult {
	return tooldispatch.Dispatch(ctx, tooldispatch.Options{
		SessionID: s.id,
		Tools:     s.tools.List(),
		Parallel:  s.config.Parallel,
		Limits:    s.config.ToolOutputLimits,
		Bus:       s.bus,
	}, calls)
}

// fail implements §4.J step 3: classify an uncaught provider error,
// surface it, and transition the session to Closed.
func (s *Session) fail(err error) error {
	if sdkerrors.IsContextLength(err) {
		s.bus.Publish(types.ContextWarning(1.0))
	}
	s.bus.Publish(types.ErrorEvt(classifyErrorKind(err), err.Error()))

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	s.bus.Publish(types.SessionEnd(s.id))
	s.bus.Close()
	return err
}

func classifyErrorKind(err error) string {
	var pe *sdkerrors.ProviderError
	if stderrors.As(err, &pe) {
		return string(pe.Kind)
	}
	return "Unknown"
}

func (s *Session) appendTurn(t types.Turn) {
	s.mu.Lock()
	s.history = append(s.history, t)
	s.mu.Unlock()
}

func toToolCalls(parts []types.Part) []types.ToolCall {
	out := make([]types.ToolCall, len(parts))
	for i, p := range parts {
		out[i] = types.ToolCall{ID: p.ToolCallID, ToolName: p.ToolName, Arguments: p.Args}
	}
	return out
}

func toResultEntries(results []types.ToolResult) []types.ToolResultEntry {
	out := make([]types.ToolResultEntry, len(results))
	for i, r := range results {
		out[i] = types.ToolResultEntry{ToolCallID: r.ToolCallID, Content: r.Content, IsError: r.IsError}
	}
	return out
}
