package llm

import (
	"context"
	"sync"

	sdkerrors "github.com/digitallysavvy/go-ai/pkg/errors"
	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// StreamOptions configures a streaming Stream() call. Shares shape with
// GenerateOptions; kept as a distinct type since a streaming caller has no
// retry policy (§4.C: streams never retry after yielding the first event).
type StreamOptions struct {
	Adapter       provideradapter.Adapter
	Request       types.CanonicalRequest
	Tools         map[string]types.Tool
	MaxToolRounds int
}

// StreamResult is the dual-view handle returned by Stream(): a single
// internal consumer plus two filtered projections (Events/TextStream),
// matching the teacher's StreamTextResult contract and the design note
// that stream/text_stream must not independently drain the generator.
type StreamResult struct {
	events chan types.StreamEvent

	mu       sync.Mutex
	consumed bool
	resp     types.CanonicalResponse
	fatalErr error
	done     chan struct{}
}

// Stream is the LLM Request Layer's streaming entry point (§4.D).
func Stream(ctx context.Context, opts StreamOptions) (*StreamResult, error) {
	if err := opts.Request.Validate(); err != nil {
		return nil, &sdkerrors.ValidationError{Message: err.Error()}
	}
	maxRounds := opts.MaxToolRounds
	if maxRounds == 0 {
		maxRounds = defaultMaxToolRounds
	}

	sr := &StreamResult{
		events: make(chan types.StreamEvent),
		done:   make(chan struct{}),
	}

	go sr.run(ctx, opts, maxRounds)
	return sr, nil
}

func (sr *StreamResult) run(ctx context.Context, opts StreamOptions, maxRounds int) {
	defer close(sr.events)
	defer close(sr.done)

	req := normalizeRequest(opts.Request)
	var totalUsage types.Usage
	var lastResp types.CanonicalResponse

	for round := 0; round < maxRounds; round++ {
		strm, err := opts.Adapter.Stream(ctx, req)
		if err != nil {
			sr.fatalErr = err
			return
		}

		acc := NewAccumulator()
		isFinalRound := round == maxRounds-1
		var roundFinish types.FinishReason
		var roundUsage types.Usage
		gotFinish := false

		for {
			ev, ok, err := strm.Next(ctx)
			if err != nil {
				sr.fatalErr = err
				return
			}
			if !ok {
				break
			}

			if ev.Kind == types.StreamEventStart && round > 0 {
				// Suppress repeated StreamStart on internal round
				// boundaries; the caller already saw one.
				acc.Process(ev)
				continue
			}
			if ev.Kind == types.StreamEventFinish {
				gotFinish = true
				roundFinish = ev.FinishReason
				roundUsage = ev.Usage
				acc.Process(ev)
				continue // emitted below, possibly transformed
			}

			acc.Process(ev)
			sr.events <- ev
		}

		resp := acc.Response()
		lastResp = resp
		totalUsage = totalUsage.Add(resp.Usage)

		toolCalls := toolCallsOf(resp)
		allPassive := true
		for _, tc := range toolCalls {
			if t, ok := opts.Tools[tc.ToolName]; ok && t.IsActive() {
				allPassive = false
				break
			}
		}

		finishReason := roundFinish
		if !gotFinish {
			finishReason = types.FinishStop
		}

		if len(toolCalls) == 0 || allPassive || isFinalRound {
			sr.events <- types.FinishEvent(finishReason, roundUsage)
			sr.resp = finalizeStreamResponse(resp, totalUsage)
			return
		}

		sr.events <- types.StepFinishEvent(finishReason, roundUsage)

		toolResults := executeToolsLocal(ctx, opts.Tools, toolCalls)
		req.Messages = append(req.Messages, types.NewAssistantTurn(resp.Content))
		var entries []types.ToolResultEntry
		for _, tr := range toolResults {
			entries = append(entries, types.ToolResultEntry{
				ToolCallID: tr.ToolCallID, Content: tr.Content, IsError: tr.IsError,
			})
		}
		req.Messages = append(req.Messages, types.NewToolResultsTurn(entries))
	}

	sr.resp = finalizeStreamResponse(lastResp, totalUsage)
}

func finalizeStreamResponse(resp types.CanonicalResponse, totalUsage types.Usage) types.CanonicalResponse {
	resp.Usage = totalUsage
	return resp
}

// Events returns the raw StreamEvent channel. Must not be called after
// TextStream on the same StreamResult.
func (sr *StreamResult) Events() <-chan types.StreamEvent {
	sr.mu.Lock()
	sr.consumed = true
	sr.mu.Unlock()
	return sr.events
}

// TextStream returns a channel yielding only the text of TextDelta events.
// Must not be called after Events on the same StreamResult.
func (sr *StreamResult) TextStream() <-chan string {
	sr.mu.Lock()
	sr.consumed = true
	sr.mu.Unlock()

	out := make(chan string)
	go func() {
		defer close(out)
		for ev := range sr.events {
			if ev.Kind == types.StreamEventTextDelta {
				out <- ev.Delta
			}
		}
	}()
	return out
}

// Response blocks until the stream has been fully consumed (draining it
// itself if the caller never called Events/TextStream) and returns the
// folded CanonicalResponse.
func (sr *StreamResult) Response() (types.CanonicalResponse, error) {
	sr.mu.Lock()
	already := sr.consumed
	sr.mu.Unlock()

	if !already {
		for range sr.events {
			// Drive consumption; caller asked for the response only.
		}
	}
	<-sr.done
	return sr.resp, sr.fatalErr
}
