package middleware

import (
	"context"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// SimulateStreamingMiddleware returns an AdapterMiddleware whose
// WrapStream calls Complete instead of the adapter's real Stream, then
// replays the full CanonicalResponse as a synthetic StreamEvent
// sequence. Grounded on the teacher's
// pkg/middleware/simulate_streaming.go SimulateStreamingMiddleware,
// re-targeted at this runtime's CanonicalResponse.Content/StreamEvent
// shapes. It is the direct fix for the gap documented on the OpenAI and
// Gemini reference ProviderAdapters: their real DoStream never emits
// tool-call chunks (OpenAI's has a standing TODO at the delta site;
// Gemini's convertResponse only reads function-call parts from
// non-streaming responses). Wrapping either adapter with this
// middleware trades incremental token delivery for tool calls that
// actually show up while "streaming".
func SimulateStreamingMiddleware() *AdapterMiddleware {
	return &AdapterMiddleware{
		WrapStream: func(ctx context.Context, next func() (provideradapter.Stream, error), nextComplete func() (types.CanonicalResponse, error), req types.CanonicalRequest) (provideradapter.Stream, error) {
			resp, err := nextComplete()
			if err != nil {
				return nil, err
			}
			return &simulatedStream{events: buildSimulatedEvents(resp)}, nil
		},
	}
}

// simulatedStream replays a pre-built event sequence as a
// provideradapter.Stream.
type simulatedStream struct {
	events []types.StreamEvent
	pos    int
}

func (s *simulatedStream) Next(ctx context.Context) (types.StreamEvent, bool, error) {
	if s.pos >= len(s.events) {
		return types.StreamEvent{}, false, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true, nil
}

// buildSimulatedEvents flattens a CanonicalResponse into the ordered
// StreamEvent sequence a real streaming adapter would have produced:
// a start, one event per content part (in order), a step-finish, and a
// terminal finish.
func buildSimulatedEvents(resp types.CanonicalResponse) []types.StreamEvent {
	events := []types.StreamEvent{types.StreamStartEvent(resp.ID, resp.Model)}

	for _, part := range resp.Content {
		switch part.Kind {
		case types.PartText:
			events = append(events, types.TextDeltaEvent(part.Text))
		case types.PartThinking:
			events = append(events, types.ThinkingDeltaEvent(part.Text))
		case types.PartToolCall:
			events = append(events,
				types.ToolCallStartEvent(part.ToolCallID, part.ToolName),
				types.StreamEvent{Kind: types.StreamEventToolCallEnd, ToolCallID: part.ToolCallID, FinalizedArg: part.Args},
			)
		}
	}

	events = append(events, types.FinishEvent(resp.FinishReason, resp.Usage))
	return events
}
