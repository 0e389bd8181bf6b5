package types

// StreamEventKind discriminates the StreamEvent tagged union emitted by a
// ProviderAdapter's stream() operation.
type StreamEventKind string

const (
	StreamEventStart         StreamEventKind = "stream_start"
	StreamEventTextDelta     StreamEventKind = "text_delta"
	StreamEventThinkingDelta StreamEventKind = "thinking_delta"
	StreamEventToolCallStart StreamEventKind = "tool_call_start"
	StreamEventToolCallDelta StreamEventKind = "tool_call_delta"
	StreamEventToolCallEnd   StreamEventKind = "tool_call_end"
	StreamEventStepFinish    StreamEventKind = "step_finish"
	StreamEventFinish        StreamEventKind = "finish"
)

// StreamEvent is one element of the ordered sequence a ProviderAdapter's
// stream() yields. Only the fields relevant to Kind are populated.
type StreamEvent struct {
	Kind StreamEventKind

	// StreamStart
	ID    string
	Model string

	// TextDelta, ThinkingDelta
	Delta string

	// ToolCallStart, ToolCallDelta, ToolCallEnd
	ToolCallID   string
	ToolName     string // ToolCallStart only
	ArgsChunk    string // ToolCallDelta only
	FinalizedArg map[string]interface{}

	// StepFinish, Finish
	FinishReason FinishReason
	Usage        Usage
}

// StreamStartEvent builds a StreamStart event.
func StreamStartEvent(id, model string) StreamEvent {
	return StreamEvent{Kind: StreamEventStart, ID: id, Model: model}
}

// TextDeltaEvent builds a TextDelta event.
func TextDeltaEvent(text string) StreamEvent {
	return StreamEvent{Kind: StreamEventTextDelta, Delta: text}
}

// ThinkingDeltaEvent builds a ThinkingDelta event.
func ThinkingDeltaEvent(text string) StreamEvent {
	return StreamEvent{Kind: StreamEventThinkingDelta, Delta: text}
}

// ToolCallStartEvent builds a ToolCallStart event.
func ToolCallStartEvent(id, name string) StreamEvent {
	return StreamEvent{Kind: StreamEventToolCallStart, ToolCallID: id, ToolName: name}
}

// ToolCallDeltaEvent builds a ToolCallDelta event.
func ToolCallDeltaEvent(id, chunk string) StreamEvent {
	return StreamEvent{Kind: StreamEventToolCallDelta, ToolCallID: id, ArgsChunk: chunk}
}

// ToolCallEndEvent builds a ToolCallEnd event.
func ToolCallEndEvent(id string) StreamEvent {
	return StreamEvent{Kind: StreamEventToolCallEnd, ToolCallID: id}
}

// StepFinishEvent builds a synthetic StepFinish boundary event.
func StepFinishEvent(reason FinishReason, usage Usage) StreamEvent {
	return StreamEvent{Kind: StreamEventStepFinish, FinishReason: reason, Usage: usage}
}

// FinishEvent builds the terminal Finish event.
func FinishEvent(reason FinishReason, usage Usage) StreamEvent {
	return StreamEvent{Kind: StreamEventFinish, FinishReason: reason, Usage: usage}
}
