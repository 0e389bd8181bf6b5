package types

// SessionEventKind discriminates the observer-facing SessionEvent union —
// the only surface through which a host application watches a session.
type SessionEventKind string

const (
	SessionEventSessionStart       SessionEventKind = "session_start"
	SessionEventAssistantTextStart SessionEventKind = "assistant_text_start"
	SessionEventAssistantTextDelta SessionEventKind = "assistant_text_delta"
	SessionEventAssistantTextEnd   SessionEventKind = "assistant_text_end"
	SessionEventToolCallStart      SessionEventKind = "tool_call_start"
	SessionEventToolCallEnd        SessionEventKind = "tool_call_end"
	SessionEventContextWarning     SessionEventKind = "context_warning"
	SessionEventLoopDetection      SessionEventKind = "loop_detection"
	SessionEventTurnLimit          SessionEventKind = "turn_limit"
	SessionEventSteeringInjected   SessionEventKind = "steering_injected"
	SessionEventError              SessionEventKind = "error"
	SessionEventSessionEnd         SessionEventKind = "session_end"
)

// TurnLimitReason enumerates why the Session Loop gave up on a turn.
type TurnLimitReason string

const (
	TurnLimitMaxToolRounds TurnLimitReason = "max_tool_rounds"
	TurnLimitMaxTurns      TurnLimitReason = "max_turns"
)

// SessionEvent is a single record published on a Session's event bus.
// Only the fields relevant to Kind are populated.
type SessionEvent struct {
	Kind      SessionEventKind
	SessionID string

	// AssistantTextDelta
	Text string

	// ToolCallStart, ToolCallEnd
	ToolCallID string
	ToolName   string
	ToolArgs   map[string]interface{}
	ToolOutput string
	IsError    bool

	// ContextWarning
	UsagePercent float64

	// LoopDetection, Error
	Reason  string
	Kind2   string // Error.kind (Authentication, RateLimit, ContextLength, ...)
	Message string

	// TurnLimit
	LimitReason TurnLimitReason
}

// SessionStart builds a SessionStart event.
func SessionStart(sessionID string) SessionEvent {
	return SessionEvent{Kind: SessionEventSessionStart, SessionID: sessionID}
}

// SessionEnd builds a SessionEnd event.
func SessionEnd(sessionID string) SessionEvent {
	return SessionEvent{Kind: SessionEventSessionEnd, SessionID: sessionID}
}

// AssistantTextStart builds an AssistantTextStart event.
func AssistantTextStart() SessionEvent {
	return SessionEvent{Kind: SessionEventAssistantTextStart}
}

// AssistantTextDelta builds an AssistantTextDelta event.
func AssistantTextDelta(text string) SessionEvent {
	return SessionEvent{Kind: SessionEventAssistantTextDelta, Text: text}
}

// AssistantTextEnd builds an AssistantTextEnd event.
func AssistantTextEnd() SessionEvent {
	return SessionEvent{Kind: SessionEventAssistantTextEnd}
}

// ToolCallStartEvt builds a ToolCallStart session event.
func ToolCallStartEvt(id, name string, args map[string]interface{}) SessionEvent {
	return SessionEvent{Kind: SessionEventToolCallStart, ToolCallID: id, ToolName: name, ToolArgs: args}
}

// ToolCallEndEvt builds a ToolCallEnd session event.
func ToolCallEndEvt(id, name, output string, isError bool) SessionEvent {
	return SessionEvent{Kind: SessionEventToolCallEnd, ToolCallID: id, ToolName: name, ToolOutput: output, IsError: isError}
}

// ContextWarning builds a ContextWarning event.
func ContextWarning(percent float64) SessionEvent {
	return SessionEvent{Kind: SessionEventContextWarning, UsagePercent: percent}
}

// LoopDetection builds a LoopDetection event.
func LoopDetection(reason string) SessionEvent {
	return SessionEvent{Kind: SessionEventLoopDetection, Reason: reason}
}

// TurnLimit builds a TurnLimit event.
func TurnLimit(reason TurnLimitReason) SessionEvent {
	return SessionEvent{Kind: SessionEventTurnLimit, LimitReason: reason}
}

// SteeringInjected builds a SteeringInjected event.
func SteeringInjected(content string) SessionEvent {
	return SessionEvent{Kind: SessionEventSteeringInjected, Text: content}
}

// ErrorEvt builds an Error event.
func ErrorEvt(kind, message string) SessionEvent {
	return SessionEvent{Kind: SessionEventError, Kind2: kind, Message: message}
}
