// Package types defines the immutable value types shared by every layer of
// the runtime: conversation turns, canonical requests/responses, streaming
// events, and session-observer events.
package types

// TurnKind discriminates the tagged union of history entries.
type TurnKind string

const (
	TurnUser        TurnKind = "user"
	TurnAssistant   TurnKind = "assistant"
	TurnToolResults TurnKind = "tool_results"
	TurnSteering    TurnKind = "steering"
	TurnSystem      TurnKind = "system"
)

// Turn is a single history entry. Exactly the fields relevant to Kind are
// populated; callers should switch on Kind rather than infer it from which
// fields are non-nil.
type Turn struct {
	Kind TurnKind

	// User, Steering
	Content string

	// Assistant
	Parts []Part

	// ToolResults
	Results []ToolResultEntry
}

// ToolResultEntry is one element of a ToolResults turn.
type ToolResultEntry struct {
	ToolCallID string
	Content    string
	IsError    bool
}

// NewUserTurn builds a User turn.
func NewUserTurn(content string) Turn {
	return Turn{Kind: TurnUser, Content: content}
}

// NewSteeringTurn builds a Steering turn.
func NewSteeringTurn(content string) Turn {
	return Turn{Kind: TurnSteering, Content: content}
}

// NewSystemTurn builds the synthetic System turn placed at the head of a
// transcript sent to a provider.
func NewSystemTurn(content string) Turn {
	return Turn{Kind: TurnSystem, Content: content}
}

// NewAssistantTurn builds an Assistant turn from its content parts.
func NewAssistantTurn(parts []Part) Turn {
	return Turn{Kind: TurnAssistant, Parts: parts}
}

// NewToolResultsTurn builds a ToolResults turn.
func NewToolResultsTurn(results []ToolResultEntry) Turn {
	return Turn{Kind: TurnToolResults, Results: results}
}

// HasToolCall reports whether an Assistant turn contains at least one
// ToolCall part.
func (t Turn) HasToolCall() bool {
	for _, p := range t.Parts {
		if p.Kind == PartToolCall {
			return true
		}
	}
	return false
}

// ToolCalls extracts the ToolCall parts of an Assistant turn, in order.
func (t Turn) ToolCalls() []Part {
	var out []Part
	for _, p := range t.Parts {
		if p.Kind == PartToolCall {
			out = append(out, p)
		}
	}
	return out
}

// TextContent concatenates the Text parts of an Assistant turn, or returns
// Content directly for User/Steering/System turns.
func (t Turn) TextContent() string {
	switch t.Kind {
	case TurnUser, TurnSteering, TurnSystem:
		return t.Content
	case TurnAssistant:
		out := ""
		for _, p := range t.Parts {
			if p.Kind == PartText {
				out += p.Text
			}
		}
		return out
	default:
		return ""
	}
}

// PartKind discriminates the Assistant content-part union.
type PartKind string

const (
	PartText             PartKind = "text"
	PartToolCall         PartKind = "tool_call"
	PartThinking         PartKind = "thinking"
	PartRedactedThinking PartKind = "redacted_thinking"
)

// Part is one element of an Assistant turn's content. Only the fields
// relevant to Kind are populated.
type Part struct {
	Kind PartKind

	// Text, Thinking
	Text string

	// Thinking
	Signature string

	// RedactedThinking
	Opaque []byte

	// ToolCall
	ToolCallID string
	ToolName   string
	Args       map[string]interface{}
}

// TextPart builds a Text part.
func TextPart(text string) Part { return Part{Kind: PartText, Text: text} }

// ThinkingPart builds a Thinking part. signature may be empty.
func ThinkingPart(text, signature string) Part {
	return Part{Kind: PartThinking, Text: text, Signature: signature}
}

// RedactedThinkingPart builds a RedactedThinking part from opaque bytes.
func RedactedThinkingPart(opaque []byte) Part {
	return Part{Kind: PartRedactedThinking, Opaque: opaque}
}

// ToolCallPart builds a ToolCall part.
func ToolCallPart(id, name string, args map[string]interface{}) Part {
	return Part{Kind: PartToolCall, ToolCallID: id, ToolName: name, Args: args}
}
