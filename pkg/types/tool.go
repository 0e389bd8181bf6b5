package types

import "context"

// ToolExecutor runs a tool against parsed arguments and the active
// execution environment handle carried in ToolExecutionOptions.
type ToolExecutor func(ctx context.Context, args map[string]interface{}, opts ToolExecutionOptions) (string, error)

// ToolExecutionOptions carries per-call context through to an executor,
// mirroring the teacher's provider/types.ToolExecutionOptions.
type ToolExecutionOptions struct {
	ToolCallID string
	Usage      *Usage
	Metadata   map[string]interface{}
}

// Tool is a named, schema-described capability the model may call. A Tool
// with a nil Execute is passive: the runtime returns the call to the
// caller rather than running it automatically.
type Tool struct {
	Name        string
	Description string
	Parameters  interface{} // JSON schema, typically map[string]interface{}
	Execute     ToolExecutor

	// ProviderExecuted marks a tool that a provider runs on its own side
	// (e.g. Anthropic's built-in tool-search or web-search); such a tool
	// is treated as passive by the dispatcher regardless of Execute.
	ProviderExecuted bool
}

// IsActive reports whether the runtime should execute this tool itself.
func (t Tool) IsActive() bool {
	return t.Execute != nil && !t.ProviderExecuted
}

// ToolDefinition is the wire-shaped subset of Tool sent to a provider.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  interface{}
}

// ToolCall is a single invocation the model has requested.
type ToolCall struct {
	ID        string
	ToolName  string
	Arguments map[string]interface{}
}

// ToolResult is the outcome of dispatching a ToolCall.
type ToolResult struct {
	ToolCallID string
	ToolName   string
	Content    string
	IsError    bool
}

// ToolChoiceType enumerates how the model should pick a tool.
type ToolChoiceType string

const (
	ToolChoiceAuto     ToolChoiceType = "auto"
	ToolChoiceNone     ToolChoiceType = "none"
	ToolChoiceRequired ToolChoiceType = "required"
	ToolChoiceNamed    ToolChoiceType = "named"
)

// ToolChoice specifies tool-selection policy for a request.
type ToolChoice struct {
	Type ToolChoiceType
	Name string // populated only when Type == ToolChoiceNamed
}

// AutoToolChoice lets the model decide whether to call tools.
func AutoToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceAuto} }

// NoneToolChoice prevents tool calls.
func NoneToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceNone} }

// RequiredToolChoice forces at least one tool call.
func RequiredToolChoice() ToolChoice { return ToolChoice{Type: ToolChoiceRequired} }

// NamedToolChoice forces a specific tool.
func NamedToolChoice(name string) ToolChoice {
	return ToolChoice{Type: ToolChoiceNamed, Name: name}
}
