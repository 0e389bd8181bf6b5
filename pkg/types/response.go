package types

// CanonicalResponse is the provider-agnostic result of a complete() call,
// or the folded result of a stream() call once accumulated.
type CanonicalResponse struct {
	ID           string
	Model        string
	Content      []Part
	FinishReason FinishReason
	Usage        Usage
	Warnings     []Warning

	// StepResults records one entry per round of an internal tool-loop
	// (populated by the LLM Request Layer's generate(); empty for a bare
	// complete()/accumulated stream()).
	StepResults []StepResult

	ProviderMetadata map[string]interface{}
}

// StepResult captures one round of a generate() tool-execution loop.
type StepResult struct {
	StepNumber   int
	Text         string
	ToolCalls    []ToolCall
	ToolResults  []ToolResult
	FinishReason FinishReason
	Usage        Usage
	Warnings     []Warning
}

// TextContent concatenates the Text parts of Content, in order.
func (r CanonicalResponse) TextContent() string {
	out := ""
	for _, p := range r.Content {
		if p.Kind == PartText {
			out += p.Text
		}
	}
	return out
}

// ToolCallParts extracts the ToolCall parts of Content, in order.
func (r CanonicalResponse) ToolCallParts() []Part {
	var out []Part
	for _, p := range r.Content {
		if p.Kind == PartToolCall {
			out = append(out, p)
		}
	}
	return out
}

// GenerateResult is the return value of the LLM Request Layer's generate().
type GenerateResult struct {
	Response   CanonicalResponse
	Steps      []StepResult
	TotalUsage Usage
	Text       string
	ToolCalls  []ToolCall
}
