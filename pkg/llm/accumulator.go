// Package llm implements the LLM Request Layer: the Stream Accumulator that
// folds an ordered StreamEvent sequence into a CanonicalResponse, and the
// generate()/stream() entry points that wrap a ProviderAdapter with an
// automatic tool-execution sub-loop.
//
// Grounded on the teacher's pkg/ai/generate.go and pkg/ai/stream.go, and on
// the StreamAccumulator fragment in the strongdm-attractor unifiedllm
// package (a close variant of this same design retrieved alongside the
// teacher), generalized to the richer StreamEvent union this runtime uses
// (explicit ToolCallStart/Delta/End triad, ThinkingDelta, synthetic
// StepFinish).
package llm

import (
	"encoding/json"

	"github.com/digitallysavvy/go-ai/pkg/jsonparser"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Accumulator folds a single round's StreamEvents into a CanonicalResponse.
// Per §4.B, callers must feed it a StreamStart first and a terminal Finish
// last (or call Finalize without one, which records a warning).
type Accumulator struct {
	id    string
	model string

	text           string
	thinking       string
	thinkingSig    string
	toolOrder      []string
	toolNames      map[string]string
	toolArgBuffers map[string]string

	finishReason types.FinishReason
	usage        types.Usage
	warnings     []types.Warning

	sawStart  bool
	sawFinish bool
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		toolNames:      make(map[string]string),
		toolArgBuffers: make(map[string]string),
	}
}

// Process ingests a single StreamEvent in arrival order.
func (a *Accumulator) Process(ev types.StreamEvent) {
	switch ev.Kind {
	case types.StreamEventStart:
		a.sawStart = true
		a.id = ev.ID
		a.model = ev.Model
	case types.StreamEventTextDelta:
		a.text += ev.Delta
	case types.StreamEventThinkingDelta:
		a.thinking += ev.Delta
	case types.StreamEventToolCallStart:
		a.toolOrder = append(a.toolOrder, ev.ToolCallID)
		a.toolNames[ev.ToolCallID] = ev.ToolName
		a.toolArgBuffers[ev.ToolCallID] = ""
	case types.StreamEventToolCallDelta:
		a.toolArgBuffers[ev.ToolCallID] += ev.ArgsChunk
	case types.StreamEventToolCallEnd:
		// Finalization of the argument buffer happens lazily in Response()
		// so that id ordering (§4.B's "ToolCalls in the order their Start
		// events arrived") is derived once, from toolOrder.
	case types.StreamEventStepFinish:
		// Synthetic round boundary; the LLM Request Layer's tool-loop
		// consumes this directly and starts a fresh Accumulator for the
		// next round. Not folded into this round's response.
	case types.StreamEventFinish:
		a.sawFinish = true
		a.finishReason = ev.FinishReason
		a.usage = ev.Usage
	}
}

// Response builds the CanonicalResponse from everything ingested so far,
// per §4.B's ordering and degrade-path rules. Safe to call multiple times.
func (a *Accumulator) Response() types.CanonicalResponse {
	var parts []types.Part
	if a.text != "" {
		parts = append(parts, types.TextPart(a.text))
	}
	if a.thinking != "" {
		parts = append(parts, types.ThinkingPart(a.thinking, a.thinkingSig))
	}

	warnings := append([]types.Warning(nil), a.warnings...)
	for _, id := range a.toolOrder {
		raw := a.toolArgBuffers[id]
		args, ok := parseToolArgs(raw)
		if !ok {
			warnings = append(warnings, types.Warning{
				Type:    "malformed_tool_args",
				Message: "tool call " + id + " had unparseable arguments; degraded to empty object",
			})
		}
		parts = append(parts, types.ToolCallPart(id, a.toolNames[id], args))
	}

	finishReason := a.finishReason
	usage := a.usage
	if !a.sawFinish {
		finishReason = types.FinishStop
		usage = types.Usage{}
		warnings = append(warnings, types.Warning{
			Type:    "truncated_stream",
			Message: "stream ended without a terminal Finish event",
		})
	}

	return types.CanonicalResponse{
		ID:           a.id,
		Model:        a.model,
		Content:      parts,
		FinishReason: finishReason,
		Usage:        usage,
		Warnings:     warnings,
	}
}

// parseToolArgs parses a finalized argument buffer as JSON, attempting
// jsonparser.FixJSON repair on the first failure before degrading to an
// empty object per §4.B.
func parseToolArgs(raw string) (map[string]interface{}, bool) {
	if raw == "" {
		return map[string]interface{}{}, true
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, true
	}
	repaired := jsonparser.FixJSON(raw)
	if err := json.Unmarshal([]byte(repaired), &args); err == nil {
		return args, true
	}
	return map[string]interface{}{}, false
}
