package main

import (
	"context"
	"fmt"
	"io"

	"github.com/digitallysavvy/go-ai/pkg/provider"
	providertypes "github.com/digitallysavvy/go-ai/pkg/provider/types"
	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/providers/openai"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// openAIAdapter wraps the teacher's pkg/providers/openai.LanguageModel as a
// provideradapter.Adapter. Grounded on examples/provideradapter-openai's
// Adapter, condensed for this binary's own use since that file is a
// non-importable `package main` reference.
type openAIAdapter struct {
	model *openai.LanguageModel
}

func newOpenAIAdapter(apiKey, modelID string) *openAIAdapter {
	p := openai.New(openai.Config{APIKey: apiKey})
	return &openAIAdapter{model: openai.NewLanguageModel(p, modelID)}
}

func (a *openAIAdapter) Close() error { return nil }

func (a *openAIAdapter) Complete(ctx context.Context, req types.CanonicalRequest) (types.CanonicalResponse, error) {
	opts, err := a.toGenerateOptions(req)
	if err != nil {
		return types.CanonicalResponse{}, err
	}
	result, err := a.model.DoGenerate(ctx, opts)
	if err != nil {
		return types.CanonicalResponse{}, err
	}
	return fromGenerateResult(result), nil
}

func (a *openAIAdapter) Stream(ctx context.Context, req types.CanonicalRequest) (provideradapter.Stream, error) {
	opts, err := a.toGenerateOptions(req)
	if err != nil {
		return nil, err
	}
	ts, err := a.model.DoStream(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &openAIStream{ts: ts, model: a.model.ModelID()}, nil
}

func (a *openAIAdapter) toGenerateOptions(req types.CanonicalRequest) (*provider.GenerateOptions, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := providertypes.Prompt{System: req.System}
	if req.Prompt != "" {
		prompt.Text = req.Prompt
	} else {
		msgs, err := toMessages(req.Messages)
		if err != nil {
			return nil, err
		}
		prompt.Messages = msgs
	}

	return &provider.GenerateOptions{
		Prompt:        prompt,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
		TopP:          req.TopP,
		StopSequences: req.Stop,
		Tools:         toProviderTools(req.Tools),
		ToolChoice:    toToolChoice(req.ToolChoice),
	}, nil
}

func toMessages(turns []types.Turn) ([]providertypes.Message, error) {
	out := make([]providertypes.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Kind {
		case types.TurnSystem:
			continue // folded into Prompt.System by the caller
		case types.TurnUser, types.TurnSteering:
			out = append(out, providertypes.Message{
				Role:    providertypes.RoleUser,
				Content: []providertypes.ContentPart{providertypes.TextContent{Text: turn.Content}},
			})
		case types.TurnAssistant:
			parts := make([]providertypes.ContentPart, 0, len(turn.Parts))
			for _, p := range turn.Parts {
				if p.Kind == types.PartText {
					parts = append(parts, providertypes.TextContent{Text: p.Text})
				}
			}
			out = append(out, providertypes.Message{Role: providertypes.RoleAssistant, Content: parts})
		case types.TurnToolResults:
			parts := make([]providertypes.ContentPart, 0, len(turn.Results))
			for _, r := range turn.Results {
				tr := providertypes.ToolResultContent{ToolCallID: r.ToolCallID, Result: r.Content}
				if r.IsError {
					tr.Error = r.Content
				}
				parts = append(parts, tr)
			}
			out = append(out, providertypes.Message{Role: providertypes.RoleTool, Content: parts})
		default:
			return nil, fmt.Errorf("openai adapter: unsupported turn kind %q", turn.Kind)
		}
	}
	return out, nil
}

func toProviderTools(defs []types.ToolDefinition) []providertypes.Tool {
	out := make([]providertypes.Tool, len(defs))
	for i, d := range defs {
		out[i] = providertypes.Tool{Name: d.Name, Description: d.Description, Parameters: d.Parameters}
	}
	return out
}

func toToolChoice(tc types.ToolChoice) providertypes.ToolChoice {
	switch tc.Type {
	case types.ToolChoiceNone:
		return providertypes.ToolChoice{Type: providertypes.ToolChoiceNone}
	case types.ToolChoiceRequired:
		return providertypes.ToolChoice{Type: providertypes.ToolChoiceRequired}
	case types.ToolChoiceNamed:
		return providertypes.ToolChoice{Type: providertypes.ToolChoiceTool, ToolName: tc.Name}
	default:
		return providertypes.ToolChoice{Type: providertypes.ToolChoiceAuto}
	}
}

func fromGenerateResult(r *providertypes.GenerateResult) types.CanonicalResponse {
	var parts []types.Part
	if r.Text != "" {
		parts = append(parts, types.Part{Kind: types.PartText, Text: r.Text})
	}
	for _, tc := range r.ToolCalls {
		parts = append(parts, types.Part{Kind: types.PartToolCall, ToolCallID: tc.ID, ToolName: tc.ToolName, Args: tc.Arguments})
	}
	return types.CanonicalResponse{
		Content:      parts,
		FinishReason: fromFinishReason(r.FinishReason),
		Usage:        fromUsage(r.Usage),
	}
}

func fromFinishReason(fr providertypes.FinishReason) types.FinishReason {
	switch fr {
	case providertypes.FinishReasonLength:
		return types.FinishLength
	case providertypes.FinishReasonContentFilter:
		return types.FinishContentFilter
	case providertypes.FinishReasonToolCalls:
		return types.FinishToolCalls
	case providertypes.FinishReasonError:
		return types.FinishError
	default:
		return types.FinishStop
	}
}

func fromUsage(u providertypes.Usage) types.Usage {
	var out types.Usage
	if u.InputTokens != nil {
		out.InputTokens = *u.InputTokens
	}
	if u.OutputTokens != nil {
		out.OutputTokens = *u.OutputTokens
	}
	if u.TotalTokens != nil {
		out.TotalTokens = *u.TotalTokens
	}
	return out
}

// openAIStream adapts provider.TextStream onto provideradapter.Stream. The
// wrapped model's DoStream never assembles streamed tool-call deltas into
// complete calls (a standing TODO on its chunk-parse site), so this
// surfaces text and finish events only; non-streamed Complete calls still
// return tool calls in full. A host wanting tool calls while "streaming"
// should wrap this adapter with middleware.SimulateStreamingMiddleware.
type openAIStream struct {
	ts        provider.TextStream
	model     string
	startSent bool
}

func (s *openAIStream) Next(ctx context.Context) (types.StreamEvent, bool, error) {
	if !s.startSent {
		s.startSent = true
		return types.StreamStartEvent("", s.model), true, nil
	}

	chunk, err := s.ts.Next()
	if err != nil {
		if err == io.EOF {
			return types.StreamEvent{}, false, nil
		}
		return types.StreamEvent{}, false, err
	}
	if chunk == nil {
		return types.StreamEvent{}, false, nil
	}

	switch chunk.Type {
	case provider.ChunkTypeText:
		return types.TextDeltaEvent(chunk.Text), true, nil
	case provider.ChunkTypeFinish:
		usage := types.Usage{}
		if chunk.Usage != nil {
			usage = fromUsage(*chunk.Usage)
		}
		return types.FinishEvent(fromFinishReason(chunk.FinishReason), usage), true, nil
	case provider.ChunkTypeUsage:
		return s.Next(ctx)
	case provider.ChunkTypeError:
		return types.StreamEvent{}, false, fmt.Errorf("openai stream error")
	default:
		return s.Next(ctx)
	}
}
