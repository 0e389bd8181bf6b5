package llm

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	sdkerrors "github.com/digitallysavvy/go-ai/pkg/errors"
	"github.com/digitallysavvy/go-ai/pkg/retry"
	"github.com/digitallysavvy/go-ai/pkg/types"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
)

// GenerateOptions configures a blocking generate() call, mirroring the
// teacher's GenerateTextOptions but built against the canonical request
// shape instead of a provider-bound LanguageModel.
type GenerateOptions struct {
	Adapter provideradapter.Adapter
	Request types.CanonicalRequest

	// Tools, keyed by name, available for the internal tool-execution
	// sub-loop. A tool with a nil Execute is passive.
	Tools map[string]types.Tool

	// MaxToolRounds bounds the internal sub-loop; default 10 per §4.D.
	MaxToolRounds int

	RetryConfig retry.Config

	// RateLimiter throttles calls into Adapter.Complete, one token per
	// attempt (including retries). Nil disables limiting.
	RateLimiter *rate.Limiter
}

const defaultMaxToolRounds = 10

// Generate is the LLM Request Layer's blocking entry point (§4.D).
func Generate(ctx context.Context, opts GenerateOptions) (types.GenerateResult, error) {
	if err := opts.Request.Validate(); err != nil {
		return types.GenerateResult{}, &sdkerrors.ValidationError{Message: err.Error()}
	}

	maxRounds := opts.MaxToolRounds
	if maxRounds == 0 {
		maxRounds = defaultMaxToolRounds
	}
	retryCfg := opts.RetryConfig
	if retryCfg.MaxRetries == 0 && retryCfg.InitialDelay == 0 {
		retryCfg = retry.DefaultConfig()
	}

	req := normalizeRequest(opts.Request)

	var steps []types.StepResult
	var totalUsage types.Usage

	for round := 0; round < maxRounds; round++ {
		resultAny, err := retry.Do(ctx, retryCfg, func(ctx context.Context) (interface{}, error) {
			if opts.RateLimiter != nil {
				if werr := opts.RateLimiter.Wait(ctx); werr != nil {
					return nil, werr
				}
			}
			return opts.Adapter.Complete(ctx, req)
		})
		if err != nil {
			return types.GenerateResult{}, err
		}
		resp := resultAny.(types.CanonicalResponse)

		toolCalls := toolCallsOf(resp)
		step := types.StepResult{
			StepNumber:   round + 1,
			Text:         resp.TextContent(),
			ToolCalls:    toolCalls,
			FinishReason: resp.FinishReason,
			Usage:        resp.Usage,
			Warnings:     resp.Warnings,
		}
		totalUsage = totalUsage.Add(resp.Usage)

		allPassive := true
		for _, tc := range toolCalls {
			if t, ok := opts.Tools[tc.ToolName]; ok && t.IsActive() {
				allPassive = false
				break
			}
		}

		if len(toolCalls) == 0 || allPassive || round == maxRounds-1 {
			steps = append(steps, step)
			return finalizeGenerate(resp, steps, totalUsage), nil
		}

		toolResults := executeToolsLocal(ctx, opts.Tools, toolCalls)
		step.ToolResults = toolResults
		steps = append(steps, step)

		req.Messages = append(req.Messages, types.NewAssistantTurn(resp.Content))
		var entries []types.ToolResultEntry
		for _, tr := range toolResults {
			entries = append(entries, types.ToolResultEntry{
				ToolCallID: tr.ToolCallID,
				Content:    tr.Content,
				IsError:    tr.IsError,
			})
		}
		req.Messages = append(req.Messages, types.NewToolResultsTurn(entries))
	}

	// Unreachable: the loop always returns by round == maxRounds-1.
	return types.GenerateResult{}, nil
}

func normalizeRequest(req types.CanonicalRequest) types.CanonicalRequest {
	out := req
	if out.Prompt != "" {
		out.Messages = []types.Turn{types.NewUserTurn(out.Prompt)}
		out.Prompt = ""
	}
	if out.System != "" {
		out.Messages = append([]types.Turn{types.NewSystemTurn(out.System)}, out.Messages...)
	}
	return out
}

func toolCallsOf(resp types.CanonicalResponse) []types.ToolCall {
	var out []types.ToolCall
	for _, p := range resp.ToolCallParts() {
		out = append(out, types.ToolCall{ID: p.ToolCallID, ToolName: p.ToolName, Arguments: p.Args})
	}
	return out
}

func finalizeGenerate(resp types.CanonicalResponse, steps []types.StepResult, totalUsage types.Usage) types.GenerateResult {
	return types.GenerateResult{
		Response:   resp,
		Steps:      steps,
		TotalUsage: totalUsage,
		Text:       resp.TextContent(),
		ToolCalls:  toolCallsOf(resp),
	}
}

// executeToolsLocal runs active tools concurrently, mirroring the
// teacher's executeToolsConcurrently goroutine-per-call shape, returning
// results in input order regardless of completion order.
func executeToolsLocal(ctx context.Context, tools map[string]types.Tool, calls []types.ToolCall) []types.ToolResult {
	results := make([]types.ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, tc types.ToolCall) {
			defer wg.Done()
			results[idx] = executeOne(ctx, tools, tc)
		}(i, call)
	}
	wg.Wait()
	return results
}

func executeOne(ctx context.Context, tools map[string]types.Tool, tc types.ToolCall) (result types.ToolResult) {
	result = types.ToolResult{ToolCallID: tc.ID, ToolName: tc.ToolName}
	tool, ok := tools[tc.ToolName]
	if !ok || !tool.IsActive() {
		result.Content = "Unknown tool: " + tc.ToolName
		result.IsError = true
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result.IsError = true
			result.Content = "Tool error in " + tc.ToolName + ": " + sdkerrors.AsError(r).Error()
		}
	}()

	out, err := tool.Execute(ctx, tc.Arguments, types.ToolExecutionOptions{ToolCallID: tc.ID})
	if err != nil {
		result.IsError = true
		result.Content = "Tool error in " + tc.ToolName + ": " + err.Error()
		return result
	}
	result.Content = out
	return result
}
