// Package tooldispatch implements the Tool Dispatcher (component I):
// routes an ordered list of model-emitted tool calls to their registered
// executors, sequentially or in parallel, preserving input order in the
// result slice regardless of completion order.
//
// Grounded on the strongdm-attractor agent-loop Session's
// executeToolCalls/executeToolCallsSequential/executeToolCallsParallel
// split (profile-driven parallel-vs-sequential choice, index-preserving
// WaitGroup fan-out) and the teacher's pkg/agent/toolloop.go executeTools
// lookup-then-execute pipeline. The parallel path is upgraded from the
// attractor's raw goroutine-per-call to golang.org/x/sync/errgroup, which
// the teacher's go.mod does not pull in but the rest of the retrieved
// pack's concurrency idiom favors for bounded fan-out over result slices.
// Arguments are validated against each tool's JSON Schema via pkg/schema
// (backed by github.com/santhosh-tekuri/jsonschema/v5) before Execute
// runs, completing a validation path the teacher's own pkg/schema left
// as a TODO stub.
package tooldispatch

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/digitallysavvy/go-ai/pkg/eventbus"
	"github.com/digitallysavvy/go-ai/pkg/schema"
	"github.com/digitallysavvy/go-ai/pkg/truncate"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Options configures a single Dispatch call.
type Options struct {
	SessionID string
	Tools     map[string]types.Tool // registry snapshot taken at turn start, per §4.I
	Parallel  bool
	Limits    map[string]truncate.Limits // per-tool output limits, keyed by tool name
	Bus       *eventbus.Bus              // optional; nil disables SessionEvent emission
}

// Dispatch routes every call in calls to its registered executor and
// returns results in the same order as calls, regardless of completion
// order in parallel mode.
func Dispatch(ctx context.Context, opts Options, calls []types.ToolCall) []types.ToolResult {
	results := make([]types.ToolResult, len(calls))

	if opts.Parallel && len(calls) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, call := range calls {
			i, call := i, call
			g.Go(func() error {
				results[i] = executeSingle(gctx, opts, call)
				return nil
			})
		}
		_ = g.Wait() // executeSingle never returns an error; failures are encoded in ToolResult
		return results
	}

	for i, call := range calls {
		results[i] = executeSingle(ctx, opts, call)
	}
	return results
}

func executeSingle(ctx context.Context, opts Options, call types.ToolCall) (result types.ToolResult) {
	if opts.Bus != nil {
		opts.Bus.Publish(types.ToolCallStartEvt(call.ID, call.ToolName, call.Arguments))
	}

	tool, ok := opts.Tools[call.ToolName]
	if !ok || !tool.IsActive() {
		msg := "Unknown tool: " + call.ToolName + ". Available: " + availableNames(opts.Tools)
		return finish(ctx, opts, call, msg, true)
	}

	if call.Arguments == nil {
		return finish(ctx, opts, call, "Invalid tool arguments", true)
	}

	if schemaMap, ok := tool.Parameters.(map[string]interface{}); ok && len(schemaMap) > 0 {
		if err := schema.NewJSONSchema(schemaMap).Validate(call.Arguments); err != nil {
			return finish(ctx, opts, call, "Invalid arguments for "+call.ToolName+": "+err.Error(), true)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = finish(ctx, opts, call, "Tool error in "+call.ToolName+": "+panicMessage(r), true)
		}
	}()

	out, err := tool.Execute(ctx, call.Arguments, types.ToolExecutionOptions{ToolCallID: call.ID})
	if err != nil {
		return finish(ctx, opts, call, "Tool error in "+call.ToolName+": "+err.Error(), true)
	}
	return finish(ctx, opts, call, out, false)
}

func finish(ctx context.Context, opts Options, call types.ToolCall, output string, isError bool) types.ToolResult {
	if opts.Bus != nil {
		opts.Bus.Publish(types.ToolCallEndEvt(call.ID, call.ToolName, output, isError))
	}

	content := output
	if !isError {
		content = truncate.Apply(output, opts.Limits[call.ToolName])
	}
	return types.ToolResult{ToolCallID: call.ID, ToolName: call.ToolName, Content: content, IsError: isError}
}

func availableNames(tools map[string]types.Tool) string {
	names := make([]string, 0, len(tools))
	for name, t := range tools {
		if t.IsActive() {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func panicMessage(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "panic during tool execution"
}
