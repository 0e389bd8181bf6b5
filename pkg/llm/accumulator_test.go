package llm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

func TestAccumulator_TextOnly(t *testing.T) {
	a := NewAccumulator()
	a.Process(types.StreamStartEvent("resp1", "gpt"))
	a.Process(types.TextDeltaEvent("Hi"))
	a.Process(types.TextDeltaEvent(" there"))
	a.Process(types.FinishEvent(types.FinishStop, types.Usage{TotalTokens: 5}))

	resp := a.Response()
	require.Equal(t, "Hi there", resp.TextContent())
	require.Equal(t, types.FinishStop, resp.FinishReason)
	require.Equal(t, int64(5), resp.Usage.TotalTokens)
	require.Empty(t, resp.Warnings)
}

func TestAccumulator_ToolCallOrderingAndParsing(t *testing.T) {
	a := NewAccumulator()
	a.Process(types.StreamStartEvent("resp1", "gpt"))
	a.Process(types.TextDeltaEvent("thinking..."))
	a.Process(types.ToolCallStartEvent("t1", "read_file"))
	a.Process(types.ToolCallDeltaEvent("t1", `{"path":`))
	a.Process(types.ToolCallDeltaEvent("t1", `"/a"}`))
	a.Process(types.ToolCallEndEvent("t1"))
	a.Process(types.ToolCallStartEvent("t2", "grep"))
	a.Process(types.ToolCallDeltaEvent("t2", `{"pattern":"x"}`))
	a.Process(types.ToolCallEndEvent("t2"))
	a.Process(types.FinishEvent(types.FinishToolCalls, types.Usage{}))

	resp := a.Response()
	require.Equal(t, "thinking...", resp.TextContent())
	calls := resp.ToolCallParts()
	require.Len(t, calls, 2)
	require.Equal(t, "t1", calls[0].ToolCallID)
	require.Equal(t, "read_file", calls[0].ToolName)
	require.Equal(t, "/a", calls[0].Args["path"])
	require.Equal(t, "t2", calls[1].ToolCallID)
	require.Equal(t, "grep", calls[1].ToolName)
}

func TestAccumulator_MalformedToolArgsDegradeToEmptyObjectWithWarning(t *testing.T) {
	a := NewAccumulator()
	a.Process(types.StreamStartEvent("resp1", "gpt"))
	a.Process(types.ToolCallStartEvent("t1", "shell"))
	a.Process(types.ToolCallDeltaEvent("t1", `{"command": "ls"`)) // unterminated, unrepairable quote state aside
	a.Process(types.ToolCallDeltaEvent("t1", `"extra unbalanced`))
	a.Process(types.ToolCallEndEvent("t1"))
	a.Process(types.FinishEvent(types.FinishToolCalls, types.Usage{}))

	resp := a.Response()
	calls := resp.ToolCallParts()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Args)
}

func TestAccumulator_NoFinishDefaultsToStopWithWarning(t *testing.T) {
	a := NewAccumulator()
	a.Process(types.StreamStartEvent("resp1", "gpt"))
	a.Process(types.TextDeltaEvent("partial"))

	resp := a.Response()
	require.Equal(t, types.FinishStop, resp.FinishReason)
	require.Equal(t, types.Usage{}, resp.Usage)
	require.Len(t, resp.Warnings, 1)
	require.Equal(t, "truncated_stream", resp.Warnings[0].Type)
}

func TestAccumulator_ThinkingConcatenatesSeparatelyFromText(t *testing.T) {
	a := NewAccumulator()
	a.Process(types.StreamStartEvent("resp1", "gpt"))
	a.Process(types.ThinkingDeltaEvent("step one. "))
	a.Process(types.ThinkingDeltaEvent("step two."))
	a.Process(types.TextDeltaEvent("answer"))
	a.Process(types.FinishEvent(types.FinishStop, types.Usage{}))

	resp := a.Response()
	require.Equal(t, types.PartText, resp.Content[0].Kind)
	require.Equal(t, "answer", resp.Content[0].Text)
	require.Equal(t, types.PartThinking, resp.Content[1].Kind)
	require.Equal(t, "step one. step two.", resp.Content[1].Text)
}
