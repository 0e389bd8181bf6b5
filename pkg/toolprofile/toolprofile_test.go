package toolprofile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

func toolNames(p Profile) []string {
	names := make([]string, len(p.Tools))
	for i, t := range p.Tools {
		names[i] = t.Name
	}
	return names
}

func findTool(t *testing.T, p Profile, name string) types.Tool {
	t.Helper()
	for _, tool := range p.Tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("profile %s has no tool named %s", p.Family, name)
	return types.Tool{}
}

func schemaOf(t *testing.T, tool types.Tool) (properties map[string]interface{}, required []string) {
	t.Helper()
	schema, ok := tool.Parameters.(map[string]interface{})
	require.True(t, ok, "tool %s parameters must be a JSON schema object", tool.Name)
	properties, _ = schema["properties"].(map[string]interface{})
	for _, r := range schema["required"].([]string) {
		required = append(required, r)
	}
	return properties, required
}

func TestOpenAI_HasApplyPatchNoEditFile(t *testing.T) {
	p := OpenAI()
	names := toolNames(p)
	require.Contains(t, names, "apply_patch")
	require.NotContains(t, names, "edit_file")
	require.True(t, p.SupportsParallelToolCalls)
}

func TestAnthropic_EditFileRequiresOldStringUniqueness(t *testing.T) {
	p := Anthropic()
	names := toolNames(p)
	require.Contains(t, names, "edit_file")
	require.NotContains(t, names, "apply_patch")

	editFile := findTool(t, p, "edit_file")
	properties, required := schemaOf(t, editFile)
	require.Contains(t, required, "old_string")
	require.Contains(t, properties, "replace_all")
	require.NotContains(t, properties, "expected_replacements")
}

func TestGemini_EditFileUsesExpectedReplacementsAndListDir(t *testing.T) {
	p := Gemini()
	names := toolNames(p)
	require.Contains(t, names, "edit_file")
	require.Contains(t, names, "list_dir")
	require.False(t, p.SupportsParallelToolCalls)

	editFile := findTool(t, p, "edit_file")
	properties, _ := schemaOf(t, editFile)
	require.Contains(t, properties, "expected_replacements")
	require.NotContains(t, properties, "replace_all")

	readFile := findTool(t, p, "read_file")
	_, _ = schemaOf(t, readFile)
}

func TestForFamily_UnknownFamilyReturnsFalse(t *testing.T) {
	_, ok := ForFamily("bogus")
	require.False(t, ok)
}

func TestForFamily_KnownFamiliesResolve(t *testing.T) {
	for _, f := range []Family{FamilyOpenAI, FamilyAnthropic, FamilyGemini} {
		p, ok := ForFamily(f)
		require.True(t, ok)
		require.Equal(t, f, p.Family)
		require.NotEmpty(t, p.Tools)
	}
}
