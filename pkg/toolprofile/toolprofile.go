// Package toolprofile catalogs the three provider tool-schema families a
// coding-agent Session chooses between: the set of built-in tool
// definitions (name, description, JSON schema) and the
// supportsParallelToolCalls flag the Session Loop and Tool Dispatcher
// condition on (§4.I, §4.J).
//
// Authored directly from the family descriptions in §6: none of the
// three provider SDKs under pkg/providers/* define a coding-agent's
// built-in tool catalog (anthropic.ToolOptions and its siblings configure
// generic provider features like prompt caching, not read_file/edit_file
// schemas), so there is no teacher code to adapt here — only the
// JSON-schema shape itself, hence stdlib (map[string]interface{}) rather
// than a third-party schema builder.
package toolprofile

import "github.com/digitallysavvy/go-ai/pkg/types"

// Family names one of the three tool-schema families.
type Family string

const (
	FamilyOpenAI    Family = "openai"
	FamilyAnthropic Family = "anthropic"
	FamilyGemini    Family = "gemini"
)

// Profile is everything the Session Loop needs from a provider's tool
// schema family: its catalog of built-in tool definitions and whether
// the provider can execute multiple tool calls from one round in
// parallel.
type Profile struct {
	Family                    Family
	Tools                     []types.Tool
	SupportsParallelToolCalls bool
}

func schemaObject(properties map[string]interface{}, required []string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func prop(kind, description string) map[string]interface{} {
	return map[string]interface{}{"type": kind, "description": description}
}

// readFileTool and its siblings below share the same name/description
// across families; only edit_file's and read_file's schemas vary.
func sharedTools(readFile types.Tool, editFile types.Tool, extra ...types.Tool) []types.Tool {
	out := []types.Tool{
		readFile,
		{
			Name:        "write_file",
			Description: "Write content to a file, creating it (and parent directories) if needed.",
			Parameters: schemaObject(map[string]interface{}{
				"path":    prop("string", "Path of the file to write"),
				"content": prop("string", "Content to write"),
			}, []string{"path", "content"}),
		},
		editFile,
		{
			Name:        "shell",
			Description: "Run a shell command in the working directory.",
			Parameters: schemaObject(map[string]interface{}{
				"command":    prop("string", "Command to execute"),
				"timeout_ms": prop("integer", "Timeout in milliseconds"),
			}, []string{"command"}),
		},
		{
			Name:        "grep",
			Description: "Search file contents for a pattern.",
			Parameters: schemaObject(map[string]interface{}{
				"pattern": prop("string", "Pattern to search for"),
				"path":    prop("string", "Directory or file to search"),
			}, []string{"pattern"}),
		},
		{
			Name:        "glob",
			Description: "Find files matching a glob pattern.",
			Parameters: schemaObject(map[string]interface{}{
				"pattern": prop("string", "Glob pattern"),
				"path":    prop("string", "Base directory"),
			}, []string{"pattern"}),
		},
	}
	return append(out, extra...)
}

// OpenAI returns the OpenAI tool-schema family: read_file, write_file,
// shell, grep, glob, apply_patch (no edit_file; patches replace targeted
// edits).
func OpenAI() Profile {
	readFile := types.Tool{
		Name:        "read_file",
		Description: "Read a file's contents, optionally windowed by offset/limit (1-based line numbers).",
		Parameters: schemaObject(map[string]interface{}{
			"path":   prop("string", "Path of the file to read"),
			"offset": prop("integer", "1-based line number to start from"),
			"limit":  prop("integer", "Maximum number of lines to return"),
		}, []string{"path"}),
	}
	editFile := types.Tool{
		Name:        "apply_patch",
		Description: "Apply a unified-diff-style patch to one or more files.",
		Parameters: schemaObject(map[string]interface{}{
			"patch": prop("string", "The patch text to apply"),
		}, []string{"patch"}),
	}
	return Profile{
		Family:                    FamilyOpenAI,
		Tools:                     sharedTools(readFile, editFile),
		SupportsParallelToolCalls: true,
	}
}

// Anthropic returns the Anthropic tool-schema family: read_file,
// write_file, edit_file, shell, grep, glob (no apply_patch); edit_file
// requires old_string to match exactly one location unless replace_all
// is set.
func Anthropic() Profile {
	readFile := types.Tool{
		Name:        "read_file",
		Description: "Read a file's contents, optionally windowed by offset/limit (1-based line numbers).",
		Parameters: schemaObject(map[string]interface{}{
			"path":   prop("string", "Path of the file to read"),
			"offset": prop("integer", "1-based line number to start from"),
			"limit":  prop("integer", "Maximum number of lines to return"),
		}, []string{"path"}),
	}
	editFile := types.Tool{
		Name: "edit_file",
		Description: "Replace an exact, unique occurrence of old_string with new_string in file_path. " +
			"Fails if old_string is not unique unless replace_all is set.",
		Parameters: schemaObject(map[string]interface{}{
			"file_path":   prop("string", "Path of the file to edit"),
			"old_string":  prop("string", "Exact text to replace; must be unique unless replace_all"),
			"new_string":  prop("string", "Replacement text"),
			"replace_all": prop("boolean", "Replace every occurrence instead of requiring uniqueness"),
		}, []string{"file_path", "old_string", "new_string"}),
	}
	return Profile{
		Family:                    FamilyAnthropic,
		Tools:                     sharedTools(readFile, editFile),
		SupportsParallelToolCalls: true,
	}
}

// Gemini returns the Gemini tool-schema family: read_file (0-based
// offset), write_file, edit_file (expected_replacements count instead of
// a boolean), shell, grep, glob, list_dir.
func Gemini() Profile {
	readFile := types.Tool{
		Name:        "read_file",
		Description: "Read a file's contents, optionally windowed by a 0-based offset/limit.",
		Parameters: schemaObject(map[string]interface{}{
			"path":   prop("string", "Path of the file to read"),
			"offset": prop("integer", "0-based line number to start from"),
			"limit":  prop("integer", "Maximum number of lines to return"),
		}, []string{"path"}),
	}
	editFile := types.Tool{
		Name: "edit_file",
		Description: "Replace old_string with new_string in file_path, expecting exactly " +
			"expected_replacements occurrences (default 1).",
		Parameters: schemaObject(map[string]interface{}{
			"file_path":             prop("string", "Path of the file to edit"),
			"old_string":            prop("string", "Exact text to replace"),
			"new_string":            prop("string", "Replacement text"),
			"expected_replacements": prop("integer", "Number of occurrences expected (default 1)"),
		}, []string{"file_path", "old_string", "new_string"}),
	}
	listDir := types.Tool{
		Name:        "list_dir",
		Description: "List directory entries up to a given depth.",
		Parameters: schemaObject(map[string]interface{}{
			"path":  prop("string", "Directory to list"),
			"depth": prop("integer", "Maximum recursion depth"),
		}, []string{"path"}),
	}
	return Profile{
		Family:                    FamilyGemini,
		Tools:                     sharedTools(readFile, editFile, listDir),
		SupportsParallelToolCalls: false,
	}
}

// ForFamily returns the catalog for the named family, or the zero Profile
// and false if name doesn't match one of the three known families.
func ForFamily(f Family) (Profile, bool) {
	switch f {
	case FamilyOpenAI:
		return OpenAI(), true
	case FamilyAnthropic:
		return Anthropic(), true
	case FamilyGemini:
		return Gemini(), true
	default:
		return Profile{}, false
	}
}
