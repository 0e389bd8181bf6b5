// Package toolexec binds a toolprofile.Profile's schema-only tool catalog
// to a concrete execenv.ExecutionEnvironment, filling in each types.Tool's
// Execute field. Neither toolprofile nor execenv can do this themselves:
// toolprofile only knows the wire shape a provider expects, and execenv is
// deliberately kept as an opaque trait with no concrete implementation in
// the core, so the glue between "a tool named read_file" and "call
// ExecutionEnvironment.ReadFile" lives here instead.
package toolexec

import (
	"context"
	"fmt"

	"github.com/digitallysavvy/go-ai/pkg/execenv"
	"github.com/digitallysavvy/go-ai/pkg/toolprofile"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Bind returns profile.Tools with Execute filled in against env, by name.
// A tool name the binder doesn't recognize is left passive (nil Execute)
// rather than causing an error, so a caller can still see its schema
// advertised to the provider even if this binder doesn't implement it.
func Bind(env execenv.ExecutionEnvironment, profile toolprofile.Profile) []types.Tool {
	out := make([]types.Tool, len(profile.Tools))
	for i, t := range profile.Tools {
		if exec, ok := executors[t.Name]; ok {
			t.Execute = exec(env)
		}
		out[i] = t
	}
	return out
}

type executorFactory func(execenv.ExecutionEnvironment) types.ToolExecutor

var executors = map[string]executorFactory{
	"read_file":   readFileExecutor,
	"write_file":  writeFileExecutor,
	"edit_file":   editFileExecutor,
	"apply_patch": applyPatchExecutor,
	"shell":       shellExecutor,
	"grep":        grepExecutor,
	"glob":        globExecutor,
	"list_dir":    listDirExecutor,
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func argInt(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func argBool(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func readFileExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		return env.ReadFile(ctx, argString(args, "path"), argInt(args, "offset"), argInt(args, "limit"))
	}
}

func writeFileExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		path := argString(args, "path")
		if err := env.WriteFile(ctx, path, argString(args, "content")); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote %s", path), nil
	}
}

// editFileExecutor implements the Anthropic/Gemini families'
// exact-match replace: old_string must occur exactly once in the file
// unless replace_all (Anthropic) or expected_replacements (Gemini) says
// otherwise.
func editFileExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		path := argString(args, "file_path")
		content, err := env.ReadFile(ctx, path, 0, 0)
		if err != nil {
			return "", err
		}

		oldStr := argString(args, "old_string")
		newStr := argString(args, "new_string")

		wantCount := argInt(args, "expected_replacements")
		if wantCount == 0 {
			wantCount = 1
		}
		if argBool(args, "replace_all") {
			wantCount = -1 // no uniqueness check
		}

		count := countOccurrences(content, oldStr)
		if wantCount >= 0 && count != wantCount {
			return "", fmt.Errorf("edit_file: old_string occurs %d times in %s, expected %d", count, path, wantCount)
		}
		if count == 0 {
			return "", fmt.Errorf("edit_file: old_string not found in %s", path)
		}

		updated := replaceN(content, oldStr, newStr, wantCount)
		if err := env.WriteFile(ctx, path, updated); err != nil {
			return "", err
		}
		return fmt.Sprintf("edited %s (%d replacement(s))", path, count), nil
	}
}

func countOccurrences(s, sub string) int {
	if sub == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
			i += len(sub) - 1
		}
	}
	return count
}

func replaceN(s, old, new string, n int) string {
	if n < 0 {
		n = -1 // strings.Replace's "replace all" sentinel
	}
	result := make([]byte, 0, len(s))
	remaining := n
	for i := 0; i < len(s); {
		if remaining != 0 && old != "" && i+len(old) <= len(s) && s[i:i+len(old)] == old {
			result = append(result, new...)
			i += len(old)
			if remaining > 0 {
				remaining--
			}
			continue
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// applyPatchExecutor implements the OpenAI family's apply_patch by
// shelling out to the host's patch(1) with the patch text piped in,
// since the core carries no unified-diff parser of its own.
func applyPatchExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		patch := argString(args, "patch")
		command := fmt.Sprintf("patch -p0 <<'TOOLEXEC_EOF'\n%s\nTOOLEXEC_EOF", patch)
		result, err := env.ExecCommand(ctx, command, execenv.ExecCommandOptions{EnvPolicy: execenv.InheritCore})
		if err != nil {
			return "", err
		}
		if result.ExitCode != 0 {
			return "", fmt.Errorf("apply_patch: patch exited %d: %s", result.ExitCode, result.Stderr)
		}
		return result.Stdout, nil
	}
}

func shellExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		result, err := env.ExecCommand(ctx, argString(args, "command"), execenv.ExecCommandOptions{
			TimeoutMs: int64(argInt(args, "timeout_ms")),
			EnvPolicy: execenv.InheritCore,
		})
		if err != nil {
			return "", err
		}
		if result.ExitCode != 0 {
			return fmt.Sprintf("exit %d\nstdout:\n%s\nstderr:\n%s", result.ExitCode, result.Stdout, result.Stderr), nil
		}
		return result.Stdout, nil
	}
}

func grepExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		path := argString(args, "path")
		if path == "" {
			path = "."
		}
		return env.Grep(ctx, argString(args, "pattern"), path, execenv.GrepOptions{CaseSensitive: true})
	}
}

func globExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		path := argString(args, "path")
		if path == "" {
			path = "."
		}
		matches, err := env.Glob(ctx, argString(args, "pattern"), path)
		if err != nil {
			return "", err
		}
		out := ""
		for _, m := range matches {
			out += m + "\n"
		}
		return out, nil
	}
}

func listDirExecutor(env execenv.ExecutionEnvironment) types.ToolExecutor {
	return func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
		depth := argInt(args, "depth")
		entries, err := env.ListDirectory(ctx, argString(args, "path"), depth)
		if err != nil {
			return "", err
		}
		out := ""
		for _, e := range entries {
			kind := "file"
			if e.IsDir {
				kind = "dir"
			}
			out += fmt.Sprintf("%s\t%s\t%d\n", kind, e.Name, e.Size)
		}
		return out, nil
	}
}
