package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/digitallysavvy/go-ai/pkg/execenv"
)

// localEnv implements execenv.ExecutionEnvironment against the real
// filesystem and shell of the host this binary runs on. Grounded on
// examples/execenv-local/local.go's LocalEnv, condensed for this binary's
// own use since that file is a non-importable `package main` reference.
type localEnv struct {
	workingDirectory string
}

func newLocalEnv(workingDirectory string) *localEnv {
	return &localEnv{workingDirectory: workingDirectory}
}

func (e *localEnv) Initialize(ctx context.Context) error {
	return os.MkdirAll(e.workingDirectory, 0o755)
}

func (e *localEnv) Cleanup(ctx context.Context) error { return nil }

func (e *localEnv) WorkingDirectory() string { return e.workingDirectory }
func (e *localEnv) Platform() string         { return runtime.GOOS }
func (e *localEnv) OSVersion() string        { return runtime.Version() }

func (e *localEnv) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.workingDirectory, path)
}

func (e *localEnv) ReadFile(ctx context.Context, path string, offset, limit int) (string, error) {
	raw, err := os.ReadFile(e.resolve(path))
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(raw), "\n")

	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}
	end := len(lines)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		fmt.Fprintf(&b, "%d\t%s\n", i+1, lines[i])
	}
	return b.String(), nil
}

func (e *localEnv) WriteFile(ctx context.Context, path, content string) error {
	full := e.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}

func (e *localEnv) DeleteFile(ctx context.Context, path string) error {
	return os.Remove(e.resolve(path))
}

func (e *localEnv) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(e.resolve(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *localEnv) ListDirectory(ctx context.Context, path string, depth int) ([]execenv.DirEntry, error) {
	if depth <= 0 {
		depth = 1
	}
	var out []execenv.DirEntry
	root := e.resolve(path)
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || p == root {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if strings.Count(rel, string(filepath.Separator))+1 > depth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		entry := execenv.DirEntry{Name: rel, IsDir: info.IsDir()}
		if !info.IsDir() {
			entry.Size = info.Size()
		}
		out = append(out, entry)
		return nil
	})
	return out, err
}

func (e *localEnv) ExecCommand(ctx context.Context, command string, opts execenv.ExecCommandOptions) (execenv.ExecResult, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if opts.TimeoutMs > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	if opts.Cwd != "" {
		cmd.Dir = e.resolve(opts.Cwd)
	} else {
		cmd.Dir = e.workingDirectory
	}
	cmd.Env = execenv.FilterEnv(opts.EnvPolicy, os.Environ(), opts.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := execenv.ExecResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration.Milliseconds(),
		TimedOut:   runCtx.Err() == context.DeadlineExceeded,
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil && !result.TimedOut {
		return result, err
	}
	return result, nil
}

func (e *localEnv) Grep(ctx context.Context, pattern, path string, opts execenv.GrepOptions) (string, error) {
	args := []string{"-rn"}
	if !opts.CaseSensitive {
		args = append(args, "-i")
	}
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-C%d", opts.ContextLines))
	}
	if opts.IncludePattern != "" {
		args = append(args, "--include="+opts.IncludePattern)
	}
	args = append(args, pattern, e.resolve(path))

	cmd := exec.CommandContext(ctx, "grep", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	_ = cmd.Run() // grep exits non-zero on "no matches"; empty output is a valid result

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if opts.MaxResults > 0 && len(lines) > opts.MaxResults {
		lines = lines[:opts.MaxResults]
	}
	return strings.Join(lines, "\n"), nil
}

func (e *localEnv) Glob(ctx context.Context, pattern, path string) ([]string, error) {
	return filepath.Glob(filepath.Join(e.resolve(path), pattern))
}
