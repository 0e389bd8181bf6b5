package testutil

import (
	"context"
	"sync"

	"github.com/digitallysavvy/go-ai/pkg/execenv"
)

// MockExecutionEnvironment is a scriptable execenv.ExecutionEnvironment
// for exercising the built-in tool implementations and Tool Dispatcher
// without touching a real filesystem or spawning real processes. Mirrors
// MockAdapter's Func-override-with-default shape.
type MockExecutionEnvironment struct {
	ReadFileFunc      func(ctx context.Context, path string, offset, limit int) (string, error)
	WriteFileFunc     func(ctx context.Context, path, content string) error
	DeleteFileFunc    func(ctx context.Context, path string) error
	FileExistsFunc    func(ctx context.Context, path string) (bool, error)
	ListDirectoryFunc func(ctx context.Context, path string, depth int) ([]execenv.DirEntry, error)
	ExecCommandFunc   func(ctx context.Context, command string, opts execenv.ExecCommandOptions) (execenv.ExecResult, error)
	GrepFunc          func(ctx context.Context, pattern, path string, opts execenv.GrepOptions) (string, error)
	GlobFunc          func(ctx context.Context, pattern, path string) ([]string, error)

	Cwd     string
	OS      string
	Version string

	mu               sync.Mutex
	Files            map[string]string
	InitializeCalls  int
	CleanupCalls     int
	WriteFileCalls   []string
	DeleteFileCalls  []string
	ExecCommandCalls []string
}

// NewMockExecutionEnvironment returns a MockExecutionEnvironment backed by
// an in-memory file map, seeded with files.
func NewMockExecutionEnvironment(files map[string]string) *MockExecutionEnvironment {
	if files == nil {
		files = make(map[string]string)
	}
	return &MockExecutionEnvironment{Files: files, Cwd: "/workspace", OS: "linux", Version: "mock"}
}

func (m *MockExecutionEnvironment) ReadFile(ctx context.Context, path string, offset, limit int) (string, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(ctx, path, offset, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.Files[path]
	if !ok {
		return "", &execenvNotFoundError{path: path}
	}
	return content, nil
}

func (m *MockExecutionEnvironment) WriteFile(ctx context.Context, path, content string) error {
	m.mu.Lock()
	m.WriteFileCalls = append(m.WriteFileCalls, path)
	m.mu.Unlock()

	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(ctx, path, content)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = content
	return nil
}

func (m *MockExecutionEnvironment) DeleteFile(ctx context.Context, path string) error {
	m.mu.Lock()
	m.DeleteFileCalls = append(m.DeleteFileCalls, path)
	m.mu.Unlock()

	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, path)
	return nil
}

func (m *MockExecutionEnvironment) FileExists(ctx context.Context, path string) (bool, error) {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[path]
	return ok, nil
}

func (m *MockExecutionEnvironment) ListDirectory(ctx context.Context, path string, depth int) ([]execenv.DirEntry, error) {
	if m.ListDirectoryFunc != nil {
		return m.ListDirectoryFunc(ctx, path, depth)
	}
	return nil, nil
}

func (m *MockExecutionEnvironment) ExecCommand(ctx context.Context, command string, opts execenv.ExecCommandOptions) (execenv.ExecResult, error) {
	m.mu.Lock()
	m.ExecCommandCalls = append(m.ExecCommandCalls, command)
	m.mu.Unlock()

	if m.ExecCommandFunc != nil {
		return m.ExecCommandFunc(ctx, command, opts)
	}
	return execenv.ExecResult{Stdout: "", ExitCode: 0}, nil
}

func (m *MockExecutionEnvironment) Grep(ctx context.Context, pattern, path string, opts execenv.GrepOptions) (string, error) {
	if m.GrepFunc != nil {
		return m.GrepFunc(ctx, pattern, path, opts)
	}
	return "", nil
}

func (m *MockExecutionEnvironment) Glob(ctx context.Context, pattern, path string) ([]string, error) {
	if m.GlobFunc != nil {
		return m.GlobFunc(ctx, pattern, path)
	}
	return nil, nil
}

func (m *MockExecutionEnvironment) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitializeCalls++
	return nil
}

func (m *MockExecutionEnvironment) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanupCalls++
	return nil
}

func (m *MockExecutionEnvironment) WorkingDirectory() string { return m.Cwd }
func (m *MockExecutionEnvironment) Platform() string         { return m.OS }
func (m *MockExecutionEnvironment) OSVersion() string        { return m.Version }

type execenvNotFoundError struct{ path string }

func (e *execenvNotFoundError) Error() string { return "file not found: " + e.path }
