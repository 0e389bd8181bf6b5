package testutil

import (
	"context"
	"sync"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// MockAdapter is a scriptable provideradapter.Adapter for exercising the
// LLM Request Layer and Session Loop without a live provider. Mirrors the
// teacher's MockLanguageModel call-tracking shape, adapted to the
// canonical request/response/stream contract.
type MockAdapter struct {
	CompleteFunc func(ctx context.Context, req types.CanonicalRequest) (types.CanonicalResponse, error)
	StreamFunc   func(ctx context.Context, req types.CanonicalRequest) ([]types.StreamEvent, error)

	// Responses/StreamBatches are consumed round by round (FIFO) when the
	// corresponding Func field is nil, letting a test script a multi-round
	// tool-call exchange without writing a closure.
	Responses     []types.CanonicalResponse
	StreamBatches [][]types.StreamEvent

	mu            sync.Mutex
	CompleteCalls []types.CanonicalRequest
	StreamCalls   []types.CanonicalRequest
	closed        bool
}

func (m *MockAdapter) Complete(ctx context.Context, req types.CanonicalRequest) (types.CanonicalResponse, error) {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, req)
	idx := len(m.CompleteCalls) - 1
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	if idx < len(m.Responses) {
		return m.Responses[idx], nil
	}
	return m.Responses[len(m.Responses)-1], nil
}

func (m *MockAdapter) Stream(ctx context.Context, req types.CanonicalRequest) (provideradapter.Stream, error) {
	m.mu.Lock()
	m.StreamCalls = append(m.StreamCalls, req)
	idx := len(m.StreamCalls) - 1
	m.mu.Unlock()

	var events []types.StreamEvent
	if m.StreamFunc != nil {
		var err error
		events, err = m.StreamFunc(ctx, req)
		if err != nil {
			return nil, err
		}
	} else if idx < len(m.StreamBatches) {
		events = m.StreamBatches[idx]
	} else if len(m.StreamBatches) > 0 {
		events = m.StreamBatches[len(m.StreamBatches)-1]
	}
	return &fakeStream{events: events}, nil
}

func (m *MockAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockAdapter) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type fakeStream struct {
	events []types.StreamEvent
	pos    int
}

func (f *fakeStream) Next(ctx context.Context) (types.StreamEvent, bool, error) {
	select {
	case <-ctx.Done():
		return types.StreamEvent{}, false, ctx.Err()
	default:
	}
	if f.pos >= len(f.events) {
		return types.StreamEvent{}, false, nil
	}
	ev := f.events[f.pos]
	f.pos++
	return ev, true, nil
}
