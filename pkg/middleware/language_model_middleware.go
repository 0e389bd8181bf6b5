package middleware

import (
	"context"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// AdapterMiddleware transforms requests and/or wraps the Complete/Stream
// calls of a provideradapter.Adapter. A nil hook is a no-op passthrough,
// mirroring the teacher's LanguageModelMiddleware shape one level down
// the stack (CanonicalRequest/CanonicalResponse instead of
// GenerateOptions/GenerateResult).
type AdapterMiddleware struct {
	// TransformRequest rewrites the request before it reaches the next
	// middleware in the chain (or the adapter itself, for the innermost).
	TransformRequest func(ctx context.Context, req types.CanonicalRequest) (types.CanonicalRequest, error)

	// WrapComplete wraps a single non-streaming call.
	WrapComplete func(ctx context.Context, next func() (types.CanonicalResponse, error), req types.CanonicalRequest) (types.CanonicalResponse, error)

	// WrapStream wraps a streaming call. nextComplete calls the same
	// underlying adapter's Complete, for middleware (like
	// SimulateStreamingMiddleware) that services a Stream call by
	// issuing a non-streaming one instead.
	WrapStream func(ctx context.Context, next func() (provideradapter.Stream, error), nextComplete func() (types.CanonicalResponse, error), req types.CanonicalRequest) (provideradapter.Stream, error)
}

// wrappedAdapter applies one AdapterMiddleware around an inner Adapter.
type wrappedAdapter struct {
	inner provideradapter.Adapter
	mw    *AdapterMiddleware
}

// Wrap composes mws around adapter. When multiple middlewares are given,
// the first transforms the request first and sees the final response
// last; the last middleware wraps directly around adapter — the same
// composition order as the teacher's WrapLanguageModel.
func Wrap(adapter provideradapter.Adapter, mws []*AdapterMiddleware) provideradapter.Adapter {
	wrapped := adapter
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = &wrappedAdapter{inner: wrapped, mw: mws[i]}
	}
	return wrapped
}

func (w *wrappedAdapter) Complete(ctx context.Context, req types.CanonicalRequest) (types.CanonicalResponse, error) {
	transformed, err := w.transform(ctx, req)
	if err != nil {
		return types.CanonicalResponse{}, err
	}

	next := func() (types.CanonicalResponse, error) {
		return w.inner.Complete(ctx, transformed)
	}
	if w.mw.WrapComplete != nil {
		return w.mw.WrapComplete(ctx, next, transformed)
	}
	return next()
}

func (w *wrappedAdapter) Stream(ctx context.Context, req types.CanonicalRequest) (provideradapter.Stream, error) {
	transformed, err := w.transform(ctx, req)
	if err != nil {
		return nil, err
	}

	next := func() (provideradapter.Stream, error) {
		return w.inner.Stream(ctx, transformed)
	}
	nextComplete := func() (types.CanonicalResponse, error) {
		return w.inner.Complete(ctx, transformed)
	}
	if w.mw.WrapStream != nil {
		return w.mw.WrapStream(ctx, next, nextComplete, transformed)
	}
	return next()
}

func (w *wrappedAdapter) Close() error {
	return w.inner.Close()
}

func (w *wrappedAdapter) transform(ctx context.Context, req types.CanonicalRequest) (types.CanonicalRequest, error) {
	if w.mw.TransformRequest == nil {
		return req, nil
	}
	return w.mw.TransformRequest(ctx, req)
}
