// Package provideradapter declares the ProviderAdapter trait the LLM
// Request Layer and Session Loop consume. It is deliberately opaque: no
// concrete wire-format implementation lives in this package. Reference
// adapters (one per tool-schema family) live under examples/, adapted from
// the teacher's pkg/provider/language_model.go LanguageModel interface and
// its per-provider implementations, but are not linked into the core.
package provideradapter

import (
	"context"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Adapter is the opaque external collaborator described in §6. The core
// never inspects how an Adapter talks to its backing provider.
type Adapter interface {
	// Complete issues a single non-streaming call.
	Complete(ctx context.Context, req types.CanonicalRequest) (types.CanonicalResponse, error)

	// Stream issues a streaming call. The returned Stream must yield a
	// StreamStart first and exactly one terminal Finish last (or be
	// drained to exhaustion without one, which the Accumulator treats as
	// a truncated stream per §4.B).
	Stream(ctx context.Context, req types.CanonicalRequest) (Stream, error)

	// Close releases adapter-held resources (persistent connections,
	// etc.). Optional: adapters with nothing to release may no-op.
	Close() error
}

// Stream is the single-consumer async sequence of StreamEvents an
// Adapter.Stream call returns. Next blocks until the next event is
// available, returns io.EOF-equivalent via (zero value, nil, false) at
// natural end, or an error on failure.
type Stream interface {
	// Next returns the next event, or ok=false when the stream has ended
	// (either naturally or via error, which is returned alongside).
	Next(ctx context.Context) (ev types.StreamEvent, ok bool, err error)
}
