package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// ExtractJSONOptions configures the JSON extraction middleware.
type ExtractJSONOptions struct {
	// Transform extracts JSON from text. Defaults to stripping markdown
	// code fences.
	Transform func(text string) string
}

var (
	openFence  = regexp.MustCompile("^```(?:json)?\\s*\\n?")
	closeFence = regexp.MustCompile("\\n?```\\s*$")
)

func defaultJSONTransform(text string) string {
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractJSONMiddleware returns an AdapterMiddleware that strips markdown
// code fences from a response's text, for models using
// types.ResponseFormatJSONSchema that still wrap the JSON in a fenced
// code block out of habit. Grounded on the teacher's
// pkg/middleware/extract_json.go ExtractJSONMiddleware.
func ExtractJSONMiddleware(options *ExtractJSONOptions) *AdapterMiddleware {
	transform := defaultJSONTransform
	if options != nil && options.Transform != nil {
		transform = options.Transform
	}

	return &AdapterMiddleware{
		WrapComplete: func(ctx context.Context, next func() (types.CanonicalResponse, error), req types.CanonicalRequest) (types.CanonicalResponse, error) {
			resp, err := next()
			if err != nil {
				return resp, err
			}
			for i, part := range resp.Content {
				if part.Kind == types.PartText {
					resp.Content[i].Text = transform(part.Text)
				}
			}
			return resp, nil
		},

		WrapStream: func(ctx context.Context, next func() (provideradapter.Stream, error), _ func() (types.CanonicalResponse, error), req types.CanonicalRequest) (provideradapter.Stream, error) {
			stream, err := next()
			if err != nil {
				return nil, err
			}
			return &extractJSONStream{underlying: stream, transform: transform}, nil
		},
	}
}

const jsonSuffixBufferSize = 12

// extractJSONStream buffers TextDelta content, stripping the opening
// fence once enough of the buffer has arrived to know whether one is
// present, and the closing fence at stream end, since it only becomes
// visible at the tail.
type extractJSONStream struct {
	underlying     provideradapter.Stream
	transform      func(string) string
	buffer         string
	prefixChecked  bool
	prefixStripped bool
	pending        []types.StreamEvent
}

func (s *extractJSONStream) Next(ctx context.Context) (types.StreamEvent, bool, error) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, true, nil
		}

		ev, ok, err := s.underlying.Next(ctx)
		if err != nil {
			return types.StreamEvent{}, false, err
		}
		if !ok {
			if flushed, has := s.flush(); has {
				return flushed, true, nil
			}
			return types.StreamEvent{}, false, nil
		}

		if ev.Kind != types.StreamEventTextDelta {
			// Flush any buffered text before a non-text event (finish,
			// usage, tool call) so a terminal Finish is never preceded by
			// a delta the caller hasn't seen yet.
			if flushed, has := s.flush(); has {
				s.pending = append(s.pending, ev)
				return flushed, true, nil
			}
			return ev, true, nil
		}

		s.buffer += ev.Delta

		if !s.prefixChecked && len(s.buffer) >= 3 {
			if loc := openFence.FindStringIndex(s.buffer); loc != nil && strings.Contains(s.buffer, "\n") {
				s.buffer = s.buffer[loc[1]:]
				s.prefixStripped = true
			}
			s.prefixChecked = true
		}

		if len(s.buffer) > jsonSuffixBufferSize {
			toEmit := s.buffer[:len(s.buffer)-jsonSuffixBufferSize]
			s.buffer = s.buffer[len(s.buffer)-jsonSuffixBufferSize:]
			return types.TextDeltaEvent(toEmit), true, nil
		}
	}
}

// flush drains any buffered text into a single TextDelta event, applying
// the closing-fence-aware transform if a prefix was already stripped.
func (s *extractJSONStream) flush() (types.StreamEvent, bool) {
	if len(s.buffer) == 0 {
		return types.StreamEvent{}, false
	}
	remaining := s.buffer
	if s.prefixStripped {
		remaining = strings.TrimRight(closeFence.ReplaceAllString(remaining, ""), " \t\n\r")
	} else {
		remaining = s.transform(remaining)
	}
	s.buffer = ""
	if len(remaining) == 0 {
		return types.StreamEvent{}, false
	}
	return types.TextDeltaEvent(remaining), true
}
