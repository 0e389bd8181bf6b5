package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/digitallysavvy/go-ai/pkg/provideradapter"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// ExtractReasoningOptions configures the reasoning extraction middleware.
type ExtractReasoningOptions struct {
	// TagName is the XML tag reasoning is wrapped in (e.g. "think").
	TagName string

	// Separator joins multiple extracted reasoning blocks. Default "\n".
	Separator string

	// StartWithReasoning treats the response as already inside an open
	// reasoning tag at the very start.
	StartWithReasoning bool
}

// ExtractReasoningMiddleware returns an AdapterMiddleware that pulls
// XML-tagged reasoning out of a response's text and re-homes it as
// types.PartThinking content (or StreamEventThinkingDelta events, while
// streaming) instead of leaving it inline in the visible text.
//
// This exists for adapters fronting models that emit their reasoning
// inline as tagged text rather than as a distinct wire-format field —
// types.PartThinking already models a provider's own structured
// reasoning output; this middleware is what gives an unstructured one
// the same shape. Grounded on the teacher's
// pkg/middleware/extract_reasoning.go ExtractReasoningMiddleware, adapted
// from its single GenerateResult.Text field onto this runtime's
// multi-part CanonicalResponse.Content and StreamEvent sequence.
func ExtractReasoningMiddleware(options *ExtractReasoningOptions) *AdapterMiddleware {
	if options == nil {
		options = &ExtractReasoningOptions{TagName: "think"}
	}
	if options.Separator == "" {
		options.Separator = "\n"
	}

	openingTag := fmt.Sprintf("<%s>", options.TagName)
	closingTag := fmt.Sprintf("</%s>", options.TagName)
	pattern := regexp.MustCompile(fmt.Sprintf(`%s(.*?)%s`, regexp.QuoteMeta(openingTag), regexp.QuoteMeta(closingTag)))

	return &AdapterMiddleware{
		WrapComplete: func(ctx context.Context, next func() (types.CanonicalResponse, error), req types.CanonicalRequest) (types.CanonicalResponse, error) {
			resp, err := next()
			if err != nil {
				return resp, err
			}

			content := make([]types.Part, 0, len(resp.Content))
			for _, part := range resp.Content {
				if part.Kind != types.PartText {
					content = append(content, part)
					continue
				}
				content = append(content, splitReasoning(part.Text, pattern, openingTag, options)...)
			}
			resp.Content = content
			return resp, nil
		},

		WrapStream: func(ctx context.Context, next func() (provideradapter.Stream, error), _ func() (types.CanonicalResponse, error), req types.CanonicalRequest) (provideradapter.Stream, error) {
			stream, err := next()
			if err != nil {
				return nil, err
			}
			return &extractReasoningStream{
				underlying:  stream,
				openingTag:  openingTag,
				closingTag:  closingTag,
				isReasoning: options.StartWithReasoning,
			}, nil
		},
	}
}

// splitReasoning splits text into a sequence of Text/Thinking parts
// around pattern matches.
func splitReasoning(text string, pattern *regexp.Regexp, openingTag string, options *ExtractReasoningOptions) []types.Part {
	if options.StartWithReasoning {
		text = openingTag + text
	}

	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []types.Part{types.TextPart(text)}
	}

	var parts []types.Part
	pos := 0
	for _, m := range matches {
		start, end, rs, re := m[0], m[1], m[2], m[3]
		if start > pos {
			parts = append(parts, types.TextPart(text[pos:start]))
		}
		parts = append(parts, types.ThinkingPart(text[rs:re], ""))
		pos = end
	}
	if pos < len(text) {
		parts = append(parts, types.TextPart(text[pos:]))
	}
	return parts
}

// extractReasoningStream wraps a provideradapter.Stream, reclassifying
// TextDelta events whose content falls between openingTag/closingTag as
// ThinkingDelta events instead.
type extractReasoningStream struct {
	underlying  provideradapter.Stream
	openingTag  string
	closingTag  string
	isReasoning bool
	buffer      string
	pending     []types.StreamEvent
}

func (s *extractReasoningStream) Next(ctx context.Context) (types.StreamEvent, bool, error) {
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
			if len(s.buffer) > 0 {
				flushed := s.flush()
				s.buffer = ""
				if flushed.Kind != "" {
					return flushed, true, nil
				}
			}
			return types.StreamEvent{}, false, nil
		}

		if ev.Kind != types.StreamEventTextDelta {
			// Flush whatever text/thinking is still buffered before a
			// non-text event (finish, usage, tool call) so a terminal
			// Finish is never preceded by a delta the caller hasn't seen.
			if len(s.buffer) > 0 {
				flushed := s.flush()
				s.buffer = ""
				if flushed.Kind != "" {
					s.pending = append(s.pending, ev)
					return flushed, true, nil
				}
			}
			return ev, true, nil
		}

		s.buffer += ev.Delta
		s.drain()
		if len(s.pending) > 0 {
			continue
		}
	}
}

// drain emits as many complete reasoning/text segments from the buffer
// as it can, leaving any partial tag match buffered for the next delta.
func (s *extractReasoningStream) drain() {
	for {
		nextTag := s.openingTag
		if s.isReasoning {
			nextTag = s.closingTag
		}

		idx := potentialStartIndex(s.buffer, nextTag)
		if idx == -1 {
			if len(s.buffer) > 0 {
				s.emit(s.buffer)
				s.buffer = ""
			}
			return
		}

		if idx > 0 {
			s.emit(s.buffer[:idx])
			s.buffer = s.buffer[idx:]
		}

		if len(s.buffer) < len(nextTag) {
			return // partial tag match at end of buffer; wait for more
		}

		s.buffer = s.buffer[len(nextTag):]
		s.isReasoning = !s.isReasoning
	}
}

func (s *extractReasoningStream) emit(text string) {
	if len(text) == 0 {
		return
	}
	if s.isReasoning {
		s.pending = append(s.pending, types.ThinkingDeltaEvent(text))
		return
	}
	s.pending = append(s.pending, types.TextDeltaEvent(text))
}

func (s *extractReasoningStream) flush() types.StreamEvent {
	if len(s.buffer) == 0 {
		return types.StreamEvent{}
	}
	if s.isReasoning {
		return types.ThinkingDeltaEvent(s.buffer)
	}
	return types.TextDeltaEvent(s.buffer)
}

// potentialStartIndex finds where needle could start in text: either a
// complete match, or a partial match at the end of text (a suffix of
// text that is a prefix of needle), so a tag split across two deltas is
// never missed.
func potentialStartIndex(text, needle string) int {
	if needle == "" {
		return -1
	}
	if idx := strings.Index(text, needle); idx != -1 {
		return idx
	}
	for i := len(text) - 1; i >= 0; i-- {
		if strings.HasPrefix(needle, text[i:]) {
			return i
		}
	}
	return -1
}
