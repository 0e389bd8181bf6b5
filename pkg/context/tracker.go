// Package context implements the Context Tracker (component H): a
// running estimate of a session's token usage against its model's context
// window, firing each threshold warning at most once per session.
//
// Grounded on the strongdm-attractor agent-loop Session's
// checkContextUsage (char-count-over-history, approxTokens = totalChars/4,
// 80% threshold, percentage in the warning message) and the teacher's
// pkg/ai/pruning.go DefaultMessagePrune, which uses the identical
// chars/4 token-estimate idiom. Extended here to the full 0.8/0.95/1.0
// three-tier, fire-once threshold set per §4.H (the attractor fragment
// only checks the single 80% threshold).
package context

import "github.com/digitallysavvy/go-ai/pkg/types"

// charsPerToken mirrors the teacher's and the attractor fragment's
// token-estimate heuristic: 4 characters approximates 1 token.
const charsPerToken = 4

// Thresholds, in ascending order, at which the Tracker fires a warning
// exactly once per session per §4.H.
var Thresholds = []float64{0.8, 0.95, 1.0}

// Tracker estimates a session's context-window usage from accumulated
// character counts and reports which threshold, if any, a new estimate
// has just crossed.
type Tracker struct {
	contextWindow int
	totalChars    int
	fired         map[float64]bool
}

// New creates a Tracker for a model with the given context window size
// (in tokens).
func New(contextWindow int) *Tracker {
	return &Tracker{contextWindow: contextWindow, fired: make(map[float64]bool)}
}

// AddText records additional character content (turn text, tool output)
// toward the running estimate.
func (t *Tracker) AddText(s string) {
	t.totalChars += len(s)
}

// EstimatedTokens returns the current chars/4 token estimate.
func (t *Tracker) EstimatedTokens() int {
	return t.totalChars / charsPerToken
}

// UsagePercent returns the current estimate as a fraction of the context
// window (1.0 == exactly full).
func (t *Tracker) UsagePercent() float64 {
	if t.contextWindow <= 0 {
		return 0
	}
	return float64(t.EstimatedTokens()) / float64(t.contextWindow)
}

// CheckThresholds reports every threshold newly crossed since the last
// call, in ascending order, as ContextWarning SessionEvents. Each
// threshold fires at most once per Tracker's lifetime.
func (t *Tracker) CheckThresholds() []types.SessionEvent {
	pct := t.UsagePercent()
	var events []types.SessionEvent
	for _, th := range Thresholds {
		if pct >= th && !t.fired[th] {
			t.fired[th] = true
			events = append(events, types.ContextWarning(pct))
		}
	}
	return events
}

// Reset clears accumulated usage and fired thresholds, e.g. after a
// sub-agent spawn starts a fresh context.
func (t *Tracker) Reset() {
	t.totalChars = 0
	t.fired = make(map[float64]bool)
}
