// Package loopdetect implements the Loop Detector (component G): a
// sliding-window scan over recent tool-call signatures that flags period-1,
// period-2, and period-3 repeating patterns, so the Session Loop can warn
// a model that has started calling the same tool(s) in a cycle without
// making progress.
//
// Grounded on the strongdm-attractor agent-loop Session's
// `DetectLoop(historyCopy, loopWindow)` call site (§9's "9. Loop
// detection" step, invoked once per tool round on a copy of the turn
// history); the definition of DetectLoop itself was not present in the
// retrieved pack, so the period-1/2/3 algorithm here is authored fresh
// from the distilled spec's precise description of each pattern.
package loopdetect

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

// DefaultWindow is the number of trailing tool-call signatures considered,
// per §4.G.
const DefaultWindow = 10

// Detector tracks a bounded sliding window of tool-call signatures across
// a session and reports when the most recent calls form a repeating
// period-1, period-2, or period-3 cycle.
type Detector struct {
	window  int
	history []string
}

// New creates a Detector with the given window size (0 uses DefaultWindow).
func New(window int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{window: window}
}

// Record appends one tool call's signature to the sliding window,
// trimming the oldest entry once the window is exceeded.
func (d *Detector) Record(toolName string, args map[string]interface{}) {
	d.history = append(d.history, signature(toolName, args))
	if len(d.history) > d.window {
		d.history = d.history[len(d.history)-d.window:]
	}
}

// RecordToolCalls records every call in a round, in order.
func (d *Detector) RecordToolCalls(calls []types.ToolCall) {
	for _, c := range calls {
		d.Record(c.ToolName, c.Arguments)
	}
}

// Detect reports whether the current window's tail contains a repeating
// cycle: the same signature 5+ times in a row (period 1), a 2-signature
// pair alternating 3+ times (period 2), or a 3-signature triple repeating
// 2+ times (period 3).
func (d *Detector) Detect() bool {
	return detectPeriod(d.history, 1, 5) ||
		detectPeriod(d.history, 2, 3) ||
		detectPeriod(d.history, 3, 2)
}

// Reset clears the sliding window, e.g. after a loop warning is injected
// and the model has had a chance to change course.
func (d *Detector) Reset() {
	d.history = nil
}

// detectPeriod reports whether the trailing period*repeats entries of
// history consist of `repeats` consecutive copies of the same
// period-length block.
func detectPeriod(history []string, period, repeats int) bool {
	need := period * repeats
	if len(history) < need {
		return false
	}
	tail := history[len(history)-need:]
	block := tail[len(tail)-period:]
	for i := 0; i < repeats-1; i++ {
		start := len(tail) - period*(i+2)
		candidate := tail[start : start+period]
		for j := 0; j < period; j++ {
			if candidate[j] != block[j] {
				return false
			}
		}
	}
	return true
}

// signature produces a stable "name:hash(args_json)" identity for a tool
// call. encoding/json sorts map keys on marshal, so two calls with the
// same arguments in different insertion order hash identically.
func signature(name string, args map[string]interface{}) string {
	raw, _ := json.Marshal(args)
	sum := sha256.Sum256(raw)
	return name + ":" + hex.EncodeToString(sum[:])
}
