// Package truncate implements tool-output truncation (component L): a
// max_chars/max_lines bound applied to a tool's raw output before it is
// re-inserted into conversation history, while the untruncated output
// still reaches the Session Event Bus.
//
// Grounded on the strongdm-attractor agent-loop Session's
// TruncateToolOutput call site (per-tool char/line limit maps, full
// output still emitted via EventToolCallEnd while only the truncated
// form is stored as the ToolResult's Content) and the teacher's
// pkg/ai/pruning.go size-estimate-and-trim idiom.
package truncate

import "strings"

// Limits bounds a single tool output's size before history insertion.
type Limits struct {
	MaxChars int // 0 = unlimited
	MaxLines int // 0 = unlimited

	// ReserveTail keeps both the head and the tail of the output around a
	// truncation notice, instead of the head alone, per §4.L ("keep head
	// + warning + tail" vs head-only).
	ReserveTail bool
}

const truncationNotice = "\n...[truncated]...\n"

// Apply truncates output to satisfy both Limits, applying the line limit
// first (since an over-long single line can still blow the char budget)
// and then the char limit.
func Apply(output string, limits Limits) string {
	out := output
	if limits.MaxLines > 0 {
		out = truncateLines(out, limits.MaxLines, limits.ReserveTail)
	}
	if limits.MaxChars > 0 {
		out = truncateChars(out, limits.MaxChars, limits.ReserveTail)
	}
	return out
}

func truncateLines(s string, maxLines int, reserveTail bool) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	if !reserveTail {
		kept := lines[:maxLines]
		return strings.Join(kept, "\n") + truncationNotice
	}

	headN, tailN := splitBudget(maxLines)
	head := strings.Join(lines[:headN], "\n")
	tail := strings.Join(lines[len(lines)-tailN:], "\n")
	return head + truncationNotice + tail
}

func truncateChars(s string, maxChars int, reserveTail bool) string {
	if len(s) <= maxChars {
		return s
	}
	budget := maxChars - len(truncationNotice)
	if budget < 0 {
		budget = 0
	}
	if !reserveTail {
		return s[:budget] + truncationNotice
	}

	headN, tailN := splitBudget(budget)
	return s[:headN] + truncationNotice + s[len(s)-tailN:]
}

// splitBudget divides a size budget between head and tail, giving the
// head the larger (or equal) half.
func splitBudget(total int) (head, tail int) {
	if total <= 0 {
		return 0, 0
	}
	head = (total + 1) / 2
	tail = total - head
	return head, tail
}
