package loopdetect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetector_Period1RequiresFiveRepeats(t *testing.T) {
	d := New(10)
	for i := 0; i < 4; i++ {
		d.Record("grep", map[string]interface{}{"pattern": "x"})
	}
	require.False(t, d.Detect())

	d.Record("grep", map[string]interface{}{"pattern": "x"})
	require.True(t, d.Detect())
}

func TestDetector_Period2RequiresThreeRepeatsOfThePair(t *testing.T) {
	d := New(10)
	seq := []string{"read_file", "grep", "read_file", "grep", "read_file", "grep"}
	for i, name := range seq {
		d.Record(name, map[string]interface{}{"i": i % 2})
	}
	// Args differ per call (i%2), so identical name+args pairs alternate.
	require.True(t, d.Detect())
}

func TestDetector_Period3RequiresTwoRepeatsOfTheTriple(t *testing.T) {
	d := New(10)
	for rep := 0; rep < 2; rep++ {
		d.Record("a", nil)
		d.Record("b", nil)
		d.Record("c", nil)
	}
	require.True(t, d.Detect())
}

func TestDetector_NoFalsePositiveOnVariedCalls(t *testing.T) {
	d := New(10)
	d.Record("read_file", map[string]interface{}{"path": "/a"})
	d.Record("grep", map[string]interface{}{"pattern": "x"})
	d.Record("read_file", map[string]interface{}{"path": "/b"})
	d.Record("glob", map[string]interface{}{"pattern": "*.go"})
	require.False(t, d.Detect())
}

func TestDetector_WindowTrimsOldEntries(t *testing.T) {
	d := New(3)
	d.Record("a", nil)
	d.Record("b", nil)
	d.Record("c", nil)
	d.Record("d", nil)
	require.Len(t, d.history, 3)
	require.Equal(t, signature("b", nil), d.history[0])
}

func TestDetector_ResetClearsHistory(t *testing.T) {
	d := New(10)
	for i := 0; i < 5; i++ {
		d.Record("grep", nil)
	}
	require.True(t, d.Detect())
	d.Reset()
	require.False(t, d.Detect())
}
