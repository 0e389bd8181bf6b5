package execenv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var fullEnv = []string{
	"PATH=/usr/bin",
	"HOME=/root",
	"MY_APP_SECRET=topsecret",
	"OPENAI_API_KEY=sk-abc",
	"RANDOM_VAR=hello",
}

func TestFilterEnv_InheritNoneDropsEverythingButExtra(t *testing.T) {
	out := FilterEnv(InheritNone, fullEnv, map[string]string{"FOO": "bar"})
	require.Equal(t, []string{"FOO=bar"}, out)
}

func TestFilterEnv_InheritCoreKeepsOnlyAllowlisted(t *testing.T) {
	out := FilterEnv(InheritCore, fullEnv, nil)
	require.Contains(t, out, "PATH=/usr/bin")
	require.Contains(t, out, "HOME=/root")
	require.NotContains(t, out, "RANDOM_VAR=hello")
}

func TestFilterEnv_InheritAllStripsSensitivePatterns(t *testing.T) {
	out := FilterEnv(InheritAll, fullEnv, nil)
	require.Contains(t, out, "RANDOM_VAR=hello")
	require.Contains(t, out, "PATH=/usr/bin")
	require.NotContains(t, out, "MY_APP_SECRET=topsecret")
	require.NotContains(t, out, "OPENAI_API_KEY=sk-abc")
}

func TestFilterEnv_ExtraOverridesAreIncludedButStillFiltered(t *testing.T) {
	out := FilterEnv(InheritNone, fullEnv, map[string]string{
		"SOME_TOKEN": "leaked", "NORMAL": "ok",
	})
	require.NotContains(t, out, "SOME_TOKEN=leaked")
	require.Contains(t, out, "NORMAL=ok")
}
