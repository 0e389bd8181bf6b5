package execenv

import "strings"

// FilterEnv applies the §6 env-var inheritance policy to a process's full
// environment (as "KEY=VALUE" pairs, e.g. os.Environ()), returning the
// subset a spawned command should inherit. Sensitive-pattern stripping
// applies regardless of policy; extra carries opaque per-call overrides
// that are always included verbatim.
func FilterEnv(policy EnvPolicy, full []string, extra map[string]string) []string {
	var out []string
	switch policy {
	case InheritAll:
		for _, kv := range full {
			if !isSensitive(keyOf(kv)) {
				out = append(out, kv)
			}
		}
	case InheritCore:
		allow := make(map[string]bool, len(CoreAllowlist))
		for _, k := range CoreAllowlist {
			allow[k] = true
		}
		for _, kv := range full {
			k := keyOf(kv)
			if allow[k] && !isSensitive(k) {
				out = append(out, kv)
			}
		}
	case InheritNone:
		// Nothing inherited; extra below is still applied.
	}

	for k, v := range extra {
		if isSensitive(k) {
			continue
		}
		out = append(out, k+"="+v)
	}
	return out
}

func keyOf(kv string) string {
	if i := strings.IndexByte(kv, '='); i >= 0 {
		return kv[:i]
	}
	return kv
}

func isSensitive(key string) bool {
	for _, suffix := range SensitiveSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}
