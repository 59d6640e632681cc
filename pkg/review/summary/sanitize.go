package summary

import "strings"

// SanitizeAgentName replaces any character outside [A-Za-z0-9._-] with "_",
// producing a safe report filename fragment. Idempotent: re-sanitizing an
// already-clean name is a no-op.
func SanitizeAgentName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
