package couriers

import "strings"

// NormalizeKey canonicalizes a raw courier key: uppercase, runs of
// non-alphanumeric characters collapsed to a single underscore, leading and
// trailing underscores trimmed. "jne reg", "JNE_REG", and "jne-reg " all
// normalize to "JNE_REG".
func NormalizeKey(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(upper))
	lastUnderscore := false
	for _, r := range upper {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
