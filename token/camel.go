package token

import (
	"maps"
	"slices"
	"unicode"
)

// CamelName converts a separator delimited key to its single word form:
// every run of '_' or '-' followed by another character is dropped and that
// character is upper cased ("access_token" -> "accessToken", "x-request-id" ->
// "xRequestId", "access__token" -> "accessToken"). A trailing run is kept as is.
// No other normalization is applied. The second result reports whether the name changed.
func CamelName(name string) (string, bool) {
	runes := []rune(name)
	out := make([]rune, 0, len(runes))
	changed := false
	for i := 0; i < len(runes); i++ {
		if !isSeparator(runes[i]) {
			out = append(out, runes[i])
			continue
		}
		end := i
		for end < len(runes) && isSeparator(runes[end]) {
			end++
		}
		if end == len(runes) {
			out = append(out, runes[i:]...)
			break
		}
		out = append(out, unicode.ToUpper(runes[end]))
		i = end
		changed = true
	}
	if !changed {
		return name, false
	}
	return string(out), true
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-'
}

// CamelKeys returns a copy of m in which every key is in its camel form. When a
// converted key collides with a key that was already camel cased, the converted
// key's value wins. Keys are visited in sorted order so the result is deterministic.
func CamelKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	var converted []string
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if _, changed := CamelName(k); changed {
			converted = append(converted, k)
			continue
		}
		out[k] = m[k]
	}
	for _, k := range converted {
		camel, _ := CamelName(k)
		out[camel] = m[k]
	}
	return out
}
