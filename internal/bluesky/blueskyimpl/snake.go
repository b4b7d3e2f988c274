package blueskyimpl

import (
	"strings"
	"unicode"
)

// SnakeKeys returns a copy of v with every mapping key converted from
// camelCase to snake_case. Values are left alone.
func SnakeKeys(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, child := range n {
			out[ToSnake(k)] = SnakeKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = SnakeKeys(child)
		}
		return out
	default:
		return v
	}
}

func ToSnake(key string) string {
	var sb strings.Builder
	sb.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
