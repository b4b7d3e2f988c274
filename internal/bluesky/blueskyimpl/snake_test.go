package blueskyimpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"mimeType":    "mime_type",
		"createdAt":   "created_at",
		"displayName": "display_name",
		"aspectRatio": "aspect_ratio",
		"uri":         "uri",
		"$type":       "$type",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnake(in), in)
	}
}

func TestSnakeKeysLeavesValues(t *testing.T) {
	in := map[string]any{
		"feed": []any{
			map[string]any{"likeCount": float64(3), "text": "keepThisCamel"},
		},
	}

	out := SnakeKeys(in).(map[string]any)
	item := out["feed"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3), item["like_count"])
	assert.Equal(t, "keepThisCamel", item["text"])
	assert.Contains(t, in["feed"].([]any)[0].(map[string]any), "likeCount")
}
