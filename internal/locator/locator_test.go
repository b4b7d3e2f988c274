package locator

import (
	"testing"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() map[string]any {
	return map[string]any{
		"key1": "value1",
		"key2": []any{
			map[string]any{"key3": "value3"},
		},
		"multi_key": "multi_value1",
		"key4": map[string]any{
			"multi_key": "multi_value2",
		},
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		opts []Option
		want []any
	}{
		{name: "top level", key: "key1", want: []any{"value1"}},
		{name: "inside sequence", key: "key3", want: []any{"value3"}},
		{name: "include segment", key: "key3", opts: []Option{IncludeUnder("key2")}, want: []any{"value3"}},
		{name: "include segment misses", key: "key3", opts: []Option{IncludeUnder("key4")}},
		{name: "all occurrences in pre-order", key: "multi_key", want: []any{"multi_value1", "multi_value2"}},
		{name: "wildcard include", key: "multi_key", opts: []Option{IncludeUnder("")}, want: []any{"multi_value1", "multi_value2"}},
		{name: "blank among segments is not a wildcard", key: "multi_key", opts: []Option{IncludeUnder("", "key4")}, want: []any{"multi_value2"}},
		{name: "exclude segment", key: "multi_key", opts: []Option{ExcludeUnder("key4")}, want: []any{"multi_value1"}},
		{name: "include then exclude", key: "multi_key", opts: []Option{IncludeUnder("key4"), ExcludeUnder("key4")}},
		{name: "depth zero", key: "multi_key", opts: []Option{MaxDepth(0)}, want: []any{"multi_value1"}},
		{name: "depth zero ignores sequences below", key: "key3", opts: []Option{MaxDepth(0)}},
		{name: "depth one", key: "key3", opts: []Option{MaxDepth(1)}, want: []any{"value3"}},
		{name: "missing key", key: "invalid_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Locate(sample(), tt.key, tt.opts...)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateKeepsDuplicateValues(t *testing.T) {
	root := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "a"},
	}

	assert.Equal(t, []any{"a", "a"}, Locate(root, "id"))
}

func TestLocateNestedCandidate(t *testing.T) {
	root := map[string]any{
		"embed": map[string]any{
			"embed": "inner",
		},
	}

	got := Locate(root, "embed")
	require.Len(t, got, 2)
	assert.Equal(t, "inner", got[1])
}

func TestLocateOne(t *testing.T) {
	v, err := LocateOne(sample(), "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", v)

	_, err = LocateOne(sample(), "invalid_key")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)

	_, err = LocateOne(sample(), "multi_key")
	assert.ErrorIs(t, err, errors.ErrAmbiguousKey)

	v, err = LocateOne(sample(), "multi_key", ExcludeUnder("key4"))
	require.NoError(t, err)
	assert.Equal(t, "multi_value1", v)
}

func TestTypedHelpers(t *testing.T) {
	root := map[string]any{
		"text":  "hello",
		"null":  nil,
		"size":  float64(641382),
		"frac":  1.5,
		"embed": map[string]any{"images": []any{"a"}},
	}

	s, err := String(root, "text")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = String(root, "size")
	assert.ErrorIs(t, err, errors.ErrInvalidRecordShape)

	s, err = OptionalString(root, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = OptionalString(root, "null")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	n, err := Int(root, "size")
	require.NoError(t, err)
	assert.Equal(t, int64(641382), n)

	_, err = Int(root, "frac")
	assert.ErrorIs(t, err, errors.ErrInvalidRecordShape)

	m, err := Map(root, "embed")
	require.NoError(t, err)
	assert.Contains(t, m, "images")

	l, err := List(root, "images")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, l)

	_, err = List(root, "text")
	assert.ErrorIs(t, err, errors.ErrInvalidRecordShape)
}
