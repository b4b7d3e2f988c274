// Package locator finds values by key inside loosely shaped JSON-like trees.
//
// A tree is built from map[string]any, []any and scalars, which is what a JSON
// decoder produces when it decodes into any. Lookups traverse the whole tree
// depth-first; mapping keys are visited in sorted order so results are stable.
package locator

import (
	"fmt"
	"math"
	"sort"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

type options struct {
	include  []string
	exclude  []string
	maxDepth int
}

type Option func(*options)

// IncludeUnder accepts a candidate only when one of the keys traversed to reach
// it is in segments. A lone "" matches every path.
func IncludeUnder(segments ...string) Option {
	return func(o *options) {
		o.include = append(o.include, segments...)
	}
}

// ExcludeUnder rejects a candidate when any key traversed to reach it is in
// segments.
func ExcludeUnder(segments ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, segments...)
	}
}

// MaxDepth limits how many mapping keys may be traversed to reach a candidate.
// MaxDepth(0) only considers members of the root mapping. Sequence elements do
// not add depth.
func MaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// Locate returns every value stored under key, in traversal order. Values found
// at distinct locations are all kept.
func Locate(root any, key string, opts ...Option) []any {
	o := options{maxDepth: math.MaxInt}
	for _, opt := range opts {
		opt(&o)
	}

	var found []any
	var walk func(node any, path []string)
	walk = func(node any, path []string) {
		switch n := node.(type) {
		case map[string]any:
			if v, ok := n[key]; ok && o.accepts(path) {
				found = append(found, v)
			}
			if len(path) >= o.maxDepth {
				return
			}
			keys := make([]string, 0, len(n))
			for k := range n {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(n[k], append(path[:len(path):len(path)], k))
			}
		case []any:
			for _, item := range n {
				walk(item, path)
			}
		}
	}
	walk(root, nil)

	return found
}

// LocateOne returns the single value stored under key. It fails with
// errors.ErrKeyNotFound when there is none and errors.ErrAmbiguousKey when there
// are several.
func LocateOne(root any, key string, opts ...Option) (any, error) {
	found := Locate(root, key, opts...)
	switch len(found) {
	case 0:
		return nil, errors.Wrapf(errors.ErrKeyNotFound, "locate %q", key)
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrAmbiguousKey, "locate %q: %d matches", key, len(found))
	}
}

func (o options) accepts(path []string) bool {
	if len(o.include) > 0 && !o.wildcard() && !anyIn(path, o.include) {
		return false
	}
	return !anyIn(path, o.exclude)
}

// wildcard reports whether the include list is exactly [""].
func (o options) wildcard() bool {
	return len(o.include) == 1 && o.include[0] == ""
}

func anyIn(path, segments []string) bool {
	for _, p := range path {
		for _, s := range segments {
			if p == s {
				return true
			}
		}
	}
	return false
}

// String locates a single string value.
func String(root any, key string, opts ...Option) (string, error) {
	v, err := LocateOne(root, key, opts...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, v, "string")
	}
	return s, nil
}

// OptionalString is String that treats a missing key or a null value as "".
func OptionalString(root any, key string, opts ...Option) (string, error) {
	v, err := LocateOne(root, key, opts...)
	if errors.Is(err, errors.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, v, "string")
	}
	return s, nil
}

// Map locates a single mapping.
func Map(root any, key string, opts ...Option) (map[string]any, error) {
	v, err := LocateOne(root, key, opts...)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeError(key, v, "mapping")
	}
	return m, nil
}

// List locates a single sequence.
func List(root any, key string, opts ...Option) ([]any, error) {
	v, err := LocateOne(root, key, opts...)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, typeError(key, v, "sequence")
	}
	return l, nil
}

// Int locates a single integral number.
func Int(root any, key string, opts ...Option) (int64, error) {
	v, err := LocateOne(root, key, opts...)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, typeError(key, v, "integer")
		}
		return int64(n), nil
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.Wrapf(errors.ErrInvalidRecordShape, "key %q: %v", key, err)
		}
		return i, nil
	default:
		return 0, typeError(key, v, "integer")
	}
}

func typeError(key string, v any, want string) error {
	return errors.Wrap(errors.ErrInvalidRecordShape, fmt.Sprintf("key %q holds %T, want %s", key, v, want))
}
