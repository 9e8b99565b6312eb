package viewstate

import (
	"math"
	"strconv"
	"strings"
)

// binding ties one query key to a typed value with a default. Reads fall
// back to the default when the key is absent or unparsable; writes elide the
// key when the value equals the default.
type binding[T any] struct {
	key    string
	def    T
	equal  func(a, b T) bool
	encode func(T) string
	decode func(raw string) (T, bool)
}

func (b binding[T]) read(q Query) T {
	raw, ok := q.Lookup(b.key)
	if !ok {
		return b.def
	}
	v, ok := b.decode(raw)
	if !ok {
		return b.def
	}
	return v
}

func (b binding[T]) write(q Query, v T) {
	if b.equal(v, b.def) {
		q.Del(b.key)
		return
	}
	q.Set(b.key, b.encode(v))
}

func stringBinding(key, def string) binding[string] {
	return binding[string]{
		key:    key,
		def:    def,
		equal:  func(a, b string) bool { return a == b },
		encode: func(v string) string { return v },
		decode: func(raw string) (string, bool) { return raw, true },
	}
}

// nullableStringBinding distinguishes "no value" (nil) from any string.
// The empty string is folded into nil: both remove the key.
func nullableStringBinding(key string) binding[*string] {
	return binding[*string]{
		key: key,
		def: nil,
		equal: func(a, b *string) bool {
			if a == nil || b == nil {
				return a == nil && b == nil
			}
			return *a == *b
		},
		encode: func(v *string) string {
			if v == nil {
				return ""
			}
			return *v
		},
		decode: func(raw string) (*string, bool) {
			if raw == "" {
				return nil, true
			}
			return &raw, true
		},
	}
}

// stringListBinding stores an ordered list under one key, comma-joined.
// Empty elements are dropped on decode, so "a,,b" round-trips as [a b].
func stringListBinding(key string, def []string) binding[[]string] {
	return binding[[]string]{
		key:    key,
		def:    def,
		equal:  stringSlicesEqual,
		encode: func(v []string) string { return strings.Join(v, ",") },
		decode: func(raw string) ([]string, bool) {
			if raw == "" {
				return nil, true
			}
			parts := strings.Split(raw, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p != "" {
					out = append(out, p)
				}
			}
			return out, true
		},
	}
}

func boolBinding(key string, def bool) binding[bool] {
	return binding[bool]{
		key:    key,
		def:    def,
		equal:  func(a, b bool) bool { return a == b },
		encode: strconv.FormatBool,
		decode: func(raw string) (bool, bool) {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return false, false
			}
			return v, true
		},
	}
}

// intBinding is nullable: nil means "not set" and keeps the key out of the
// URL.
func intBinding(key string) binding[*int] {
	return binding[*int]{
		key: key,
		def: nil,
		equal: func(a, b *int) bool {
			if a == nil || b == nil {
				return a == nil && b == nil
			}
			return *a == *b
		},
		encode: func(v *int) string {
			if v == nil {
				return ""
			}
			return strconv.Itoa(*v)
		},
		decode: func(raw string) (*int, bool) {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, false
			}
			return &v, true
		},
	}
}

// floatBinding is nullable like intBinding. NaN and infinities are folded
// into nil on write: they have no stable query representation, so the key is
// removed instead.
func floatBinding(key string) binding[*float64] {
	return binding[*float64]{
		key: key,
		def: nil,
		equal: func(a, b *float64) bool {
			if a != nil && (math.IsNaN(*a) || math.IsInf(*a, 0)) {
				a = nil
			}
			if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
				b = nil
			}
			if a == nil || b == nil {
				return a == nil && b == nil
			}
			return *a == *b
		},
		encode: func(v *float64) string {
			if v == nil {
				return ""
			}
			return strconv.FormatFloat(*v, 'g', -1, 64)
		},
		decode: func(raw string) (*float64, bool) {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
			return &v, true
		},
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
