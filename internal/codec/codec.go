// Package codec stores typed values as JSON in a kv.Adapter. Reads check
// the payload's shape before decoding, and corrupt entries are removed.
package codec

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/youmna-rabie/fermi-events/internal/kv"
)

// Load reads key and decodes it into T. It returns false when the key is
// absent, empty, holds the literal "undefined" or "null", or is corrupt.
// A corrupt entry is removed so the next read starts clean.
func Load[T any](ctx context.Context, a *kv.Adapter, key string) (T, bool) {
	var zero T

	raw, ok := a.Get(ctx, key)
	if !ok || raw == "" || raw == "undefined" || raw == "null" {
		return zero, false
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		a.Logger().Warn("invalid stored payload, clearing", "key", key)
		a.Remove(ctx, key)
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		a.Logger().Warn("failed to decode stored payload, clearing", "key", key, "error", err)
		a.Remove(ctx, key)
		return zero, false
	}
	return v, true
}

// Store encodes value and writes it under key. A nil value removes the key
// instead of storing an encoded null. Failures are logged, never returned.
func Store(ctx context.Context, a *kv.Adapter, key string, value any) {
	if isNil(value) {
		a.Remove(ctx, key)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		a.Logger().Warn("failed to encode payload", "key", key, "error", err)
		return
	}
	a.Set(ctx, key, string(data))
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
