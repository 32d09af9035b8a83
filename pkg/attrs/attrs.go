// Package attrs reads values back out of slog-style key/value lists so audit
// events can reuse the attributes already passed to the logger.
package attrs

// Value returns the value paired with key in a [k1, v1, k2, v2, ...] list.
// The last pairing wins, matching how slog renders duplicate keys.
func Value[T any](kv []any, key string) (T, bool) {
	var (
		out   T
		found bool
	)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); !ok || k != key {
			continue
		}
		if v, ok := kv[i+1].(T); ok {
			out, found = v, true
		}
	}
	return out, found
}

// String returns the string paired with key, or "".
func String(kv []any, key string) string {
	v, _ := Value[string](kv, key)
	return v
}
