package schema

import "encoding/json"

// RawRecord is a provider record before validation and normalization. Unknown
// fields are carried through untouched so provider-specific metadata survives
// the pipeline.
type RawRecord map[string]any

// String returns the value of key as a string, or "" when absent or not a
// string.
func (r RawRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}

	return ""
}

// Float returns the value of key as a float64 and whether a numeric value was
// present. JSON numbers decode as float64; ints from hand-built records are
// accepted too.
func (r RawRecord) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}

		return f, true
	}

	return 0, false
}

// Bool returns the value of key as a bool, defaulting to false.
func (r RawRecord) Bool(key string) bool {
	v, _ := r[key].(bool)

	return v
}

// Has reports whether the key is present at all.
func (r RawRecord) Has(key string) bool {
	_, ok := r[key]

	return ok
}
