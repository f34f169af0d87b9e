//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"strings"
	"testing"
)

// DtoMap turns a request DTO into its JSON map form so tests can break individual fields.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets the value at a dotted path such as "bookingInfo.adults"; a nil value removes the key.
func Field(path string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		keys := strings.Split(path, ".")
		for _, k := range keys[:len(keys)-1] {
			next, ok := m[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[k] = next
			}
			m = next
		}
		last := keys[len(keys)-1]
		if value == nil {
			delete(m, last)
		} else {
			m[last] = value
		}
	}
}
