package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSON compares expected and actual after decoding both, so key order
// and whitespace never matter. Keys present in actual but missing from
// expected are ignored at every object level, which lets scenarios omit
// server-assigned fields such as ids and timestamps.
func AssertJSON(t *testing.T, expected, actual []byte, msgAndArgs ...interface{}) bool {
	t.Helper()

	var exp, act interface{}
	require.NoError(t, json.Unmarshal(expected, &exp), "testkit: expected value is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "testkit: actual body is not valid JSON: %s", actual) {
		return false
	}
	return assert.Equal(t, exp, project(exp, act), msgAndArgs...)
}

// project trims act down to the keys exp mentions.
func project(exp, act interface{}) interface{} {
	switch e := exp.(type) {
	case map[string]interface{}:
		a, ok := act.(map[string]interface{})
		if !ok {
			return act
		}
		out := make(map[string]interface{}, len(e))
		for k, ev := range e {
			if av, ok := a[k]; ok {
				out[k] = project(ev, av)
			}
		}
		return out
	case []interface{}:
		a, ok := act.([]interface{})
		if !ok || len(a) != len(e) {
			return act
		}
		out := make([]interface{}, len(a))
		for i := range a {
			out[i] = project(e[i], a[i])
		}
		return out
	default:
		return act
	}
}
