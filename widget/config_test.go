package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeConfigOverrideWins(t *testing.T) {
	merged := MergeConfig(
		`{"label":"CPU","max":100,"thresholds":{"warning":70,"critical":90}}`,
		`{"label":"CPU Load","thresholds":{"warning":50}}`,
	)

	assert.Equal(t, "CPU Load", merged["label"])
	assert.Equal(t, float64(100), merged["max"])
	// Nested objects replace wholesale, they do not deep-merge.
	assert.Equal(t, map[string]interface{}{"warning": float64(50)}, merged["thresholds"])
}

func TestMergeConfigMalformedTreatedAsEmpty(t *testing.T) {
	merged := MergeConfig(`{"label":"CPU"}`, `{not json`)
	assert.Equal(t, "CPU", merged["label"])

	merged = MergeConfig(`broken`, `{"unit":"%"}`)
	assert.Equal(t, "%", merged["unit"])

	assert.Empty(t, MergeConfig("", ""))
}

func TestOrderedKeysPreservesDocumentOrder(t *testing.T) {
	keys := OrderedKeys(`{"dataMap":{"zeta":"a.b","alpha":"c.d","mid":"e.f"}}`, "", "dataMap")
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestOrderedKeysInstanceOverridesTemplate(t *testing.T) {
	keys := OrderedKeys(
		`{"dataMap":{"one":"a","two":"b"}}`,
		`{"dataMap":{"three":"c","four":"d"}}`,
		"dataMap",
	)
	assert.Equal(t, []string{"three", "four"}, keys)
}

func TestLookupWalksArrayIndices(t *testing.T) {
	data := map[string]interface{}{
		"net": []interface{}{
			map[string]interface{}{"rxSec": 1024.5},
			map[string]interface{}{"rxSec": 2.0},
		},
	}

	v, found := Lookup(data, "net.0.rxSec")
	assert.True(t, found)
	assert.Equal(t, 1024.5, v)

	_, found = Lookup(data, "net.5.rxSec")
	assert.False(t, found)
}

func TestLookupNumberMissingPathIsZero(t *testing.T) {
	assert.Equal(t, float64(0), LookupNumber(map[string]interface{}{}, "no.such.path"))
	assert.Equal(t, float64(0), LookupNumber(nil, "anything"))
}
