package widget

import (
	"encoding/json"

	"github.com/buger/jsonparser"
)

// MergeConfig combines a template's default configuration with a widget
// instance's override configuration. The merge is shallow: every key present
// in the override replaces the default's value wholesale, nested objects
// included. Malformed or absent JSON on either side degrades to an empty
// object, never an error.
func MergeConfig(defaultConfigJSON, instanceConfigJSON string) map[string]interface{} {
	merged := parseObject(defaultConfigJSON)
	for k, v := range parseObject(instanceConfigJSON) {
		merged[k] = v
	}
	return merged
}

// parseObject decodes a JSON object, treating empty or malformed input as {}
func parseObject(s string) map[string]interface{} {
	out := map[string]interface{}{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// OrderedKeys returns the keys of an object-valued field in document order,
// preferring the instance override when it carries the field (override wins
// wholesale, same as MergeConfig). Decoded Go maps lose declaration order, so
// the donut/bar dataMap legends walk the raw JSON instead.
func OrderedKeys(defaultConfigJSON, instanceConfigJSON, field string) []string {
	if keys := objectKeys(instanceConfigJSON, field); keys != nil {
		return keys
	}
	return objectKeys(defaultConfigJSON, field)
}

func objectKeys(configJSON, field string) []string {
	if configJSON == "" {
		return nil
	}
	var keys []string
	err := jsonparser.ObjectEach([]byte(configJSON), func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	}, field)
	if err != nil {
		return nil
	}
	return keys
}
