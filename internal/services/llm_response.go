package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeModelJSON unmarshals a model reply into target, tolerating markdown
// code fences and prose around the JSON object.
func decodeModelJSON(content string, target any) error {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return fmt.Errorf("%w: response contains no JSON object", ErrUpstream)
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), target); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrUpstream, err)
	}
	return nil
}
