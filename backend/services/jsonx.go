package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a JSON object out of raw model output. Models frequently
// wrap the payload in ``` fences or surround it with prose despite being told
// not to; fences are stripped first and, if the remainder still does not
// parse, the slice between the first '{' and the last '}' is tried.
func ExtractJSON(raw string, v any) error {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	firstErr := json.Unmarshal([]byte(s), v)
	if firstErr == nil {
		return nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(s[start:end+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no valid JSON object in model response: %w", firstErr)
}
