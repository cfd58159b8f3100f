package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when model text contains no JSON document, either
// bare or inside a markdown code fence.
var ErrNoJSON = errors.New("no JSON document in model output")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// ExtractJSON pulls a JSON document out of free-form model text.
func ExtractJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content != "" && json.Valid([]byte(content)) {
		return json.RawMessage(content), nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if json.Valid([]byte(cleaned)) {
			return json.RawMessage(cleaned), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoJSON, truncate(content, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
