package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spigell/career-compass/internal/backend"
)

// extractJSON strips markdown fences and any prose around the first JSON
// value in raw.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.IndexAny(raw, "[{")
	if start <= 0 {
		return raw
	}
	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(raw, closer); end > start {
		return raw[start : end+1]
	}
	return raw
}

// parseInterview decodes generated question/answer arrays, coercing
// non-string items to text.
func parseInterview(raw string) (*backend.InterviewSet, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse generated json: %w", err)
	}

	set := &backend.InterviewSet{
		Questions: coerceStrings(data["questions"]),
		Answers:   coerceStrings(data["answers"]),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, coerceString(item))
	}
	return out
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
