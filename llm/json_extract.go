package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject recovers a single JSON object from model output that may
// wrap it in markdown code fences or surrounding prose. Candidates are tried
// in order: a fenced segment that is itself a complete object, then the span
// from the first "{" to the last "}", then the text as-is. The winning
// candidate must parse strictly as one JSON object; anything else is a
// *ParseError.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	working := text

	if strings.Contains(working, "```") {
		if seg, ok := fencedObjectSegment(working); ok {
			working = seg
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(working), "{") {
		if span, ok := braceSpan(working); ok {
			working = span
		}
	}

	working = strings.TrimSpace(working)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(working), &obj); err != nil {
		return nil, &ParseError{Err: err}
	}
	return json.RawMessage(working), nil
}

// fencedObjectSegment scans the segments between ``` delimiters and returns
// the first one whose trimmed form is a complete {...} block. Segments
// starting with a language tag fail the prefix check here and fall through
// to braceSpan.
func fencedObjectSegment(text string) (string, bool) {
	for _, seg := range strings.Split(text, "```") {
		s := strings.TrimSpace(seg)
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			return s, true
		}
	}
	return "", false
}

// braceSpan narrows text to the first "{" through the last "}" inclusive.
func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
