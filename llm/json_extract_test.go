package llm

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestExtractJSONObjectBareFence(t *testing.T) {
	raw, err := ExtractJSONObject("```\n{\"a\":1,\"b\":[2,3]}\n```")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(raw) != `{"a":1,"b":[2,3]}` {
		t.Fatalf("unexpected json: %s", string(raw))
	}
}

func TestExtractJSONObjectFencedWithLanguageTag(t *testing.T) {
	raw, err := ExtractJSONObject("```json\n{\"a\":1}\n```")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Fatalf("unexpected json: %s", string(raw))
	}
}

func TestExtractJSONObjectProseWrapped(t *testing.T) {
	raw, err := ExtractJSONObject(`Sure, here you go: {"a":1, "b":"x"} Hope that helps!`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal extracted: %v", err)
	}
	if got["a"] != float64(1) || got["b"] != "x" {
		t.Fatalf("unexpected object: %v", got)
	}
}

func TestExtractJSONObjectPlainObject(t *testing.T) {
	raw, err := ExtractJSONObject(`{"a":1}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Fatalf("unexpected json: %s", string(raw))
	}
}

func TestExtractJSONObjectNoJSON(t *testing.T) {
	_, err := ExtractJSONObject("no json here")
	if err == nil {
		t.Fatalf("expected error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestExtractJSONObjectUnbalancedBraces(t *testing.T) {
	for _, text := range []string{"{ only opening", "only closing }", "} reversed {"} {
		_, err := ExtractJSONObject(text)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: expected ParseError, got %v", text, err)
		}
	}
}

func TestExtractJSONObjectArrayRejected(t *testing.T) {
	_, err := ExtractJSONObject("[1,2,3]")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for array, got %v", err)
	}
}

func TestExtractJSONObjectPicksFirstCompleteFencedSegment(t *testing.T) {
	text := "```\nnot json\n```\nsome prose\n```\n{\"pick\":\"me\"}\n```"
	raw, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(raw) != `{"pick":"me"}` {
		t.Fatalf("unexpected json: %s", string(raw))
	}
}

func TestExtractJSONObjectIdempotent(t *testing.T) {
	first, err := ExtractJSONObject("```json\n{\"a\": 1, \"b\": \"x\"}\n```")
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	second, err := ExtractJSONObject(string(first))
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}

	var a, b map[string]any
	if err := json.Unmarshal(first, &a); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal(second, &b); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extract not idempotent: %v vs %v", a, b)
	}
}
