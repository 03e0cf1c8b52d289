package ai

import (
	"reflect"
	"testing"

	"github.com/OppenHaix/MySoulLinker/types"
)

func TestNormalize_FillsAllFieldsFromNil(t *testing.T) {
	parsed := Normalize(nil)

	for field := range fieldDefaults {
		if _, ok := parsed[field]; !ok {
			t.Errorf("field %s missing after normalize", field)
		}
	}
	if v := parsed["summary"]; v != "" {
		t.Errorf("expected empty summary, got %v", v)
	}
	if v, ok := parsed["interests"].([]any); !ok || len(v) != 0 {
		t.Errorf("expected empty interests list, got %v", parsed["interests"])
	}
	if v, ok := parsed["core_traits"].(map[string]any); !ok || len(v) != 0 {
		t.Errorf("expected empty core_traits map, got %v", parsed["core_traits"])
	}
	if v, ok := parsed["topic_suggestions"].([]any); !ok || len(v) != 0 {
		t.Errorf("expected empty topic_suggestions list, got %v", parsed["topic_suggestions"])
	}
}

func TestNormalize_KeepsParsedValues(t *testing.T) {
	outcome := &types.ModelOutcome{Parsed: map[string]any{
		"summary":   "热情开朗",
		"interests": []any{"电影", "美食"},
	}}
	parsed := Normalize(outcome)

	if parsed["summary"] != "热情开朗" {
		t.Errorf("summary overwritten: %v", parsed["summary"])
	}
	if !reflect.DeepEqual(parsed["interests"], []any{"电影", "美食"}) {
		t.Errorf("interests overwritten: %v", parsed["interests"])
	}
	if _, ok := parsed["dos_and_donts"].(map[string]any); !ok {
		t.Errorf("missing field not defaulted: %v", parsed["dos_and_donts"])
	}
}

func TestNormalize_ReplacesEmptyValues(t *testing.T) {
	outcome := &types.ModelOutcome{Parsed: map[string]any{
		"summary":     "",
		"core_traits": map[string]any{},
		"interests":   nil,
	}}
	parsed := Normalize(outcome)

	if parsed["summary"] != "" {
		t.Errorf("expected empty string summary, got %v", parsed["summary"])
	}
	if v, ok := parsed["interests"].([]any); !ok || len(v) != 0 {
		t.Errorf("nil interests not defaulted to list: %v", parsed["interests"])
	}
}

func TestNormalize_ExtractsEmbeddedJSON(t *testing.T) {
	outcome := &types.ModelOutcome{
		Raw: "好的，以下是分析结果：\n{\"summary\": \"安静内敛\", \"interests\": [\"绘画\"]}\n希望对你有帮助。",
	}
	parsed := Normalize(outcome)

	if parsed["summary"] != "安静内敛" {
		t.Errorf("embedded JSON not extracted, summary=%v", parsed["summary"])
	}
	if !reflect.DeepEqual(parsed["interests"], []any{"绘画"}) {
		t.Errorf("embedded JSON not extracted, interests=%v", parsed["interests"])
	}
}

func TestNormalize_GarbageRawFallsBackToDefaults(t *testing.T) {
	outcome := &types.ModelOutcome{Raw: "模型今天没有返回任何结构化内容"}
	parsed := Normalize(outcome)

	if len(parsed) != len(fieldDefaults) {
		t.Errorf("expected exactly %d defaulted fields, got %d", len(fieldDefaults), len(parsed))
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain object", `{"a": 1}`, true},
		{"wrapped in prose", "前缀 {\"a\": 1} 后缀", true},
		{"no braces", "没有任何对象", false},
		{"braces but invalid", "{not json}", false},
		{"reversed braces", "} 倒过来 {", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ExtractJSONObject(tc.raw)
			if ok != tc.ok {
				t.Errorf("ExtractJSONObject(%q) ok=%v, want %v", tc.raw, ok, tc.ok)
			}
		})
	}
}
