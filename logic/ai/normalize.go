package ai

import (
	"encoding/json"
	"strings"

	"github.com/OppenHaix/MySoulLinker/types"
)

// fieldDefaults 每个必备字段的空值兜底。topic_suggestions / gift_suggestions
// 与其余字段采用同一兜底策略，不做特殊处理
var fieldDefaults = map[string]func() any{
	"core_traits":          func() any { return map[string]any{} },
	"behavior_preferences": func() any { return map[string]any{} },
	"social_interaction":   func() any { return map[string]any{} },
	"cognitive_thinking":   func() any { return map[string]any{} },
	"summary":              func() any { return "" },
	"interests":            func() any { return []any{} },
	"dos_and_donts":        func() any { return map[string]any{} },
	"topic_suggestions":    func() any { return []any{} },
	"gift_suggestions":     func() any { return []any{} },
}

// Normalize 把模型产出归一化成完整的分析对象：
// Raw 文本先尝试提取其中的 JSON 对象（容忍模型在 JSON 前后加说明文字），
// 提取失败则全部走默认值；缺失或为空的必备字段一律补类型对应的空值，
// 下游持久化永远不用判空
func Normalize(outcome *types.ModelOutcome) map[string]any {
	parsed := map[string]any{}
	if outcome != nil {
		if outcome.IsParsed() {
			for k, v := range outcome.Parsed {
				parsed[k] = v
			}
		} else if extracted, ok := ExtractJSONObject(outcome.Raw); ok {
			parsed = extracted
		}
	}
	for field, defaultValue := range fieldDefaults {
		if isEmpty(parsed[field]) {
			parsed[field] = defaultValue()
		}
	}
	return parsed
}

// ExtractJSONObject 取首个 { 到最后一个 } 之间的子串尝试解析
func ExtractJSONObject(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	}
	return false
}
