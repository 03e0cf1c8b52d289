package types

// ModelOutcome 一次模型调用的产出。Parsed 与 Raw 互斥：
// 模型输出是合法 JSON 对象时填 Parsed，否则原文放进 Raw 交给归一化层兜底。
// 调用失败（凭证缺失、网络错误、非 2xx）不走这里，以 error 形式返回。
type ModelOutcome struct {
	Parsed map[string]any
	Raw    string

	TotalTokens      int
	CompletionTokens int
}

func (o *ModelOutcome) IsParsed() bool {
	return o.Parsed != nil
}

// 流式事件类型，与浏览器端约定的 type 字段一致
const (
	EventContentUpdate = "content_update"
	EventTokenUpdate   = "token_update"
	EventError         = "error"
	EventComplete      = "complete"
)

// StreamEvent 上游流式调用的增量事件，按到达顺序回调给消费方
type StreamEvent struct {
	Type             string
	Content          string // 本次增量内容
	TotalLength      int    // 累计内容长度（按字符数）
	TotalTokens      int
	CompletionTokens int
}

// 以下是写给浏览器的 NDJSON 帧（每帧一行 JSON）

type ContentUpdateFrame struct {
	Type             string `json:"type"`
	ContentLength    int    `json:"content_length"`
	TotalTokens      int    `json:"total_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

type TokenUpdateFrame struct {
	Type             string `json:"type"`
	TotalTokens      int    `json:"total_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type CompleteFrame struct {
	Type             string        `json:"type"`
	Analysis         *AnalysisInfo `json:"analysis"`
	MessageCount     int           `json:"message_count"`
	TotalTokens      int           `json:"total_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
}
