package types

// ContactRequest 新建联系人
type ContactRequest struct {
	Name   string `json:"name" binding:"required"`
	Avatar string `json:"avatar"`
	Notes  string `json:"notes"`
	Tags   string `json:"tags"`
}

// ContactUpdateRequest 更新联系人，未提供的字段保持原值
type ContactUpdateRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Notes  *string `json:"notes"`
	Tags   *string `json:"tags"`
}

// ChatLine 录入的单条聊天内容
type ChatLine struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// ChatLogBatchRequest 批量录入某一天的聊天记录
type ChatLogBatchRequest struct {
	Date  string     `json:"date"` // YYYY-MM-DD，缺省为今天
	Lines []ChatLine `json:"lines"`
}

// AnalyzeRequest 全量分析请求，api_key 可覆盖服务端配置的密钥
type AnalyzeRequest struct {
	APIKey string `json:"api_key"`
}

// AnalyzeSelectedRequest 选段分析请求
type AnalyzeSelectedRequest struct {
	APIKey     string `json:"api_key"`
	MessageIDs []uint `json:"message_ids"`
}
