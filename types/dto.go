package types

// ContactInfo 联系人视图，附带统计字段
type ContactInfo struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	Notes         string `json:"notes"`
	Tags          string `json:"tags"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	ChatCount     int64  `json:"chat_count"`
	Sessions      int64  `json:"sessions"`
	ActiveDays    int64  `json:"active_days"`
	AnalysisCount int64  `json:"analysis_count"`
	HasAnalysis   bool   `json:"has_analysis"`
}

// ChatLogInfo 聊天记录视图
type ChatLogInfo struct {
	ID        uint   `json:"id"`
	ContactID uint   `json:"contact_id"`
	Speaker   string `json:"speaker"`
	Content   string `json:"content"`
	ChatDate  string `json:"chat_date"`
	CreatedAt string `json:"created_at"`
}

// AnalysisInfo 分析结果视图。结构化字段保持入库时的 JSON 文本原样返回，
// 由前端自行解析展示
type AnalysisInfo struct {
	ID                  uint   `json:"id"`
	ContactID           uint   `json:"contact_id"`
	CoreTraits          string `json:"core_traits"`
	BehaviorPreferences string `json:"behavior_preferences"`
	SocialInteraction   string `json:"social_interaction"`
	CognitiveThinking   string `json:"cognitive_thinking"`
	Summary             string `json:"summary"`
	Interests           string `json:"interests"`
	DosAndDonts         string `json:"dos_and_donts"`
	TopicSuggestions    string `json:"topic_suggestions"`
	GiftSuggestions     string `json:"gift_suggestions"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

// ActivityPoint 最近 30 天的每日消息量
type ActivityPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AttentionItem 首页"待关注"提示
type AttentionItem struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Insights 首页洞察摘要
type Insights struct {
	AvgMessagesPerContact string `json:"avg_messages_per_contact"`
	MostActiveContact     string `json:"most_active_contact"`
	AnalysisCoverage      int    `json:"analysis_coverage"`
}

// HomeStats 首页统计数据
type HomeStats struct {
	TotalContacts       int64           `json:"total_contacts"`
	TotalMessages       int64           `json:"total_messages"`
	TotalAnalyses       int64           `json:"total_analyses"`
	NewThisMonth        int64           `json:"new_this_month"`
	ActiveRelationships int64           `json:"active_relationships"`
	AnalysisRate        int             `json:"analysis_rate"`
	RecentContacts      []ContactInfo   `json:"recent_contacts"`
	NeedAttention       []AttentionItem `json:"need_attention"`
	ActivityData        []ActivityPoint `json:"activity_data"`
	Insights            *Insights       `json:"insights"`
}
