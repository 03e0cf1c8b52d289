package sqlite

import (
	"encoding/json"
	"time"
)

// Contact 对应 contacts 表
type Contact struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Avatar    string    `gorm:"type:varchar(255)"`
	Notes     string    `gorm:"type:text"`
	Tags      string    `gorm:"type:varchar(500)"` // 逗号分隔
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`

	ChatLogs []ChatLog       `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
	Analysis *AnalysisResult `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ChatLog 对应 chat_logs 表。除批量录入外不可变更
type ChatLog struct {
	ID        uint      `gorm:"primaryKey"`
	ContactID uint      `gorm:"index;not null"`
	Speaker   string    `gorm:"type:varchar(20);not null"` // "我" 或对方的称呼
	Content   string    `gorm:"type:text;not null"`
	ChatDate  time.Time `gorm:"type:date;index;not null"` // 聊天日期，用于分组与筛选
	CreatedAt time.Time
}

func (ChatLog) TableName() string {
	return "chat_logs"
}

// AnalysisResult 对应 analysis_results 表，每个联系人至多一条（contact_id 唯一）。
// 四个维度和 interests / dos_and_donts / *_suggestions 都是各自独立编码的 JSON 文本；
// raw_response 保留上游原始产出用于排查，不保证是 JSON
type AnalysisResult struct {
	ID        uint `gorm:"primaryKey"`
	ContactID uint `gorm:"uniqueIndex;not null"`

	CoreTraits          string `gorm:"type:text"`
	BehaviorPreferences string `gorm:"type:text"`
	SocialInteraction   string `gorm:"type:text"`
	CognitiveThinking   string `gorm:"type:text"`

	Summary          string `gorm:"type:text"`
	Interests        string `gorm:"type:text"`
	DosAndDonts      string `gorm:"type:text"`
	TopicSuggestions string `gorm:"type:text"`
	GiftSuggestions  string `gorm:"type:text"`

	RawResponse string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// ParsedData 把存储的 JSON 字段还原为结构化数据（导出报表用）。
// 某个字段不是合法 JSON 时原样返回字符串，不中断
func (a *AnalysisResult) ParsedData() map[string]any {
	result := map[string]any{}
	fields := map[string]string{
		"core_traits":          a.CoreTraits,
		"behavior_preferences": a.BehaviorPreferences,
		"social_interaction":   a.SocialInteraction,
		"cognitive_thinking":   a.CognitiveThinking,
		"interests":            a.Interests,
		"dos_and_donts":        a.DosAndDonts,
		"topic_suggestions":    a.TopicSuggestions,
		"gift_suggestions":     a.GiftSuggestions,
	}
	for name, raw := range fields {
		if raw == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			result[name] = raw
			continue
		}
		result[name] = v
	}
	result["summary"] = a.Summary
	return result
}
