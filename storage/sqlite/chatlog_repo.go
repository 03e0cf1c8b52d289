package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ChatLogRepo 封装对 chat_logs 表的所有操作
type ChatLogRepo struct {
	db *gorm.DB
}

func NewChatLogRepo(db *gorm.DB) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

// ListByContact 某联系人的全部聊天记录，按日期、入库顺序排序
func (r *ChatLogRepo) ListByContact(ctx context.Context, contactID uint) ([]ChatLog, error) {
	var logs []ChatLog
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("chat_date, created_at, id").
		Find(&logs).Error
	return logs, err
}

// ListSelected 某联系人中指定 id 集合的聊天记录，仍按日期排序
func (r *ChatLogRepo) ListSelected(ctx context.Context, contactID uint, ids []uint) ([]ChatLog, error) {
	var logs []ChatLog
	err := r.db.WithContext(ctx).
		Where("contact_id = ? AND id IN ?", contactID, ids).
		Order("chat_date, created_at, id").
		Find(&logs).Error
	return logs, err
}

// ListByContactRange 按日期区间筛选（导出用），start/end 为 nil 时不限制
func (r *ChatLogRepo) ListByContactRange(ctx context.Context, contactID uint, start, end *time.Time) ([]ChatLog, error) {
	tx := r.db.WithContext(ctx).Where("contact_id = ?", contactID)
	if start != nil {
		tx = tx.Where("chat_date >= ?", *start)
	}
	if end != nil {
		tx = tx.Where("chat_date <= ?", *end)
	}
	var logs []ChatLog
	err := tx.Order("chat_date, created_at, id").Find(&logs).Error
	return logs, err
}

// BatchCreate 批量写入聊天记录并刷新联系人的 updated_at，同一事务提交
func (r *ChatLogRepo) BatchCreate(ctx context.Context, contactID uint, logs []ChatLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}
		return tx.Model(&Contact{}).
			Where("id = ?", contactID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *ChatLogRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ChatLog{}).Count(&count).Error
	return count, err
}

func (r *ChatLogRepo) CountByContact(ctx context.Context, contactID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ChatLog{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error
	return count, err
}

// CountActiveDays 有聊天记录的天数（去重 chat_date）
func (r *ChatLogRepo) CountActiveDays(ctx context.Context, contactID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ChatLog{}).
		Where("contact_id = ?", contactID).
		Distinct("chat_date").
		Count(&count).Error
	return count, err
}

// DailyCounts 自 since 起每天的消息量（首页活跃度曲线）
func (r *ChatLogRepo) DailyCounts(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		ChatDate time.Time
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&ChatLog{}).
		Select("chat_date, COUNT(*) AS count").
		Where("chat_date >= ?", since).
		Group("chat_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ChatDate.Format("2006-01-02")] = row.Count
	}
	return counts, nil
}
